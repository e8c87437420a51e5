/*
NaiveSystems Analyze - A tool for static code analysis
Copyright (C) 2023  Naive Systems Ltd.

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package coverage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"naive.systems/qualitycheck/basic"
	"naive.systems/qualitycheck/phase"
	"naive.systems/qualitycheck/testlib"
)

func options(workDir string, useLcov bool) Options {
	return Options{
		LcovBin:     "lcov",
		GenhtmlBin:  "genhtml",
		GcovBin:     "gcov",
		UseLcov:     useLcov,
		WorkDir:     workDir,
		BuildDir:    ".pio/build",
		CoverageDir: "coverage",
		Excludes:    []string{"/usr/*", "*/test/*", "*/lib/*"},
	}
}

func withData(t *testing.T) string {
	t.Helper()
	workDir := t.TempDir()
	testlib.WriteFile(t, workDir, ".pio/build/native/src/main.gcda", "")
	testlib.WriteFile(t, workDir, ".pio/build/native/src/core/EventBus.gcda", "")
	testlib.WriteFile(t, workDir, ".pio/build/native/src/main.gcno", "")
	return workDir
}

func TestLcovCommands(t *testing.T) {
	expected := []string{
		"lcov --capture --directory .pio/build --output-file coverage/coverage.info",
		"lcov --remove coverage/coverage.info /usr/* */test/* */lib/* --output-file coverage/coverage_filtered.info",
		"genhtml coverage/coverage_filtered.info --output-directory coverage/html",
	}
	var got []string
	for _, cmd := range options("/project", true).LcovCommands() {
		got = append(got, cmd.String())
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("unexpected commands (-want +got):\n%s", diff)
	}
}

func TestRunNoData(t *testing.T) {
	for _, useLcov := range []bool{true, false} {
		workDir := t.TempDir()
		runner := &testlib.FakeRunner{}
		console, _ := testlib.NewConsole()
		result, err := Run(context.Background(), runner, console, options(workDir, useLcov))
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if result.Status != phase.NoData || !result.OK() {
			t.Errorf("useLcov=%v: unexpected status %v", useLcov, result.Status)
		}
		if len(runner.Calls) != 0 {
			t.Errorf("useLcov=%v: unexpected commands %v", useLcov, runner.CommandLines())
		}
		if !basic.FileExists(filepath.Join(workDir, "coverage")) {
			t.Errorf("coverage dir was not created")
		}
	}
}

func TestRunUnreadableBuildDir(t *testing.T) {
	workDir := t.TempDir()
	testlib.WriteFile(t, workDir, ".pio", "not a directory")
	runner := &testlib.FakeRunner{}
	console, _ := testlib.NewConsole()
	result, err := Run(context.Background(), runner, console, options(workDir, true))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Status != phase.Failed {
		t.Errorf("unexpected status %v", result.Status)
	}
	if !strings.Contains(result.Detail, "not a directory") {
		t.Errorf("detail must carry the cause, got %q", result.Detail)
	}
	if len(runner.Calls) != 0 {
		t.Errorf("unexpected commands %v", runner.CommandLines())
	}
}

func TestRunLcov(t *testing.T) {
	workDir := withData(t)
	runner := &testlib.FakeRunner{}
	console, _ := testlib.NewConsole()
	result, err := Run(context.Background(), runner, console, options(workDir, true))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Status != phase.Passed || result.Detail != "coverage/html/index.html" {
		t.Errorf("unexpected result %+v", result)
	}
	if len(runner.Calls) != 3 {
		t.Errorf("unexpected commands %v", runner.CommandLines())
	}
}

func TestRunFallsBackToGcov(t *testing.T) {
	for _, testCase := range [...]struct {
		name    string
		failing string
	}{
		{name: "capture fails", failing: "lcov --capture"},
		{name: "filter fails", failing: "lcov --remove"},
		{name: "genhtml fails", failing: "genhtml"},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			workDir := withData(t)
			runner := &testlib.FakeRunner{Handler: func(cmd basic.Command) testlib.Response {
				if testlib.HasPrefix(cmd, testCase.failing) {
					return testlib.Response{Output: "lcov: ERROR", ExitCode: 1}
				}
				return testlib.Response{}
			}}
			console, _ := testlib.NewConsole()
			result, err := Run(context.Background(), runner, console, options(workDir, true))
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if result.Status != phase.Passed || result.Detail != "coverage/gcov" {
				t.Errorf("unexpected result %+v", result)
			}
			var gcovCalls []basic.Command
			for _, call := range runner.Calls {
				if call.Name == "gcov" {
					gcovCalls = append(gcovCalls, call)
				}
			}
			if len(gcovCalls) != 2 {
				t.Fatalf("expected gcov for both data files, got %v", runner.CommandLines())
			}
			for _, call := range gcovCalls {
				if call.Dir != filepath.Join(workDir, "coverage", "gcov") {
					t.Errorf("gcov ran in %s", call.Dir)
				}
				if !filepath.IsAbs(call.Args[0]) || filepath.Ext(call.Args[0]) != ".gcda" {
					t.Errorf("unexpected gcov argument %s", call.Args[0])
				}
			}
		})
	}
}

func TestRunGcovOnly(t *testing.T) {
	workDir := withData(t)
	runner := &testlib.FakeRunner{Handler: func(cmd basic.Command) testlib.Response {
		if filepath.Base(cmd.Args[0]) == "main.gcda" {
			return testlib.Response{ExitCode: 1}
		}
		return testlib.Response{}
	}}
	console, _ := testlib.NewConsole()
	result, err := Run(context.Background(), runner, console, options(workDir, false))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, call := range runner.Calls {
		if call.Name != "gcov" {
			t.Errorf("lcov must not run when unavailable: %v", call)
		}
	}
	if result.Status != phase.Warnings || result.Issues != 1 {
		t.Errorf("unexpected result %+v", result)
	}
	if _, err := os.Stat(filepath.Join(workDir, "coverage", "gcov")); err != nil {
		t.Errorf("gcov dir was not created: %v", err)
	}
}
