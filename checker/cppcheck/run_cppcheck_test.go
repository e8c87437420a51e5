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

package cppcheck

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"naive.systems/qualitycheck/basic"
	"naive.systems/qualitycheck/phase"
	"naive.systems/qualitycheck/testlib"
)

const styleFinding = "src/main.cpp:12:9: style: The scope of the variable 'i' can be reduced. [variableScope]\n"

func options(workDir string) Options {
	return Options{
		Binary:    "cppcheck",
		WorkDir:   workDir,
		SrcDir:    "src",
		RulesFile: "misra.json",
		LogPath:   filepath.Join(workDir, "logs", LogFileName),
	}
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("os.ReadFile: %v", err)
	}
	return string(content)
}

func TestRunWithoutRules(t *testing.T) {
	workDir := t.TempDir()
	runner := &testlib.FakeRunner{Handler: func(basic.Command) testlib.Response {
		return testlib.Response{Output: "Checking src/main.cpp ...\n"}
	}}
	console, out := testlib.NewConsole()
	opts := options(workDir)
	result, err := Run(context.Background(), runner, console, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	expectedCalls := []basic.Command{
		{Name: "cppcheck", Args: []string{"--enable=warning,style,performance,portability", "src/"}, Dir: workDir},
	}
	if diff := cmp.Diff(expectedCalls, runner.Calls); diff != "" {
		t.Errorf("unexpected commands (-want +got):\n%s", diff)
	}
	if result.Status != phase.Passed {
		t.Errorf("unexpected status %v", result.Status)
	}
	log := readLog(t, opts.LogPath)
	if log != "=== Cppcheck Basic Check ===\nChecking src/main.cpp ...\n" {
		t.Errorf("unexpected log %q", log)
	}
	if !strings.Contains(out.String(), "misra.json not found, skipping the MISRA-C check") {
		t.Errorf("missing skip warning:\n%s", out.String())
	}
}

func TestRunWithRules(t *testing.T) {
	workDir := t.TempDir()
	testlib.WriteFile(t, workDir, "misra.json", `{"script": "misra.py"}`)
	runner := &testlib.FakeRunner{Handler: func(cmd basic.Command) testlib.Response {
		if testlib.HasPrefix(cmd, "cppcheck", "--addon=misra.json") {
			return testlib.Response{Output: "src/main.cpp:3:1: style: misra violation (use --rule-texts=<file> to get proper output) [misra-c2012-15.5]\n"}
		}
		return testlib.Response{Output: styleFinding}
	}}
	console, _ := testlib.NewConsole()
	opts := options(workDir)
	result, err := Run(context.Background(), runner, console, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	expectedLines := []string{
		"cppcheck --enable=warning,style,performance,portability src/",
		"cppcheck --addon=misra.json --enable=all src/",
	}
	if diff := cmp.Diff(expectedLines, runner.CommandLines()); diff != "" {
		t.Errorf("unexpected commands (-want +got):\n%s", diff)
	}
	if result.Status != phase.Warnings || result.Issues != 2 {
		t.Errorf("unexpected result %+v", result)
	}
	log := readLog(t, opts.LogPath)
	basicAt := strings.Index(log, "=== Cppcheck Basic Check ===")
	misraAt := strings.Index(log, "=== MISRA-C Check ===")
	if basicAt != 0 || misraAt <= basicAt {
		t.Errorf("unexpected section order in log:\n%s", log)
	}
}

func TestRunReplacesLog(t *testing.T) {
	workDir := t.TempDir()
	opts := options(workDir)
	testlib.WriteFile(t, workDir, filepath.Join("logs", LogFileName), "stale findings from an earlier run\n")
	console, _ := testlib.NewConsole()
	if _, err := Run(context.Background(), &testlib.FakeRunner{}, console, opts); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if log := readLog(t, opts.LogPath); strings.Contains(log, "stale") {
		t.Errorf("log was not replaced:\n%s", log)
	}
}

func TestRunToolMissing(t *testing.T) {
	workDir := t.TempDir()
	runner := &testlib.FakeRunner{Handler: func(basic.Command) testlib.Response { return testlib.Response{NotFound: true} }}
	console, _ := testlib.NewConsole()
	result, err := Run(context.Background(), runner, console, options(workDir))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Status != phase.Failed {
		t.Errorf("unexpected status %v", result.Status)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	console, _ := testlib.NewConsole()
	opts := options(t.TempDir())
	if _, err := Run(ctx, &testlib.FakeRunner{}, console, opts); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if basic.FileExists(opts.LogPath) {
		t.Errorf("a canceled run should not write %s", opts.LogPath)
	}
}
