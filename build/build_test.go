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

package build

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"naive.systems/qualitycheck/basic"
	"naive.systems/qualitycheck/i18n"
	"naive.systems/qualitycheck/phase"
	"naive.systems/qualitycheck/testlib"
)

func newConsole() (*basic.Console, *bytes.Buffer) {
	var out bytes.Buffer
	return basic.NewConsole(&out, i18n.GetPrinter("en"), true), &out
}

func TestSplitCommand(t *testing.T) {
	for _, testCase := range [...]struct {
		line     string
		expected basic.Command
		err      bool
	}{
		{line: "platformio run", expected: basic.Command{Name: "platformio", Args: []string{"run"}}},
		{line: `pio run -e "esp32 dev"`, expected: basic.Command{Name: "pio", Args: []string{"run", "-e", "esp32 dev"}}},
		{line: "   ", err: true},
		{line: `pio "unterminated`, err: true},
	} {
		t.Run(testCase.line, func(t *testing.T) {
			got, err := SplitCommand(testCase.line)
			if testCase.err {
				if err == nil {
					t.Errorf("expected an error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitCommand: %v", err)
			}
			if diff := cmp.Diff(testCase.expected, got); diff != "" {
				t.Errorf("unexpected command (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildAlreadyBuilt(t *testing.T) {
	runner := &testlib.FakeRunner{}
	console, out := newConsole()
	result, err := Build(context.Background(), runner, console, Options{Command: "platformio run", AlreadyBuilt: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != phase.Passed {
		t.Errorf("unexpected status %v", result.Status)
	}
	if len(runner.Calls) != 0 {
		t.Errorf("no command should run, got %v", runner.CommandLines())
	}
	if !strings.Contains(out.String(), "already run by PlatformIO") {
		t.Errorf("missing no-op message:\n%s", out.String())
	}
}

func TestBuild(t *testing.T) {
	for _, testCase := range [...]struct {
		name     string
		response testlib.Response
		expected phase.Status
	}{
		{name: "success", response: testlib.Response{Output: "SUCCESS"}, expected: phase.Passed},
		{name: "compile error", response: testlib.Response{Output: "src/main.cpp:3: error", ExitCode: 1}, expected: phase.Failed},
		{name: "platformio missing", response: testlib.Response{NotFound: true}, expected: phase.Failed},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			runner := &testlib.FakeRunner{Handler: func(basic.Command) testlib.Response { return testCase.response }}
			console, _ := newConsole()
			result, err := Build(context.Background(), runner, console, Options{Command: "platformio run", WorkDir: "/project"})
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if result.Status != testCase.expected {
				t.Errorf("unexpected status. got: %v. expected: %v.", result.Status, testCase.expected)
			}
			if diff := cmp.Diff([]basic.Command{{Name: "platformio", Args: []string{"run"}, Dir: "/project"}}, runner.Calls); diff != "" {
				t.Errorf("unexpected commands (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildNotFoundMessage(t *testing.T) {
	runner := &testlib.FakeRunner{Handler: func(basic.Command) testlib.Response { return testlib.Response{NotFound: true} }}
	console, _ := newConsole()
	result, err := Build(context.Background(), runner, console, Options{Command: "platformio run"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Output != "Command not found: platformio" {
		t.Errorf("unexpected output %q", result.Output)
	}
}

func TestBuildCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	console, _ := newConsole()
	_, err := Build(ctx, &testlib.FakeRunner{}, console, Options{Command: "platformio run"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestUnitTests(t *testing.T) {
	runner := &testlib.FakeRunner{Handler: func(basic.Command) testlib.Response { return testlib.Response{ExitCode: 1} }}
	console, _ := newConsole()
	result, err := Test(context.Background(), runner, console, Options{Command: "platformio test -e native"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Name != phase.Test || result.Status != phase.Failed || result.Detail != "exit status 1" {
		t.Errorf("unexpected result %+v", result)
	}
	if diff := cmp.Diff([]string{"platformio test -e native"}, runner.CommandLines()); diff != "" {
		t.Errorf("unexpected commands (-want +got):\n%s", diff)
	}
}
