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

package clangtidy

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

func options(workDir string) Options {
	return Options{
		Binary:      "clang-tidy",
		WorkDir:     workDir,
		SrcDir:      "src",
		IncludeDirs: []string{"src", ".pio/libdeps/esp32-2432S028R/TFT_eSPI"},
		Defines:     []string{"ARDUINO=10607", "ESP32"},
		Std:         "c++17",
		Target:      "xtensa-esp32-elf",
		LogPath:     filepath.Join(workDir, "logs", LogFileName),
	}
}

func TestCompilerArgs(t *testing.T) {
	opts := options("/project")
	opts.ExtraArgs = []string{"-Wno-unknown-attributes"}
	expected := []string{
		"-Isrc",
		"-I.pio/libdeps/esp32-2432S028R/TFT_eSPI",
		"-DARDUINO=10607",
		"-DESP32",
		"-std=c++17",
		"-target", "xtensa-esp32-elf",
		"-Wno-unknown-attributes",
	}
	if diff := cmp.Diff(expected, CompilerArgs(opts)); diff != "" {
		t.Errorf("unexpected args (-want +got):\n%s", diff)
	}
}

func TestRun(t *testing.T) {
	workDir := t.TempDir()
	testlib.WriteFile(t, workDir, "src/main.cpp", "int main() {}\n")
	testlib.WriteFile(t, workDir, "src/driver.c", "void f(void) {}\n")
	testlib.WriteFile(t, workDir, "src/driver.h", "void f(void);\n")
	testlib.WriteFile(t, workDir, "src/nested/skip.cpp", "\n")
	runner := &testlib.FakeRunner{Handler: func(cmd basic.Command) testlib.Response {
		if cmd.Args[0] == "src/main.cpp" {
			return testlib.Response{
				Output:   "src/main.cpp:1:5: warning: use a trailing return type [modernize-use-trailing-return-type]\n",
				ExitCode: 1,
			}
		}
		return testlib.Response{}
	}}
	console, _ := testlib.NewConsole()
	opts := options(workDir)
	result, err := Run(context.Background(), runner, console, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var files []string
	for _, call := range runner.Calls {
		files = append(files, call.Args[0])
		if call.Args[1] != "--" || call.Dir != workDir {
			t.Errorf("unexpected command %v", call)
		}
	}
	if diff := cmp.Diff([]string{"src/driver.c", "src/main.cpp"}, files); diff != "" {
		t.Errorf("unexpected files (-want +got):\n%s", diff)
	}
	if result.Status != phase.Warnings || result.Issues != 1 {
		t.Errorf("unexpected result %+v", result)
	}

	content, err := os.ReadFile(opts.LogPath)
	if err != nil {
		t.Fatalf("os.ReadFile: %v", err)
	}
	expectedLog := "=== driver.c ===\n\n\n" +
		"=== main.cpp ===\nsrc/main.cpp:1:5: warning: use a trailing return type [modernize-use-trailing-return-type]\n\n\n"
	if string(content) != expectedLog {
		t.Errorf("unexpected log %q", string(content))
	}
}

func TestRunNoSources(t *testing.T) {
	workDir := t.TempDir()
	runner := &testlib.FakeRunner{}
	console, out := testlib.NewConsole()
	opts := options(workDir)
	result, err := Run(context.Background(), runner, console, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(runner.Calls) != 0 {
		t.Errorf("unexpected commands %v", runner.CommandLines())
	}
	if result.Status != phase.Passed {
		t.Errorf("unexpected status %v", result.Status)
	}
	content, err := os.ReadFile(opts.LogPath)
	if err != nil {
		t.Fatalf("os.ReadFile: %v", err)
	}
	if len(content) != 0 {
		t.Errorf("expected an empty log, got %q", string(content))
	}
	if !strings.Contains(out.String(), "Files to check: 0") {
		t.Errorf("missing file count:\n%s", out.String())
	}
}
