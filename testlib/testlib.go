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

// Package testlib provides fakes shared by the phase tests.
package testlib

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"naive.systems/qualitycheck/basic"
	"naive.systems/qualitycheck/i18n"
)

// Response is what a faked tool prints and how it exits.
type Response struct {
	Output   string
	ExitCode int
	NotFound bool
}

// ExitError mimics *exec.ExitError for basic.ExitCode.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) ExitCode() int {
	return e.Code
}

// FakeRunner records every command and answers with Handler. A nil Handler
// makes every command succeed silently.
type FakeRunner struct {
	mu      sync.Mutex
	Calls   []basic.Command
	Handler func(cmd basic.Command) Response
}

func (f *FakeRunner) CombinedOutput(ctx context.Context, cmd basic.Command) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.Calls = append(f.Calls, cmd)
	f.mu.Unlock()
	if f.Handler == nil {
		return nil, nil
	}
	resp := f.Handler(cmd)
	if resp.NotFound {
		return nil, fmt.Errorf("command not found: %s: %w", cmd.Name, exec.ErrNotFound)
	}
	if resp.ExitCode != 0 {
		return []byte(resp.Output), &ExitError{Code: resp.ExitCode}
	}
	return []byte(resp.Output), nil
}

// CommandLines returns the recorded commands as strings.
func (f *FakeRunner) CommandLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, 0, len(f.Calls))
	for _, c := range f.Calls {
		lines = append(lines, c.String())
	}
	return lines
}

// HasPrefix reports whether cmd starts with the given name and arguments.
func HasPrefix(cmd basic.Command, words ...string) bool {
	return strings.HasPrefix(cmd.String(), strings.Join(words, " "))
}

// WriteFile creates path below dir with contents, creating directories.
func WriteFile(t *testing.T, dir, path, contents string) string {
	t.Helper()
	full := filepath.Join(dir, path)
	if err := os.MkdirAll(filepath.Dir(full), os.ModePerm); err != nil {
		t.Fatalf("os.MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(contents), 0644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}
	return full
}

// StubTools creates empty executables named after tools in a fresh dir and
// returns the dir, suitable as the only PATH entry.
func StubTools(t *testing.T, tools ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, tool := range tools {
		if err := os.WriteFile(filepath.Join(dir, tool), []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
			t.Fatalf("os.WriteFile: %v", err)
		}
	}
	return dir
}

// StubScript replaces the tool name in dir with a shell script running body.
func StubScript(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}
}

// NewConsole returns an uncolored English console writing into a buffer.
func NewConsole() (*basic.Console, *bytes.Buffer) {
	var out bytes.Buffer
	return basic.NewConsole(&out, i18n.GetPrinter("en"), true), &out
}
