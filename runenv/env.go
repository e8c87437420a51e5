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

// Package runenv holds the environment that every external tool of a
// quality check run is started with. It is built once at start-up and passed
// down explicitly; the process environment is never modified.
package runenv

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultToolchainDirs are prepended to PATH unless already present.
// Homebrew installs llvm keg-only, so clang-tidy is not on PATH by default.
var DefaultToolchainDirs = []string{"/opt/homebrew/opt/llvm/bin"}

// ErrNotFound is exec.ErrNotFound so callers need not care which lookup failed.
var ErrNotFound = exec.ErrNotFound

type Env struct {
	vars map[string]string
}

// New parses KEY=VALUE pairs as returned by os.Environ.
func New(environ []string) *Env {
	e := &Env{vars: make(map[string]string, len(environ))}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		e.vars[k] = v
	}
	return e
}

// FromOS snapshots the process environment and prepends toolchainDirs to PATH.
func FromOS(toolchainDirs []string) *Env {
	e := New(os.Environ())
	e.PrependPath(toolchainDirs...)
	return e
}

func (e *Env) Get(key string) string {
	return e.vars[key]
}

// PathList returns the PATH entries in search order.
func (e *Env) PathList() []string {
	return filepath.SplitList(e.vars["PATH"])
}

// PrependPath puts dirs in front of PATH, skipping the ones already listed.
func (e *Env) PrependPath(dirs ...string) {
	current := e.PathList()
	present := make(map[string]bool, len(current))
	for _, d := range current {
		present[d] = true
	}
	var added []string
	for _, d := range dirs {
		if d == "" || present[d] {
			continue
		}
		present[d] = true
		added = append(added, d)
	}
	if len(added) == 0 {
		return
	}
	e.vars["PATH"] = strings.Join(append(added, current...), string(os.PathListSeparator))
}

// Environ returns the variables in os.Environ form, sorted by key.
func (e *Env) Environ() []string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	environ := make([]string, 0, len(keys))
	for _, k := range keys {
		environ = append(environ, k+"="+e.vars[k])
	}
	return environ
}

// LookPath resolves name against this environment's PATH. A name containing
// a path separator is checked as is, relative to the working directory.
func (e *Env) LookPath(name string) (string, error) {
	if strings.Contains(name, string(filepath.Separator)) {
		absPath, err := filepath.Abs(name)
		if err != nil {
			return name, fmt.Errorf("when resolving %s, failed to convert to abs path: %v", name, err)
		}
		if err := checkExecutable(absPath); err != nil {
			return absPath, fmt.Errorf("when resolving %s: %v: %w", name, err, ErrNotFound)
		}
		return absPath, nil
	}
	for _, dir := range e.PathList() {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, name)
		if checkExecutable(candidate) == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s: %w", name, ErrNotFound)
}

func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if info.Mode().Perm()&0111 == 0 {
		return fmt.Errorf("%s is not executable", path)
	}
	return nil
}
