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
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"
	"naive.systems/qualitycheck/atomic"
	"naive.systems/qualitycheck/basic"
	"naive.systems/qualitycheck/checker"
	"naive.systems/qualitycheck/phase"
)

const LogFileName = "clang-tidy.log"

// Options for one clang-tidy phase. SrcDir and IncludeDirs are relative to
// WorkDir.
type Options struct {
	Binary      string
	WorkDir     string
	SrcDir      string
	IncludeDirs []string
	Defines     []string
	Std         string
	Target      string
	ExtraArgs   []string
	LogPath     string
}

// CompilerArgs are the arguments after "--": clang-tidy needs them because
// PlatformIO projects have no compilation database.
func CompilerArgs(opts Options) []string {
	var args []string
	for _, dir := range opts.IncludeDirs {
		args = append(args, "-I"+filepath.ToSlash(dir))
	}
	for _, def := range opts.Defines {
		args = append(args, "-D"+def)
	}
	if opts.Std != "" {
		args = append(args, "-std="+opts.Std)
	}
	if opts.Target != "" {
		args = append(args, "-target", opts.Target)
	}
	return append(args, opts.ExtraArgs...)
}

type fileResult struct {
	name string
	step basic.StepResult
}

// Run checks every .cpp and .c file directly inside the source directory,
// one clang-tidy invocation per file.
func Run(ctx context.Context, runner basic.Runner, console *basic.Console, opts Options) (phase.Result, error) {
	console.Header("Phase 3: Clang-Tidy static analysis")
	start := time.Now()
	result := phase.Result{Name: phase.Tidy, LogPath: opts.LogPath}

	files, err := basic.GlobSources(filepath.Join(opts.WorkDir, opts.SrcDir), "cpp", "c")
	if err != nil {
		glog.Errorf("failed to list sources in %s: %v", opts.SrcDir, err)
		files = nil
	}
	console.Log("Files to check: %d", len(files))

	compilerArgs := CompilerArgs(opts)
	var results []fileResult
	for _, file := range files {
		name := filepath.Base(file)
		rel := filepath.ToSlash(filepath.Join(opts.SrcDir, name))
		console.Log("Checking: %s", rel)
		args := append([]string{rel, "--"}, compilerArgs...)
		step, err := basic.RunStep(ctx, runner, console,
			basic.Command{Name: opts.Binary, Args: args, Dir: opts.WorkDir},
			fmt.Sprintf("Clang-Tidy %s", name))
		if err != nil {
			return result, err
		}
		results = append(results, fileResult{name: name, step: step})
	}

	var log strings.Builder
	var steps []basic.StepResult
	failedFiles := 0
	for _, r := range results {
		fmt.Fprintf(&log, "=== %s ===\n", r.name)
		log.WriteString(r.step.Output)
		log.WriteString("\n\n")
		steps = append(steps, r.step)
		if !r.step.OK {
			failedFiles++
		}
	}

	result.Output = log.String()
	result.Issues = checker.CountIssues(result.Output)
	result.Status = checker.StatusOf(steps, result.Issues)
	result.Duration = time.Since(start)
	if len(files) == 0 {
		result.Detail = "no source files"
	}

	if err := atomic.WriteString(opts.LogPath, result.Output); err != nil {
		glog.Errorf("failed to write %s: %v", opts.LogPath, err)
		console.Error("Failed to write %s", opts.LogPath)
		result.Status = phase.Failed
		result.Detail = err.Error()
		return result, nil
	}

	if failedFiles == 0 && result.Issues == 0 {
		console.Success("Clang-Tidy analysis completed (no warnings)")
	} else {
		console.Warning("Clang-Tidy analysis completed (warnings in %d files, %d issues)", failedFiles, result.Issues)
	}
	return result, nil
}
