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

// Package coverage turns the .gcda files of an instrumented test build into
// a coverage report, with lcov and genhtml when possible and plain gcov
// otherwise.
package coverage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"
	"naive.systems/qualitycheck/basic"
	"naive.systems/qualitycheck/phase"
)

const (
	infoFile     = "coverage.info"
	filteredFile = "coverage_filtered.info"
	htmlDir      = "html"
	gcovDir      = "gcov"
)

// Options for one coverage phase. BuildDir and CoverageDir are relative to
// WorkDir. UseLcov is false when the tool check did not find lcov.
type Options struct {
	LcovBin     string
	GenhtmlBin  string
	GcovBin     string
	UseLcov     bool
	WorkDir     string
	BuildDir    string
	CoverageDir string
	Excludes    []string
}

func (o Options) rel(name ...string) string {
	return filepath.ToSlash(filepath.Join(append([]string{o.CoverageDir}, name...)...))
}

// ReportIndex is the entry page genhtml writes.
func (o Options) ReportIndex() string {
	return o.rel(htmlDir, "index.html")
}

func (o Options) LcovCommands() []basic.Command {
	remove := append([]string{"--remove", o.rel(infoFile)}, o.Excludes...)
	remove = append(remove, "--output-file", o.rel(filteredFile))
	return []basic.Command{
		{Name: o.LcovBin, Args: []string{"--capture", "--directory", filepath.ToSlash(o.BuildDir), "--output-file", o.rel(infoFile)}, Dir: o.WorkDir},
		{Name: o.LcovBin, Args: remove, Dir: o.WorkDir},
		{Name: o.GenhtmlBin, Args: []string{o.rel(filteredFile), "--output-directory", o.rel(htmlDir)}, Dir: o.WorkDir},
	}
}

// FindData lists the .gcda files below the build directory. A missing
// build directory means there is no data.
func FindData(workDir, buildDir string) ([]string, error) {
	files, err := basic.FindRecursive(filepath.Join(workDir, buildDir), "**/*.gcda")
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return files, err
}

// Run never fails the pipeline: anything going wrong is recorded in the
// result. The error is only set when ctx was canceled.
func Run(ctx context.Context, runner basic.Runner, console *basic.Console, opts Options) (phase.Result, error) {
	console.Header("Phase 5: Code coverage analysis")
	start := time.Now()
	result := phase.Result{Name: phase.Coverage}
	finish := func(r phase.Result) (phase.Result, error) {
		r.Duration = time.Since(start)
		return r, nil
	}

	if err := os.MkdirAll(filepath.Join(opts.WorkDir, opts.CoverageDir), os.ModePerm); err != nil {
		console.Error("Failed to create %s", opts.CoverageDir)
		result.Status = phase.Failed
		result.Detail = err.Error()
		return finish(result)
	}

	files, err := FindData(opts.WorkDir, opts.BuildDir)
	if err != nil {
		glog.Errorf("failed to search %s for coverage data: %v", opts.BuildDir, err)
		console.Error("Failed to search %s for coverage data", opts.BuildDir)
		result.Status = phase.Failed
		result.Detail = err.Error()
		return finish(result)
	}
	if len(files) == 0 {
		console.Warning("No coverage data found. Ensure tests are built with coverage flags.")
		result.Status = phase.NoData
		result.Detail = "no .gcda files in " + opts.BuildDir
		return finish(result)
	}
	console.Log("Found %d gcda files", len(files))

	if opts.UseLcov {
		console.Log("Using lcov for coverage analysis...")
		ok, output, err := runLcov(ctx, runner, console, opts)
		if err != nil {
			return result, err
		}
		if ok {
			console.Success("HTML coverage report generated")
			console.Log("Report location: %s", opts.ReportIndex())
			result.Status = phase.Passed
			result.LogPath = filepath.Join(opts.WorkDir, filepath.FromSlash(opts.ReportIndex()))
			result.Detail = opts.ReportIndex()
			result.Output = output
			return finish(result)
		}
		console.Warning("lcov failed, falling back to gcov")
		result.Output = output
	} else {
		console.Log("lcov not available, using gcov...")
	}

	gcovResult, err := runGcov(ctx, runner, console, opts, files)
	if err != nil {
		return result, err
	}
	gcovResult.Output = result.Output + gcovResult.Output
	return finish(gcovResult)
}

func runLcov(ctx context.Context, runner basic.Runner, console *basic.Console, opts Options) (bool, string, error) {
	descriptions := []string{
		console.Sprintf("Collecting coverage data"),
		console.Sprintf("Filtering coverage data"),
		console.Sprintf("Generating HTML report"),
	}
	var output strings.Builder
	for i, cmd := range opts.LcovCommands() {
		step, err := basic.RunStep(ctx, runner, console, cmd, descriptions[i])
		if err != nil {
			return false, output.String(), err
		}
		output.WriteString(step.Output)
		if !step.OK {
			return false, output.String(), nil
		}
	}
	return true, output.String(), nil
}

func runGcov(ctx context.Context, runner basic.Runner, console *basic.Console, opts Options, files []string) (phase.Result, error) {
	result := phase.Result{Name: phase.Coverage}
	dir := filepath.Join(opts.WorkDir, opts.CoverageDir, gcovDir)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		console.Error("Failed to create %s", dir)
		result.Status = phase.Failed
		result.Detail = err.Error()
		return result, nil
	}

	var output strings.Builder
	failed := 0
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			abs = file
		}
		console.Log("Processing: %s", filepath.Base(file))
		step, err := basic.RunStep(ctx, runner, console,
			basic.Command{Name: opts.GcovBin, Args: []string{abs}, Dir: dir},
			fmt.Sprintf("gcov %s", filepath.Base(file)))
		if err != nil {
			return result, err
		}
		output.WriteString(step.Output)
		if !step.OK {
			failed++
		}
	}

	result.Output = output.String()
	result.LogPath = dir
	result.Detail = opts.rel(gcovDir)
	if failed == 0 {
		result.Status = phase.Passed
		console.Success("gcov coverage analysis completed")
	} else {
		result.Status = phase.Warnings
		result.Issues = failed
		console.Warning("gcov failed for %d of %d files", failed, len(files))
	}
	console.Log(".gcov files generated in %s", opts.rel(gcovDir))
	return result, nil
}
