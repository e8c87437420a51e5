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
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"
	"naive.systems/qualitycheck/atomic"
	"naive.systems/qualitycheck/basic"
	"naive.systems/qualitycheck/checker"
	"naive.systems/qualitycheck/phase"
)

const (
	BasicChecks = "--enable=warning,style,performance,portability"
	basicHeader = "=== Cppcheck Basic Check ===\n"
	misraHeader = "\n=== MISRA-C Check ===\n"
	LogFileName = "cppcheck.log"
)

// Options for one cppcheck phase. SrcDir and RulesFile are relative to
// WorkDir, which is also where cppcheck runs.
type Options struct {
	Binary    string
	WorkDir   string
	SrcDir    string
	RulesFile string
	LogPath   string
}

// srcArg keeps the trailing slash cppcheck is usually given for a directory.
func srcArg(srcDir string) string {
	return strings.TrimSuffix(filepath.ToSlash(srcDir), "/") + "/"
}

func BasicArgs(srcDir string) []string {
	return []string{BasicChecks, srcArg(srcDir)}
}

func MisraArgs(rulesFile, srcDir string) []string {
	return []string{"--addon=" + rulesFile, "--enable=all", srcArg(srcDir)}
}

// Run checks the whole source directory once with the basic checks and, if
// the rule file exists, once more with the MISRA-C addon. The combined
// output of both passes replaces the log file.
func Run(ctx context.Context, runner basic.Runner, console *basic.Console, opts Options) (phase.Result, error) {
	console.Header("Phase 2: Cppcheck static analysis")
	start := time.Now()
	result := phase.Result{Name: phase.Cppcheck, LogPath: opts.LogPath}

	var steps []basic.StepResult
	basicStep, err := basic.RunStep(ctx, runner, console,
		basic.Command{Name: opts.Binary, Args: BasicArgs(opts.SrcDir), Dir: opts.WorkDir},
		console.Sprintf("Cppcheck basic check"))
	if err != nil {
		return result, err
	}
	steps = append(steps, basicStep)

	var log strings.Builder
	log.WriteString(basicHeader)
	log.WriteString(basicStep.Output)

	if basic.FileExists(filepath.Join(opts.WorkDir, opts.RulesFile)) {
		misraStep, err := basic.RunStep(ctx, runner, console,
			basic.Command{Name: opts.Binary, Args: MisraArgs(opts.RulesFile, opts.SrcDir), Dir: opts.WorkDir},
			console.Sprintf("Cppcheck MISRA-C check"))
		if err != nil {
			return result, err
		}
		steps = append(steps, misraStep)
		log.WriteString(misraHeader)
		log.WriteString(misraStep.Output)
	} else {
		console.Warning("%s not found, skipping the MISRA-C check", opts.RulesFile)
	}

	result.Output = log.String()
	result.Issues = checker.CountIssues(result.Output)
	result.Status = checker.StatusOf(steps, result.Issues)
	result.Duration = time.Since(start)

	if err := atomic.WriteString(opts.LogPath, result.Output); err != nil {
		glog.Errorf("failed to write %s: %v", opts.LogPath, err)
		console.Error("Failed to write %s", opts.LogPath)
		result.Status = phase.Failed
		result.Detail = err.Error()
		return result, nil
	}

	if result.Status == phase.Passed {
		console.Success("Cppcheck analysis completed (no errors)")
	} else {
		console.Warning("Cppcheck analysis completed (%d issues, see %s)", result.Issues, opts.LogPath)
	}
	return result, nil
}
