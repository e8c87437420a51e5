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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/shlex"
	"naive.systems/qualitycheck/basic"
	"naive.systems/qualitycheck/phase"
)

var ErrEmptyCommand = errors.New("empty command")

// Options of the build and unit test phases. Command is a shell-like
// command line, e.g. "platformio run -e esp32dev". AlreadyBuilt turns the
// build into a no-op because PlatformIO built the firmware before invoking
// the hook.
type Options struct {
	Command      string
	WorkDir      string
	AlreadyBuilt bool
}

// SplitCommand splits a command line with shell quoting rules.
func SplitCommand(line string) (basic.Command, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return basic.Command{}, fmt.Errorf("shlex.Split %q: %v", line, err)
	}
	if len(words) == 0 {
		return basic.Command{}, ErrEmptyCommand
	}
	return basic.Command{Name: words[0], Args: words[1:]}, nil
}

// Build runs the firmware build. Success is exit status zero and nothing
// else; the caller decides whether a failure ends the run.
func Build(ctx context.Context, runner basic.Runner, console *basic.Console, opts Options) (phase.Result, error) {
	console.Header("Phase 1: Build")
	start := time.Now()
	if opts.AlreadyBuilt {
		console.Success("Build succeeded (already run by PlatformIO)")
		return phase.Result{Name: phase.Build, Status: phase.Passed, Detail: "already built by PlatformIO"}, nil
	}
	result, err := runCommand(ctx, runner, console, phase.Build, opts, "PlatformIO build")
	result.Duration = time.Since(start)
	if err == nil && result.Status == phase.Passed {
		console.Success("Build succeeded")
	}
	return result, err
}

// Test runs the unit tests on the same terms as Build.
func Test(ctx context.Context, runner basic.Runner, console *basic.Console, opts Options) (phase.Result, error) {
	console.Header("Phase 4: Unit tests")
	start := time.Now()
	result, err := runCommand(ctx, runner, console, phase.Test, opts, "PlatformIO unit tests")
	result.Duration = time.Since(start)
	if err == nil && result.Status == phase.Passed {
		console.Success("All unit tests passed")
	}
	return result, err
}

func runCommand(ctx context.Context, runner basic.Runner, console *basic.Console, name string, opts Options, description string) (phase.Result, error) {
	cmd, err := SplitCommand(opts.Command)
	if err != nil {
		return phase.Result{Name: name, Status: phase.Failed, Detail: err.Error()}, err
	}
	cmd.Dir = opts.WorkDir
	step, err := basic.RunStep(ctx, runner, console, cmd, console.Sprintf(description))
	if err != nil {
		return phase.Result{Name: name, Status: phase.Failed, Output: step.Output}, err
	}
	result := phase.Result{Name: name, Output: step.Output, Status: phase.Passed}
	switch {
	case step.TimedOut:
		result.Status = phase.Failed
		result.Detail = "timed out"
	case !step.OK:
		result.Status = phase.Failed
		result.Detail = fmt.Sprintf("exit status %d", step.ExitCode)
	}
	return result, nil
}
