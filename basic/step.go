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

package basic

import (
	"context"
	"fmt"
	"strings"
)

// StepResult is the outcome of one external command run by RunStep.
type StepResult struct {
	OK       bool
	ExitCode int
	TimedOut bool
	Output   string
}

// RunStep runs cmd, logs what it does and whether it worked. A failing,
// missing or timed out tool is reported through StepResult, the error is
// only set when the run was interrupted.
func RunStep(ctx context.Context, runner Runner, console *Console, cmd Command, description string) (StepResult, error) {
	console.Log("Running: %s", description)
	console.Log("Command: %s", cmd.String())
	out, err := runner.CombinedOutput(ctx, cmd)
	if err != nil && IsCanceled(err) {
		return StepResult{ExitCode: -1, Output: string(out)}, err
	}
	if err != nil && IsNotFound(err) {
		console.Error("Command not found: %s", cmd.Name)
		return StepResult{ExitCode: -1, Output: fmt.Sprintf("Command not found: %s", cmd.Name)}, nil
	}
	if err != nil && IsTimeout(err) {
		console.Error("%s failed: %v", description, err)
		output := string(out)
		if output != "" && !strings.HasSuffix(output, "\n") {
			output += "\n"
		}
		return StepResult{ExitCode: -1, TimedOut: true, Output: output + err.Error() + "\n"}, nil
	}
	result := StepResult{OK: err == nil, ExitCode: ExitCode(err), Output: string(out)}
	if result.OK {
		console.Success("%s completed", description)
		return result, nil
	}
	console.Error("%s failed", description)
	if trimmed := strings.TrimSpace(result.Output); trimmed != "" {
		console.Log("Error output: %s", trimmed)
	} else if result.ExitCode < 0 {
		console.Log("Error output: %s", err.Error())
	}
	return result, nil
}
