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
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/golang/glog"
	"naive.systems/qualitycheck/runenv"
)

// ErrTimeout is returned by ExecRunner when a command outlives its Timeout.
// Unlike an interrupt it only fails the command, not the run.
var ErrTimeout = errors.New("timed out")

// waitDelay bounds how long Wait keeps reading output after the process
// was killed, in case a descendant escaped the process group.
const waitDelay = 2 * time.Second

// Command is a single external tool invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory, empty means the current one.
	Dir string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner starts external tools. Phases only depend on this interface so the
// tools can be replaced in tests.
type Runner interface {
	// CombinedOutput runs cmd to completion and returns its stdout and stderr
	// interleaved. A non-zero exit is reported as *exec.ExitError, a binary
	// missing from PATH as an error wrapping exec.ErrNotFound.
	CombinedOutput(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecRunner starts tools with the variables of Env. Timeout bounds each
// invocation when positive. Every tool runs in its own process group, which
// is killed as a whole on cancellation or timeout.
type ExecRunner struct {
	Env     *runenv.Env
	Timeout time.Duration
}

func NewExecRunner(env *runenv.Env, timeout time.Duration) *ExecRunner {
	return &ExecRunner{Env: env, Timeout: timeout}
}

func (r *ExecRunner) CombinedOutput(ctx context.Context, c Command) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name, err)
	}
	// exec.Command resolves against the process PATH, which is not the one
	// the tools are meant to be found in.
	bin, err := r.Env.LookPath(c.Name)
	if err != nil {
		return nil, fmt.Errorf("command not found: %s: %w", c.Name, err)
	}
	cmdCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(cmdCtx, bin, c.Args...)
	cmd.Env = r.Env.Environ()
	cmd.Dir = c.Dir
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)
	glog.Info("executing: ", cmd.String())
	out, err := cmd.CombinedOutput()
	if err == nil {
		return out, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, fmt.Errorf("%s: %w", c.Name, ctxErr)
	}
	if cmdCtx.Err() != nil {
		glog.Warningf("%s timed out after %v: %v", c.Name, r.Timeout, err)
		return out, fmt.Errorf("%s: %w after %v", c.Name, ErrTimeout, r.Timeout)
	}
	return out, err
}

// exitCoder is implemented by *exec.ExitError.
type exitCoder interface {
	ExitCode() int
}

// ExitCode is 0 for a nil error, the exit status for *exec.ExitError and -1
// when the process did not run to completion.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitError exitCoder
	if errors.As(err, &exitError) {
		return exitError.ExitCode()
	}
	return -1
}

func IsNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}

func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled reports whether err was caused by cancellation of the caller's
// context, i.e. an interrupt. A command timeout is not a cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
