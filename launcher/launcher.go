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

// Package launcher holds what the quality check commands share: flag and
// glog setup, signal handling and the mapping of errors to exit codes.
package launcher

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/golang/glog"
	"naive.systems/qualitycheck/basic"
	"naive.systems/qualitycheck/i18n"
	"naive.systems/qualitycheck/options"
	"naive.systems/qualitycheck/pipeline"
)

// Setup must run after flag.Parse. It keeps glog off stderr unless -debug
// is given and exits through glog.Fatal on an invalid configuration.
func Setup(sharedOptions *options.SharedOptions, out io.Writer) (*options.Config, *basic.Console) {
	if !sharedOptions.GetDebugMode() {
		err := flag.Set("stderrthreshold", "FATAL")
		if err != nil {
			glog.Fatalf("failed to set default stderrthreshold: %v", err)
		}
	}
	cfg, err := sharedOptions.Resolve()
	if err != nil {
		glog.Fatalf("invalid configuration: %v", err)
	}
	glog.Infof("work dir: %s, src dir: %s, report dir: %s", cfg.WorkDir, cfg.SrcDir, cfg.ReportDir)
	return cfg, basic.NewConsole(out, i18n.GetPrinter(cfg.Lang), cfg.NoColor)
}

// Context is canceled on SIGINT and SIGTERM, which kills the running tool.
func Context() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// RequireSrcDir is used by the single phase commands, which have nothing
// to do without sources.
func RequireSrcDir(cfg *options.Config) error {
	info, err := os.Stat(cfg.Path(cfg.SrcDir))
	if err != nil {
		return fmt.Errorf("%s directory not found: %w", filepath.ToSlash(cfg.SrcDir), err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", cfg.SrcDir)
	}
	return nil
}

// ExitCode reports err on the console and returns the process exit code.
func ExitCode(console *basic.Console, err error) int {
	switch {
	case err == nil:
		return 0
	case basic.IsCanceled(err):
		console.Error("Interrupted by user")
	case errors.Is(err, pipeline.ErrBuildFailed), errors.Is(err, pipeline.ErrTestFailed), errors.Is(err, pipeline.ErrToolsMissing):
		console.Error("%v", err)
	default:
		console.Error("Unexpected error: %v", err)
	}
	glog.Errorf("exiting with error: %v", err)
	return 1
}
