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

// Command run_cppcheck runs only the cppcheck phase and writes
// logs/cppcheck.log.
package main

import (
	"flag"
	"os"

	"github.com/golang/glog"
	"naive.systems/qualitycheck/launcher"
	"naive.systems/qualitycheck/options"
	"naive.systems/qualitycheck/pipeline"
)

func main() {
	sharedOptions := options.NewSharedOptions(flag.CommandLine)
	flag.Parse()
	os.Exit(run(sharedOptions))
}

func run(sharedOptions *options.SharedOptions) int {
	defer glog.Flush()
	cfg, console := launcher.Setup(sharedOptions, os.Stdout)
	if err := launcher.RequireSrcDir(cfg); err != nil {
		return launcher.ExitCode(console, err)
	}
	ctx, stop := launcher.Context()
	defer stop()

	p, err := pipeline.New(cfg, console)
	if err != nil {
		return launcher.ExitCode(console, err)
	}
	_, err = p.Cppcheck(ctx)
	return launcher.ExitCode(console, err)
}
