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

// Command pio_quality_hook is started by a PlatformIO extra_scripts shim
// after the firmware was built, so it never builds again.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"naive.systems/qualitycheck/launcher"
	"naive.systems/qualitycheck/options"
	"naive.systems/qualitycheck/pipeline"
)

// envFlags are filled from the PlatformIO environment unless given.
var envFlags = map[string]string{
	"pio_env":  "PIOENV",
	"work_dir": "PROJECT_DIR",
}

func main() {
	sharedOptions := options.NewSharedOptions(flag.CommandLine)
	flag.Parse()
	sharedOptions.SetAlreadyBuilt(true)

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for name, variable := range envFlags {
		if value := os.Getenv(variable); value != "" && !set[name] {
			if err := flag.Set(name, value); err != nil {
				glog.Fatalf("failed to set %s from %s: %v", name, variable, err)
			}
		}
	}
	os.Exit(run(sharedOptions))
}

func run(sharedOptions *options.SharedOptions) int {
	defer glog.Flush()
	fmt.Println("Starting quality check from PlatformIO...")
	cfg, console := launcher.Setup(sharedOptions, os.Stdout)
	ctx, stop := launcher.Context()
	defer stop()

	_, err := pipeline.Run(ctx, cfg, console)
	return launcher.ExitCode(console, err)
}
