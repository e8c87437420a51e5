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

package toolprobe

import (
	"github.com/golang/glog"
	"golang.org/x/exp/slices"
	"naive.systems/qualitycheck/basic"
	"naive.systems/qualitycheck/runenv"
)

type Tool struct {
	// Name is the logical tool name, Binary what is looked up on PATH.
	Name        string
	Binary      string
	InstallHint string
	Optional    bool
}

// DefaultTools are the tools a full quality check needs. lcov is optional
// because coverage falls back to plain gcov.
var DefaultTools = []Tool{
	{Name: "cppcheck", Binary: "cppcheck", InstallHint: "brew install cppcheck"},
	{Name: "clang-tidy", Binary: "clang-tidy", InstallHint: "brew install llvm"},
	{Name: "gcov", Binary: "gcov", InstallHint: "xcode-select --install"},
	{Name: "lcov", Binary: "lcov", InstallHint: "brew install lcov (optional)", Optional: true},
}

type Status struct {
	Tool  Tool
	Found bool
	Path  string
}

type Report struct {
	Statuses []Status
}

// Available is true only if every required tool was found.
func (r Report) Available() bool {
	return len(r.Missing()) == 0
}

// Missing lists the required tools that were not found.
func (r Report) Missing() []string {
	var missing []string
	for _, s := range r.Statuses {
		if !s.Found && !s.Tool.Optional {
			missing = append(missing, s.Tool.Name)
		}
	}
	return missing
}

func (r Report) Found(name string) bool {
	idx := slices.IndexFunc(r.Statuses, func(s Status) bool { return s.Tool.Name == name })
	return idx >= 0 && r.Statuses[idx].Found
}

// WithBinaries overrides the looked up binary of the named tools.
func WithBinaries(tools []Tool, binaries map[string]string) []Tool {
	out := slices.Clone(tools)
	for i := range out {
		if bin, ok := binaries[out[i].Name]; ok && bin != "" {
			out[i].Binary = bin
		}
	}
	return out
}

// Probe looks every tool up on the PATH of env and logs one line per tool.
// A missing tool is not an error, it only downgrades what the run can do.
func Probe(env *runenv.Env, tools []Tool, console *basic.Console) Report {
	console.Header("Tool check")
	report := Report{}
	for _, tool := range tools {
		path, err := env.LookPath(tool.Binary)
		status := Status{Tool: tool, Found: err == nil, Path: path}
		if status.Found {
			console.Success("%s installed", tool.Name)
			glog.Infof("%s resolved to %s", tool.Name, path)
		} else {
			console.Warning("%s not found: %s", tool.Name, tool.InstallHint)
			glog.V(1).Infof("lookup of %s failed: %v", tool.Binary, err)
		}
		report.Statuses = append(report.Statuses, status)
	}
	if !report.Available() {
		console.Error("Required tools are missing")
		return report
	}
	console.Success("Tool check completed")
	return report
}
