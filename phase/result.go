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

package phase

import (
	"time"
)

type Status string

const (
	Passed   Status = "passed"
	Warnings Status = "warnings"
	Failed   Status = "failed"
	Skipped  Status = "skipped"
	NoData   Status = "no_data"
)

// Phase names as they appear in the run summary.
const (
	Build    = "build"
	Cppcheck = "cppcheck"
	Tidy     = "clang-tidy"
	Test     = "test"
	Coverage = "coverage"
	Metrics  = "metrics"
	Report   = "report"
)

// Result is the outcome of one phase of the current run. LogPath is the
// artifact the phase wrote, if any.
type Result struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Issues   int           `json:"issues"`
	LogPath  string        `json:"log_path,omitempty"`
	Detail   string        `json:"detail,omitempty"`
	Duration time.Duration `json:"duration_ns"`
	Output   string        `json:"-"`
}

// OK is true for the statuses that do not need attention.
func (r Result) OK() bool {
	return r.Status == Passed || r.Status == NoData
}

func (r Result) Ran() bool {
	return r.Status != Skipped && r.Status != ""
}

// NewSkipped is used for phases that did not run in this invocation.
func NewSkipped(name, detail string) Result {
	return Result{Name: name, Status: Skipped, Detail: detail}
}
