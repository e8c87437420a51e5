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

package checker

import (
	"regexp"
	"strconv"

	"naive.systems/qualitycheck/basic"
	"naive.systems/qualitycheck/phase"
)

// Diagnostic is one "file:line:col: severity: message [id]" line as printed
// by cppcheck's default template and by clang-tidy.
type Diagnostic struct {
	File     string
	Line     int
	Column   int
	Severity string
	Message  string
	ID       string
}

var diagnosticRe = regexp.MustCompile(`(?m)^(.+?):(\d+):(\d+): (error|warning|style|performance|portability|information|note): (.*?)(?: \[([^\[\]]+)\])?\r?$`)

func ParseDiagnostics(output string) []Diagnostic {
	var diags []Diagnostic
	for _, match := range diagnosticRe.FindAllStringSubmatch(output, -1) {
		line, _ := strconv.Atoi(match[2])
		column, _ := strconv.Atoi(match[3])
		diags = append(diags, Diagnostic{
			File:     match[1],
			Line:     line,
			Column:   column,
			Severity: match[4],
			Message:  match[5],
			ID:       match[6],
		})
	}
	return diags
}

// CountIssues ignores notes and informational messages, they only explain
// another diagnostic or the tool's own configuration.
func CountIssues(output string) int {
	n := 0
	for _, d := range ParseDiagnostics(output) {
		if d.Severity != "note" && d.Severity != "information" {
			n++
		}
	}
	return n
}

// StatusOf maps the invocations of an analysis phase to a phase status.
// A tool that could not run at all fails the phase, a non-zero exit or any
// counted issue only asks for review.
func StatusOf(steps []basic.StepResult, issues int) phase.Status {
	status := phase.Passed
	for _, s := range steps {
		if s.ExitCode < 0 {
			return phase.Failed
		}
		if !s.OK {
			status = phase.Warnings
		}
	}
	if issues > 0 {
		status = phase.Warnings
	}
	return status
}
