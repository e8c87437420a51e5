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

package stats

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"naive.systems/qualitycheck/atomic"
	"naive.systems/qualitycheck/checker"
	"naive.systems/qualitycheck/metrics"
	"naive.systems/qualitycheck/phase"
)

const (
	FilePrefix      = "quality_summary_"
	TimestampLayout = "20060102_150405"
)

type SeverityCount struct {
	Error       int `json:"error"`
	Warning     int `json:"warning"`
	Style       int `json:"style"`
	Performance int `json:"performance"`
	Portability int `json:"portability"`
}

// Summary is the machine readable record of one run.
type Summary struct {
	RunID      string           `json:"run_id"`
	StartedAt  time.Time        `json:"started_at"`
	Elapsed    string           `json:"elapsed"`
	Degraded   bool             `json:"degraded"`
	Results    []phase.Result   `json:"results"`
	Severities SeverityCount    `json:"severities"`
	Metrics    *metrics.Metrics `json:"metrics,omitempty"`
}

func NewRunID() string {
	return uuid.NewString()
}

func AccumulateBySeverity(cnt *SeverityCount, severity string, file string) {
	switch severity {
	case "error":
		cnt.Error++
	case "warning":
		cnt.Warning++
	case "style":
		cnt.Style++
	case "performance":
		cnt.Performance++
	case "portability":
		cnt.Portability++
	case "note", "information":
	default:
		glog.Warningf("undefined severity %q of a diagnostic in %s", severity, file)
	}
}

// CountSeverities classifies the diagnostics in the output of the static
// analysis phases.
func CountSeverities(results []phase.Result) SeverityCount {
	var cnt SeverityCount
	for _, r := range results {
		if r.Name != phase.Cppcheck && r.Name != phase.Tidy {
			continue
		}
		for _, d := range checker.ParseDiagnostics(r.Output) {
			AccumulateBySeverity(&cnt, d.Severity, d.File)
		}
	}
	return cnt
}

func FileName(t time.Time) string {
	return FilePrefix + t.Format(TimestampLayout) + ".json"
}

// WriteSummary writes s into dir and returns the path of the file.
func WriteSummary(dir string, generatedAt time.Time, s Summary) (string, error) {
	content, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %v", err)
	}
	path := filepath.Join(dir, FileName(generatedAt))
	if err := atomic.Write(path, append(content, '\n')); err != nil {
		return "", fmt.Errorf("failed to write to file %s: %v", path, err)
	}
	return path, nil
}
