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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"naive.systems/qualitycheck/phase"
)

func TestCountSeverities(t *testing.T) {
	results := []phase.Result{
		{Name: phase.Build, Output: "src/main.cpp:1:1: error: ignored, build output\n"},
		{Name: phase.Cppcheck, Output: "=== Cppcheck Basic Check ===\n" +
			"src/a.cpp:3:5: style: Variable 'x' is assigned a value that is never used. [unreadVariable]\n" +
			"src/a.cpp:9:1: performance: Function parameter 's' should be passed by const reference. [passedByValue]\n" +
			"nofile:0:0: information: Active checkers: 106/592 [checkersReport]\n"},
		{Name: phase.Tidy, Output: "=== a.cpp ===\n" +
			"src/a.cpp:4:6: warning: use nullptr [modernize-use-nullptr]\n" +
			"src/a.cpp:4:6: note: expanded from macro 'NULL'\n"},
	}
	expected := SeverityCount{Warning: 1, Style: 1, Performance: 1}
	if diff := cmp.Diff(expected, CountSeverities(results)); diff != "" {
		t.Errorf("unexpected count (-want +got):\n%s", diff)
	}
}

func TestWriteSummary(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	summary := Summary{
		RunID:     NewRunID(),
		StartedAt: at,
		Elapsed:   "1.5s",
		Results:   []phase.Result{{Name: phase.Build, Status: phase.Passed, Output: "raw build output"}},
	}
	path, err := WriteSummary(dir, at, summary)
	if err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	if filepath.Base(path) != "quality_summary_20240506_070809.json" {
		t.Errorf("unexpected path %s", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("os.ReadFile: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(content, &decoded); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if _, err := uuid.Parse(decoded["run_id"].(string)); err != nil {
		t.Errorf("run_id is not a uuid: %v", err)
	}
	results := decoded["results"].([]any)
	if _, ok := results[0].(map[string]any)["Output"]; ok {
		t.Errorf("raw output must not be written: %s", content)
	}
}
