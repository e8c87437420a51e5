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

package metrics

import (
	"cmp"
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/hhatto/gocloc"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/exp/slices"
	"naive.systems/qualitycheck/basic"
	"naive.systems/qualitycheck/phase"
)

// Extensions counted by the collector, in report order.
var Extensions = []string{"cpp", "c", "h"}

type ExtensionCount struct {
	Extension string `json:"extension"`
	Files     int    `json:"files"`
	Lines     int    `json:"lines"`
}

// LanguageCount is the gocloc breakdown of one language.
type LanguageCount struct {
	Language string `json:"language"`
	Files    int    `json:"files"`
	Code     int    `json:"code"`
	Comments int    `json:"comments"`
	Blanks   int    `json:"blanks"`
}

// Metrics of the source directory. Complexity holds the top pmccabe lines,
// most complex first, and is empty when pmccabe is unavailable or there is
// nothing to measure.
type Metrics struct {
	Extensions []ExtensionCount `json:"extensions"`
	TotalLines int              `json:"total_lines"`
	Languages  []LanguageCount  `json:"languages,omitempty"`
	Complexity []string         `json:"complexity,omitempty"`
}

func (m Metrics) Files(ext string) int {
	idx := slices.IndexFunc(m.Extensions, func(c ExtensionCount) bool { return c.Extension == ext })
	if idx < 0 {
		return 0
	}
	return m.Extensions[idx].Files
}

// Options for the metrics phase. SrcDir is relative to WorkDir.
// RunComplexity is set when ComplexityBin was found on PATH.
type Options struct {
	WorkDir       string
	SrcDir        string
	ComplexityBin string
	RunComplexity bool
	Top           int
}

// Collect never fails the pipeline. Unreadable files are logged and
// skipped, a failing pmccabe only drops the complexity list.
func Collect(ctx context.Context, runner basic.Runner, console *basic.Console, opts Options) (Metrics, phase.Result, error) {
	console.Header("Code quality metrics")
	start := time.Now()
	result := phase.Result{Name: phase.Metrics, Status: phase.Passed}
	srcDir := filepath.Join(opts.WorkDir, opts.SrcDir)

	var m Metrics
	var all []string
	for _, ext := range Extensions {
		files, err := basic.GlobSources(srcDir, ext)
		if err != nil {
			glog.Errorf("failed to list *.%s in %s: %v", ext, srcDir, err)
		}
		count := ExtensionCount{Extension: ext, Files: len(files)}
		for _, file := range files {
			n, err := basic.CountFileLines(file)
			if err != nil {
				glog.Warningf("failed to count lines of %s: %v", file, err)
				continue
			}
			count.Lines += n
		}
		m.Extensions = append(m.Extensions, count)
		m.TotalLines += count.Lines
		all = append(all, files...)
	}

	console.Log("Total lines of code: %d", m.TotalLines)
	console.Log("C++ files: %d", m.Files("cpp"))
	console.Log("C files: %d", m.Files("c"))
	console.Log("Header files: %d", m.Files("h"))

	if len(all) > 0 {
		languages, err := CountLanguages(all)
		if err != nil {
			glog.Errorf("gocloc fail: %v", err)
		} else {
			m.Languages = languages
			for _, line := range strings.Split(LanguageTable(languages), "\n") {
				console.Log("%s", line)
			}
		}
	}

	sources := make([]string, 0, len(all))
	for _, file := range all {
		if filepath.Ext(file) != ".h" {
			rel, err := filepath.Rel(opts.WorkDir, file)
			if err != nil {
				rel = file
			}
			sources = append(sources, filepath.ToSlash(rel))
		}
	}
	if opts.RunComplexity && len(sources) > 0 {
		step, err := basic.RunStep(ctx, runner, console,
			basic.Command{Name: opts.ComplexityBin, Args: sources, Dir: opts.WorkDir},
			console.Sprintf("Complexity statistics"))
		if err != nil {
			return m, result, err
		}
		if step.OK {
			m.Complexity = TopComplexity(step.Output, opts.Top)
			console.Log("Complexity top %d:", opts.Top)
			for _, line := range m.Complexity {
				console.Log("  %s", line)
			}
		}
	}

	result.Duration = time.Since(start)
	return m, result, nil
}

// CountLanguages returns the gocloc breakdown of files, sorted by language
// name.
func CountLanguages(files []string) ([]LanguageCount, error) {
	processor := gocloc.NewProcessor(gocloc.NewDefinedLanguages(), gocloc.NewClocOptions())
	result, err := processor.Analyze(files)
	if err != nil {
		return nil, err
	}
	byLang := map[string]*LanguageCount{}
	for _, file := range result.Files {
		lc, ok := byLang[file.Lang]
		if !ok {
			lc = &LanguageCount{Language: file.Lang}
			byLang[file.Lang] = lc
		}
		lc.Files++
		lc.Code += int(file.Code)
		lc.Comments += int(file.Comments)
		lc.Blanks += int(file.Blanks)
	}
	languages := make([]LanguageCount, 0, len(byLang))
	for _, lc := range byLang {
		languages = append(languages, *lc)
	}
	slices.SortFunc(languages, func(a, b LanguageCount) int {
		return strings.Compare(a.Language, b.Language)
	})
	return languages, nil
}

func LanguageTable(languages []LanguageCount) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Language", "Files", "Code", "Comments", "Blanks"})
	var total LanguageCount
	for _, lc := range languages {
		tbl.AppendRow(table.Row{lc.Language, humanize.Comma(int64(lc.Files)), humanize.Comma(int64(lc.Code)),
			humanize.Comma(int64(lc.Comments)), humanize.Comma(int64(lc.Blanks))})
		total.Files += lc.Files
		total.Code += lc.Code
		total.Comments += lc.Comments
		total.Blanks += lc.Blanks
	}
	tbl.AppendFooter(table.Row{"Total", humanize.Comma(int64(total.Files)), humanize.Comma(int64(total.Code)),
		humanize.Comma(int64(total.Comments)), humanize.Comma(int64(total.Blanks))})
	return tbl.Render()
}

// complexityScore is the leading whitespace separated integer of a pmccabe
// line, 0 when there is none.
func complexityScore(line string) int {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}

// TopComplexity orders pmccabe output lines by descending score, keeping
// the original order of equal scores, and returns at most top lines.
func TopComplexity(output string, top int) []string {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return nil
	}
	lines := strings.Split(trimmed, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}
	slices.SortStableFunc(lines, func(a, b string) int {
		return cmp.Compare(complexityScore(b), complexityScore(a))
	})
	if top > 0 && len(lines) > top {
		lines = lines[:top]
	}
	return lines
}
