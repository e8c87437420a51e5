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

// Package report writes the per-run quality report from the phase results
// of that run.
package report

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/exp/slices"
	"golang.org/x/text/message"
	"naive.systems/qualitycheck/atomic"
	"naive.systems/qualitycheck/basic"
	"naive.systems/qualitycheck/metrics"
	"naive.systems/qualitycheck/phase"
)

const (
	FilePrefix      = "quality_report_"
	TimestampLayout = "20060102_150405"
	displayLayout   = "2006-01-02 15:04:05"
)

// FileName is the report name for a run generated at t.
func FileName(t time.Time, ext string) string {
	return FilePrefix + t.Format(TimestampLayout) + ext
}

// Input is everything the report shows. Paths in Results are shown
// relative to WorkDir.
type Input struct {
	ProjectName string
	GeneratedAt time.Time
	WorkDir     string
	LogDir      string
	Results     []phase.Result
	Metrics     *metrics.Metrics
}

func (in Input) result(name string) phase.Result {
	idx := slices.IndexFunc(in.Results, func(r phase.Result) bool { return r.Name == name })
	if idx < 0 {
		return phase.NewSkipped(name, "")
	}
	return in.Results[idx]
}

func (in Input) display(path string) string {
	if path == "" {
		return ""
	}
	if rel, err := filepath.Rel(in.WorkDir, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}

func mark(p *message.Printer, s phase.Status) string {
	switch s {
	case phase.Passed:
		return p.Sprintf("✓ Passed")
	case phase.Warnings:
		return p.Sprintf("⚠ Needs review")
	case phase.Failed:
		return p.Sprintf("✗ Failed")
	case phase.NoData:
		return p.Sprintf("- No data")
	default:
		return p.Sprintf("- Skipped")
	}
}

func notRun(p *message.Printer, r phase.Result) string {
	if r.Detail != "" {
		return r.Detail
	}
	return p.Sprintf("Not run")
}

func (in Input) analysisDetail(p *message.Printer, r phase.Result, clean string) string {
	switch r.Status {
	case phase.Passed:
		return clean
	case phase.Warnings:
		return p.Sprintf("%d issues, details: %s", r.Issues, in.display(r.LogPath))
	case phase.Failed:
		if r.LogPath != "" {
			return p.Sprintf("Details: %s", in.display(r.LogPath))
		}
		return r.Detail
	default:
		return notRun(p, r)
	}
}

func (in Input) detail(p *message.Printer, r phase.Result) string {
	switch r.Name {
	case phase.Build:
		switch r.Status {
		case phase.Passed:
			return p.Sprintf("PlatformIO build completed")
		case phase.Failed:
			return p.Sprintf("Build failed (%s)", r.Detail)
		}
	case phase.Cppcheck:
		return in.analysisDetail(p, r, p.Sprintf("No errors"))
	case phase.Tidy:
		return in.analysisDetail(p, r, p.Sprintf("No warnings"))
	case phase.Test:
		switch r.Status {
		case phase.Passed:
			return p.Sprintf("All tests passed")
		case phase.Failed:
			return p.Sprintf("Tests failed (%s)", r.Detail)
		}
	case phase.Coverage:
		switch r.Status {
		case phase.Passed:
			return p.Sprintf("Report: %s", r.Detail)
		case phase.Warnings:
			return p.Sprintf("gcov failed for %d files, output in %s", r.Issues, r.Detail)
		case phase.NoData:
			return p.Sprintf("No coverage data found")
		case phase.Failed:
			return r.Detail
		}
	}
	return notRun(p, r)
}

// escapeCell keeps a value from breaking the table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

// Render returns the Markdown report.
func Render(p *message.Printer, in Input) string {
	var b strings.Builder
	b.WriteString(p.Sprintf("# Quality Check Report"))
	b.WriteString("\n\n")
	b.WriteString(p.Sprintf("**Executed at**: %s", in.GeneratedAt.Format(displayLayout)))
	b.WriteString("  \n")
	b.WriteString(p.Sprintf("**Project**: %s", in.ProjectName))
	b.WriteString("\n\n")

	b.WriteString(p.Sprintf("## Summary"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "| %s | %s | %s |\n", p.Sprintf("Phase"), p.Sprintf("Result"), p.Sprintf("Details"))
	b.WriteString("|-------|--------|---------|\n")
	rows := []struct {
		name  string
		label string
	}{
		{phase.Build, p.Sprintf("Build")},
		{phase.Cppcheck, "Cppcheck"},
		{phase.Tidy, "Clang-Tidy"},
		{phase.Test, p.Sprintf("Unit Tests")},
		{phase.Coverage, p.Sprintf("Coverage")},
	}
	for _, row := range rows {
		r := in.result(row.name)
		fmt.Fprintf(&b, "| %s | %s | %s |\n", row.label, mark(p, r.Status), escapeCell(in.detail(p, r)))
	}
	b.WriteString("\n")

	if m := in.Metrics; m != nil {
		b.WriteString(p.Sprintf("## Metrics"))
		b.WriteString("\n\n")
		b.WriteString(p.Sprintf("- Total lines of code: %d", m.TotalLines))
		b.WriteString("\n")
		b.WriteString(p.Sprintf("- C++ files: %d", m.Files("cpp")))
		b.WriteString("\n")
		b.WriteString(p.Sprintf("- C files: %d", m.Files("c")))
		b.WriteString("\n")
		b.WriteString(p.Sprintf("- Header files: %d", m.Files("h")))
		b.WriteString("\n")
		if len(m.Complexity) > 0 {
			b.WriteString("\n")
			b.WriteString(p.Sprintf("Most complex functions (pmccabe):"))
			b.WriteString("\n\n```\n")
			for _, line := range m.Complexity {
				b.WriteString(line)
				b.WriteString("\n")
			}
			b.WriteString("```\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(p.Sprintf("## Recommended Actions"))
	b.WriteString("\n\n")
	if r := in.result(phase.Cppcheck); r.Status == phase.Warnings || r.Status == phase.Failed {
		b.WriteString("- [ ] " + p.Sprintf("Review and fix Cppcheck warnings") + "\n")
	}
	if r := in.result(phase.Tidy); r.Status == phase.Warnings || r.Status == phase.Failed {
		b.WriteString("- [ ] " + p.Sprintf("Review and fix Clang-Tidy warnings") + "\n")
	}
	b.WriteString("- [ ] " + p.Sprintf("Review the coverage report") + "\n")
	b.WriteString("- [ ] " + p.Sprintf("Consider refactoring high-complexity functions") + "\n")
	b.WriteString("\n")

	b.WriteString(p.Sprintf("## Detailed Logs"))
	b.WriteString("\n\n")
	b.WriteString("- " + p.Sprintf("Tool logs: %s", strings.TrimSuffix(in.LogDir, "/")+"/") + "\n")
	return b.String()
}

// RenderHTML converts a Markdown report into a standalone HTML page.
func RenderHTML(title string, markdown []byte) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var body bytes.Buffer
	if err := md.Convert(markdown, &body); err != nil {
		return nil, fmt.Errorf("goldmark.Convert: %w", err)
	}
	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// Options for Generate. Dir is where the report files are written.
type Options struct {
	Dir  string
	HTML bool
}

// Generate writes the Markdown report, and the HTML rendering when asked
// for, into opts.Dir. Unlike the analysis phases a report that cannot be
// written is an error.
func Generate(console *basic.Console, opts Options, in Input) (phase.Result, error) {
	console.Header("Generating quality report")
	start := time.Now()
	p := console.Printer()
	content := Render(p, in)
	path := filepath.Join(opts.Dir, FileName(in.GeneratedAt, ".md"))
	if err := atomic.WriteString(path, content); err != nil {
		return phase.Result{}, fmt.Errorf("failed to write report: %w", err)
	}
	result := phase.Result{Name: phase.Report, Status: phase.Passed, LogPath: path}
	if opts.HTML {
		page, err := RenderHTML(p.Sprintf("Quality Check Report"), []byte(content))
		if err != nil {
			return result, err
		}
		htmlPath := filepath.Join(opts.Dir, FileName(in.GeneratedAt, ".html"))
		if err := atomic.Write(htmlPath, page); err != nil {
			return result, fmt.Errorf("failed to write report: %w", err)
		}
		result.Detail = htmlPath
	}
	result.Duration = time.Since(start)
	console.Success("Quality report generated: %s", in.display(path))
	return result, nil
}
