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

// Package pipeline runs the quality check phases in order: tool check,
// build, cppcheck, clang-tidy, unit tests, coverage, metrics and report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"
	"naive.systems/qualitycheck/basic"
	"naive.systems/qualitycheck/build"
	"naive.systems/qualitycheck/checker/clangtidy"
	"naive.systems/qualitycheck/checker/cppcheck"
	"naive.systems/qualitycheck/coverage"
	"naive.systems/qualitycheck/metrics"
	"naive.systems/qualitycheck/options"
	"naive.systems/qualitycheck/phase"
	"naive.systems/qualitycheck/report"
	"naive.systems/qualitycheck/runenv"
	"naive.systems/qualitycheck/stats"
	"naive.systems/qualitycheck/toolprobe"
)

var (
	ErrBuildFailed  = errors.New("build failed")
	ErrTestFailed   = errors.New("unit tests failed")
	ErrToolsMissing = errors.New("required tools are missing")
)

// Outcome is what a run produced. Results are in execution order.
type Outcome struct {
	RunID       string
	StartedAt   time.Time
	Elapsed     time.Duration
	Degraded    bool
	Results     []phase.Result
	Metrics     *metrics.Metrics
	ReportPath  string
	SummaryPath string
}

func (o *Outcome) add(r phase.Result) {
	o.Results = append(o.Results, r)
}

// NeedsReview lists the phases that finished with warnings or failures.
func (o *Outcome) NeedsReview() []string {
	var names []string
	for _, r := range o.Results {
		if r.Ran() && !r.OK() {
			names = append(names, r.Name)
		}
	}
	return names
}

type Pipeline struct {
	Config  *options.Config
	Env     *runenv.Env
	Runner  basic.Runner
	Console *basic.Console
	Now     func() time.Time
}

// New prepares a pipeline running the tools of cfg for real. The work dir
// of the returned config is absolute.
func New(cfg *options.Config, console *basic.Console) (*Pipeline, error) {
	c := *cfg
	workDir, err := filepath.Abs(c.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("filepath.Abs: %v", err)
	}
	c.WorkDir = workDir
	timeout, err := c.Timeout()
	if err != nil {
		return nil, err
	}
	env := c.Env()
	return &Pipeline{
		Config:  &c,
		Env:     env,
		Runner:  basic.NewExecRunner(env, timeout),
		Console: console,
		Now:     time.Now,
	}, nil
}

// Run is New followed by Pipeline.Run.
func Run(ctx context.Context, cfg *options.Config, console *basic.Console) (*Outcome, error) {
	p, err := New(cfg, console)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx)
}

// rel turns a configured path into one relative to the work dir, which is
// how the tools get their arguments.
func (p *Pipeline) rel(path string) string {
	if !filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	r, err := filepath.Rel(p.Config.WorkDir, path)
	if err != nil {
		return path
	}
	return r
}

func (p *Pipeline) logPath(name string) string {
	return filepath.Join(p.Config.Path(p.Config.ReportDir), name)
}

func (p *Pipeline) tools() []toolprobe.Tool {
	return toolprobe.WithBinaries(toolprobe.DefaultTools, p.Config.Binaries)
}

// Probe runs the tool check against the pipeline environment.
func (p *Pipeline) Probe() toolprobe.Report {
	return toolprobe.Probe(p.Env, p.tools(), p.Console)
}

// Run executes every phase. A build or unit test failure ends the run with
// ErrBuildFailed or ErrTestFailed; analysis and coverage problems are only
// recorded in the outcome.
func (p *Pipeline) Run(ctx context.Context) (*Outcome, error) {
	cfg := p.Config
	start := p.Now()
	outcome := &Outcome{RunID: stats.NewRunID(), StartedAt: start}
	glog.Infof("run %s started", outcome.RunID)

	p.Console.Header("%s quality check started", cfg.PioEnv)
	p.Console.Log("Started at: %s", start.Format("2006-01-02 15:04:05"))
	p.Console.Log("Working directory: %s", cfg.WorkDir)
	if cfg.AlreadyBuilt {
		p.Console.Log("Running in PlatformIO mode")
	} else {
		p.Console.Log("Running in standalone mode")
	}

	probe := p.Probe()
	if !probe.Available() {
		missing := strings.Join(probe.Missing(), ", ")
		if cfg.StrictTools {
			return outcome, fmt.Errorf("%w: %s", ErrToolsMissing, missing)
		}
		p.Console.Warning("Quality check tools are missing, collecting basic metrics only")
		outcome.Degraded = true
		if err := p.collectMetrics(ctx, outcome); err != nil {
			return outcome, err
		}
		outcome.Elapsed = p.Now().Sub(start)
		p.Console.Success("Basic metrics collection completed")
		return outcome, nil
	}

	buildResult, err := p.Build(ctx)
	outcome.add(buildResult)
	if err != nil {
		return outcome, err
	}
	if buildResult.Status == phase.Failed {
		if !cfg.AllowBuildFail {
			p.Console.Error("Build failed, stopping the quality check")
			return outcome, fmt.Errorf("%w: %s", ErrBuildFailed, buildResult.Detail)
		}
		p.Console.Warning("Build failed, continuing because allow_build_fail is set")
	}

	for _, run := range []func(context.Context) (phase.Result, error){p.Cppcheck, p.ClangTidy} {
		r, err := run(ctx)
		outcome.add(r)
		if err != nil {
			return outcome, err
		}
	}

	if cfg.RunTests {
		r, err := p.Test(ctx)
		outcome.add(r)
		if err != nil {
			return outcome, err
		}
		if r.Status == phase.Failed {
			p.Console.Error("Unit tests failed, stopping the quality check")
			return outcome, fmt.Errorf("%w: %s", ErrTestFailed, r.Detail)
		}
	} else {
		outcome.add(phase.NewSkipped(phase.Test, p.Console.Sprintf("Disabled")))
	}

	if cfg.RunCoverage {
		r, err := p.Coverage(ctx, probe.Found("lcov"))
		outcome.add(r)
		if err != nil {
			return outcome, err
		}
	} else {
		outcome.add(phase.NewSkipped(phase.Coverage, p.Console.Sprintf("Disabled")))
	}

	if err := p.collectMetrics(ctx, outcome); err != nil {
		return outcome, err
	}

	generatedAt := p.Now()
	reportResult, err := report.Generate(p.Console, report.Options{Dir: p.Config.Path(cfg.ReportDir), HTML: cfg.ReportHTML}, report.Input{
		ProjectName: cfg.ProjectName,
		GeneratedAt: generatedAt,
		WorkDir:     cfg.WorkDir,
		LogDir:      filepath.ToSlash(p.rel(cfg.ReportDir)),
		Results:     outcome.Results,
		Metrics:     outcome.Metrics,
	})
	if err != nil {
		return outcome, err
	}
	outcome.add(reportResult)
	outcome.ReportPath = reportResult.LogPath
	outcome.Elapsed = p.Now().Sub(start)

	summaryPath, err := stats.WriteSummary(p.Config.Path(cfg.ReportDir), generatedAt, stats.Summary{
		RunID:      outcome.RunID,
		StartedAt:  start,
		Elapsed:    outcome.Elapsed.String(),
		Degraded:   outcome.Degraded,
		Results:    outcome.Results,
		Severities: stats.CountSeverities(outcome.Results),
		Metrics:    outcome.Metrics,
	})
	if err != nil {
		glog.Errorf("failed to write run summary: %v", err)
		p.Console.Warning("Failed to write the run summary")
	}
	outcome.SummaryPath = summaryPath

	p.Console.Header("Quality check completed")
	if review := outcome.NeedsReview(); len(review) > 0 {
		p.Console.Warning("Finished in %s, needs review: %s", basic.FormatTimeDuration(outcome.Elapsed), strings.Join(review, ", "))
	} else {
		p.Console.Success("All phases completed successfully (%s)", basic.FormatTimeDuration(outcome.Elapsed))
		p.Console.Success("Ready to commit")
	}
	return outcome, nil
}

func (p *Pipeline) collectMetrics(ctx context.Context, outcome *Outcome) error {
	complexityBin := p.Config.Binary("pmccabe")
	_, lookErr := p.Env.LookPath(complexityBin)
	m, r, err := metrics.Collect(ctx, p.Runner, p.Console, metrics.Options{
		WorkDir:       p.Config.WorkDir,
		SrcDir:        p.rel(p.Config.SrcDir),
		ComplexityBin: complexityBin,
		RunComplexity: lookErr == nil,
		Top:           p.Config.ComplexityTop,
	})
	outcome.add(r)
	if err != nil {
		return err
	}
	outcome.Metrics = &m
	return nil
}

func (p *Pipeline) buildOptions(command string) build.Options {
	return build.Options{Command: command, WorkDir: p.Config.WorkDir, AlreadyBuilt: p.Config.AlreadyBuilt}
}

func (p *Pipeline) Build(ctx context.Context) (phase.Result, error) {
	return build.Build(ctx, p.Runner, p.Console, p.buildOptions(p.Config.BuildCommand))
}

func (p *Pipeline) Test(ctx context.Context) (phase.Result, error) {
	return build.Test(ctx, p.Runner, p.Console, p.buildOptions(p.Config.TestCommand))
}

func (p *Pipeline) Cppcheck(ctx context.Context) (phase.Result, error) {
	return cppcheck.Run(ctx, p.Runner, p.Console, cppcheck.Options{
		Binary:    p.Config.Binary("cppcheck"),
		WorkDir:   p.Config.WorkDir,
		SrcDir:    p.rel(p.Config.SrcDir),
		RulesFile: p.rel(p.Config.RulesFile),
		LogPath:   p.logPath(cppcheck.LogFileName),
	})
}

func (p *Pipeline) ClangTidy(ctx context.Context) (phase.Result, error) {
	extra, err := p.Config.ExtraTidyArgs()
	if err != nil {
		return phase.Result{Name: phase.Tidy, Status: phase.Failed, Detail: err.Error()}, nil
	}
	var includes []string
	for _, dir := range p.Config.ClangTidyIncludeDirs() {
		includes = append(includes, p.rel(dir))
	}
	return clangtidy.Run(ctx, p.Runner, p.Console, clangtidy.Options{
		Binary:      p.Config.Binary("clang-tidy"),
		WorkDir:     p.Config.WorkDir,
		SrcDir:      p.rel(p.Config.SrcDir),
		IncludeDirs: includes,
		Defines:     p.Config.Defines,
		Std:         p.Config.CppStandard,
		Target:      p.Config.Target,
		ExtraArgs:   extra,
		LogPath:     p.logPath(clangtidy.LogFileName),
	})
}

// Coverage runs the coverage phase, with lcov only if useLcov is set.
func (p *Pipeline) Coverage(ctx context.Context, useLcov bool) (phase.Result, error) {
	return coverage.Run(ctx, p.Runner, p.Console, coverage.Options{
		LcovBin:     p.Config.Binary("lcov"),
		GenhtmlBin:  p.Config.Binary("genhtml"),
		GcovBin:     p.Config.Binary("gcov"),
		UseLcov:     useLcov,
		WorkDir:     p.Config.WorkDir,
		BuildDir:    p.rel(p.Config.BuildDir),
		CoverageDir: p.rel(p.Config.CoverageDir),
		Excludes:    p.Config.CoverageExcludes,
	})
}

// HasLcov reports whether lcov can be found in the pipeline environment.
func (p *Pipeline) HasLcov() bool {
	_, err := p.Env.LookPath(p.Config.Binary("lcov"))
	return err == nil
}
