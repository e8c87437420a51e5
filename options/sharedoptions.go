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

package options

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"naive.systems/qualitycheck/runenv"
)

type ArrayFlags []string

func (i *ArrayFlags) String() string {
	return strings.Join(*i, ",")
}

func (i *ArrayFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}

type SharedOptions struct {
	fs *flag.FlagSet

	AllowBuildFail     *bool
	AlreadyBuilt       *bool
	BuildCommand       *string
	BuildDir           *string
	ClangtidyBin       *string
	ClangTidyExtraArgs *string
	CommandTimeout     *time.Duration
	ComplexityBin      *string
	ComplexityTop      *int
	ConfigFile         *string
	CoverageDir        *string
	CppStandard        *string
	CppcheckBin        *string
	DebugMode          *bool
	Defines            ArrayFlags
	GcovBin            *string
	GenhtmlBin         *string
	IncludeDirs        ArrayFlags
	Lang               *string
	LcovBin            *string
	NoColor            *bool
	PioEnv             *string
	ProjectName        *string
	ReportDir          *string
	ReportHTML         *bool
	RulesFile          *string
	RunCoverage        *bool
	RunTests           *bool
	SrcDir             *string
	StrictTools        *bool
	Target             *string
	TestCommand        *string
	ToolchainDirs      ArrayFlags
	WorkDir            *string
}

// NewSharedOptions registers the quality check flags on fs, normally
// flag.CommandLine so they sit next to the glog flags.
func NewSharedOptions(fs *flag.FlagSet) *SharedOptions {
	d := Default()
	s := &SharedOptions{fs: fs}
	s.AllowBuildFail = fs.Bool("allow_build_fail", d.AllowBuildFail, "Continue the checks when the build fails")
	s.AlreadyBuilt = fs.Bool("already_built", false, "Skip the build, it already ran in this invocation of PlatformIO")
	s.BuildCommand = fs.String("build_command", d.BuildCommand, "Command line that builds the firmware")
	s.BuildDir = fs.String("build_dir", d.BuildDir, "PlatformIO build output searched for coverage data")
	s.ClangtidyBin = fs.String("clangtidy_bin", "", "Path to clang-tidy")
	s.ClangTidyExtraArgs = fs.String("clang_tidy_extra_args", "", "Extra compiler arguments passed to clang-tidy after --")
	s.CommandTimeout = fs.Duration("command_timeout", 0, "Time limit of each external command, 0 means none")
	s.ComplexityBin = fs.String("complexity_bin", "", "Path to pmccabe")
	s.ComplexityTop = fs.Int("complexity_top", d.ComplexityTop, "Number of most complex functions to print")
	s.ConfigFile = fs.String("config", "", "YAML config file, defaults to "+DefaultConfigFile+" if present")
	s.CoverageDir = fs.String("coverage_dir", d.CoverageDir, "Directory of the coverage artifacts")
	s.CppStandard = fs.String("cpp_standard", d.CppStandard, "C++ standard passed to clang-tidy")
	s.CppcheckBin = fs.String("cppcheck_bin", "", "Path to cppcheck")
	s.DebugMode = fs.Bool("debug", false, "Print glog messages to stderr")
	fs.Var(&s.Defines, "define", "Preprocessor define passed to clang-tidy, may be repeated")
	s.GcovBin = fs.String("gcov_bin", "", "Path to gcov")
	s.GenhtmlBin = fs.String("genhtml_bin", "", "Path to genhtml")
	fs.Var(&s.IncludeDirs, "include_dir", "Include dir passed to clang-tidy, may be repeated")
	s.Lang = fs.String("lang", d.Lang, "Language of console messages and report: en or ja")
	s.LcovBin = fs.String("lcov_bin", "", "Path to lcov")
	s.NoColor = fs.Bool("no_color", false, "Disable colored console output")
	s.PioEnv = fs.String("pio_env", d.PioEnv, "PlatformIO environment name")
	s.ProjectName = fs.String("project_name", d.ProjectName, "Project name shown in the report")
	s.ReportDir = fs.String("report_dir", d.ReportDir, "Directory of tool logs and reports")
	s.ReportHTML = fs.Bool("report_html", false, "Also render the report as HTML")
	s.RulesFile = fs.String("rules_file", d.RulesFile, "Cppcheck addon rule file enabling the MISRA-C pass when present")
	s.RunCoverage = fs.Bool("coverage", d.RunCoverage, "Run the coverage phase")
	s.RunTests = fs.Bool("run_tests", false, "Run the unit tests")
	s.SrcDir = fs.String("src_dir", d.SrcDir, "Source directory to analyze")
	s.StrictTools = fs.Bool("strict_tools", false, "Fail instead of collecting metrics only when tools are missing")
	s.Target = fs.String("target", d.Target, "Target triple passed to clang-tidy")
	s.TestCommand = fs.String("test_command", d.TestCommand, "Command line that runs the unit tests")
	fs.Var(&s.ToolchainDirs, "toolchain_dir", "Directory prepended to PATH for the tools, may be repeated")
	s.WorkDir = fs.String("work_dir", "", "Project root, defaults to the current directory")
	return s
}

func (s SharedOptions) GetConfigFile() string {
	return *s.ConfigFile
}

func (s SharedOptions) GetDebugMode() bool {
	return *s.DebugMode
}

func (s SharedOptions) GetWorkDir() string {
	return *s.WorkDir
}

func (s *SharedOptions) SetAlreadyBuilt(v bool) {
	*s.AlreadyBuilt = v
}

// Resolve builds the run configuration: defaults, then the config file,
// then every flag given on the command line.
func (s *SharedOptions) Resolve() (*Config, error) {
	cfg := Default()

	workDir := s.GetWorkDir()
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("os.Getwd: %v", err)
		}
		workDir = wd
	}
	cfg.WorkDir = workDir

	configFile := s.GetConfigFile()
	if configFile == "" {
		candidate := filepath.Join(workDir, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
		}
	}
	if configFile != "" {
		if err := cfg.LoadFile(configFile); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("config file not found: %s", configFile)
			}
			return nil, err
		}
	}

	set := map[string]bool{}
	s.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	s.apply(cfg, set)
	cfg.AlreadyBuilt = *s.AlreadyBuilt

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *SharedOptions) apply(cfg *Config, set map[string]bool) {
	strFlags := map[string]struct {
		dst *string
		src *string
	}{
		"build_command":         {&cfg.BuildCommand, s.BuildCommand},
		"build_dir":             {&cfg.BuildDir, s.BuildDir},
		"clang_tidy_extra_args": {&cfg.ClangTidyExtraArgs, s.ClangTidyExtraArgs},
		"coverage_dir":          {&cfg.CoverageDir, s.CoverageDir},
		"cpp_standard":          {&cfg.CppStandard, s.CppStandard},
		"lang":                  {&cfg.Lang, s.Lang},
		"pio_env":               {&cfg.PioEnv, s.PioEnv},
		"project_name":          {&cfg.ProjectName, s.ProjectName},
		"report_dir":            {&cfg.ReportDir, s.ReportDir},
		"rules_file":            {&cfg.RulesFile, s.RulesFile},
		"src_dir":               {&cfg.SrcDir, s.SrcDir},
		"target":                {&cfg.Target, s.Target},
		"test_command":          {&cfg.TestCommand, s.TestCommand},
	}
	for name, f := range strFlags {
		if set[name] {
			*f.dst = *f.src
		}
	}
	boolFlags := map[string]struct {
		dst *bool
		src *bool
	}{
		"allow_build_fail": {&cfg.AllowBuildFail, s.AllowBuildFail},
		"coverage":         {&cfg.RunCoverage, s.RunCoverage},
		"no_color":         {&cfg.NoColor, s.NoColor},
		"report_html":      {&cfg.ReportHTML, s.ReportHTML},
		"run_tests":        {&cfg.RunTests, s.RunTests},
		"strict_tools":     {&cfg.StrictTools, s.StrictTools},
	}
	for name, f := range boolFlags {
		if set[name] {
			*f.dst = *f.src
		}
	}
	binFlags := map[string]*string{
		"cppcheck_bin":   s.CppcheckBin,
		"clangtidy_bin":  s.ClangtidyBin,
		"gcov_bin":       s.GcovBin,
		"lcov_bin":       s.LcovBin,
		"genhtml_bin":    s.GenhtmlBin,
		"complexity_bin": s.ComplexityBin,
	}
	for name, bin := range binFlags {
		if set[name] {
			if cfg.Binaries == nil {
				cfg.Binaries = map[string]string{}
			}
			cfg.Binaries[BinaryFlagTools[name]] = *bin
		}
	}
	if set["complexity_top"] {
		cfg.ComplexityTop = *s.ComplexityTop
	}
	if set["command_timeout"] {
		cfg.CommandTimeout = s.CommandTimeout.String()
	}
	if len(s.Defines) > 0 {
		cfg.Defines = append([]string(nil), s.Defines...)
	}
	if len(s.IncludeDirs) > 0 {
		cfg.IncludeDirs = append([]string(nil), s.IncludeDirs...)
	}
	if len(s.ToolchainDirs) > 0 {
		cfg.ToolchainDirs = append(cfg.ToolchainDirs, s.ToolchainDirs...)
	}
}

// BinaryFlagTools maps the *_bin flags to logical tool names.
var BinaryFlagTools = map[string]string{
	"cppcheck_bin":   "cppcheck",
	"clangtidy_bin":  "clang-tidy",
	"gcov_bin":       "gcov",
	"lcov_bin":       "lcov",
	"genhtml_bin":    "genhtml",
	"complexity_bin": "pmccabe",
}

// Env builds the execution environment of the run's tools.
func (c *Config) Env() *runenv.Env {
	return runenv.FromOS(c.ToolchainDirs)
}
