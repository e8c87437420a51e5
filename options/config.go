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
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/glog"
	"github.com/google/shlex"
	"gopkg.in/yaml.v2"
	"naive.systems/qualitycheck/i18n"
	"naive.systems/qualitycheck/runenv"
)

// DefaultConfigFile is read from the working directory when -config is not
// given and the file exists.
const DefaultConfigFile = "quality_check.yaml"

// Config is the resolved configuration of one run. Relative paths are
// relative to WorkDir, which is also the working directory of every tool.
type Config struct {
	WorkDir     string `yaml:"-"`
	SrcDir      string `yaml:"src_dir"`
	ReportDir   string `yaml:"report_dir"`
	CoverageDir string `yaml:"coverage_dir"`
	BuildDir    string `yaml:"build_dir"`
	RulesFile   string `yaml:"rules_file"`
	PioEnv      string `yaml:"pio_env"`
	ProjectName string `yaml:"project_name"`

	BuildCommand string `yaml:"build_command"`
	TestCommand  string `yaml:"test_command"`

	ToolchainDirs      []string          `yaml:"toolchain_dirs"`
	Binaries           map[string]string `yaml:"binaries"`
	IncludeDirs        []string          `yaml:"include_dirs"`
	Defines            []string          `yaml:"defines"`
	CppStandard        string            `yaml:"cpp_standard"`
	Target             string            `yaml:"target"`
	ClangTidyExtraArgs string            `yaml:"clang_tidy_extra_args"`
	CoverageExcludes   []string          `yaml:"coverage_excludes"`
	ComplexityTop      int               `yaml:"complexity_top"`

	Lang           string `yaml:"lang"`
	CommandTimeout string `yaml:"command_timeout"`

	RunTests       bool `yaml:"run_tests"`
	RunCoverage    bool `yaml:"coverage"`
	ReportHTML     bool `yaml:"report_html"`
	AllowBuildFail bool `yaml:"allow_build_fail"`
	StrictTools    bool `yaml:"strict_tools"`
	NoColor        bool `yaml:"no_color"`

	// AlreadyBuilt is set by the launcher running inside a PlatformIO build.
	AlreadyBuilt bool `yaml:"-"`
}

// Default returns the settings for the ESP32-2432S028R board project.
func Default() *Config {
	return &Config{
		WorkDir:          ".",
		SrcDir:           "src",
		ReportDir:        "logs",
		CoverageDir:      "coverage",
		BuildDir:         ".pio/build",
		RulesFile:        "misra.json",
		PioEnv:           "esp32-2432S028R",
		ProjectName:      "ESP32-2432S028R Event-Driven Architecture",
		BuildCommand:     "platformio run",
		TestCommand:      "platformio test",
		ToolchainDirs:    append([]string(nil), runenv.DefaultToolchainDirs...),
		Binaries:         map[string]string{},
		Defines:          []string{"ARDUINO=10607", "ESP32"},
		CppStandard:      "c++17",
		Target:           "xtensa-esp32-elf",
		CoverageExcludes: []string{"/usr/*", "*/test/*", "*/lib/*"},
		ComplexityTop:    10,
		Lang:             "en",
		RunCoverage:      true,
	}
}

// LoadFile merges the YAML file at path into c. Keys absent from the file
// keep their current values.
func (c *Config) LoadFile(path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.UnmarshalStrict(contents, c); err != nil {
		return fmt.Errorf("yaml.Unmarshal %s: %v", path, err)
	}
	glog.Infof("loaded config file %s", path)
	return nil
}

// Path resolves a configured path against WorkDir.
func (c *Config) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.WorkDir, rel)
}

// Binary returns the configured binary for a logical tool name.
func (c *Config) Binary(name string) string {
	if bin, ok := c.Binaries[name]; ok && bin != "" {
		return bin
	}
	return name
}

// ClangTidyIncludeDirs defaults to the source dir and the TFT_eSPI library of
// the PlatformIO env.
func (c *Config) ClangTidyIncludeDirs() []string {
	if len(c.IncludeDirs) > 0 {
		return c.IncludeDirs
	}
	return []string{c.SrcDir, filepath.Join(".pio", "libdeps", c.PioEnv, "TFT_eSPI")}
}

func (c *Config) ExtraTidyArgs() ([]string, error) {
	if c.ClangTidyExtraArgs == "" {
		return nil, nil
	}
	args, err := shlex.Split(c.ClangTidyExtraArgs)
	if err != nil {
		return nil, fmt.Errorf("shlex.Split %q: %v", c.ClangTidyExtraArgs, err)
	}
	return args, nil
}

func (c *Config) Timeout() (time.Duration, error) {
	if c.CommandTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.CommandTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid command timeout %q: %v", c.CommandTimeout, err)
	}
	return d, nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.SrcDir == "" {
		return errors.New("src dir must not be empty")
	}
	if c.ReportDir == "" {
		return errors.New("report dir must not be empty")
	}
	if c.CoverageDir == "" {
		return errors.New("coverage dir must not be empty")
	}
	if c.BuildCommand == "" && !c.AlreadyBuilt {
		return errors.New("build command must not be empty")
	}
	if c.RunTests && c.TestCommand == "" {
		return errors.New("test command must not be empty when tests are enabled")
	}
	if c.ComplexityTop < 0 {
		return fmt.Errorf("invalid complexity top %d", c.ComplexityTop)
	}
	if !i18n.Supported(c.Lang) {
		return fmt.Errorf("unsupported language: %v", c.Lang)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if _, err := c.ExtraTidyArgs(); err != nil {
		return err
	}
	return nil
}
