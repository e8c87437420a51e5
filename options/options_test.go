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
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func resolve(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	fs := flag.NewFlagSet("quality_check", flag.ContinueOnError)
	s := NewSharedOptions(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("fs.Parse: %v", err)
	}
	return s.Resolve()
}

func TestResolveDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := resolve(t, "-work_dir", dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.WorkDir != dir || cfg.SrcDir != "src" || cfg.ReportDir != "logs" || cfg.BuildCommand != "platformio run" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	expectedIncludes := []string{"src", filepath.Join(".pio", "libdeps", "esp32-2432S028R", "TFT_eSPI")}
	if diff := cmp.Diff(expectedIncludes, cfg.ClangTidyIncludeDirs()); diff != "" {
		t.Errorf("unexpected include dirs (-want +got):\n%s", diff)
	}
	if cfg.AlreadyBuilt || cfg.RunTests || !cfg.RunCoverage {
		t.Errorf("unexpected phase switches: %+v", cfg)
	}
}

func TestResolveConfigFileThenFlags(t *testing.T) {
	dir := t.TempDir()
	contents := `
src_dir: firmware
pio_env: esp32dev
lang: ja
coverage: false
defines: [ESP32, DEBUG=1]
binaries:
  clang-tidy: clang-tidy-17
clang_tidy_extra_args: "-Wall '-DNAME=\"x y\"'"
`
	if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := resolve(t, "-work_dir", dir, "-lang", "en", "-cppcheck_bin", "/opt/cppcheck", "-already_built", "-command_timeout", "90s")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.SrcDir != "firmware" || cfg.PioEnv != "esp32dev" {
		t.Errorf("config file not applied: %+v", cfg)
	}
	if cfg.Lang != "en" {
		t.Errorf("flag should override file, got lang %q", cfg.Lang)
	}
	if cfg.RunCoverage {
		t.Errorf("coverage should be disabled by the config file")
	}
	if diff := cmp.Diff([]string{"ESP32", "DEBUG=1"}, cfg.Defines); diff != "" {
		t.Errorf("unexpected defines (-want +got):\n%s", diff)
	}
	if cfg.Binary("clang-tidy") != "clang-tidy-17" || cfg.Binary("cppcheck") != "/opt/cppcheck" || cfg.Binary("gcov") != "gcov" {
		t.Errorf("unexpected binaries: %v", cfg.Binaries)
	}
	if !cfg.AlreadyBuilt {
		t.Errorf("already_built not applied")
	}
	if d, _ := cfg.Timeout(); d != 90*time.Second {
		t.Errorf("unexpected timeout %v", d)
	}
	args, err := cfg.ExtraTidyArgs()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"-Wall", `-DNAME="x y"`}, args); diff != "" {
		t.Errorf("unexpected extra args (-want +got):\n%s", diff)
	}
	expectedIncludes := []string{"firmware", filepath.Join(".pio", "libdeps", "esp32dev", "TFT_eSPI")}
	if diff := cmp.Diff(expectedIncludes, cfg.ClangTidyIncludeDirs()); diff != "" {
		t.Errorf("unexpected include dirs (-want +got):\n%s", diff)
	}
}

func TestResolveErrors(t *testing.T) {
	dir := t.TempDir()
	for _, testCase := range [...]struct {
		name string
		args []string
	}{
		{name: "missing config file", args: []string{"-config", filepath.Join(dir, "nope.yaml")}},
		{name: "unsupported language", args: []string{"-lang", "fr"}},
		{name: "empty src dir", args: []string{"-src_dir", ""}},
		{name: "negative top", args: []string{"-complexity_top", "-1"}},
		{name: "tests without command", args: []string{"-run_tests", "-test_command", ""}},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			if _, err := resolve(t, append([]string{"-work_dir", dir}, testCase.args...)...); err == nil {
				t.Errorf("expected an error for %v", testCase.args)
			}
		})
	}
}

func TestUnknownConfigKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("srcdir: x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := resolve(t, "-work_dir", dir, "-config", path); err == nil {
		t.Errorf("misspelled key should be rejected")
	}
}

func TestToolchainDirsAreAppended(t *testing.T) {
	cfg, err := resolve(t, "-work_dir", t.TempDir(), "-toolchain_dir", "/opt/llvm/bin")
	if err != nil {
		t.Fatal(err)
	}
	env := cfg.Env()
	list := env.PathList()
	found := map[string]bool{}
	for _, d := range list {
		found[d] = true
	}
	if !found["/opt/llvm/bin"] || !found["/opt/homebrew/opt/llvm/bin"] {
		t.Errorf("toolchain dirs missing from PATH: %v", list)
	}
}
