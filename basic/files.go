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

package basic

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GlobSources lists the files directly inside dir with one of the given
// extensions (without the dot). Sub-directories are not searched. A missing
// dir yields no files.
func GlobSources(dir string, exts ...string) ([]string, error) {
	if len(exts) == 0 {
		return nil, nil
	}
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	pattern := "*." + exts[0]
	if len(exts) > 1 {
		pattern = "*.{" + strings.Join(exts, ",") + "}"
	}
	matches, err := doublestar.Glob(os.DirFS(dir), pattern)
	if err != nil {
		return nil, fmt.Errorf("doublestar.Glob %s: %v", pattern, err)
	}
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		path := filepath.Join(dir, filepath.FromSlash(m))
		if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// FindRecursive lists the files under root matching a doublestar pattern
// such as "**/*.gcda".
func FindRecursive(root, pattern string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}
	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("doublestar.Glob %s: %v", pattern, err)
	}
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		files = append(files, filepath.Join(root, filepath.FromSlash(m)))
	}
	sort.Strings(files)
	return files, nil
}

// CountLines counts newline delimited records: a last line without a
// trailing newline still counts, an empty input has none.
func CountLines(r io.Reader) (int, error) {
	buf := make([]byte, 32*1024)
	lines := 0
	var last byte
	seen := false
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			if b == '\n' {
				lines++
			}
		}
		if n > 0 {
			last = buf[n-1]
			seen = true
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return lines, err
		}
	}
	if seen && last != '\n' {
		lines++
	}
	return lines, nil
}

func CountFileLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return CountLines(f)
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
