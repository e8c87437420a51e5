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

/*
This package should not import any phase packages to avoid recursive
import.
*/
package basic

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/golang/glog"
	"golang.org/x/text/message"
)

// Console prints the user facing progress of a run as "[HH:MM:SS] message"
// lines and mirrors every line into glog.
type Console struct {
	out     io.Writer
	printer *message.Printer
	now     func() time.Time

	header  *color.Color
	success *color.Color
	warning *color.Color
	failure *color.Color
}

// NewConsole colors the output only when out is the terminal stdout.
func NewConsole(out io.Writer, printer *message.Printer, noColor bool) *Console {
	c := &Console{
		out:     out,
		printer: printer,
		now:     time.Now,
		header:  color.New(color.FgBlue),
		success: color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed),
	}
	useColor := !noColor && out == os.Stdout && !color.NoColor
	for _, col := range []*color.Color{c.header, c.success, c.warning, c.failure} {
		if useColor {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

func (c *Console) Printer() *message.Printer {
	return c.printer
}

// Sprintf localizes format with the console's printer.
func (c *Console) Sprintf(format string, args ...any) string {
	return c.printer.Sprintf(format, args...)
}

func (c *Console) line(col *color.Color, text string) {
	stamped := fmt.Sprintf("[%s] %s", c.now().Format("15:04:05"), text)
	if col != nil {
		stamped = col.Sprint(stamped)
	}
	fmt.Fprintln(c.out, stamped)
}

func (c *Console) Log(format string, args ...any) {
	msg := c.printer.Sprintf(format, args...)
	c.line(nil, msg)
	glog.Info(msg)
}

func (c *Console) Header(format string, args ...any) {
	msg := c.printer.Sprintf(format, args...)
	c.line(c.header, "\n=== "+msg+" ===")
	glog.Info("=== ", msg, " ===")
}

func (c *Console) Success(format string, args ...any) {
	msg := c.printer.Sprintf(format, args...)
	c.line(c.success, "✓ "+msg)
	glog.Info(msg)
}

func (c *Console) Warning(format string, args ...any) {
	msg := c.printer.Sprintf(format, args...)
	c.line(c.warning, "⚠ "+msg)
	glog.Warning(msg)
}

func (c *Console) Error(format string, args ...any) {
	msg := c.printer.Sprintf(format, args...)
	c.line(c.failure, "✗ "+msg)
	glog.Error(msg)
}

func FormatTimeDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
