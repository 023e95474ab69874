// Package output provides terminal output formatting utilities for the scriv CLI.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintSuccess prints a green check mark followed by message, with path in cyan.
func PrintSuccess(out io.Writer, message, path string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%s %s %s\n", green("✓"), message, cyan(path))
}

// PrintFileList prints paths as an indented, dimmed list under a label.
func PrintFileList(out io.Writer, label string, paths []string) {
	if len(paths) == 0 {
		return
	}
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s\n", label)
	for _, p := range paths {
		fmt.Fprintf(out, "  %s\n", dim(p))
	}
}

// PrintRule prints a dim horizontal rule with a centered label, sized to the terminal.
func PrintRule(out io.Writer, label string) {
	magenta := color.New(color.FgMagenta, color.Faint).SprintFunc()

	label = " " + label + " "
	lineLen := (GetTerminalWidth() - len(label)) / 2
	if lineLen < 3 {
		lineLen = 3
	}

	line := strings.Repeat("─", lineLen)
	fmt.Fprintf(out, "%s%s%s\n", magenta(line), magenta(label), magenta(line))
}
