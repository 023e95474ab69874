package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// CategoryStyle defines the color and icon for a changelog category.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

// categoryStyles maps lower-cased category names to their terminal styling.
var categoryStyles = map[string]CategoryStyle{
	"added":      {Color: color.New(color.FgGreen), Icon: "✓"},
	"changed":    {Color: color.New(color.FgBlue), Icon: "~"},
	"deprecated": {Color: color.New(color.FgRed), Icon: "⚠"},
	"removed":    {Color: color.New(color.FgRed), Icon: "✗"},
	"fixed":      {Color: color.New(color.FgYellow), Icon: "⚡"},
	"security":   {Color: color.New(color.FgMagenta), Icon: "🔒"},
}

var defaultStyle = CategoryStyle{Color: color.New(color.FgCyan), Icon: "•"}

// styleFor returns the styling of a category, falling back to defaultStyle
// for categories outside the common set.
func styleFor(category string) CategoryStyle {
	if style, ok := categoryStyles[strings.ToLower(category)]; ok {
		return style
	}
	return defaultStyle
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatTerminal writes an entry to w with terminal styling.
// Categories get color-coded headers; single-line paragraphs are wrapped.
func FormatTerminal(e *Entry, w io.Writer, opts FormatOptions) error {
	if e == nil || e.IsEmpty() {
		return nil
	}

	width := resolveWidth(opts.MaxWidth)

	if err := writeTitle(e.Title, w, opts); err != nil {
		return fmt.Errorf("writing title: %w", err)
	}

	for _, s := range e.Sections {
		if err := writeSection(s, w, opts, width); err != nil {
			return fmt.Errorf("formatting %q: %w", s.Category, err)
		}
	}
	return nil
}

// writeTitle writes the entry title line.
func writeTitle(title string, w io.Writer, opts FormatOptions) error {
	if title == "" {
		return nil
	}
	if opts.Plain {
		_, err := fmt.Fprintf(w, "# %s\n", title)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "# %s\n", bold(title))
	return err
}

// writeSection writes a single category with its paragraphs.
func writeSection(s Section, w io.Writer, opts FormatOptions, width int) error {
	style := styleFor(s.Category)

	if s.Category != "" {
		if err := writeCategoryHeader(s.Category, style, w, opts); err != nil {
			return err
		}
	} else if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	for _, p := range s.Paragraphs {
		if err := writeParagraph(p, style, w, opts, width); err != nil {
			return err
		}
	}
	return nil
}

// writeCategoryHeader writes the category header line.
func writeCategoryHeader(category string, style CategoryStyle, w io.Writer, opts FormatOptions) error {
	if opts.Plain {
		_, err := fmt.Fprintf(w, "\n## %s\n", category)
		return err
	}

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "\n%s %s\n", colored(style.Icon), colored(category))
	return err
}

// writeParagraph writes one paragraph indented under its category.
func writeParagraph(text string, style CategoryStyle, w io.Writer, opts FormatOptions, width int) error {
	const indent = "  "

	if !strings.Contains(text, "\n") {
		text = wrapText(text, width-len(indent), indent)
	} else {
		text = strings.ReplaceAll(text, "\n", "\n"+indent)
	}

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s\n", indent, text)
		return err
	}

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "%s%s\n", indent, colored(text))
	return err
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		// Find the last space within maxWidth
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}

// FormatSummary returns a brief one-line summary of an entry.
func FormatSummary(e *Entry, opts FormatOptions) string {
	summary := fmt.Sprintf("%d paragraph(s)", e.Count())
	if cats := e.Categories(); len(cats) > 0 {
		summary += " in " + strings.Join(cats, ", ")
	}
	summary = truncateText(summary, 72)

	if e.Title == "" {
		return summary
	}
	if opts.Plain {
		return e.Title + ": " + summary
	}

	bold := color.New(color.Bold).SprintFunc()
	return fmt.Sprintf("%s: %s", bold(e.Title), summary)
}

// truncateText truncates text to maxLen, adding ellipsis if needed.
func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen-3] + "..."
}
