package changelog

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ariel-frischer/scriv/internal/config"
)

// ParseFile reads and parses one fragment file.
func ParseFile(cfg *config.Config, path string) (*Fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fragment: %w", err)
	}
	return &Fragment{Path: path, Sections: Parse(cfg, string(data))}, nil
}

// Parse splits fragment text into sections using the header style of cfg.
// Commented-out text is dropped, as are sections left without text.
func Parse(cfg *config.Config, text string) []Section {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if cfg.Format == "md" {
		return parseMarkdown(text, mdSectionPrefix(cfg))
	}
	return parseRst(text, rstSectionChar(cfg))
}

var (
	rstComment  = regexp.MustCompile(`^\.\.(\s|$)`)
	htmlComment = regexp.MustCompile(`(?s)<!--.*?-->`)
)

func parseRst(text, underline string) []Section {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if !isRstComment(line) {
			lines = append(lines, line)
		}
	}

	b := &sectionBuilder{}
	for i := 0; i < len(lines); i++ {
		if i+1 < len(lines) && isRstHeader(lines[i], lines[i+1], underline) {
			b.startSection(strings.TrimSpace(lines[i]))
			i++
			continue
		}
		b.addLine(lines[i])
	}
	return b.finish()
}

// isRstComment reports whether line is an rst comment. Directives (".. x::")
// and link targets (".. _x:") are content.
func isRstComment(line string) bool {
	if !rstComment.MatchString(line) {
		return false
	}
	rest := strings.TrimSpace(line[2:])
	return !strings.HasPrefix(rest, "_") && !strings.Contains(rest, "::")
}

// isRstHeader reports whether title followed by under forms a section header.
func isRstHeader(title, under, char string) bool {
	title = strings.TrimRight(title, " \t")
	under = strings.TrimRight(under, " \t")
	if title == "" || under == "" || strings.TrimLeft(title, " \t") != title {
		return false
	}
	return strings.Trim(under, char) == "" && utf8.RuneCountInString(under) >= utf8.RuneCountInString(title)
}

func parseMarkdown(text, prefix string) []Section {
	text = htmlComment.ReplaceAllString(text, "")

	b := &sectionBuilder{}
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, prefix+" ") {
			b.startSection(strings.TrimSpace(strings.TrimPrefix(line, prefix)))
			continue
		}
		b.addLine(line)
	}
	return b.finish()
}

// sectionBuilder accumulates lines into paragraphs and sections.
type sectionBuilder struct {
	sections []Section
	para     []string
}

func (b *sectionBuilder) startSection(category string) {
	b.flush()
	b.sections = append(b.sections, Section{Category: category})
}

func (b *sectionBuilder) addLine(line string) {
	line = strings.TrimRight(line, " \t")
	if line == "" {
		b.flush()
		return
	}
	b.para = append(b.para, line)
}

func (b *sectionBuilder) flush() {
	if len(b.para) == 0 {
		return
	}
	if len(b.sections) == 0 {
		b.sections = append(b.sections, Section{})
	}
	last := &b.sections[len(b.sections)-1]
	last.Paragraphs = append(last.Paragraphs, strings.Join(b.para, "\n"))
	b.para = nil
}

func (b *sectionBuilder) finish() []Section {
	b.flush()
	out := make([]Section, 0, len(b.sections))
	for _, s := range b.sections {
		if len(s.Paragraphs) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Merge combines fragment sections by category. Text outside any category
// comes first, then categories in the configured order, then categories not
// in the configuration in the order they were first seen.
func Merge(fragments []*Fragment, categories []string) []Section {
	byCategory := make(map[string][]string)
	var seen []string
	for _, f := range fragments {
		for _, s := range f.Sections {
			if _, ok := byCategory[s.Category]; !ok {
				seen = append(seen, s.Category)
			}
			byCategory[s.Category] = append(byCategory[s.Category], s.Paragraphs...)
		}
	}

	order := append([]string{""}, categories...)
	order = append(order, seen...)

	var merged []Section
	done := make(map[string]bool, len(order))
	for _, category := range order {
		paragraphs, ok := byCategory[category]
		if !ok || done[category] {
			continue
		}
		done[category] = true
		merged = append(merged, Section{Category: category, Paragraphs: paragraphs})
	}
	return merged
}

// rstTitleChar returns the underline character for entry titles.
func rstTitleChar(cfg *config.Config) string {
	return string([]rune(cfg.RstHeaderChars)[0])
}

// rstSectionChar returns the underline character for category headers.
func rstSectionChar(cfg *config.Config) string {
	return string([]rune(cfg.RstHeaderChars)[1])
}

// mdLevel returns the Markdown heading level of entry titles.
func mdLevel(cfg *config.Config) int {
	level, err := strconv.Atoi(cfg.MdHeaderLevel)
	if err != nil || level < 1 {
		return 1
	}
	return level
}

// mdSectionPrefix returns the heading marker for category headers.
func mdSectionPrefix(cfg *config.Config) string {
	return strings.Repeat("#", mdLevel(cfg)+1)
}

// underline returns char repeated to the width of text.
func underline(text, char string) string {
	return strings.Repeat(char, utf8.RuneCountInString(text))
}
