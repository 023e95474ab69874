package changelog

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/ariel-frischer/scriv/internal/config"
)

// titleData is the data passed to the entry title template.
type titleData struct {
	Version string
	Date    time.Time
	Config  *config.Config
}

// RenderTitle executes the configured entry title template.
func RenderTitle(cfg *config.Config, version string, date time.Time) (string, error) {
	tmpl, err := template.New("entry_title_template").Parse(cfg.EntryTitleTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing entry_title_template: %w", err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, titleData{Version: version, Date: date, Config: cfg}); err != nil {
		return "", fmt.Errorf("executing entry_title_template: %w", err)
	}
	return strings.TrimSpace(b.String()), nil
}

// RenderEntry writes e in the configured changelog format.
//
// The function is idempotent: given the same input, it produces identical output.
func RenderEntry(cfg *config.Config, e *Entry, w io.Writer) error {
	if cfg.Format == "md" {
		return renderMarkdown(cfg, e, w)
	}
	return renderRst(cfg, e, w)
}

// RenderEntryString is a convenience function that renders to a string.
func RenderEntryString(cfg *config.Config, e *Entry) (string, error) {
	var b strings.Builder
	if err := RenderEntry(cfg, e, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderRst(cfg *config.Config, e *Entry, w io.Writer) error {
	if e.Title != "" {
		if _, err := fmt.Fprintf(w, "%s\n%s\n", e.Title, underline(e.Title, rstTitleChar(cfg))); err != nil {
			return err
		}
	}

	char := rstSectionChar(cfg)
	return renderSections(e, w, func(category string) string {
		return fmt.Sprintf("%s\n%s\n", category, underline(category, char))
	})
}

func renderMarkdown(cfg *config.Config, e *Entry, w io.Writer) error {
	if e.Title != "" {
		if _, err := fmt.Fprintf(w, "%s %s\n", strings.Repeat("#", mdLevel(cfg)), e.Title); err != nil {
			return err
		}
	}

	prefix := mdSectionPrefix(cfg)
	return renderSections(e, w, func(category string) string {
		return fmt.Sprintf("%s %s\n", prefix, category)
	})
}

// renderSections writes each section separated by blank lines, using header
// to format category headers.
func renderSections(e *Entry, w io.Writer, header func(string) string) error {
	for i, s := range e.Sections {
		if i > 0 || e.Title != "" {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if s.Category != "" {
			if _, err := io.WriteString(w, header(s.Category)+"\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, strings.Join(s.Paragraphs, "\n\n")+"\n"); err != nil {
			return fmt.Errorf("writing section %q: %w", s.Category, err)
		}
	}
	return nil
}
