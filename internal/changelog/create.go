package changelog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"text/template"
	"time"

	"github.com/ariel-frischer/scriv/internal/config"
)

// ErrFragmentDirMissing is returned when the fragment directory does not exist.
var ErrFragmentDirMissing = errors.New("fragment directory does not exist")

// CreateOptions controls fragment creation.
type CreateOptions struct {
	Dir    string    // working directory; relative config paths start here
	Now    time.Time // timestamp used in the file name
	User   string    // author, usually from git config
	Branch string    // current branch; omitted from the name if it is a main branch
}

// newFragmentData is the data passed to the new fragment template.
type newFragmentData struct {
	Categories    []string
	SectionChar   string
	SectionPrefix string
	Config        *config.Config
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FragmentName returns the file name for a new fragment:
// YYYYMMDD_HHMMSS_<user>[_<branch>].<format>.
func FragmentName(cfg *config.Config, opts CreateOptions) string {
	parts := []string{opts.Now.Format("20060102_150405")}
	if user := sanitizeNamePart(opts.User); user != "" {
		parts = append(parts, user)
	}
	if opts.Branch != "" && !slices.Contains(cfg.MainBranches, opts.Branch) {
		if branch := sanitizeNamePart(opts.Branch); branch != "" {
			parts = append(parts, branch)
		}
	}
	return strings.Join(parts, "_") + "." + cfg.Format
}

func sanitizeNamePart(s string) string {
	return strings.Trim(unsafeNameChars.ReplaceAllString(s, "_"), "_.")
}

// RenderNewFragment executes the new fragment template.
func RenderNewFragment(cfg *config.Config) (string, error) {
	tmpl, err := template.New("new_fragment_template").
		Funcs(template.FuncMap{"underline": underline}).
		Parse(cfg.NewFragmentTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing new_fragment_template: %w", err)
	}

	data := newFragmentData{
		Categories:    cfg.Categories,
		SectionChar:   rstSectionChar(cfg),
		SectionPrefix: mdSectionPrefix(cfg),
		Config:        cfg,
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("executing new_fragment_template: %w", err)
	}
	return b.String(), nil
}

// Create writes a new fragment file into the fragment directory and returns
// its path relative to opts.Dir. An existing file is never overwritten.
func Create(cfg *config.Config, opts CreateOptions) (string, error) {
	fragDir := joinRoot(opts.Dir, cfg.FragmentDirectory)
	if err := requireDir(fragDir); err != nil {
		return "", err
	}

	content, err := RenderNewFragment(cfg)
	if err != nil {
		return "", err
	}

	name := FragmentName(cfg, opts)
	rel := filepath.Join(cfg.FragmentDirectory, name)
	f, err := os.OpenFile(filepath.Join(fragDir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("fragment %s already exists", rel)
		}
		return "", fmt.Errorf("creating fragment: %w", err)
	}
	err = writeFragmentFunc(f, content)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("writing fragment: %w", err)
	}
	slog.Debug("created fragment", "path", rel)
	return rel, nil
}

// writeFragmentFunc writes fragment content. Tests replace it to simulate
// a failed write.
var writeFragmentFunc = func(w io.Writer, content string) error {
	_, err := io.WriteString(w, content)
	return err
}

// requireDir returns ErrFragmentDirMissing unless dir is an existing directory.
func requireDir(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		return fmt.Errorf("%w: %s", ErrFragmentDirMissing, dir)
	}
	if err != nil {
		return fmt.Errorf("checking fragment directory: %w", err)
	}
	return nil
}

// joinRoot joins p onto root unless p is absolute.
func joinRoot(root, p string) string {
	if filepath.IsAbs(p) || root == "" {
		return p
	}
	return filepath.Join(root, p)
}
