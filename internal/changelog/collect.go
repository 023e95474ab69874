package changelog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ariel-frischer/scriv/internal/config"
)

// ErrNoFragments is returned by Collect when there is nothing to collect.
var ErrNoFragments = errors.New("no changelog fragments to collect")

// CollectOptions controls a collect run.
type CollectOptions struct {
	Dir     string    // working directory; relative config paths start here
	Date    time.Time // date passed to the entry title template
	Version string    // overrides the configured version when set
	Keep    bool      // keep fragment files after collecting
	DryRun  bool      // render only; write and delete nothing
}

// CollectResult describes a collect run.
type CollectResult struct {
	Entry      *Entry
	Text       string   // rendered entry
	Fragments  []string // fragment paths relative to the working directory
	OutputFile string
}

// FindFragments lists fragment files in sorted order, relative to dir.
// Files matching skip_fragments are ignored.
func FindFragments(cfg *config.Config, dir string) ([]string, error) {
	fragDir := joinRoot(dir, cfg.FragmentDirectory)
	if err := requireDir(fragDir); err != nil {
		return nil, err
	}

	names, err := doublestar.Glob(os.DirFS(fragDir), "*."+cfg.Format, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("listing fragments: %w", err)
	}

	var paths []string
	for _, name := range names {
		if cfg.SkipFragments != "" {
			skip, err := doublestar.Match(cfg.SkipFragments, name)
			if err != nil {
				return nil, fmt.Errorf("matching skip_fragments %q: %w", cfg.SkipFragments, err)
			}
			if skip {
				slog.Debug("skipping fragment", "name", name)
				continue
			}
		}
		paths = append(paths, filepath.Join(cfg.FragmentDirectory, name))
	}
	sort.Strings(paths)
	return paths, nil
}

// Collect merges all fragments into one entry and inserts it into the
// changelog. Fragment files are deleted afterwards unless opts.Keep is set.
func Collect(cfg *config.Config, opts CollectOptions) (*CollectResult, error) {
	paths, err := FindFragments(cfg, opts.Dir)
	if err != nil {
		return nil, err
	}

	fragments := make([]*Fragment, 0, len(paths))
	for _, p := range paths {
		f, err := ParseFile(cfg, joinRoot(opts.Dir, p))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		f.Path = p
		fragments = append(fragments, f)
	}

	entry := &Entry{Sections: Merge(fragments, cfg.Categories)}
	if entry.IsEmpty() {
		return nil, ErrNoFragments
	}

	version := cfg.Version
	if opts.Version != "" {
		version = opts.Version
	}
	date := opts.Date
	if date.IsZero() {
		date = time.Now()
	}
	if entry.Title, err = RenderTitle(cfg, version, date); err != nil {
		return nil, err
	}

	text, err := RenderEntryString(cfg, entry)
	if err != nil {
		return nil, fmt.Errorf("rendering entry: %w", err)
	}

	result := &CollectResult{
		Entry:      entry,
		Text:       text,
		Fragments:  paths,
		OutputFile: cfg.OutputFile,
	}
	if opts.DryRun {
		return result, nil
	}

	if err := InsertIntoFile(joinRoot(opts.Dir, cfg.OutputFile), text, cfg.InsertMarker); err != nil {
		return nil, err
	}
	slog.Info("collected fragments", "count", len(paths), "output", cfg.OutputFile)

	if !opts.Keep {
		if err := removeFragments(opts.Dir, paths); err != nil {
			return result, err
		}
	}
	return result, nil
}

func removeFragments(dir string, paths []string) error {
	for _, p := range paths {
		if err := os.Remove(joinRoot(dir, p)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing fragment: %w", err)
		}
		slog.Debug("removed fragment", "path", p)
	}
	return nil
}
