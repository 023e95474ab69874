package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"gopkg.in/ini.v1"
)

// Source is the configuration section found by the Locator.
type Source struct {
	// Path is the file the section was read from.
	Path string
	// Section is the section name that matched (e.g., "scriv" or "tool.scriv").
	Section string
	// Values holds the raw values of the section, keyed by config key.
	// INI values are strings; pyproject.toml values keep their TOML types.
	Values map[string]interface{}
}

// Locator finds the configuration section to use for one invocation.
type Locator struct {
	// Root is the working directory candidates are looked up in.
	Root string
}

// Locate returns the first candidate file with a recognized section, or nil
// when no candidate has one. fragmentDir is the fragment directory when it is
// already known from a higher-precedence layer; when empty, the directory is
// taken from the working-directory candidate or the default.
func (l *Locator) Locate(fragmentDir string) (*Source, error) {
	wdSource, err := l.locateWorkingDir()
	if err != nil {
		return nil, err
	}

	if fragmentDir == "" {
		fragmentDir, err = l.fragmentDirFrom(wdSource)
		if err != nil {
			return nil, err
		}
	}

	settings := SettingsFilePath(fragmentDir)
	dirSource, err := l.readINI(settings)
	if err != nil {
		return nil, err
	}
	if dirSource != nil {
		if _, ok := dirSource.Values["fragment_directory"]; !ok {
			dirSource.Values["fragment_directory"] = fragmentDir
		}
		return dirSource, nil
	}

	return wdSource, nil
}

// locateWorkingDir probes the working-directory candidates in order.
func (l *Locator) locateWorkingDir() (*Source, error) {
	for _, c := range workingDirCandidates {
		var (
			src *Source
			err error
		)
		switch c.kind {
		case kindTOML:
			src, err = l.readTOML(c.name)
		default:
			src, err = l.readINI(c.name)
		}
		if err != nil {
			return nil, err
		}
		if src != nil {
			return src, nil
		}
	}
	return nil, nil
}

// fragmentDirFrom returns the fragment directory configured by src, or the default.
func (l *Locator) fragmentDirFrom(src *Source) (string, error) {
	if src == nil {
		return DefaultFragmentDirectory, nil
	}
	raw, ok := src.Values["fragment_directory"].(string)
	if !ok || raw == "" {
		return DefaultFragmentDirectory, nil
	}
	return ResolveValue(raw, l.Root, "")
}

// readFile returns the contents of name, or nil when it does not exist.
func (l *Locator) readFile(name string) ([]byte, error) {
	path := resolvePath(l.Root, name)
	data, err := file.Provider(path).ReadBytes()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("config candidate not found", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// readINI parses name and returns its first recognized section.
func (l *Locator) readINI(name string) (*Source, error) {
	data, err := l.readFile(name)
	if err != nil || data == nil {
		return nil, err
	}

	f, err := ini.LoadSources(ini.LoadOptions{
		AllowPythonMultilineValues: true,
		IgnoreInlineComment:        true,
		InsensitiveKeys:            true,
		PreserveSurroundedQuote:    true,
	}, normalizeINI(data))
	if err != nil {
		return nil, &ParseError{Path: name, Err: err}
	}

	for _, alias := range sectionAliases {
		sec, err := f.GetSection(alias)
		if err != nil {
			continue
		}
		values := make(map[string]interface{}, len(sec.Keys()))
		for _, key := range sec.Keys() {
			values[key.Name()] = key.Value()
		}
		slog.Debug("config section found", "path", name, "section", alias, "keys", len(values))
		return &Source{Path: name, Section: alias, Values: values}, nil
	}

	slog.Debug("config candidate has no scriv section", "path", name)
	return nil, nil
}

// normalizeINI rewrites multi-line values into the shape ini.v1 accepts.
// Full-line comments inside a value are dropped and blank lines that are
// followed by more of the value become whitespace-only continuation lines,
// matching how configparser reads them.
func normalizeINI(data []byte) []byte {
	lines := strings.Split(string(data), "\n")
	out := make([]string, 0, len(lines))
	inValue := false
	blanks := 0

	flush := func(fill string) {
		for ; blanks > 0; blanks-- {
			out = append(out, fill)
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			if inValue {
				blanks++
				continue
			}
		case trimmed[0] == '#' || trimmed[0] == ';':
			if inValue {
				continue
			}
		case line[0] == ' ' || line[0] == '\t':
			if inValue {
				flush(" ")
			}
		default:
			// A key or section header ends the previous value.
			flush("")
			inValue = !strings.HasPrefix(trimmed, "[")
		}
		out = append(out, line)
	}
	flush("")
	return []byte(strings.Join(out, "\n"))
}

// readTOML parses a pyproject.toml and returns its [tool.scriv] table.
func (l *Locator) readTOML(name string) (*Source, error) {
	data, err := l.readFile(name)
	if err != nil || data == nil {
		return nil, err
	}

	doc, err := toml.Parser().Unmarshal(data)
	if err != nil {
		return nil, &ParseError{Path: name, Err: err}
	}

	tool, _ := doc["tool"].(map[string]interface{})
	section, ok := tool["scriv"].(map[string]interface{})
	if !ok {
		slog.Debug("config candidate has no scriv section", "path", name)
		return nil, nil
	}
	slog.Debug("config section found", "path", name, "section", "tool.scriv", "keys", len(section))
	return &Source{Path: name, Section: "tool.scriv", Values: section}, nil
}
