package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ValueKind identifies how a raw configuration value is resolved.
type ValueKind int

const (
	// Direct values are used as written.
	Direct ValueKind = iota
	// FromFile values are replaced by the contents of a file.
	FromFile
	// FromLiteral values are replaced by a literal assigned in a source file.
	FromLiteral
)

const (
	filePrefix    = "file:"
	literalPrefix = "literal:"
)

// Value is a parsed configuration value.
type Value struct {
	Kind ValueKind
	Text string // Direct only
	Path string // FromFile and FromLiteral
	Name string // FromLiteral only
}

var literalRefPattern = regexp.MustCompile(`^literal:\s*(.+?):\s*(\S+)\s*$`)

// ParseValue classifies a raw configuration value.
func ParseValue(raw string) (Value, error) {
	switch {
	case strings.HasPrefix(raw, filePrefix):
		path := strings.TrimSpace(strings.TrimPrefix(raw, filePrefix))
		if path == "" {
			return Value{}, fmt.Errorf("empty path in %q", raw)
		}
		return Value{Kind: FromFile, Path: path}, nil
	case strings.HasPrefix(raw, literalPrefix):
		m := literalRefPattern.FindStringSubmatch(raw)
		if m == nil {
			return Value{}, fmt.Errorf("malformed literal reference %q, want 'literal: <path>: <name>'", raw)
		}
		return Value{Kind: FromLiteral, Path: strings.TrimSpace(m[1]), Name: m[2]}, nil
	default:
		return Value{Kind: Direct, Text: raw}, nil
	}
}

// Resolve returns the final text of v. root is the working directory that
// relative paths start from; file: paths are looked up in fragmentDir first.
func (v Value) Resolve(root, fragmentDir string) (string, error) {
	switch v.Kind {
	case FromFile:
		return readIndirectFile(root, fragmentDir, v.Path)
	case FromLiteral:
		return findLiteral(resolvePath(root, v.Path), v.Path, v.Name)
	default:
		return v.Text, nil
	}
}

// ResolveValue parses and resolves a raw value in one step.
func ResolveValue(raw, root, fragmentDir string) (string, error) {
	v, err := ParseValue(raw)
	if err != nil {
		return "", err
	}
	return v.Resolve(root, fragmentDir)
}

func readIndirectFile(root, fragmentDir, path string) (string, error) {
	var candidates []string
	if fragmentDir != "" {
		candidates = append(candidates, resolvePath(root, resolvePath(fragmentDir, path)))
	}
	candidates = append(candidates, resolvePath(root, path))

	for _, p := range candidates {
		data, err := os.ReadFile(p)
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("reading %s: %w", p, err)
		}
	}
	return "", &NotFoundError{Path: path}
}

var (
	doubleQuoted = regexp.MustCompile(`^"((?:[^"\\]|\\.)*)"`)
	singleQuoted = regexp.MustCompile(`^'((?:[^'\\]|\\.)*)'`)
	backQuoted   = regexp.MustCompile("^`([^`]*)`")
	bareToken    = regexp.MustCompile(`^[^\s#;,]+`)
)

// findLiteral scans file for the first assignment to name. Assignments look
// like `name = "value"`, optionally preceded by const or var.
func findLiteral(file, displayPath, name string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &NotFoundError{Path: displayPath}
		}
		return "", fmt.Errorf("opening %s: %w", file, err)
	}
	defer f.Close()

	assign := regexp.MustCompile(`^\s*(?:(?:const|var)\s+)?` + regexp.QuoteMeta(name) + `\s*=\s*([^=].*?)\s*$`)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m := assign.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		if value, ok := parseLiteral(m[1]); ok {
			return value, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading %s: %w", file, err)
	}
	return "", &LiteralNotFoundError{Path: displayPath, Name: name}
}

// parseLiteral extracts a quoted string or bare token from the right-hand
// side of an assignment.
func parseLiteral(s string) (string, bool) {
	if m := doubleQuoted.FindStringSubmatch(s); m != nil {
		if v, err := strconv.Unquote(`"` + m[1] + `"`); err == nil {
			return v, true
		}
		return m[1], true
	}
	if m := singleQuoted.FindStringSubmatch(s); m != nil {
		return strings.ReplaceAll(m[1], `\'`, `'`), true
	}
	if m := backQuoted.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	if tok := bareToken.FindString(s); tok != "" {
		return tok, true
	}
	return "", false
}
