package config

import "fmt"

// NotFoundError reports a file referenced by the configuration that does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no such file: %s", e.Path)
}

// LiteralNotFoundError reports a literal: reference whose name has no
// assignment in the named file.
type LiteralNotFoundError struct {
	Path string
	Name string
}

func (e *LiteralNotFoundError) Error() string {
	return fmt.Sprintf("couldn't find literal %s in %s", e.Name, e.Path)
}

// ParseError wraps a syntax error from a configuration file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
