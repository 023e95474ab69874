package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/ariel-frischer/scriv/internal/changelog"
	"github.com/ariel-frischer/scriv/internal/config"
)

// Common error messages for the scriv CLI.
// These templates ensure consistent, actionable error messages.

// SettingsFileNotFound creates an error for a file: or literal: reference
// that names a missing file.
func SettingsFileNotFound(err *config.NotFoundError) *CLIError {
	return &CLIError{
		Category: Configuration,
		Message:  err.Error(),
		Remediation: []string{
			"file: paths are looked up in the fragment directory, then the working directory",
			"literal: paths are relative to the working directory",
			"Run 'scriv config' to see the settings in effect",
		},
		Err: err,
	}
}

// LiteralNotFound creates an error for a literal: reference whose name is
// never assigned in the file.
func LiteralNotFound(err *config.LiteralNotFoundError) *CLIError {
	return &CLIError{
		Category: Configuration,
		Message:  err.Error(),
		Remediation: []string{
			fmt.Sprintf("Check that %s assigns %s a quoted string, like %s = \"1.0\"", err.Path, err.Name, err.Name),
			"The setting has the form: literal: <path>: <name>",
		},
		Err: err,
	}
}

// SettingsParseError creates an error for a settings file that cannot be parsed.
func SettingsParseError(err *config.ParseError) *CLIError {
	return &CLIError{
		Category: Configuration,
		Message:  err.Error(),
		Remediation: []string{
			"Check " + err.Path + " for syntax errors",
			"Settings go in a [scriv] or [tool.scriv] section",
		},
		Err: err,
	}
}

// InvalidSetting creates an error for a setting that fails validation.
func InvalidSetting(err *config.ValidationError) *CLIError {
	return &CLIError{
		Category: Configuration,
		Message:  err.Error(),
		Remediation: []string{
			fmt.Sprintf("Fix '%s' in your settings file, or override it with %s%s", err.Field, config.EnvPrefix, envName(err.Field)),
			"Run 'scriv config --keys' to list settings and their meaning",
		},
		Err: err,
	}
}

// FragmentDirectoryMissing creates an error when the fragment directory does not exist.
func FragmentDirectoryMissing(dir string, err error) *CLIError {
	return &CLIError{
		Category: Prerequisite,
		Message:  fmt.Sprintf("fragment directory not found: %s", dir),
		Remediation: []string{
			"Create the directory with: mkdir -p " + dir,
			"Or set fragment_directory in your settings",
		},
		Err: err,
	}
}

// NothingToCollect creates an error when collect finds no fragment text.
func NothingToCollect(dir string) *CLIError {
	return &CLIError{
		Category: Prerequisite,
		Message:  "no changelog fragments to collect in " + dir,
		Remediation: []string{
			"Create a fragment with: scriv create",
			"Uncomment a category header and add text to the fragment",
		},
		Err: changelog.ErrNoFragments,
	}
}

// UnknownSetting creates an error for a setting name that scriv does not know.
func UnknownSetting(key string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("unknown setting: %s", key),
		"Run 'scriv config --keys' to list known settings",
	)
}

// FromError converts errors returned by the config and changelog packages
// into CLIErrors. Errors that are already CLIErrors pass through; anything
// unrecognized becomes a Runtime error.
func FromError(err error, fragmentDir string) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var (
		notFound   *config.NotFoundError
		literal    *config.LiteralNotFoundError
		parseErr   *config.ParseError
		validation *config.ValidationError
	)
	var cliErr *CLIError
	switch {
	case stderrors.As(err, &notFound):
		cliErr = SettingsFileNotFound(notFound)
	case stderrors.As(err, &literal):
		cliErr = LiteralNotFound(literal)
	case stderrors.As(err, &parseErr):
		cliErr = SettingsParseError(parseErr)
	case stderrors.As(err, &validation):
		cliErr = InvalidSetting(validation)
	}
	if cliErr != nil {
		// Keep the context the caller wrapped around the typed error.
		cliErr.Message = err.Error()
		cliErr.Err = err
		return cliErr
	}

	switch {
	case stderrors.Is(err, changelog.ErrFragmentDirMissing):
		return FragmentDirectoryMissing(fragmentDir, err)
	case stderrors.Is(err, changelog.ErrNoFragments):
		return NothingToCollect(fragmentDir)
	}
	return Wrap(err, Runtime)
}

// envName returns the environment variable suffix for a setting key.
func envName(key string) string {
	return strings.ToUpper(key)
}
