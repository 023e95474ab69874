// Package git provides the repository facts scriv needs when naming fragments:
// the current branch and a short name for the current user. It uses the go-git
// library, so no git binary is required.
package git

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// CurrentBranch returns the name of the branch checked out in the repository
// containing dir. Returns empty string in detached HEAD state or before the
// first commit.
func CurrentBranch(dir string) (string, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			logDebug("[git] CurrentBranch: no commits yet")
			return "", nil
		}
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	if !head.Name().IsBranch() {
		logDebug("[git] CurrentBranch: detached HEAD state")
		return "", nil
	}

	branch := head.Name().Short()
	logDebug("[git] CurrentBranch: %s", branch)
	return branch, nil
}

// IsRepository reports whether dir is within a git repository.
func IsRepository(dir string) bool {
	_, err := openRepo(dir)
	result := err == nil
	logDebug("[git] IsRepository: %v", result)
	return result
}

// UserNick returns a short name for the current user, taken from the first
// of these that is set: github.user, the local part of user.email, user.name.
// Local, global and system git configuration are all consulted. Outside a
// repository only global and system configuration apply.
func UserNick(dir string) (string, error) {
	cfg, err := loadConfig(dir)
	if err != nil {
		return "", err
	}

	if nick := cfg.Raw.Section("github").Option("user"); nick != "" {
		logDebug("[git] UserNick: github.user=%s", nick)
		return nick, nil
	}
	if email := cfg.User.Email; email != "" {
		nick, _, _ := strings.Cut(email, "@")
		logDebug("[git] UserNick: from user.email=%s", nick)
		return nick, nil
	}
	logDebug("[git] UserNick: user.name=%s", cfg.User.Name)
	return cfg.User.Name, nil
}

// loadConfig returns the merged git configuration seen from dir.
func loadConfig(dir string) (*config.Config, error) {
	repo, err := openRepo(dir)
	if err != nil {
		logDebug("[git] loadConfig: %v, using global config", err)
		cfg, err := config.LoadConfig(config.GlobalScope)
		if err != nil {
			return nil, fmt.Errorf("loading global git config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := repo.ConfigScoped(config.SystemScope)
	if err != nil {
		return nil, fmt.Errorf("loading git config: %w", err)
	}
	return cfg, nil
}
