package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"golang.org/x/term"

	"github.com/ariel-frischer/scriv/internal/git"
)

// setupLogging installs a tint console handler on w as the default slog
// logger. Debug records are shown only when verbose is set. Color is
// disabled unless w is a terminal.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	h := tint.NewHandler(w, &tint.Options{
		Level:      level,
		AddSource:  verbose,
		TimeFormat: "15:04:05.000",
		NoColor:    !isTerminal(w),
	})
	slog.SetDefault(slog.New(h))

	if verbose {
		git.SetDebugLogger(func(format string, args ...any) {
			slog.Debug(fmt.Sprintf(format, args...))
		})
	} else {
		git.SetDebugLogger(nil)
	}
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
