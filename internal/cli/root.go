// Package cli implements the scriv command line: create, collect and config.
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/scriv/internal/config"
	clierrors "github.com/ariel-frischer/scriv/internal/errors"
)

var (
	verboseFlag bool
	dirFlag     string
)

var rootCmd = &cobra.Command{
	Use:   "scriv",
	Short: "Changelog management from fragment files",
	Long: `scriv keeps changelog entries as small fragment files in a fragment
directory and collects them into the changelog when you release.

Settings are read from the first of these that has a [scriv] or
[tool.scriv] section:
  1. <fragment_directory>/scriv.ini
  2. setup.cfg
  3. tox.ini
  4. .scrivrc
  5. pyproject.toml ([tool.scriv] table)

SCRIV_* environment variables override file settings; command flags
override both.`,
	Example: `  # Start a new fragment for your change
  scriv create

  # Collect fragments into the changelog
  scriv collect --version 1.2.0

  # Show the settings in effect
  scriv config`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		setupLogging(cmd.ErrOrStderr(), verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show debug logging")
	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "C", "", "Run as if started in this directory")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		cliErr := clierrors.NewArgumentError(err.Error(), "Run '"+cmd.CommandPath()+" --help' to see valid options")
		cliErr.Usage = cmd.UseLine()
		return cliErr
	})
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	lastConfig = nil
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	cliErr := clierrors.FromError(err, fragmentDirHint())
	clierrors.FprintError(stderr, cliErr)
	return exitCodeFor(cliErr.Category)
}

// workDir returns the directory settings and fragments are resolved from.
func workDir() string {
	if dirFlag != "" {
		return dirFlag
	}
	return "."
}

// loadConfig resolves the configuration of the working directory.
func loadConfig(overrides map[string]interface{}) (*config.Config, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{Dir: workDir(), Overrides: overrides})
	if err != nil {
		return nil, err
	}
	lastConfig = cfg
	return cfg, nil
}

// lastConfig is the configuration loaded by the running command, if any.
// It names the fragment directory in error messages.
var lastConfig *config.Config

func fragmentDirHint() string {
	if lastConfig != nil {
		return lastConfig.FragmentDirectory
	}
	return config.DefaultFragmentDirectory
}
