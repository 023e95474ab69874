package cli

import (
	"log/slog"
	"os"
	"os/user"
	"time"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/scriv/internal/changelog"
	"github.com/ariel-frischer/scriv/internal/git"
	"github.com/ariel-frischer/scriv/internal/output"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new changelog fragment",
	Long: `Create a new changelog fragment in the fragment directory.

The file is named <date>_<time>_<user>[_<branch>].<format>. The branch is
left out on any branch listed in main_branches. The fragment starts from
new_fragment_template, with every category commented out: uncomment the
ones your change belongs to and write the entry text under them.`,
	Example: `  # Create a fragment for the current branch
  scriv create

  # Create a Markdown fragment regardless of settings
  SCRIV_FORMAT=md scriv create`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	dir := workDir()
	path, err := changelog.Create(cfg, changelog.CreateOptions{
		Dir:    dir,
		Now:    time.Now(),
		User:   currentUser(dir),
		Branch: currentBranch(dir),
	})
	if err != nil {
		return err
	}

	output.PrintSuccess(cmd.OutOrStdout(), "Created", path)
	return nil
}

// currentUser returns the git user nick, falling back to the OS user.
func currentUser(dir string) string {
	nick, err := git.UserNick(dir)
	if err != nil {
		slog.Debug("no git user", "error", err)
	}
	if nick != "" {
		return nick
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return os.Getenv("USER")
}

// currentBranch returns the checked-out branch, or "" outside a repository.
func currentBranch(dir string) string {
	branch, err := git.CurrentBranch(dir)
	if err != nil {
		slog.Debug("no git branch", "error", err)
		return ""
	}
	return branch
}
