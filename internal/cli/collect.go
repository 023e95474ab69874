package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/scriv/internal/changelog"
	"github.com/ariel-frischer/scriv/internal/output"
)

var (
	collectVersionFlag string
	collectKeepFlag    bool
	collectDryRunFlag  bool
	collectPlainFlag   bool
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect fragments into the changelog",
	Long: `Collect all fragments into one changelog entry.

Fragment sections are merged by category, in the order of the categories
setting. The entry is titled with entry_title_template and inserted after
the insert_marker line of output_file, or at the top of the file when
there is no marker. Collected fragment files are deleted unless --keep is
given.`,
	Example: `  # Collect with the version from settings
  scriv collect

  # Collect for an explicit version, keeping the fragments
  scriv collect --version 1.2.0 --keep

  # Preview the entry without changing any files
  scriv collect --dry-run`,
	Args: cobra.NoArgs,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().StringVar(&collectVersionFlag, "version", "", "Version for the entry title (accepts file: and literal: values)")
	collectCmd.Flags().BoolVar(&collectKeepFlag, "keep", false, "Keep fragment files after collecting")
	collectCmd.Flags().BoolVar(&collectDryRunFlag, "dry-run", false, "Show the entry without writing the changelog")
	collectCmd.Flags().BoolVar(&collectPlainFlag, "plain", false, "Plain text preview (no colors/icons)")
}

func runCollect(cmd *cobra.Command, _ []string) error {
	var overrides map[string]interface{}
	if collectVersionFlag != "" {
		overrides = map[string]interface{}{"version": collectVersionFlag}
	}
	cfg, err := loadConfig(overrides)
	if err != nil {
		return err
	}

	result, err := changelog.Collect(cfg, changelog.CollectOptions{
		Dir:    workDir(),
		Date:   time.Now(),
		Keep:   collectKeepFlag,
		DryRun: collectDryRunFlag,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	opts := changelog.FormatOptions{Plain: collectPlainFlag}
	if collectDryRunFlag {
		output.PrintRule(out, cfg.OutputFile)
		if err := changelog.FormatTerminal(result.Entry, out, opts); err != nil {
			return fmt.Errorf("formatting entry: %w", err)
		}
		output.PrintFileList(out, "\nWould collect:", result.Fragments)
		return nil
	}

	output.PrintSuccess(out, "Collected "+changelog.FormatSummary(result.Entry, opts)+" into", result.OutputFile)
	if collectKeepFlag {
		output.PrintFileList(out, "Kept:", result.Fragments)
	} else {
		output.PrintFileList(out, "Removed:", result.Fragments)
	}
	return nil
}
