package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/knadh/koanf/parsers/json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/scriv/internal/config"
	clierrors "github.com/ariel-frischer/scriv/internal/errors"
)

var (
	configJSONFlag bool
	configKeysFlag bool
)

var configCmd = &cobra.Command{
	Use:   "config [KEY]",
	Short: "Show the resolved settings",
	Long: `Show the settings scriv will use, after defaults, the settings file,
SCRIV_* environment variables, and file: / literal: values are resolved.

With a KEY, only that setting's value is printed. List settings print one
item per line.`,
	Example: `  # Show all settings as YAML
  scriv config

  # Show all settings as JSON
  scriv config --json

  # Print one setting
  scriv config output_file

  # List known settings
  scriv config --keys`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolVar(&configJSONFlag, "json", false, "Output as JSON")
	configCmd.Flags().BoolVar(&configKeysFlag, "keys", false, "List known settings and their meaning")
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if configKeysFlag {
		return printKeys(out)
	}

	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		return printValue(out, cfg, args[0])
	}
	if configJSONFlag {
		data, err := json.Parser().Marshal(cfg.AsMap())
		if err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func printValue(out io.Writer, cfg *config.Config, key string) error {
	value, ok := cfg.Get(key)
	if !ok {
		return clierrors.UnknownSetting(key)
	}

	switch v := value.(type) {
	case []string:
		for _, item := range v {
			fmt.Fprintln(out, item)
		}
	case string:
		fmt.Fprint(out, v)
		if !strings.HasSuffix(v, "\n") {
			fmt.Fprintln(out)
		}
	default:
		fmt.Fprintln(out, v)
	}
	return nil
}

func printKeys(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tTYPE\tDESCRIPTION")
	for _, s := range config.KnownKeys {
		typ := s.Type.String()
		if len(s.AllowedValues) > 0 {
			typ += " (" + strings.Join(s.AllowedValues, "|") + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Key, typ, s.Description)
	}
	return tw.Flush()
}
