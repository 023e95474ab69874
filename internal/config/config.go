// scriv - Changelog management from fragment files
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/scriv

// Package config resolves scriv's configuration. Values are layered with koanf,
// lowest to highest: built-in defaults, the first config file section found by
// the Locator (<fragment_directory>/scriv.ini, setup.cfg, tox.ini, .scrivrc,
// pyproject.toml), SCRIV_* environment variables, and explicit overrides.
// Each value may then be an indirection ("file: <path>" or
// "literal: <path>: <name>") which is resolved before the result is validated.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "SCRIV_"

// Config is the resolved scriv configuration. It is built once per
// invocation by Load and is not modified afterwards.
type Config struct {
	FragmentDirectory   string   `koanf:"fragment_directory" yaml:"fragment_directory" validate:"required"`
	Format              string   `koanf:"format" yaml:"format" validate:"oneof=rst md"`
	Categories          []string `koanf:"categories" yaml:"categories"`
	OutputFile          string   `koanf:"output_file" yaml:"output_file" validate:"required"`
	InsertMarker        string   `koanf:"insert_marker" yaml:"insert_marker"`
	NewFragmentTemplate string   `koanf:"new_fragment_template" yaml:"new_fragment_template"`
	RstHeaderChars      string   `koanf:"rst_header_chars" yaml:"rst_header_chars" validate:"len=2,nowhitespace"`
	MdHeaderLevel       string   `koanf:"md_header_level" yaml:"md_header_level" validate:"oneof=1 2 3 4 5 6"`
	EntryTitleTemplate  string   `koanf:"entry_title_template" yaml:"entry_title_template"`
	MainBranches        []string `koanf:"main_branches" yaml:"main_branches"`
	Version             string   `koanf:"version" yaml:"version"`
	SkipFragments       string   `koanf:"skip_fragments" yaml:"skip_fragments"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// Dir is the working directory config files are looked up in (default: ".").
	Dir string
	// Overrides are caller-supplied values with the highest precedence.
	// Values are strings or []string.
	Overrides map[string]interface{}
	// SkipEnv ignores SCRIV_* environment variables.
	SkipEnv bool
}

// LoadWithOptions resolves the configuration. It either returns a complete,
// valid Config or an error.
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	root := opts.Dir
	if root == "" {
		root = "."
	}

	for key := range opts.Overrides {
		if _, ok := GetKeySchema(key); !ok {
			return nil, fmt.Errorf("unknown config key %q", key)
		}
	}

	upper, err := loadUpperLayers(opts)
	if err != nil {
		return nil, err
	}

	knownDir := ""
	if upper.Exists("fragment_directory") {
		knownDir, err = resolveString(upper.Get("fragment_directory"), root, "")
		if err != nil {
			return nil, fmt.Errorf("resolving fragment_directory: %w", err)
		}
	}

	locator := &Locator{Root: root}
	src, err := locator.Locate(knownDir)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(GetDefaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}
	if src != nil {
		slog.Debug("using config section", "path", src.Path, "section", src.Section)
		if err := k.Load(confmap.Provider(knownValues(src.Values), "."), nil); err != nil {
			return nil, fmt.Errorf("loading %s: %w", src.Path, err)
		}
	}
	if err := k.Merge(upper); err != nil {
		return nil, fmt.Errorf("merging overrides: %w", err)
	}

	return finalizeConfig(k, root)
}

// loadUpperLayers loads the environment and override layers, which take
// precedence over any config file.
func loadUpperLayers(opts LoadOptions) (*koanf.Koanf, error) {
	k := koanf.New(".")
	if !opts.SkipEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
			return nil, fmt.Errorf("failed to load environment config: %w", err)
		}
	}
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	// Unknown SCRIV_* variables are dropped like unknown file keys.
	known := koanf.New(".")
	if err := known.Load(confmap.Provider(knownValues(k.Raw()), "."), nil); err != nil {
		return nil, err
	}
	return known, nil
}

// envTransform converts environment variable names to config keys.
// Example: SCRIV_OUTPUT_FILE -> output_file
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// knownValues drops keys that are not in the schema.
func knownValues(values map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for key, value := range values {
		if _, ok := GetKeySchema(key); ok {
			out[key] = value
		} else {
			slog.Debug("ignoring unknown config key", "key", key)
		}
	}
	return out
}

// finalizeConfig resolves indirections, fills dependent defaults, converts
// list values, then unmarshals and validates.
func finalizeConfig(k *koanf.Koanf, root string) (*Config, error) {
	resolved := make(map[string]interface{}, len(KnownKeys))

	for _, schema := range KnownKeys {
		key := schema.Key
		if !k.Exists(key) {
			def, err := dependentDefault(key, resolved, root)
			if err != nil {
				return nil, err
			}
			resolved[key] = def
			continue
		}

		fragmentDir, _ := resolved["fragment_directory"].(string)
		value, err := resolveEntry(schema, k.Get(key), root, fragmentDir)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", key, err)
		}
		resolved[key] = value
	}

	final := koanf.New(".")
	if err := final.Load(confmap.Provider(resolved, "."), nil); err != nil {
		return nil, fmt.Errorf("loading resolved config: %w", err)
	}

	var cfg Config
	if err := final.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// dependentDefault returns the default of a key whose default depends on
// already-resolved values.
func dependentDefault(key string, resolved map[string]interface{}, root string) (interface{}, error) {
	format, _ := resolved["format"].(string)
	switch key {
	case "output_file":
		return DefaultOutputFile(format), nil
	case "new_fragment_template":
		fragmentDir, _ := resolved["fragment_directory"].(string)
		return defaultNewFragmentTemplate(root, fragmentDir, format)
	default:
		return "", nil
	}
}

// defaultNewFragmentTemplate uses the project's template file when there is one.
func defaultNewFragmentTemplate(root, fragmentDir, format string) (string, error) {
	path := resolvePath(root, resolvePath(fragmentDir, NewFragmentTemplateName(format)))
	data, err := os.ReadFile(path)
	if err == nil {
		slog.Debug("using project new fragment template", "path", path)
		return string(data), nil
	}
	if os.IsNotExist(err) {
		return DefaultNewFragmentTemplate(format), nil
	}
	return "", fmt.Errorf("reading %s: %w", path, err)
}

// resolveEntry resolves one raw value according to its schema type.
func resolveEntry(schema ConfigKeySchema, raw interface{}, root, fragmentDir string) (interface{}, error) {
	if schema.Type == TypeList {
		return resolveList(raw, root, fragmentDir)
	}
	return resolveString(raw, root, fragmentDir)
}

// resolveString resolves a scalar value.
func resolveString(raw interface{}, root, fragmentDir string) (string, error) {
	switch v := raw.(type) {
	case string:
		return ResolveValue(v, root, fragmentDir)
	case []string, []interface{}:
		return "", fmt.Errorf("expected a single value, got a list")
	default:
		return fmt.Sprint(v), nil
	}
}

// resolveList resolves a list value. A string is resolved first and then
// split; list items are resolved one by one.
func resolveList(raw interface{}, root, fragmentDir string) ([]string, error) {
	switch v := raw.(type) {
	case string:
		text, err := ResolveValue(v, root, fragmentDir)
		if err != nil {
			return nil, err
		}
		return SplitList(text), nil
	case []string:
		return resolveItems(v, root, fragmentDir)
	case []interface{}:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = fmt.Sprint(item)
		}
		return resolveItems(items, root, fragmentDir)
	default:
		return []string{fmt.Sprint(v)}, nil
	}
}

func resolveItems(items []string, root, fragmentDir string) ([]string, error) {
	out := make([]string, 0, len(items))
	for _, item := range items {
		value, err := ResolveValue(item, root, fragmentDir)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

// SplitList converts a config value to a list. Multi-line text gives one
// item per non-empty line; a single line is split on commas.
func SplitList(text string) []string {
	var parts []string
	if strings.Contains(strings.TrimSpace(text), "\n") {
		parts = strings.Split(text, "\n")
	} else {
		parts = strings.Split(text, ",")
	}

	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// AsMap returns the config as a map keyed by config key.
func (c *Config) AsMap() map[string]interface{} {
	k := koanf.New(".")
	// The structs provider cannot fail on a struct pointer.
	_ = k.Load(structs.Provider(c, "koanf"), nil)
	return k.Raw()
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (interface{}, bool) {
	v, ok := c.AsMap()[key]
	return v, ok
}
