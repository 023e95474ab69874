package config

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeString ConfigValueType = iota
	TypeList
	TypeEnum
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeList:
		return "list"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ConfigKeySchema describes one recognized configuration key.
type ConfigKeySchema struct {
	Key           string          // Key as written in config files (e.g., "output_file")
	Type          ConfigValueType // Expected value type
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
}

// KnownKeys lists every recognized key in resolution order. fragment_directory
// and format come first because other defaults depend on them.
var KnownKeys = []ConfigKeySchema{
	{
		Key:         "fragment_directory",
		Type:        TypeString,
		Description: "Directory holding changelog fragments and local settings",
	},
	{
		Key:           "format",
		Type:          TypeEnum,
		AllowedValues: []string{"rst", "md"},
		Description:   "Markup format of fragments and the changelog",
	},
	{
		Key:         "categories",
		Type:        TypeList,
		Description: "Categories of changes, in display order",
	},
	{
		Key:         "output_file",
		Type:        TypeString,
		Description: "Changelog file that collected fragments are written into",
	},
	{
		Key:         "insert_marker",
		Type:        TypeString,
		Description: "Marker line in the changelog after which new entries are inserted",
	},
	{
		Key:         "new_fragment_template",
		Type:        TypeString,
		Description: "Template used by 'scriv create' for new fragments",
	},
	{
		Key:         "rst_header_chars",
		Type:        TypeString,
		Description: "Two characters used to underline rst entry and category headers",
	},
	{
		Key:           "md_header_level",
		Type:          TypeEnum,
		AllowedValues: []string{"1", "2", "3", "4", "5", "6"},
		Description:   "Markdown heading level of changelog entries",
	},
	{
		Key:         "entry_title_template",
		Type:        TypeString,
		Description: "Template for the title of each changelog entry",
	},
	{
		Key:         "main_branches",
		Type:        TypeList,
		Description: "Branches whose name is left out of new fragment file names",
	},
	{
		Key:         "version",
		Type:        TypeString,
		Description: "Version to use in the entry title",
	},
	{
		Key:         "skip_fragments",
		Type:        TypeString,
		Description: "Glob of files in the fragment directory that are not fragments",
	},
}

// GetKeySchema returns the schema for key and whether key is recognized.
func GetKeySchema(key string) (ConfigKeySchema, bool) {
	for _, s := range KnownKeys {
		if s.Key == key {
			return s, true
		}
	}
	return ConfigKeySchema{}, false
}
