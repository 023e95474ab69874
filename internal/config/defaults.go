package config

// Built-in default values.
const (
	DefaultFragmentDirectory  = "changelog.d"
	DefaultFormat             = "rst"
	DefaultInsertMarker       = "scriv-insert-here"
	DefaultRstHeaderChars     = "=-"
	DefaultMdHeaderLevel      = "1"
	DefaultEntryTitleTemplate = `{{ if .Version }}{{ .Version }} — {{ end }}{{ .Date.Format "2006-01-02" }}`
	DefaultSkipFragments      = "README.*"
)

// DefaultCategories returns the default category list in display order.
func DefaultCategories() []string {
	return []string{"Removed", "Added", "Changed", "Deprecated", "Fixed", "Security"}
}

// DefaultMainBranches returns the default list of main branch names.
func DefaultMainBranches() []string {
	return []string{"master", "main", "develop"}
}

// GetDefaults returns the default configuration values.
// output_file and new_fragment_template are absent: their defaults depend on
// other resolved values and are filled in by the resolver.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"fragment_directory":   DefaultFragmentDirectory,
		"format":               DefaultFormat,
		"categories":           DefaultCategories(),
		"insert_marker":        DefaultInsertMarker,
		"rst_header_chars":     DefaultRstHeaderChars,
		"md_header_level":      DefaultMdHeaderLevel,
		"entry_title_template": DefaultEntryTitleTemplate,
		"main_branches":        DefaultMainBranches(),
		"version":              "",
		"skip_fragments":       DefaultSkipFragments,
	}
}

// DefaultOutputFile returns the changelog file name for a format.
func DefaultOutputFile(format string) string {
	return "CHANGELOG." + format
}

// DefaultNewFragmentTemplate returns the built-in new fragment template for a format.
// The template is executed with the category list and the section header
// markup of the format (see the changelog package).
func DefaultNewFragmentTemplate(format string) string {
	if format == "md" {
		return mdNewFragmentTemplate
	}
	return rstNewFragmentTemplate
}

const rstNewFragmentTemplate = `.. A new scriv changelog fragment.
..
.. Uncomment the section that is right (remove the leading dots).
.. For top level release notes, leave all the headers commented out.
..
{{ range .Categories -}}
.. {{ . }}
.. {{ underline . $.SectionChar }}
..
.. - A bullet item for the {{ . }} category.
..
{{ end -}}
`

const mdNewFragmentTemplate = `<!--
A new scriv changelog fragment.

Uncomment the section that is right (remove the HTML comment wrapper).
For top level release notes, leave all the headers commented out.
-->

{{ range .Categories -}}
<!--
{{ $.SectionPrefix }} {{ . }}

- A bullet item for the {{ . }} category.

-->
{{ end -}}
`
