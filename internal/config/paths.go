package config

import (
	"path/filepath"
)

// SettingsFileName is the settings file looked up inside the fragment directory.
const SettingsFileName = "scriv.ini"

// Section names accepted in INI-style files, in priority order.
var sectionAliases = []string{"scriv", "tool.scriv"}

// candidateKind selects how a candidate file is parsed.
type candidateKind int

const (
	kindINI candidateKind = iota
	kindTOML
)

// candidate is a configuration file probed in the working directory.
type candidate struct {
	name string
	kind candidateKind
}

// workingDirCandidates are probed in order after the fragment directory's scriv.ini.
var workingDirCandidates = []candidate{
	{name: "setup.cfg", kind: kindINI},
	{name: "tox.ini", kind: kindINI},
	{name: ".scrivrc", kind: kindINI},
	{name: "pyproject.toml", kind: kindTOML},
}

// SettingsFilePath returns the path of scriv.ini inside fragmentDir.
func SettingsFilePath(fragmentDir string) string {
	return filepath.Join(fragmentDir, SettingsFileName)
}

// NewFragmentTemplateName returns the conventional file name of a project's
// new fragment template for a format.
func NewFragmentTemplateName(format string) string {
	return "new_fragment." + format + ".j2"
}

// resolvePath joins p onto root unless p is already absolute.
func resolvePath(root, p string) string {
	if filepath.IsAbs(p) || root == "" {
		return p
	}
	return filepath.Join(root, p)
}
