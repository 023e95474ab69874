package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/scriv/internal/testutil"
)

const commaConfig = `[scriv]
output_file = README.md
categories = New, Different, Gone, Bad
`

const lineListConfig = `[someotherthing]
no_idea = what this is

[tool.scriv]
output_file = README.md
categories =
    New
    Different
    Gone
    Bad

[more stuff]
value = 17
`

var writeFile = testutil.WriteFile

func load(t *testing.T, dir string, overrides map[string]interface{}) (*Config, error) {
	t.Helper()
	return LoadWithOptions(LoadOptions{Dir: dir, Overrides: overrides, SkipEnv: true})
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := load(t, t.TempDir(), nil)
	require.NoError(t, err)

	assert.Equal(t, "changelog.d", cfg.FragmentDirectory)
	assert.Equal(t, "rst", cfg.Format)
	assert.Equal(t, []string{"Removed", "Added", "Changed", "Deprecated", "Fixed", "Security"}, cfg.Categories)
	assert.Equal(t, "CHANGELOG.rst", cfg.OutputFile)
	assert.Equal(t, "scriv-insert-here", cfg.InsertMarker)
	assert.Equal(t, DefaultNewFragmentTemplate("rst"), cfg.NewFragmentTemplate)
	assert.Equal(t, "=-", cfg.RstHeaderChars)
	assert.Equal(t, "1", cfg.MdHeaderLevel)
	assert.Contains(t, cfg.EntryTitleTemplate, `.Date.Format "2006-01-02"`)
	assert.Equal(t, []string{"master", "main", "develop"}, cfg.MainBranches)
	assert.Equal(t, "", cfg.Version)
	assert.Equal(t, "README.*", cfg.SkipFragments)
}

func TestLoad_MarkdownDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := load(t, t.TempDir(), map[string]interface{}{"format": "md"})
	require.NoError(t, err)

	assert.Equal(t, "CHANGELOG.md", cfg.OutputFile)
	assert.Equal(t, DefaultNewFragmentTemplate("md"), cfg.NewFragmentTemplate)
}

func TestLoad_ReadsConfigFiles(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		file    string
		content string
	}{
		"scrivrc with comma list": {
			file:    ".scrivrc",
			content: commaConfig,
		},
		"tox.ini with one item per line": {
			file:    "tox.ini",
			content: lineListConfig,
		},
		"setup.cfg with comma list": {
			file:    "setup.cfg",
			content: commaConfig,
		},
		"setup.cfg with one item per line": {
			file:    "setup.cfg",
			content: lineListConfig,
		},
		"setup.cfg list with comment and blank lines": {
			file: "setup.cfg",
			content: `[scriv]
output_file = README.md
categories =
    New
# Removed
    Different

    Gone
    ; Deprecated
    Bad

[flake8]
max-line-length = 100
`,
		},
		"mixed case keys": {
			file:    "tox.ini",
			content: "[scriv]\nOutput_File = README.md\nCATEGORIES = New, Different, Gone, Bad\n",
		},
		"pyproject.toml": {
			file: "pyproject.toml",
			content: `[project]
name = "thing"

[tool.scriv]
output_file = "README.md"
categories = ["New", "Different", "Gone", "Bad"]
`,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			cfg, err := load(t, dir, nil)
			require.NoError(t, err)
			assert.Equal(t, "changelog.d", cfg.FragmentDirectory)
			assert.Equal(t, "README.md", cfg.OutputFile)
			assert.Equal(t, []string{"New", "Different", "Gone", "Bad"}, cfg.Categories)
		})
	}
}

func TestLoad_BareSectionWins(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "setup.cfg", `[tool.scriv]
output_file = NAMESPACED.md

[scriv]
output_file = BARE.md
`)

	cfg, err := load(t, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "BARE.md", cfg.OutputFile)
}

func TestLoad_CandidateOrder(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		files map[string]string
		want  string
	}{
		"setup.cfg before tox.ini": {
			files: map[string]string{
				"setup.cfg": "[scriv]\noutput_file = setup.rst\n",
				"tox.ini":   "[scriv]\noutput_file = tox.rst\n",
			},
			want: "setup.rst",
		},
		"tox.ini before dotfile": {
			files: map[string]string{
				"tox.ini":  "[scriv]\noutput_file = tox.rst\n",
				".scrivrc": "[scriv]\noutput_file = rc.rst\n",
			},
			want: "tox.rst",
		},
		"file without section is skipped": {
			files: map[string]string{
				"setup.cfg": "[metadata]\nname = thing\n",
				".scrivrc":  "[scriv]\noutput_file = rc.rst\n",
			},
			want: "rc.rst",
		},
		"first match is used whole, no merging": {
			files: map[string]string{
				"setup.cfg": "[scriv]\nformat = rst\n",
				"tox.ini":   "[scriv]\noutput_file = tox.rst\n",
			},
			want: "CHANGELOG.rst",
		},
		"dotfile before pyproject.toml": {
			files: map[string]string{
				".scrivrc":       "[scriv]\noutput_file = rc.rst\n",
				"pyproject.toml": "[tool.scriv]\noutput_file = \"py.rst\"\n",
			},
			want: "rc.rst",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			for file, content := range tt.files {
				writeFile(t, dir, file, content)
			}

			cfg, err := load(t, dir, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.OutputFile)
		})
	}
}

func TestLoad_FragmentDirSettingsWin(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "setup.cfg", `[scriv]
fragment_directory = changes
output_file = SETUP.rst
`)
	writeFile(t, dir, "changes/scriv.ini", `[scriv]
output_file = LOCAL.rst
`)

	cfg, err := load(t, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "LOCAL.rst", cfg.OutputFile)
	assert.Equal(t, "changes", cfg.FragmentDirectory)
}

func TestLoad_DefaultFragmentDirSettings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "tox.ini", "[scriv]\noutput_file = TOX.rst\n")
	writeFile(t, dir, "changelog.d/scriv.ini", "[tool.scriv]\nformat = md\n")

	cfg, err := load(t, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "md", cfg.Format)
	assert.Equal(t, "CHANGELOG.md", cfg.OutputFile)
}

func TestLoad_OverridesWin(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "setup.cfg", commaConfig)

	cfg, err := load(t, dir, map[string]interface{}{
		"output_file": "OVERRIDE.rst",
		"categories":  []string{"One", "Two"},
	})
	require.NoError(t, err)
	assert.Equal(t, "OVERRIDE.rst", cfg.OutputFile)
	assert.Equal(t, []string{"One", "Two"}, cfg.Categories)
}

func TestLoad_OverrideFragmentDirFindsSettings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "elsewhere/scriv.ini", "[scriv]\noutput_file = ELSEWHERE.rst\n")

	cfg, err := load(t, dir, map[string]interface{}{"fragment_directory": "elsewhere"})
	require.NoError(t, err)
	assert.Equal(t, "ELSEWHERE.rst", cfg.OutputFile)
	assert.Equal(t, "elsewhere", cfg.FragmentDirectory)
}

func TestLoad_EnvironmentLayer(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "setup.cfg", commaConfig)
	t.Setenv("SCRIV_OUTPUT_FILE", "ENV.rst")
	t.Setenv("SCRIV_NOT_A_KEY", "ignored")

	cfg, err := LoadWithOptions(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, "ENV.rst", cfg.OutputFile)

	cfg, err = LoadWithOptions(LoadOptions{Dir: dir, Overrides: map[string]interface{}{"output_file": "FLAG.rst"}})
	require.NoError(t, err)
	assert.Equal(t, "FLAG.rst", cfg.OutputFile)
}

func TestLoad_UnknownKeysIgnored(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "setup.cfg", "[scriv]\nfuture_setting = 1\noutput_file = X.rst\n")

	cfg, err := load(t, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "X.rst", cfg.OutputFile)
}

func TestLoad_UnknownOverrideKey(t *testing.T) {
	t.Parallel()

	_, err := load(t, t.TempDir(), map[string]interface{}{"nope": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown config key "nope"`)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		file    string
		content string
	}{
		"ini": {
			file:    "setup.cfg",
			content: "[scriv\noutput_file = x\n",
		},
		"toml": {
			file:    "pyproject.toml",
			content: "[tool.scriv\n",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			cfg, err := load(t, dir, nil)
			require.Error(t, err)
			assert.Nil(t, cfg)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.file, parseErr.Path)
		})
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		overrides map[string]interface{}
		wantMsg   string
	}{
		"bad format": {
			overrides: map[string]interface{}{"format": "xyzzy"},
			wantMsg:   "'format' must be in ['rst', 'md'] (got 'xyzzy')",
		},
		"empty header chars": {
			overrides: map[string]interface{}{"rst_header_chars": ""},
			wantMsg:   "'rst_header_chars'",
		},
		"one header char": {
			overrides: map[string]interface{}{"rst_header_chars": "#"},
			wantMsg:   "'rst_header_chars' must be exactly 2 characters (got '#')",
		},
		"three header chars": {
			overrides: map[string]interface{}{"rst_header_chars": "#=-"},
			wantMsg:   "'rst_header_chars' must be exactly 2 characters",
		},
		"header char and space": {
			overrides: map[string]interface{}{"rst_header_chars": "# "},
			wantMsg:   "'rst_header_chars' must not contain whitespace",
		},
		"bad md header level": {
			overrides: map[string]interface{}{"md_header_level": "7"},
			wantMsg:   "'md_header_level' must be in",
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg, err := load(t, t.TempDir(), tt.overrides)
			require.Error(t, err)
			assert.Nil(t, cfg)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad_TwoSpacesHeaderChars(t *testing.T) {
	t.Parallel()

	_, err := load(t, t.TempDir(), map[string]interface{}{"rst_header_chars": "  "})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "rst_header_chars", validationErr.Field)
	assert.Contains(t, err.Error(), "must not contain whitespace")
}

func TestLoad_MissingTemplateFile(t *testing.T) {
	t.Parallel()

	_, err := load(t, t.TempDir(), map[string]interface{}{"new_fragment_template": "file: foo.j2"})
	require.Error(t, err)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, err.Error(), "no such file")
}

func TestLoad_TemplateFileInFragmentDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "changelog.d/foo.j2", "Custom template\n")

	cfg, err := load(t, dir, map[string]interface{}{"new_fragment_template": "file: foo.j2"})
	require.NoError(t, err)
	assert.Equal(t, "Custom template\n", cfg.NewFragmentTemplate)
}

func TestLoad_ConventionalTemplateFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "changelog.d/new_fragment.md.j2", "md template\n")
	writeFile(t, dir, "setup.cfg", "[scriv]\nformat = md\n")

	cfg, err := load(t, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "md template\n", cfg.NewFragmentTemplate)
}

func TestLoad_LiteralVersion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "sub/foob.py", "# comment\n__version__ = \"12.34.56\"\n")

	cfg, err := load(t, dir, map[string]interface{}{"version": "literal:sub/foob.py: __version__"})
	require.NoError(t, err)
	assert.Equal(t, "12.34.56", cfg.Version)

	_, err = load(t, dir, map[string]interface{}{"version": "literal:sub/foob.py: __nothere__"})
	require.Error(t, err)
	var litErr *LiteralNotFoundError
	require.ErrorAs(t, err, &litErr)
	assert.Contains(t, err.Error(), "couldn't find literal")
}

func TestLoad_IndirectionOnAnyField(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "output_name.txt", "FROMFILE.rst")
	writeFile(t, dir, "cats.txt", "Alpha\nBeta\n")
	writeFile(t, dir, "setup.cfg", `[scriv]
output_file = file: output_name.txt
categories = file: cats.txt
`)

	cfg, err := load(t, dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "FROMFILE.rst", cfg.OutputFile)
	assert.Equal(t, []string{"Alpha", "Beta"}, cfg.Categories)
}

func TestLoad_Idempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "tox.ini", lineListConfig)
	overrides := map[string]interface{}{"version": "1.0"}

	first, err := load(t, dir, overrides)
	require.NoError(t, err)
	second, err := load(t, dir, overrides)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		text string
		want []string
	}{
		"comma separated": {
			text: "New, Different,Gone ,  Bad",
			want: []string{"New", "Different", "Gone", "Bad"},
		},
		"one per line": {
			text: "\nNew\nDifferent\n\nGone\n",
			want: []string{"New", "Different", "Gone"},
		},
		"lines keep commas": {
			text: "A, B\nC",
			want: []string{"A, B", "C"},
		},
		"single": {
			text: "Only",
			want: []string{"Only"},
		},
		"empty": {
			text: "",
			want: []string{},
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SplitList(tt.text))
		})
	}
}

func TestConfig_AsMap(t *testing.T) {
	t.Parallel()

	cfg, err := load(t, t.TempDir(), nil)
	require.NoError(t, err)

	m := cfg.AsMap()
	assert.Len(t, m, len(KnownKeys))
	for _, s := range KnownKeys {
		assert.Contains(t, m, s.Key)
	}

	v, ok := cfg.Get("output_file")
	require.True(t, ok)
	assert.Equal(t, "CHANGELOG.rst", v)

	_, ok = cfg.Get("missing")
	assert.False(t, ok)
}
