package changelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/scriv/internal/testutil"
)

// setupFragments creates a working directory with the given files.
func setupFragments(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "changelog.d"), 0o755))
	testutil.WriteFiles(t, dir, files)
	return dir
}

func TestFindFragments(t *testing.T) {
	dir := setupFragments(t, map[string]string{
		"changelog.d/20260102_000000_b.rst": "x",
		"changelog.d/20260101_000000_a.rst": "x",
		"changelog.d/README.rst":            "x",
		"changelog.d/notes.md":              "x",
		"changelog.d/scriv.ini":             "[scriv]\n",
	})

	got, err := FindFragments(testConfig("rst"), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("changelog.d", "20260101_000000_a.rst"),
		filepath.Join("changelog.d", "20260102_000000_b.rst"),
	}, got)
}

func TestFindFragments_NoSkipPattern(t *testing.T) {
	dir := setupFragments(t, map[string]string{"changelog.d/README.md": "x"})

	cfg := testConfig("md")
	cfg.SkipFragments = ""
	got, err := FindFragments(cfg, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("changelog.d", "README.md")}, got)
}

func TestCollect(t *testing.T) {
	existing := "Changelog\n=========\n\n.. scriv-insert-here\n\nOld entry\n"
	files := map[string]string{
		"changelog.d/20260101_000000_a.rst": "Added\n-----\n\n- One.\n",
		"changelog.d/20260102_000000_b.rst": "Fixed\n-----\n\n- Two.\n",
		"changelog.d/README.rst":            "Read me.\n",
		"CHANGELOG.rst":                     existing,
	}
	entry := "1.0 — 2026-10-15\n" + strings.Repeat("=", 16) + "\n\n" +
		"Added\n-----\n\n- One.\n\nFixed\n-----\n\n- Two.\n"

	tests := map[string]struct {
		keep       bool
		dryRun     bool
		wantOutput string
		wantKept   bool
	}{
		"fragments are removed": {
			wantOutput: "Changelog\n=========\n\n.. scriv-insert-here\n\n" + entry + "\nOld entry\n",
		},
		"keep": {
			keep:       true,
			wantOutput: "Changelog\n=========\n\n.. scriv-insert-here\n\n" + entry + "\nOld entry\n",
			wantKept:   true,
		},
		"dry run": {
			dryRun:     true,
			wantOutput: existing,
			wantKept:   true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := setupFragments(t, files)

			result, err := Collect(testConfig("rst"), CollectOptions{
				Dir:     dir,
				Date:    testDate,
				Version: "1.0",
				Keep:    tt.keep,
				DryRun:  tt.dryRun,
			})
			require.NoError(t, err)
			assert.Equal(t, entry, result.Text)
			assert.Len(t, result.Fragments, 2)
			assert.Equal(t, "CHANGELOG.rst", result.OutputFile)

			data, err := os.ReadFile(filepath.Join(dir, "CHANGELOG.rst"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutput, string(data))

			for _, p := range result.Fragments {
				_, err := os.Stat(filepath.Join(dir, p))
				if tt.wantKept {
					assert.NoError(t, err)
				} else {
					assert.True(t, os.IsNotExist(err), "%s should be removed", p)
				}
			}
			_, err = os.Stat(filepath.Join(dir, "changelog.d", "README.rst"))
			assert.NoError(t, err)
		})
	}
}

func TestCollect_CreatesChangelog(t *testing.T) {
	dir := setupFragments(t, map[string]string{
		"changelog.d/a.md": "## Added\n\n- One.\n",
	})

	_, err := Collect(testConfig("md"), CollectOptions{Dir: dir, Date: testDate})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "CHANGELOG.md"))
	require.NoError(t, err)
	assert.Equal(t, "# 2026-10-15\n\n## Added\n\n- One.\n", string(data))
}

func TestCollect_ConfiguredVersion(t *testing.T) {
	dir := setupFragments(t, map[string]string{
		"changelog.d/a.md": "## Added\n\n- One.\n",
	})
	cfg := testConfig("md")
	cfg.Version = "3.1"

	result, err := Collect(cfg, CollectOptions{Dir: dir, Date: testDate, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, "3.1 — 2026-10-15", result.Entry.Title)
}

func TestCollect_NothingToCollect(t *testing.T) {
	tests := map[string]map[string]string{
		"no fragments":        {},
		"only commented text": {"changelog.d/a.rst": ".. Added\n.. -----\n..\n.. - Nothing.\n"},
	}

	for name, files := range tests {
		t.Run(name, func(t *testing.T) {
			dir := setupFragments(t, files)
			_, err := Collect(testConfig("rst"), CollectOptions{Dir: dir, Date: testDate})
			require.ErrorIs(t, err, ErrNoFragments)
		})
	}
}

func TestCollect_MissingDirectory(t *testing.T) {
	_, err := Collect(testConfig("rst"), CollectOptions{Dir: t.TempDir()})
	require.ErrorIs(t, err, ErrFragmentDirMissing)
}
