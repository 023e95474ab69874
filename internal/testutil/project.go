// Package testutil provides test utilities and helpers for scriv tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Project is an isolated working directory for tests that resolve settings
// and read or write fragments.
type Project struct {
	t   *testing.T
	dir string
}

// NewProject creates an empty project directory. SCRIV_* variables are
// removed from the environment and HOME points at an empty directory, so the
// developer's settings and git config cannot leak in. Tests using it must
// not call t.Parallel.
func NewProject(t *testing.T) *Project {
	t.Helper()
	sanitizeEnv(t)
	return &Project{t: t, dir: t.TempDir()}
}

// sanitizeEnv unsets SCRIV_* variables for the duration of the test.
func sanitizeEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "SCRIV_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
}

// Dir returns the project directory.
func (p *Project) Dir() string {
	return p.dir
}

// Path returns the absolute path of a project-relative file.
func (p *Project) Path(rel string) string {
	return filepath.Join(p.dir, filepath.FromSlash(rel))
}

// Mkdir creates a project-relative directory.
func (p *Project) Mkdir(rel string) *Project {
	p.t.Helper()
	if err := os.MkdirAll(p.Path(rel), 0o755); err != nil {
		p.t.Fatalf("creating %s: %v", rel, err)
	}
	return p
}

// WriteFiles writes project-relative files, creating parent directories.
func (p *Project) WriteFiles(files map[string]string) *Project {
	p.t.Helper()
	WriteFiles(p.t, p.dir, files)
	return p
}

// ReadFile returns the contents of a project-relative file.
func (p *Project) ReadFile(rel string) string {
	p.t.Helper()
	data, err := os.ReadFile(p.Path(rel))
	if err != nil {
		p.t.Fatalf("reading %s: %v", rel, err)
	}
	return string(data)
}

// WriteFile writes one file under dir, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

// WriteFiles writes each name → content pair under dir.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		WriteFile(t, dir, name, content)
	}
}
