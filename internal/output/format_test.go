package output

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPrintHelpers(t *testing.T) {
	// Not parallel: toggles the global color.NoColor.
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	tests := map[string]struct {
		print func(*bytes.Buffer)
		want  string
	}{
		"success": {
			print: func(b *bytes.Buffer) { PrintSuccess(b, "Created", "changelog.d/a.rst") },
			want:  "✓ Created changelog.d/a.rst\n",
		},
		"file list": {
			print: func(b *bytes.Buffer) { PrintFileList(b, "Removed:", []string{"a.rst", "b.rst"}) },
			want:  "Removed:\n  a.rst\n  b.rst\n",
		},
		"empty file list": {
			print: func(b *bytes.Buffer) { PrintFileList(b, "Removed:", nil) },
			want:  "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(&buf)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrintRule(t *testing.T) {
	var buf bytes.Buffer
	PrintRule(&buf, "Preview")
	assert.Contains(t, buf.String(), " Preview ")
	assert.Contains(t, buf.String(), "───")
}

func TestGetTerminalWidth(t *testing.T) {
	t.Parallel()
	assert.Positive(t, GetTerminalWidth())
}
