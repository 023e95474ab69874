package changelog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Insert places entry into existing changelog text. The entry goes on the
// line after the first line containing marker, or at the top of the text if
// marker is empty or absent.
func Insert(existing, entry, marker string) string {
	if marker != "" {
		if idx := strings.Index(existing, marker); idx >= 0 {
			lineEnd := strings.IndexByte(existing[idx:], '\n')
			if lineEnd < 0 {
				return existing + "\n\n" + entry
			}
			split := idx + lineEnd + 1
			return existing[:split] + "\n" + entry + separator(existing[split:])
		}
	}
	return entry + separator(existing)
}

// separator returns the text that follows an inserted entry.
func separator(rest string) string {
	if strings.TrimSpace(rest) == "" {
		return rest
	}
	return "\n" + strings.TrimLeft(rest, "\n")
}

// InsertIntoFile inserts entry into the changelog at path, creating the file
// if it does not exist.
func InsertIntoFile(path, entry, marker string) error {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading changelog: %w", err)
	}

	updated := Insert(string(data), entry, marker)
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing changelog: %w", err)
	}
	return nil
}
