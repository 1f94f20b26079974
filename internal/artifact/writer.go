// Package artifact writes finished icons to the output directory.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// unsafeChars matches everything that is stripped from filename components.
var unsafeChars = regexp.MustCompile(`[^\w\s-]`)

// spaceRuns collapses whitespace runs into single underscores.
var spaceRuns = regexp.MustCompile(`\s+`)

// maxDescComponent caps the description part of a filename.
const maxDescComponent = 30

// Writer writes icon files into a single output directory.
type Writer struct {
	dir string
}

// NewWriter creates a Writer and ensures the output directory exists.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		dir = "output"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the output directory path.
func (w *Writer) Dir() string {
	return w.dir
}

// Write stores data as a PNG named after the style and description and
// returns the full path. The nanosecond timestamp keeps batch members from
// colliding.
func (w *Writer) Write(artStyle, description string, data []byte) (string, error) {
	filename := fmt.Sprintf("icon_%s_%s_%d.png",
		sanitize(artStyle),
		sanitize(truncate(description, maxDescComponent)),
		time.Now().UnixNano(),
	)

	path := filepath.Join(w.dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write icon file: %w", err)
	}
	return path, nil
}

func sanitize(s string) string {
	s = unsafeChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return spaceRuns.ReplaceAllString(s, "_")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
