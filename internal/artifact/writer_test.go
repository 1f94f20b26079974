package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriter_New_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	outDir := filepath.Join(tmpDir, "icons")

	w, err := NewWriter(outDir)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}

	info, err := os.Stat(outDir)
	if err != nil {
		t.Fatalf("expected output directory to exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected a directory")
	}
	if w.Dir() != outDir {
		t.Errorf("expected dir %q, got %q", outDir, w.Dir())
	}
}

func TestWriter_Write(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}

	path, err := w.Write("pixel art", "a dancing baby shark", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Error("expected file to contain written bytes")
	}

	base := filepath.Base(path)
	if !strings.HasPrefix(base, "icon_pixel_art_a_dancing_baby_shark_") {
		t.Errorf("unexpected filename: %q", base)
	}
	if !strings.HasSuffix(base, ".png") {
		t.Errorf("expected .png suffix, got %q", base)
	}
}

func TestWriter_Write_DistinctPaths(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}

	first, err := w.Write("minimalist", "a rocket", []byte("one"))
	if err != nil {
		t.Fatalf("first Write failed: %v", err)
	}
	second, err := w.Write("minimalist", "a rocket", []byte("two"))
	if err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	if first == second {
		t.Error("expected distinct paths for repeated writes")
	}
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"pixel art", "pixel_art"},
		{"slack emoji!", "slack_emoji"},
		{"  spaced   out  ", "spaced_out"},
		{"wave/slash:colon", "waveslashcolon"},
	}

	for _, c := range cases {
		if got := sanitize(c.in); got != c.want {
			t.Errorf("sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 30); got != "short" {
		t.Errorf("expected unchanged, got %q", got)
	}
	long := strings.Repeat("x", 50)
	if got := truncate(long, 30); len(got) != 30 {
		t.Errorf("expected 30 runes, got %d", len(got))
	}
}
