package witness

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestContentPreview(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeFile(t, tmpDir, "notes.txt", "first line   \nsecond line\nthird line\n")

	got := ContentPreview(path, 2)
	want := []string{"first line", "second line"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ContentPreview = %v, want %v", got, want)
	}
}

func TestContentTail(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeFile(t, tmpDir, "log.txt", "one\ntwo\nthree\nfour\n")

	got := ContentTail(path, 2)
	want := []string{"three", "four"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ContentTail = %v, want %v", got, want)
	}

	// Fewer lines than requested returns them all.
	short := writeFile(t, tmpDir, "short.txt", "only\n")
	if got := ContentTail(short, 3); !reflect.DeepEqual(got, []string{"only"}) {
		t.Errorf("ContentTail on a short file = %v", got)
	}
}

func TestPreviewClipsLongLines(t *testing.T) {
	tmpDir := t.TempDir()
	long := strings.Repeat("x", 100)
	path := writeFile(t, tmpDir, "wide.txt", long+"\n")

	got := ContentPreview(path, 1)
	if len(got) != 1 || len([]rune(got[0])) != previewWidth {
		t.Errorf("expected one line clipped to %d runes, got %v", previewWidth, got)
	}
}

func TestPreviewUnreadableFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.txt")
	if got := ContentPreview(missing, 2); got != nil {
		t.Errorf("expected nil for a missing file, got %v", got)
	}
	if got := ContentTail(missing, 2); got != nil {
		t.Errorf("expected nil for a missing file, got %v", got)
	}
}

func TestPreviewEmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeFile(t, tmpDir, "empty.txt", "")

	if got := ContentPreview(path, 2); got != nil {
		t.Errorf("expected nil for an empty file, got %v", got)
	}
	if got := ContentTail(path, 2); got != nil {
		t.Errorf("expected nil for an empty file, got %v", got)
	}
}
