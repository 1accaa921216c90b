package witness

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// writeFile creates a file with the given content, making parent
// directories as needed.
func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

func TestTakeRecordsEveryRegularFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "a.txt", "alpha")
	writeFile(t, tmpDir, "b.txt", "beta beta")
	writeFile(t, tmpDir, "sub/c.txt", "gamma")
	writeFile(t, tmpDir, "sub/deep/d.txt", "delta")

	snap, err := Take(context.Background(), tmpDir, Options{LogLevel: LogLevelError})
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}

	if len(snap) != 4 {
		t.Fatalf("expected 4 entries, got %d: %v", len(snap), snap)
	}

	// Paths must be relative, slash-separated, and carry real sizes.
	entry, ok := snap["sub/deep/d.txt"]
	if !ok {
		t.Fatalf("expected entry for sub/deep/d.txt, got %v", snap)
	}
	if entry.Size != int64(len("delta")) {
		t.Errorf("expected size %d, got %d", len("delta"), entry.Size)
	}
	if entry.ModTime.IsZero() {
		t.Error("expected a modification time")
	}
	if snap["b.txt"].Size != int64(len("beta beta")) {
		t.Errorf("wrong size for b.txt: %d", snap["b.txt"].Size)
	}
}

func TestTakeSkipsDirectoriesAndSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on Windows")
	}
	tmpDir := t.TempDir()
	target := writeFile(t, tmpDir, "real.txt", "content")
	if err := os.Symlink(target, filepath.Join(tmpDir, "link.txt")); err != nil {
		t.Skipf("cannot create symlink: %v", err)
	}
	if err := os.Symlink(tmpDir, filepath.Join(tmpDir, "linkdir")); err != nil {
		t.Skipf("cannot create symlink: %v", err)
	}

	snap, err := Take(context.Background(), tmpDir, Options{LogLevel: LogLevelError})
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}

	if len(snap) != 1 {
		t.Fatalf("expected only the regular file, got %v", snap)
	}
	if _, ok := snap["real.txt"]; !ok {
		t.Errorf("expected real.txt in snapshot, got %v", snap)
	}
}

func TestTakeSkipsHiddenByDefault(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "visible.txt", "x")
	writeFile(t, tmpDir, ".hidden.txt", "x")
	writeFile(t, tmpDir, ".git/config", "x")
	writeFile(t, tmpDir, "sub/.secret", "x")

	snap, err := Take(context.Background(), tmpDir, Options{LogLevel: LogLevelError})
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}
	if len(snap) != 1 {
		t.Fatalf("expected 1 entry, got %v", snap)
	}

	snap, err = Take(context.Background(), tmpDir, Options{IncludeHidden: true, LogLevel: LogLevelError})
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}
	if len(snap) != 4 {
		t.Fatalf("expected 4 entries with IncludeHidden, got %v", snap)
	}
}

func TestTakeFilters(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "main.go", "x")
	writeFile(t, tmpDir, "main_test.go", "x")
	writeFile(t, tmpDir, "notes.txt", "x")
	writeFile(t, tmpDir, "pkg/util.go", "x")
	writeFile(t, tmpDir, "pkg/deep/core.go", "x")

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "flat",
			opts: Options{Flat: true},
			want: []string{"main.go", "main_test.go", "notes.txt"},
		},
		{
			name: "depth one",
			opts: Options{MaxDepth: 1},
			want: []string{"main.go", "main_test.go", "notes.txt"},
		},
		{
			name: "depth two",
			opts: Options{MaxDepth: 2},
			want: []string{"main.go", "main_test.go", "notes.txt", "pkg/util.go"},
		},
		{
			name: "pattern",
			opts: Options{Pattern: "*.go"},
			want: []string{"main.go", "main_test.go", "pkg/util.go", "pkg/deep/core.go"},
		},
		{
			name: "pattern with ignore",
			opts: Options{Pattern: "*.go", IgnorePattern: "*_test.go"},
			want: []string{"main.go", "pkg/util.go", "pkg/deep/core.go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.LogLevel = LogLevelError
			snap, err := Take(context.Background(), tmpDir, tt.opts)
			if err != nil {
				t.Fatalf("Take failed: %v", err)
			}
			if len(snap) != len(tt.want) {
				t.Fatalf("expected %d entries, got %v", len(tt.want), snap)
			}
			for _, p := range tt.want {
				if _, ok := snap[p]; !ok {
					t.Errorf("expected %s in snapshot, got %v", p, snap)
				}
			}
		})
	}
}

func TestTakeNonexistentRoot(t *testing.T) {
	snap, err := Take(context.Background(), filepath.Join(t.TempDir(), "missing"), Options{LogLevel: LogLevelError})
	if err == nil {
		t.Fatal("expected an error for a nonexistent root")
	}
	if snap != nil {
		t.Errorf("expected no partial output, got %v", snap)
	}

	var accessErr *DirectoryAccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("expected DirectoryAccessError, got %T: %v", err, err)
	}
	if accessErr.Unwrap() == nil {
		t.Error("expected a wrapped cause")
	}
}

func TestTakeRootIsFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeFile(t, tmpDir, "plain.txt", "x")

	_, err := Take(context.Background(), path, Options{LogLevel: LogLevelError})
	var accessErr *DirectoryAccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("expected DirectoryAccessError for a non-directory root, got %v", err)
	}
}

func TestTakeCanceledContext(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "a.txt", "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Take(ctx, tmpDir, Options{LogLevel: LogLevelError}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestTakeExpiredDeadline(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "a.txt", "x")
	writeFile(t, tmpDir, "b.txt", "y")

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	snap, err := Take(ctx, tmpDir, Options{LogLevel: LogLevelError})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	// A cut-short walk must never be surfaced as a complete snapshot.
	if snap != nil {
		t.Errorf("expected no snapshot, got %v", snap)
	}
}

func TestTakeEmptyDirectory(t *testing.T) {
	snap, err := Take(context.Background(), t.TempDir(), Options{LogLevel: LogLevelError})
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}
	if len(snap) != 0 {
		t.Errorf("expected an empty snapshot, got %v", snap)
	}
}
