package adapter

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	m "stringscan.dev/pkg/stringscan/internal/model"
)

func TestLocalSourceFSAdapter_Walk(t *testing.T) {
	t.Run("visits nested files in lexical order", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		writeTestFile(t, filepath.Join(root, "b.swift"), "let b = 1\n")
		writeTestFile(t, filepath.Join(root, "a.swift"), "let a = 1\n")

		nestedDir := filepath.Join(root, "nested")
		mustMkdir(t, nestedDir)
		child := filepath.Join(nestedDir, "child.swift")
		writeTestFile(t, child, "let c = 1\n")

		var visited []string
		err := adapter.Walk(m.Path(root), func(path string, _ fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			visited = append(visited, path)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}

		want := []string{root, filepath.Join(root, "a.swift"), filepath.Join(root, "b.swift"), nestedDir, child}
		if len(visited) != len(want) {
			t.Fatalf("Walk() visited %v, want %v", visited, want)
		}

		for i := range want {
			if visited[i] != want[i] {
				t.Fatalf("Walk() visited[%d] = %s, want %s", i, visited[i], want[i])
			}
		}
	})

	t.Run("skip dir prunes subtree", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		root := t.TempDir()
		skipped := filepath.Join(root, "Pods")
		mustMkdir(t, skipped)
		writeTestFile(t, filepath.Join(skipped, "Lib.swift"), "let x = 1\n")

		var visited []string
		err := adapter.Walk(m.Path(root), func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() && path == skipped {
				return filepath.SkipDir
			}
			visited = append(visited, path)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}

		if containsPath(visited, filepath.Join(skipped, "Lib.swift")) {
			t.Fatalf("Walk() visited a file below a skipped directory")
		}
	})

	t.Run("missing root reports error", func(t *testing.T) {
		adapter := NewLocalSourceFSAdapter()

		missing := filepath.Join(t.TempDir(), "missing")
		err := adapter.Walk(m.Path(missing), func(_ string, _ fs.DirEntry, err error) error {
			return err
		})
		if err == nil {
			t.Fatalf("Walk() expected error for missing root")
		}
	})
}

func TestLocalSourceFSAdapter_ReadFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "main.swift")
	content := "print(\"hello\")\n"
	writeTestFile(t, path, content)

	got, err := adapter.ReadFile(m.Path(path))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(got) != content {
		t.Fatalf("ReadFile() = %q, want %q", string(got), content)
	}
}

func TestLocalSourceFSAdapter_FileInfo(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "main.swift")
	writeTestFile(t, path, "let a = 1\n")

	info, err := adapter.FileInfo(m.Path(path))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if info.IsDir() {
		t.Fatalf("FileInfo() reported file as directory")
	}

	dirInfo, err := adapter.FileInfo(m.Path(root))
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}

	if !dirInfo.IsDir() {
		t.Fatalf("FileInfo() reported directory as file")
	}
}

func TestLocalSourceFSAdapter_WriteFile(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	path := filepath.Join(t.TempDir(), "out.json")
	if err := adapter.WriteFile(m.Path(path), []byte("[]"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back %s: %v", path, err)
	}

	if string(got) != "[]" {
		t.Fatalf("WriteFile() wrote %q, want %q", got, "[]")
	}
}

func TestLocalSourceFSAdapter_PathHelpers(t *testing.T) {
	adapter := NewLocalSourceFSAdapter()

	base := m.Path("/tmp/project")
	target := m.Path("/tmp/project/sub/dir/file.swift")

	rel, err := adapter.RelPath(base, target)
	if err != nil {
		t.Fatalf("RelPath() error = %v", err)
	}

	if string(rel) != filepath.Join("sub", "dir", "file.swift") {
		t.Fatalf("RelPath() = %s, want %s", rel, filepath.Join("sub", "dir", "file.swift"))
	}

	joined := adapter.JoinPath("/tmp", "project", "sub", "file.swift")
	if string(joined) != filepath.Join("/tmp", "project", "sub", "file.swift") {
		t.Fatalf("JoinPath() = %s, want %s", joined, filepath.Join("/tmp", "project", "sub", "file.swift"))
	}

	abs, err := adapter.AbsPath("relative/dir")
	if err != nil {
		t.Fatalf("AbsPath() error = %v", err)
	}

	if !filepath.IsAbs(string(abs)) {
		t.Fatalf("AbsPath() = %s, want absolute path", abs)
	}
}

func writeTestFile(t *testing.T, path, contents string) {
	t.Helper()
	writeTestBytes(t, path, []byte(contents))
}

func writeTestBytes(t *testing.T, path string, contents []byte) {
	t.Helper()
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func mustMkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("failed to create dir %s: %v", path, err)
	}
}

func containsPath(paths []string, target string) bool {
	for _, p := range paths {
		if p == target {
			return true
		}
	}

	return false
}
