package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/addonc/pkg/filesystem"
)

// FileTree represents a directory structure for testing. Values are either
// file contents (string) or nested directories (FileTree).
type FileTree map[string]interface{}

// WriteTree creates tree below basePath
func WriteTree(t *testing.T, fsys filesystem.FS, basePath string, tree FileTree) {
	t.Helper()

	if err := fsys.MkdirAll(basePath, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", basePath, err)
	}

	for name, content := range tree {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			if err := fsys.WriteFile(fullPath, []byte(v), 0644); err != nil {
				t.Fatalf("Failed to write file %s: %v", fullPath, err)
			}
		case FileTree:
			WriteTree(t, fsys, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, content)
		}
	}
}

// Snapshot returns the content of every file below root keyed by
// slash-separated relative path. Empty directories do not appear.
func Snapshot(t *testing.T, fsys filesystem.FS, root string) map[string]string {
	t.Helper()

	files := make(map[string]string)
	var walk func(dir, rel string)
	walk = func(dir, rel string) {
		entries, err := fsys.ReadDir(dir)
		if err != nil {
			t.Fatalf("Failed to read directory %s: %v", dir, err)
		}
		for _, entry := range entries {
			childRel := entry.Name()
			if rel != "" {
				childRel = rel + "/" + entry.Name()
			}
			childPath := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				walk(childPath, childRel)
				continue
			}
			data, err := fsys.ReadFile(childPath)
			if err != nil {
				t.Fatalf("Failed to read file %s: %v", childPath, err)
			}
			files[childRel] = string(data)
		}
	}
	walk(root, "")
	return files
}
