// Package testutil provides helpers for tests that build source and
// destination trees.
//
// Trees are declared inline as nested FileTree maps and written through the
// filesystem.FS interface, so the same fixture works on an in-memory
// filesystem and on t.TempDir().
package testutil
