package filesystem

import (
	"errors"
	"io/fs"
)

// FS is the subset of filesystem operations the build engine performs
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	RemoveAll(path string) error
	ReadDir(name string) ([]fs.DirEntry, error)
}

// Exists probes a path. A missing path is not an error; any other stat
// failure is returned.
func Exists(fsys FS, name string) (fs.FileInfo, bool, error) {
	info, err := fsys.Stat(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return info, true, nil
}
