// Package util holds small test support helpers.
package util

import (
	"io/fs"
	"testing/fstest"
)

// MapFS builds an in-memory filesystem from path to file content, for
// tests that exercise asset matching without touching disk.
func MapFS(files map[string]string) fs.FS {
	fsys := make(fstest.MapFS, len(files))
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(data)}
	}
	return fsys
}
