// Derived from testing/fstest, go1.25:
// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// Reduced to what asset mounting needs: existing fs.FS instances bound
// under path prefixes, with the parent directories of each prefix
// synthesized on the fly.

package assetfs

import (
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"
)

// mountFS assembles filesystems under path prefixes. Lookups below a
// prefix delegate to the mounted filesystem; the directories leading up
// to each prefix are synthesized. Nested prefixes resolve longest
// first, so a mount is never shadowed by an outer one.
type mountFS struct {
	mounts   map[string]fs.FS
	prefixes []string // longest first
}

var _ fs.FS = (*mountFS)(nil)

func newMountFS(mounts map[string]fs.FS) *mountFS {
	prefixes := make([]string, 0, len(mounts))
	for prefix := range mounts {
		prefixes = append(prefixes, prefix)
	}
	slices.SortFunc(prefixes, func(a, b string) int {
		if d := len(b) - len(a); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	return &mountFS{mounts: mounts, prefixes: prefixes}
}

func (fsys *mountFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	if sub, ok := fsys.mounts[name]; ok {
		return &mountPoint{dirInfo: dirInfo{name: path.Base(name)}, path: name, fsys: sub}, nil
	}
	for _, prefix := range fsys.prefixes {
		if strings.HasPrefix(name, prefix+"/") {
			return fsys.mounts[prefix].Open(name[len(prefix)+1:])
		}
	}

	// Not inside any mount: the name can only be a synthesized parent
	// directory of one or more prefixes.
	children := make(map[string]bool)
	prefix := ""
	if name != "." {
		prefix = name + "/"
	}
	for _, p := range fsys.prefixes {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		elem := p[len(prefix):]
		if i := strings.Index(elem, "/"); i >= 0 {
			elem = elem[:i]
		}
		children[elem] = true
	}
	if len(children) == 0 {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	entries := make([]dirInfo, 0, len(children))
	for child := range children {
		entries = append(entries, dirInfo{name: child})
	}
	slices.SortFunc(entries, func(a, b dirInfo) int {
		return strings.Compare(a.name, b.name)
	})

	elem := name
	if i := strings.LastIndex(name, "/"); i >= 0 {
		elem = name[i+1:]
	}
	return &syntheticDir{dirInfo: dirInfo{name: elem}, path: name, entries: entries}, nil
}

// dirInfo is the fs.FileInfo and fs.DirEntry of a synthesized directory.
type dirInfo struct {
	name string
}

func (i dirInfo) Name() string               { return i.name }
func (dirInfo) Size() int64                  { return 0 }
func (dirInfo) Mode() fs.FileMode            { return fs.ModeDir | 0555 }
func (dirInfo) Type() fs.FileMode            { return fs.ModeDir }
func (dirInfo) ModTime() time.Time           { return time.Time{} }
func (dirInfo) IsDir() bool                  { return true }
func (dirInfo) Sys() any                     { return nil }
func (i dirInfo) Info() (fs.FileInfo, error) { return i, nil }

// syntheticDir is an open synthesized directory.
type syntheticDir struct {
	dirInfo
	path    string
	entries []dirInfo
	offset  int
}

func (d *syntheticDir) Stat() (fs.FileInfo, error) { return d.dirInfo, nil }
func (*syntheticDir) Close() error                 { return nil }
func (d *syntheticDir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.path, Err: fs.ErrInvalid}
}

func (d *syntheticDir) ReadDir(count int) ([]fs.DirEntry, error) {
	n := len(d.entries) - d.offset
	if n == 0 && count > 0 {
		return nil, io.EOF
	}
	if count > 0 && n > count {
		n = count
	}
	list := make([]fs.DirEntry, n)
	for i := range list {
		list[i] = d.entries[d.offset+i]
	}
	d.offset += n
	return list, nil
}

// mountPoint is an open mount prefix directory; listing it delegates to
// the mounted filesystem's root.
type mountPoint struct {
	dirInfo
	path string
	fsys fs.FS
}

func (d *mountPoint) Stat() (fs.FileInfo, error) { return d.dirInfo, nil }
func (*mountPoint) Close() error                 { return nil }
func (d *mountPoint) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.path, Err: fs.ErrInvalid}
}

func (d *mountPoint) ReadDir(int) ([]fs.DirEntry, error) {
	return fs.ReadDir(d.fsys, ".") // count ignored, fine for walking
}
