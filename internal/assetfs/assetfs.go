// Package assetfs merges the configured asset roots into a single
// filesystem and matches glob patterns against the merged tree. Roots
// may be mounted under a path prefix; mounted files appear under that
// prefix both when matching and when serving.
package assetfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"github.com/yalue/merged_fs"
)

// Root is one configured asset directory. Mount, when non-empty,
// prefixes the paths of everything under Path.
type Root struct {
	Path  string
	Mount string
}

// Assets is the merged asset tree.
type Assets struct {
	fsys  fs.FS
	roots []Root
}

var _ fs.FS = (*Assets)(nil)

// New merges the given roots, earlier roots shadowing later ones where
// paths collide. Every path must name an existing directory.
func New(roots ...Root) (*Assets, error) {
	if len(roots) == 0 {
		return nil, errors.New("no asset roots")
	}

	var top []fs.FS
	mounted := make(map[string][]fs.FS)
	for _, r := range roots {
		info, err := os.Stat(r.Path)
		if err != nil {
			return nil, fmt.Errorf("asset root: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("asset root %v is not a directory", r.Path)
		}

		mount := strings.Trim(r.Mount, "/")
		if mount == "" {
			top = append(top, os.DirFS(r.Path))
			continue
		}
		if !fs.ValidPath(mount) {
			return nil, fmt.Errorf("invalid mount %q for asset root %v", r.Mount, r.Path)
		}
		mounted[mount] = append(mounted[mount], os.DirFS(r.Path))
	}

	// One mountFS per mount prefix. Merging the instances lets
	// overlapping prefixes union during directory walks instead of one
	// shadowing the other.
	for _, mount := range slices.Sorted(maps.Keys(mounted)) {
		top = append(top, newMountFS(map[string]fs.FS{mount: merge(mounted[mount])}))
	}

	return &Assets{fsys: merge(top), roots: roots}, nil
}

// NewFS wraps an existing filesystem, typically an in-memory one.
func NewFS(fsys fs.FS) *Assets {
	return &Assets{fsys: fsys}
}

func merge(fss []fs.FS) fs.FS {
	if len(fss) == 1 {
		return fss[0]
	}
	return merged_fs.MergeMultiple(fss...)
}

func (a *Assets) Open(name string) (fs.File, error) {
	return a.fsys.Open(name)
}

// Roots returns the configured roots in configuration order. Empty for
// trees built with NewFS.
func (a *Assets) Roots() []Root {
	return a.roots
}

// Match walks the merged tree and returns the file paths matching at
// least one include pattern and no exclude pattern, in walk order.
// Patterns use / as separator, so * stays within one path segment and
// ** crosses segments.
func (a *Assets) Match(ctx context.Context, includes, excludes []string) ([]string, error) {
	inc, err := compile(includes)
	if err != nil {
		return nil, err
	}
	exc, err := compile(excludes)
	if err != nil {
		return nil, err
	}

	var paths []string
	err = fs.WalkDir(a.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !matchAny(inc, path) || matchAny(exc, path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// ContainsFiles reports whether the tree holds at least one regular
// file. Serving an all-empty tree is almost always a configuration
// mistake worth warning about.
func (a *Assets) ContainsFiles() (bool, error) {
	found := errors.New("found")
	err := fs.WalkDir(a.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return found
		}
		return nil
	})
	if errors.Is(err, found) {
		return true, nil
	}
	return false, err
}

func compile(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, len(patterns))
	for i, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %v", p, err)
		}
		globs[i] = g
	}
	return globs, nil
}

func matchAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}
