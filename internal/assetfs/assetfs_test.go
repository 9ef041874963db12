package assetfs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tagmill/tagmill/internal/logging"
	"github.com/tagmill/tagmill/internal/util"
)

func testAssets() *Assets {
	return NewFS(util.MapFS(map[string]string{
		"index.html":              "<html></html>",
		"css/site.css":            "body {}",
		"js/app.min.js":           "app",
		"js/site.js":              "site",
		"js/vendor/jquery.js":     "jquery",
		"js/vendor/jquery.min.js": "jquery.min",
	}))
}

func TestMatch(t *testing.T) {
	testCases := []struct {
		note     string
		includes []string
		excludes []string
		exp      []string
	}{
		{
			note:     "star stays within one segment",
			includes: []string{"js/*.js"},
			exp:      []string{"js/app.min.js", "js/site.js"},
		},
		{
			note:     "double star crosses segments",
			includes: []string{"js/**/*.js"},
			exp:      []string{"js/vendor/jquery.js", "js/vendor/jquery.min.js"},
		},
		{
			note:     "everything under a directory",
			includes: []string{"js/**"},
			exp:      []string{"js/app.min.js", "js/site.js", "js/vendor/jquery.js", "js/vendor/jquery.min.js"},
		},
		{
			note:     "excludes drop matches",
			includes: []string{"js/**"},
			excludes: []string{"js/**.min.js"},
			exp:      []string{"js/site.js", "js/vendor/jquery.js"},
		},
		{
			note:     "multiple includes union in walk order",
			includes: []string{"js/site.js", "css/*.css"},
			exp:      []string{"css/site.css", "js/site.js"},
		},
		{
			note:     "no matches",
			includes: []string{"img/*.png"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.note, func(t *testing.T) {
			paths, err := testAssets().Match(t.Context(), tc.includes, tc.excludes)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.exp, paths); diff != "" {
				t.Fatal("unexpected paths (-want, +got):", diff)
			}
		})
	}
}

func TestMatchInvalidPattern(t *testing.T) {
	if _, err := testAssets().Match(t.Context(), []string{"js/["}, nil); err == nil {
		t.Fatal("expected compile error for include pattern")
	}
	if _, err := testAssets().Match(t.Context(), []string{"js/*.js"}, []string{"js/["}); err == nil {
		t.Fatal("expected compile error for exclude pattern")
	}
}

func TestMatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := testAssets().Match(ctx, []string{"js/*.js"}, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected %v, got %v", context.Canceled, err)
	}
}

func TestNewMergesRoots(t *testing.T) {
	site := t.TempDir()
	writeFile(t, site, "site.js", "site")
	writeFile(t, site, "shared.js", "from site")

	vendor := t.TempDir()
	writeFile(t, vendor, "jquery/jquery.js", "jquery")

	overlay := t.TempDir()
	writeFile(t, overlay, "shared.js", "from overlay")

	assets, err := New(
		Root{Path: overlay},
		Root{Path: site},
		Root{Path: vendor, Mount: "/lib/"},
	)
	if err != nil {
		t.Fatal(err)
	}

	paths, err := assets.Match(t.Context(), []string{"**"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	exp := []string{"lib/jquery/jquery.js", "shared.js", "site.js"}
	if diff := cmp.Diff(exp, paths); diff != "" {
		t.Fatal("unexpected paths (-want, +got):", diff)
	}

	// Earlier roots shadow later ones.
	data, err := fs.ReadFile(assets, "shared.js")
	if err != nil {
		t.Fatal(err)
	}
	if exp, act := "from overlay", string(data); exp != act {
		t.Fatalf("expected %q, got %q", exp, act)
	}

	// Mounted files serve under their prefix.
	data, err = fs.ReadFile(assets, "lib/jquery/jquery.js")
	if err != nil {
		t.Fatal(err)
	}
	if exp, act := "jquery", string(data); exp != act {
		t.Fatalf("expected %q, got %q", exp, act)
	}
}

func TestNewErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "site.js", "site")

	testCases := []struct {
		note  string
		roots []Root
	}{
		{note: "no roots"},
		{note: "missing directory", roots: []Root{{Path: filepath.Join(dir, "missing")}}},
		{note: "root is a file", roots: []Root{{Path: filepath.Join(dir, "site.js")}}},
		{note: "invalid mount", roots: []Root{{Path: dir, Mount: "../escape"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.note, func(t *testing.T) {
			if _, err := New(tc.roots...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestContainsFiles(t *testing.T) {
	ok, err := testAssets().ContainsFiles()
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected files to be found")
	}

	ok, err = NewFS(util.MapFS(nil)).ContainsFiles()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected no files in empty tree")
	}
}

func TestMountFS(t *testing.T) {
	fsys := newMountFS(map[string]fs.FS{
		"static/vendor": util.MapFS(map[string]string{"jquery.js": "jquery"}),
	})

	data, err := fs.ReadFile(fsys, "static/vendor/jquery.js")
	if err != nil {
		t.Fatal(err)
	}
	if exp, act := "jquery", string(data); exp != act {
		t.Fatalf("expected %q, got %q", exp, act)
	}

	for _, tc := range []struct {
		dir string
		exp []string
	}{
		{dir: ".", exp: []string{"static"}},
		{dir: "static", exp: []string{"vendor"}},
		{dir: "static/vendor", exp: []string{"jquery.js"}},
	} {
		entries, err := fs.ReadDir(fsys, tc.dir)
		if err != nil {
			t.Fatal(err)
		}
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		if diff := cmp.Diff(tc.exp, names); diff != "" {
			t.Fatalf("unexpected listing of %v (-want, +got): %v", tc.dir, diff)
		}
	}

	for _, name := range []string{"missing", "static/missing", "static/vendor/missing.js"} {
		if _, err := fsys.Open(name); !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("open %v: expected %v, got %v", name, fs.ErrNotExist, err)
		}
	}
}

func TestMountFSNestedPrefix(t *testing.T) {
	fsys := newMountFS(map[string]fs.FS{
		"assets":        util.MapFS(map[string]string{"vendor/app.js": "outer"}),
		"assets/vendor": util.MapFS(map[string]string{"app.js": "inner"}),
	})

	// The longest prefix wins, so the inner mount is not shadowed.
	data, err := fs.ReadFile(fsys, "assets/vendor/app.js")
	if err != nil {
		t.Fatal(err)
	}
	if exp, act := "inner", string(data); exp != act {
		t.Fatalf("expected %q, got %q", exp, act)
	}
}

func TestWatcherPurgesOnChange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "site.js", "site")

	assets, err := New(Root{Path: dir})
	if err != nil {
		t.Fatal(err)
	}

	purged := make(chan struct{}, 1)
	w, err := NewWatcher(assets, func() {
		select {
		case purged <- struct{}{}:
		default:
		}
	}, logging.NewNopLogger())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	go w.Run(ctx)

	writeFile(t, dir, "extra.js", "extra")

	select {
	case <-purged:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a glob cache purge after file creation")
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
