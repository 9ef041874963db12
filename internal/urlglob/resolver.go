// Package urlglob expands include and exclude glob patterns into URL
// lists. Pattern resolution walks the asset filesystem through a Matcher
// and is memoized per (base path, include, exclude) key in a process-wide
// LRU cache.
package urlglob

import (
	"context"
	"strings"
	"time"

	"github.com/tagmill/tagmill/internal/logging"
	"github.com/tagmill/tagmill/internal/metrics"
)

// Matcher returns the relative paths under the asset root that match any
// include pattern and no exclude pattern, in the matcher's walk order.
type Matcher interface {
	Match(ctx context.Context, includes, excludes []string) ([]string, error)
}

// Key identifies one resolution: the URL base prefix plus the raw include
// and exclude pattern strings. Identical keys are served from cache.
type Key struct {
	Base    string
	Include string
	Exclude string
}

func (k Key) flight() string {
	return k.Base + "\x00" + k.Include + "\x00" + k.Exclude
}

// Resolver builds URL lists from glob patterns. Safe for concurrent use;
// the cache is the only shared state.
type Resolver struct {
	matcher Matcher
	base    string
	cache   *cache
	log     *logging.Logger
}

func NewResolver(matcher Matcher) *Resolver {
	return &Resolver{
		matcher: matcher,
		cache:   newCache(defaultCacheSize),
		log:     logging.NewNopLogger(),
	}
}

// WithBasePath sets the URL prefix joined onto every matched file path.
func (r *Resolver) WithBasePath(base string) *Resolver {
	r.base = base
	return r
}

// WithCacheSize replaces the cache with one holding up to n entries.
func (r *Resolver) WithCacheSize(n int) *Resolver {
	r.cache = newCache(n)
	return r
}

func (r *Resolver) WithLogger(log *logging.Logger) *Resolver {
	r.log = log
	return r
}

// Purge drops all cached URL lists. The asset watcher calls this when
// files under a root change.
func (r *Resolver) Purge() {
	r.cache.Purge()
}

// URLList expands the include patterns into base-relative URLs, drops
// exclude matches, prepends staticSrc, and deduplicates preserving
// first-seen order. Without include patterns the list is just staticSrc,
// or empty. URL comparison ignores case, following the loose matching
// browsers and most asset servers apply.
func (r *Resolver) URLList(ctx context.Context, staticSrc, includes, excludes string) ([]string, error) {
	if includes == "" {
		if staticSrc == "" {
			return nil, nil
		}
		return []string{staticSrc}, nil
	}

	key := Key{Base: r.base, Include: includes, Exclude: excludes}

	start := time.Now()
	matched, hit, err := r.cache.Get(key, func() ([]string, error) {
		return r.expand(ctx, key)
	})
	metrics.GlobResolved(start, hit)
	if err != nil {
		return nil, err
	}
	if !hit {
		r.log.Debugf("resolved %q minus %q to %d urls", includes, excludes, len(matched))
	}

	out := make([]string, 0, len(matched)+1)
	seen := make(map[string]struct{}, len(matched)+1)
	add := func(url string) {
		k := strings.ToLower(url)
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, url)
	}

	if staticSrc != "" {
		add(staticSrc)
	}
	for _, url := range matched {
		add(url)
	}
	return out, nil
}

func (r *Resolver) expand(ctx context.Context, key Key) ([]string, error) {
	includes := splitPatterns(key.Include)
	if len(includes) == 0 {
		return nil, nil
	}

	paths, err := r.matcher.Match(ctx, includes, splitPatterns(key.Exclude))
	if err != nil {
		return nil, err
	}

	urls := make([]string, len(paths))
	for i, p := range paths {
		urls[i] = joinBase(key.Base, p)
	}
	return urls, nil
}

// splitPatterns splits a comma-separated pattern list, dropping empty
// entries and the leading / or ~/ that authors write on root-relative
// patterns. The matcher is already rooted.
func splitPatterns(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		p = strings.TrimPrefix(p, "~")
		p = strings.TrimPrefix(p, "/")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinBase(base, p string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(p, "/")
}
