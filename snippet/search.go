package snippet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonwraymond/snipfmt/cache"
	"github.com/jonwraymond/snipfmt/observe"
)

// Result is one search hit.
type Result struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Language
}

// Searcher finds snippets whose content or language label contains a
// query, ignoring case. Results are cached per query.
type Searcher struct {
	repo Repository
	memo *cache.Memoizer
	mw   *observe.Middleware
	ttl  time.Duration
}

// SearchOption configures a Searcher.
type SearchOption func(*Searcher)

// WithSearchTTL sets how long results are cached. Default: cache.SearchTTL.
func WithSearchTTL(d time.Duration) SearchOption {
	return func(s *Searcher) { s.ttl = d }
}

// WithSearchMiddleware instruments every search.
func WithSearchMiddleware(mw *observe.Middleware) SearchOption {
	return func(s *Searcher) { s.mw = mw }
}

// NewSearcher creates a Searcher over repo. A nil store disables caching.
func NewSearcher(repo Repository, store cache.Cache, opts ...SearchOption) *Searcher {
	s := &Searcher{repo: repo, ttl: cache.SearchTTL}
	for _, opt := range opts {
		opt(s)
	}
	if s.mw == nil {
		s.mw = observe.NopMiddleware()
	}
	policy := cache.DefaultPolicy()
	policy.DefaultTTL = s.ttl
	s.memo = cache.NewMemoizer(store, nil, policy)
	return s
}

// Search returns the matching snippets in name order. A blank query
// matches nothing and is not cached. cached reports a cache hit.
func (s *Searcher) Search(ctx context.Context, query string) (results []Result, cached bool, err error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, false, nil
	}

	exec := s.mw.Wrap(func(ctx context.Context, _ observe.OperationMeta) (observe.Outcome, error) {
		req := cache.Request{Operation: "search", Input: q, TTL: s.ttl}
		value, hit, err := s.memo.Do(ctx, req, func(ctx context.Context) ([]byte, error) {
			found, err := s.scan(ctx, q)
			if err != nil {
				return nil, err
			}
			return json.Marshal(found)
		})
		if err != nil {
			return observe.Outcome{}, err
		}
		if err := json.Unmarshal(value, &results); err != nil {
			return observe.Outcome{}, fmt.Errorf("snippet: decode cached search: %w", err)
		}
		cached = hit
		return observe.Outcome{CacheHit: hit}, nil
	})

	if _, err := exec(ctx, observe.OperationMeta{Component: "snippet", Name: "search"}); err != nil {
		return nil, false, err
	}
	return results, cached, nil
}

func (s *Searcher) scan(ctx context.Context, q string) ([]Result, error) {
	names, err := s.repo.ListNames(ctx)
	if err != nil {
		return nil, err
	}

	found := []Result{}
	for _, name := range names {
		content, err := s.repo.ReadByName(ctx, name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		lang := LanguageFor(name)
		if strings.Contains(strings.ToLower(content), q) || strings.Contains(strings.ToLower(lang.Label), q) {
			found = append(found, Result{Name: name, Title: Title(name), Content: content, Language: lang})
		}
	}
	return found, nil
}
