package convert

import (
	"context"
	"errors"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/snipfmt/cache"
	"github.com/jonwraymond/snipfmt/observe"
)

// Result is the successful outcome of an operation.
type Result struct {
	Output string `json:"output"`
	Mode   Mode   `json:"mode"`

	// Cached reports that Output came from the cache.
	Cached bool `json:"-"`
}

// Converter runs format, parse and convert with detection and caching.
// It is safe for concurrent use.
type Converter struct {
	memo   *cache.Memoizer
	mw     *observe.Middleware
	keyer  cache.Keyer
	policy cache.Policy
	ttl    time.Duration
}

// Option configures a Converter.
type Option func(*Converter)

// WithPolicy sets the caching policy. Default: cache.DefaultPolicy().
func WithPolicy(p cache.Policy) Option {
	return func(c *Converter) { c.policy = p }
}

// WithKeyer sets the cache key derivation. Default: cache.NewDefaultKeyer("").
func WithKeyer(k cache.Keyer) Option {
	return func(c *Converter) { c.keyer = k }
}

// WithTTL sets the expiry of stored results. Default: cache.ConvertTTL.
func WithTTL(d time.Duration) Option {
	return func(c *Converter) { c.ttl = d }
}

// WithMiddleware instruments every operation.
func WithMiddleware(mw *observe.Middleware) Option {
	return func(c *Converter) { c.mw = mw }
}

// New creates a Converter backed by store. A nil store disables caching.
func New(store cache.Cache, opts ...Option) *Converter {
	c := &Converter{
		policy: cache.DefaultPolicy(),
		ttl:    cache.ConvertTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.mw == nil {
		c.mw = observe.NopMiddleware()
	}
	c.memo = cache.NewMemoizer(store, c.keyer, c.policy)
	return c
}

// Format detects the mode of raw and pretty-prints it in that mode.
func (c *Converter) Format(ctx context.Context, raw string) (Result, error) {
	return c.Do(ctx, OpFormat, raw)
}

// Parse detects the mode of raw and returns a debug rendering of its value.
func (c *Converter) Parse(ctx context.Context, raw string) (Result, error) {
	return c.Do(ctx, OpParse, raw)
}

// Convert detects the mode of raw and renders it in the other format.
func (c *Converter) Convert(ctx context.Context, raw string) (Result, error) {
	return c.Do(ctx, OpConvert, raw)
}

// Do runs op on raw with the detected mode.
func (c *Converter) Do(ctx context.Context, op Operation, raw string) (Result, error) {
	return c.DoAs(ctx, op, raw, "")
}

// DoAs runs op on raw. An empty mode means detect; otherwise raw is parsed
// strictly as mode. Unknown input is never cached. Cache hits skip parsing
// the forced mode and rendering; the reported mode is derived from the
// input mode and op.
func (c *Converter) DoAs(ctx context.Context, op Operation, raw string, mode Mode) (Result, error) {
	if _, err := ParseOperation(string(op)); err != nil {
		return Result{}, err
	}

	var (
		tree      *yaml.Node
		detectErr error
	)
	if mode == "" {
		mode, tree, detectErr = detect(raw)
	}

	var res Result
	exec := c.mw.Wrap(func(ctx context.Context, meta observe.OperationMeta) (observe.Outcome, error) {
		if detectErr != nil {
			return observe.Outcome{}, unknownModeError(op, detectErr)
		}

		req := cache.Request{Operation: string(op), Mode: string(mode), Input: raw, TTL: c.ttl}
		value, hit, err := c.memo.Do(ctx, req, func(context.Context) ([]byte, error) {
			out, err := run(op, raw, mode, tree)
			return []byte(out), err
		})
		if err != nil {
			return observe.Outcome{}, err
		}

		res = Result{Output: string(value), Mode: op.ResultMode(mode), Cached: hit}
		return observe.Outcome{Mode: string(res.Mode), CacheHit: hit}, nil
	})

	_, err := exec(ctx, observe.OperationMeta{Component: "convert", Name: string(op), Mode: string(mode)})
	if err != nil {
		var ce *Error
		if !errors.As(err, &ce) {
			err = &Error{Op: op, Kind: KindSerialization, Err: err}
		}
		return Result{}, err
	}
	return res, nil
}
