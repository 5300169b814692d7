// Package registry exposes the encryption engines behind a single lookup by
// algorithm name.
package registry

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pkcdemo/pkc-go/pkg/pkc"
	"github.com/pkcdemo/pkc-go/pkg/pkc/ecc"
	"github.com/pkcdemo/pkc-go/pkg/pkc/elgamal"
	"github.com/pkcdemo/pkc-go/pkg/pkc/logging"
	"github.com/pkcdemo/pkc-go/pkg/pkc/rsa"
)

// Registry maps algorithm names to engines. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]pkc.Algorithm
	logger  logging.Logger
}

type options struct {
	rand   io.Reader
	logger logging.Logger
}

// Option configures New.
type Option func(*options)

// WithRand sets the randomness source shared by all engines. It must be safe
// for concurrent use if GenerateAll is called.
func WithRand(r io.Reader) Option {
	return func(o *options) { o.rand = r }
}

// WithLogger sets the logger passed to every engine.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New builds one engine per built-in scheme from cfg.
func New(cfg pkc.Config, opts ...Option) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("registry: invalid config: %w", err)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger := logging.OrDiscard(o.logger)

	rsaEngine, err := rsa.New(
		rsa.WithBits(cfg.RSABits),
		rsa.WithRounds(cfg.PrimeRounds),
		rsa.WithHash(cfg.Hash),
		rsa.WithLabel([]byte(cfg.OAEPLabel)),
		rsa.WithRand(o.rand),
		rsa.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	elgamalEngine, err := elgamal.New(
		elgamal.WithRand(o.rand),
		elgamal.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	eccEngine, err := ecc.New(
		ecc.WithHash(cfg.Hash),
		ecc.WithRand(o.rand),
		ecc.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	r := &Registry{engines: make(map[string]pkc.Algorithm), logger: logger.With("component", "registry")}
	for _, alg := range []pkc.Algorithm{rsaEngine, elgamalEngine, eccEngine} {
		r.Register(alg)
	}
	return r, nil
}

// Register adds or replaces an engine under alg.Name().
func (r *Registry) Register(alg pkc.Algorithm) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[strings.ToLower(alg.Name())] = alg
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the engine registered under name, ignoring case.
func (r *Registry) Get(name string) (pkc.Algorithm, error) {
	r.mu.RLock()
	alg, ok := r.engines[strings.ToLower(strings.TrimSpace(name))]
	r.mu.RUnlock()
	if !ok {
		return nil, pkc.Errorf("registry.Get", pkc.ErrUnsupportedAlgorithm, "unknown algorithm %q", name)
	}
	return alg, nil
}

// GenerateAll generates key pairs for the named algorithms concurrently, or
// for every registered algorithm when names is empty. The first failure
// cancels the remaining generations.
func (r *Registry) GenerateAll(ctx context.Context, names ...string) (map[string]*pkc.KeyPair, error) {
	if len(names) == 0 {
		names = r.List()
	}
	algs := make([]pkc.Algorithm, len(names))
	for i, name := range names {
		alg, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		algs[i] = alg
	}

	var mu sync.Mutex
	out := make(map[string]*pkc.KeyPair, len(algs))
	g, gctx := errgroup.WithContext(ctx)
	for _, alg := range algs {
		g.Go(func() error {
			kp, err := alg.GenerateKeys(gctx)
			if err != nil {
				r.logger.Warn(gctx, "key generation failed", "alg", alg.Name(), "error", err)
				return err
			}
			mu.Lock()
			out[alg.Name()] = kp
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
