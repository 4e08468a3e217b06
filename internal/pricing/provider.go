package pricing

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultTTL = 5 * time.Minute

// fetchTimeout bounds a shared fetch, which outlives the caller that started it.
const fetchTimeout = 5 * time.Second

type Source interface {
	Fetch(ctx context.Context) (Table, error)
}

type SourceFunc func(ctx context.Context) (Table, error)

func (f SourceFunc) Fetch(ctx context.Context) (Table, error) { return f(ctx) }

type ProviderDeps struct {
	TTL     time.Duration
	Now     func() time.Time
	Log     *zap.Logger
	Metrics *Metrics
}

// Provider serves the pricing table from a TTL cache in front of a Source.
// Pricing never fails: when the source errors the built-in defaults are
// returned and the next call tries the source again.
type Provider struct {
	src     Source
	ttl     time.Duration
	now     func() time.Time
	log     *zap.Logger
	metrics *Metrics

	mu        sync.RWMutex
	table     Table
	fetchedAt time.Time
	gen       uint64

	group singleflight.Group
}

func NewProvider(src Source, deps ProviderDeps) *Provider {
	p := &Provider{
		src:     src,
		ttl:     deps.TTL,
		now:     deps.Now,
		log:     deps.Log,
		metrics: deps.Metrics,
	}
	if p.ttl <= 0 {
		p.ttl = DefaultTTL
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	return p
}

// Pricing returns a copy of the current table. Concurrent misses share one
// fetch; a caller whose ctx ends first gets the defaults without disturbing the
// other waiters.
func (p *Provider) Pricing(ctx context.Context) Table {
	if t, ok := p.cached(); ok {
		p.metrics.hit()
		return t
	}
	p.metrics.miss()

	gen := p.generation()
	ch := p.group.DoChan("pricing-"+strconv.FormatUint(gen, 10), func() (any, error) {
		if t, ok := p.cached(); ok {
			return t, nil
		}
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return p.refresh(fctx, gen), nil
	})

	select {
	case res := <-ch:
		return res.Val.(Table).Clone()
	case <-ctx.Done():
		return Defaults()
	}
}

// Invalidate drops the cached table so the next lookup refetches. Fetches
// already in flight are not stored.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.table = nil
	p.fetchedAt = time.Time{}
	p.gen++
}

func (p *Provider) generation() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gen
}

func (p *Provider) cached() (Table, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.table == nil || p.now().Sub(p.fetchedAt) >= p.ttl {
		return nil, false
	}
	return p.table.Clone(), true
}

func (p *Provider) refresh(ctx context.Context, gen uint64) Table {
	fetched, err := p.fetch(ctx)
	if err != nil {
		p.metrics.fallback()
		p.log.Warn("pricing fetch failed, using defaults", zap.Error(err))
		return Defaults()
	}

	t := Defaults().Merge(fetched)

	p.mu.Lock()
	if p.gen == gen {
		p.table = t
		p.fetchedAt = p.now()
	}
	p.mu.Unlock()

	return t.Clone()
}

func (p *Provider) fetch(ctx context.Context) (Table, error) {
	if p.src == nil {
		return nil, ErrNoSource
	}
	t, err := p.src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
