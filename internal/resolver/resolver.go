package resolver

import (
	"context"
	"fmt"
	"sync"

	"mathmark/internal/element"
	"mathmark/internal/geom"
	"mathmark/internal/oracle"
	"mathmark/internal/registry"
	"mathmark/internal/structural"
	"mathmark/internal/symbolic"

	"go.uber.org/zap"
)

var DefaultCanvas = element.CanvasDimensions{Width: 800, Height: 600}

// Annotation is a resolved highlight target.
type Annotation struct {
	Bounds geom.Rect `json:"bounds"`
	Tier   string    `json:"tier"`
	Detail string    `json:"detail,omitempty"`
}

type options struct {
	canvas     element.CanvasDimensions
	locator    *oracle.Locator
	logger     *zap.Logger
	structural structural.Options
	tiers      []Tier
}

type Option func(*options)

func WithCanvas(c element.CanvasDimensions) Option {
	return func(o *options) { o.canvas = c }
}

// WithLocator enables the oracle tier.
func WithLocator(l *oracle.Locator) Option {
	return func(o *options) { o.locator = l }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithStructuralOptions(s structural.Options) Option {
	return func(o *options) { o.structural = s }
}

// WithTiers replaces the default cascade.
func WithTiers(tiers ...Tier) Option {
	return func(o *options) { o.tiers = tiers }
}

// Resolver maps phrases to bounds for one session's registry.
type Resolver struct {
	mu       sync.RWMutex
	registry *registry.Registry
	canvas   element.CanvasDimensions
	image    *oracle.Snapshot
	chain    *TierChain
	logger   *zap.Logger
}

func New(reg *registry.Registry, opts ...Option) *Resolver {
	o := options{
		canvas:     DefaultCanvas,
		logger:     zap.NewNop(),
		structural: structural.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if reg == nil {
		reg = registry.New()
	}
	tiers := o.tiers
	if tiers == nil {
		tiers = []Tier{
			NewSymbolicTier(symbolic.NewDefaultMatcher()),
			NewStructuralTier(structural.NewMatcher(o.structural)),
			NewOracleTier(o.locator),
		}
	}
	return &Resolver{
		registry: reg,
		canvas:   o.canvas,
		chain:    NewTierChain(tiers...),
		logger:   o.logger,
	}
}

func (r *Resolver) Registry() *registry.Registry { return r.registry }

func (r *Resolver) Canvas() element.CanvasDimensions {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.canvas
}

func (r *Resolver) UpdateCanvasDimensions(width, height float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.canvas = element.CanvasDimensions{Width: width, Height: height}
}

// SetCanvasSnapshot stores the image used by the oracle tier. An empty string
// clears it; invalid data is rejected and the previous snapshot is kept.
func (r *Resolver) SetCanvasSnapshot(b64 string) error {
	if b64 == "" {
		r.mu.Lock()
		r.image = nil
		r.mu.Unlock()
		return nil
	}
	snap, err := oracle.ParseSnapshot(b64)
	if err != nil {
		return fmt.Errorf("set canvas snapshot: %w", err)
	}
	r.mu.Lock()
	r.image = snap
	r.mu.Unlock()
	return nil
}

func (r *Resolver) HasSnapshot() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.image != nil
}

// Resolve runs the cascade against the stored snapshot, if any.
func (r *Resolver) Resolve(ctx context.Context, phrase string) (Annotation, bool) {
	return r.resolve(ctx, r.query(phrase, nil))
}

// ResolveWithSnapshot uses b64 for this call only. An unreadable image just
// disables the oracle tier.
func (r *Resolver) ResolveWithSnapshot(ctx context.Context, phrase, b64 string) (Annotation, bool) {
	var img *oracle.Snapshot
	if b64 != "" {
		snap, err := oracle.ParseSnapshot(b64)
		if err != nil {
			r.logger.Warn("ignoring unreadable canvas snapshot", zap.Error(err))
		} else {
			img = snap
		}
	}
	return r.resolve(ctx, r.query(phrase, img))
}

// Trace runs the cascade and reports every stage that executed.
func (r *Resolver) Trace(ctx context.Context, phrase string) []StageResult {
	return r.chain.Run(ctx, r.query(phrase, nil))
}

func (r *Resolver) query(phrase string, override *oracle.Snapshot) Query {
	r.mu.RLock()
	defer r.mu.RUnlock()
	img := r.image
	if override != nil {
		img = override
	}
	return Query{
		Phrase:   phrase,
		Elements: r.registry.Snapshot(),
		Canvas:   r.canvas,
		Image:    img,
	}
}

func (r *Resolver) resolve(ctx context.Context, q Query) (Annotation, bool) {
	stages := r.chain.Run(ctx, q)
	for _, s := range stages {
		if s.Hit {
			r.logger.Debug("annotation resolved",
				zap.String("phrase", q.Phrase),
				zap.String("tier", s.Tier),
				zap.String("detail", s.Detail),
				zap.Any("bounds", s.Bounds))
			return Annotation{Bounds: s.Bounds, Tier: s.Tier, Detail: s.Detail}, true
		}
	}
	r.logger.Debug("annotation unresolved",
		zap.String("phrase", q.Phrase),
		zap.Int("elements", q.Elements.Len()),
		zap.Int("stages", len(stages)))
	return Annotation{}, false
}
