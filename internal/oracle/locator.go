package oracle

import (
	"context"
	"time"

	"mathmark/internal/element"
	"mathmark/internal/geom"

	"go.uber.org/zap"
)

// Locator is the last-resort lookup. It never fails loudly: every oracle
// error is logged and reported as a miss.
type Locator struct {
	oracle Oracle
	cache  *Cache
	logger *zap.Logger
}

func NewLocator(o Oracle, cache *Cache, logger *zap.Logger) *Locator {
	if cache == nil {
		cache = NewCache(DefaultCacheSize)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{oracle: o, cache: cache, logger: logger}
}

// Locate clamps the oracle's answer to the canvas. It is skipped without a
// snapshot.
func (l *Locator) Locate(ctx context.Context, phrase string, snap *Snapshot, canvas element.CanvasDimensions) (geom.Rect, bool) {
	if l == nil || l.oracle == nil || snap == nil {
		return geom.Rect{}, false
	}

	start := time.Now()
	box, err := l.cache.DoContext(ctx, phrase, canvas, func(ctx context.Context) (*geom.Rect, error) {
		raw, err := l.oracle.Locate(ctx, Request{Phrase: phrase, Snapshot: snap, Canvas: canvas})
		if err != nil || raw == nil {
			return nil, err
		}
		if raw.Width > 0 && raw.Height > 0 && canvas.Rect().Contains(*raw) {
			inside := *raw
			return &inside, nil
		}
		clamped := geom.Clamp(*raw, canvas.Width, canvas.Height)
		if clamped.Width <= 0 || clamped.Height <= 0 {
			l.logger.Debug("oracle box fell outside the canvas",
				zap.String("phrase", phrase),
				zap.Any("box", raw))
			return nil, nil
		}
		l.logger.Debug("oracle box clamped to the canvas",
			zap.String("phrase", phrase),
			zap.Any("box", raw),
			zap.Any("clamped", clamped))
		return &clamped, nil
	})
	if err != nil {
		l.logger.Warn("oracle lookup failed",
			zap.String("oracle", l.oracle.Name()),
			zap.String("phrase", phrase),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return geom.Rect{}, false
	}
	if box == nil {
		return geom.Rect{}, false
	}
	return *box, true
}
