package oracle

import (
	"context"
	"sync/atomic"

	"github.com/katalvlaran/wikiwalk/core"
	"go.uber.org/zap"
)

// Metered wraps an Oracle and counts calls.
//
// Calls counts Expand and Categories calls, the only calls a sweep makes, and
// is the walk budget signal. Lookups counts Exists calls, which happen once
// per endpoint before a walk starts. Both counters increase on every call,
// whatever its outcome.
//
// A Metered is safe for concurrent use if the wrapped Oracle is.
type Metered struct {
	inner      Oracle
	log        *zap.Logger
	calls      atomic.Int64
	expands    atomic.Int64
	categories atomic.Int64
	lookups    atomic.Int64
}

// NewMetered wraps inner. A nil log discards output.
func NewMetered(inner Oracle, log *zap.Logger) *Metered {
	if log == nil {
		log = zap.NewNop()
	}

	return &Metered{inner: inner, log: log}
}

// Exists forwards to the wrapped Oracle and counts one lookup.
func (m *Metered) Exists(ctx context.Context, title string) bool {
	m.lookups.Add(1)
	ok := m.inner.Exists(ctx, title)
	result := "ok"
	if !ok {
		result = "missing"
	}
	callsTotal.WithLabelValues(opExists, result).Inc()
	m.log.Debug("oracle exists", zap.String("title", title), zap.Bool("exists", ok))

	return ok
}

// Expand forwards to the wrapped Oracle and counts one budgeted call.
func (m *Metered) Expand(ctx context.Context, title string, dir core.Direction, limit int) []Link {
	n := m.calls.Add(1)
	m.expands.Add(1)
	links := m.inner.Expand(ctx, title, dir, limit)
	callsTotal.WithLabelValues(opExpand, resultOf(len(links))).Inc()
	m.log.Debug("oracle expand",
		zap.String("title", title),
		zap.Stringer("direction", dir),
		zap.Int("links", len(links)),
		zap.Int64("call", n),
	)

	return links
}

// Categories forwards to the wrapped Oracle and counts one budgeted call.
func (m *Metered) Categories(ctx context.Context, title string, limit int) []string {
	n := m.calls.Add(1)
	m.categories.Add(1)
	cats := m.inner.Categories(ctx, title, limit)
	callsTotal.WithLabelValues(opCategories, resultOf(len(cats))).Inc()
	m.log.Debug("oracle categories",
		zap.String("title", title),
		zap.Int("categories", len(cats)),
		zap.Int64("call", n),
	)

	return cats
}

// Calls returns the number of Expand and Categories calls so far.
func (m *Metered) Calls() int64 { return m.calls.Load() }

// Expansions returns the number of Expand calls so far.
func (m *Metered) Expansions() int64 { return m.expands.Load() }

// CategoryCalls returns the number of Categories calls so far.
func (m *Metered) CategoryCalls() int64 { return m.categories.Load() }

// Lookups returns the number of Exists calls so far.
func (m *Metered) Lookups() int64 { return m.lookups.Load() }

func resultOf(n int) string {
	if n == 0 {
		return "empty"
	}

	return "ok"
}
