package walker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/wikiwalk/core"
	"github.com/katalvlaran/wikiwalk/explored"
	"github.com/katalvlaran/wikiwalk/frontier"
	"github.com/katalvlaran/wikiwalk/heuristic"
	"github.com/katalvlaran/wikiwalk/oracle"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Walker finds a chain of links from one article to another.
//
// A Walker is built once per pair of endpoints by New, which confirms both
// articles exist. Every call to Walk starts from scratch with a fresh budget.
type Walker struct {
	start string
	end   string
	inner oracle.Oracle
	opts  Options
	eval  *heuristic.Evaluator
	log   *zap.Logger
	state atomic.Int32
}

// New validates opts, checks that start and then end exist, and returns a
// Walker in state Init.
//
// Returns ErrOracleNil, ErrOptionViolation, or a *NotFoundError naming the
// first endpoint that does not exist.
func New(ctx context.Context, start, end string, o oracle.Oracle, opts ...Option) (*Walker, error) {
	if o == nil {
		return nil, ErrOracleNil
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}
	eval, err := heuristic.New(heuristic.Options{Enabled: cfg.Heuristics, K: cfg.K})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOptionViolation, err)
	}

	w := &Walker{
		start: strings.TrimSpace(start),
		end:   strings.TrimSpace(end),
		inner: o,
		opts:  cfg,
		eval:  eval,
		log:   cfg.Logger,
	}

	check := oracle.NewMetered(o, w.log)
	for _, title := range []string{w.start, w.end} {
		if title == "" || !check.Exists(ctx, title) {
			return nil, &NotFoundError{Title: title}
		}
	}
	w.state.Store(int32(Init))

	return w, nil
}

// State returns the state of the most recent Walk.
func (w *Walker) State() State { return State(w.state.Load()) }

// Options returns the effective options.
func (w *Walker) Options() Options { return w.opts }

// Walk searches for a path and reports how the search ended. DeadEnd and
// TimedOut are outcomes, not errors; the only error is ctx's.
func (w *Walker) Walk(ctx context.Context) (*Result, error) {
	ctx, span := getTracer().Start(ctx, "walker.Walk")
	defer span.End()

	began := time.Now()
	res := &Result{RunID: uuid.New()}
	log := w.log.With(zap.String("run_id", res.RunID.String()))
	mode := w.mode()
	span.SetAttributes(
		attribute.String("walk.run_id", res.RunID.String()),
		attribute.String("walk.start", w.start),
		attribute.String("walk.end", w.end),
		attribute.String("walk.mode", mode),
		attribute.String("walk.algorithm", string(w.opts.Algorithm)),
	)
	w.state.Store(int32(Running))

	rs := &runState{
		explored: explored.New(),
		meter:    oracle.NewMetered(w.inner, log),
		budget:   int64(w.opts.MaxRequests),
	}
	startRoot := core.NewRoot(w.start, core.Forward)
	endRoot := core.NewRoot(w.end, core.Backward)
	fwd, err := w.newSweep(core.Forward, startRoot, endRoot)
	if err != nil {
		return nil, err
	}
	bwd, err := w.newSweep(core.Backward, endRoot, startRoot)
	if err != nil {
		return nil, err
	}

	if startRoot.Key() == endRoot.Key() {
		rs.win(bridge{fwdKey: startRoot.Key(), bwdKey: endRoot.Key()})
	} else {
		if w.opts.Algorithm == frontier.GreedyBestFirst && w.eval.NeedsCategories() {
			w.loadCategories(ctx, rs, endRoot)
			if w.opts.Bidirectional {
				w.loadCategories(ctx, rs, startRoot)
			}
		}
		if err = w.run(ctx, rs, fwd, bwd); err != nil {
			w.state.Store(int32(Init))
			span.RecordError(err)
			span.SetStatus(codes.Error, "cancelled")
			return nil, err
		}
	}

	res.Outcome = w.outcome(rs, fwd, bwd)
	if res.Outcome == Found {
		b := rs.winner()
		res.Path, err = core.Join(fwd.tree, bwd.tree, b.fwdKey, b.bwdKey)
		if err != nil {
			return nil, fmt.Errorf("walker: reconstruct path: %w", err)
		}
		res.Meeting = b.meeting
	}
	res.Requests = rs.meter.Calls()
	res.Expansions = rs.meter.Expansions()
	res.CategoryCalls = rs.meter.CategoryCalls()
	res.Explored = rs.explored.Len()
	res.Duration = time.Since(began)
	w.state.Store(int32(res.Outcome))

	observe(mode, res)
	span.SetAttributes(
		attribute.String("walk.outcome", res.Outcome.String()),
		attribute.Int64("walk.requests", res.Requests),
		attribute.Int("walk.path_length", len(res.Path)),
	)
	log.Info("walk finished",
		zap.String("start", w.start),
		zap.String("end", w.end),
		zap.String("mode", mode),
		zap.Stringer("outcome", res.Outcome),
		zap.Strings("path", res.Path),
		zap.Int64("requests", res.Requests),
		zap.Duration("duration", res.Duration),
	)

	return res, nil
}

func (w *Walker) mode() string {
	if w.opts.Bidirectional {
		return "bi"
	}

	return "uni"
}

// run executes the forward sweep alone, or both sweeps joined by an errgroup.
func (w *Walker) run(ctx context.Context, rs *runState, fwd, bwd *sweep) error {
	if !w.opts.Bidirectional {
		return w.runSweep(ctx, rs, fwd)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.runSweep(gctx, rs, fwd) })
	g.Go(func() error { return w.runSweep(gctx, rs, bwd) })

	return g.Wait()
}

// outcome folds the per-sweep results. Without a path, any sweep that ran
// out of budget makes the walk TimedOut; otherwise it is a DeadEnd.
func (w *Walker) outcome(rs *runState, fwd, bwd *sweep) State {
	if rs.found.Load() {
		return Found
	}
	if fwd.outcome == TimedOut || (w.opts.Bidirectional && bwd.outcome == TimedOut) {
		return TimedOut
	}

	return DeadEnd
}

func (w *Walker) loadCategories(ctx context.Context, rs *runState, n *core.Node) {
	n.SetCategories(rs.meter.Categories(ctx, n.Title, w.opts.MaxCategories))
}

// sweep is the state owned by one search direction.
type sweep struct {
	dir     core.Direction
	tree    *core.Tree
	target  *core.Node
	front   frontier.Frontier
	outcome State
}

func (w *Walker) newSweep(d core.Direction, root, target *core.Node) (*sweep, error) {
	front, err := frontier.New(w.opts.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOptionViolation, err)
	}
	s := &sweep{dir: d, tree: core.NewTree(d, root), target: target, front: front, outcome: Running}
	front.Push(root)

	return s, nil
}

// bridgeTo returns the bridge for a link between cur (expanded by s) and
// other (the target or an article the opposite sweep expanded).
func (s *sweep) bridgeTo(cur, other, meeting string) bridge {
	if s.dir == core.Forward {
		return bridge{fwdKey: cur, bwdKey: other, meeting: meeting}
	}

	return bridge{fwdKey: other, bwdKey: cur, meeting: meeting}
}

// runSweep pops, expands and classifies until the path is found by either
// direction, the frontier empties, or the budget runs out.
func (w *Walker) runSweep(ctx context.Context, rs *runState, s *sweep) error {
	log := w.log.With(zap.Stringer("direction", s.dir))
	for s.front.Len() > 0 && !rs.found.Load() && !rs.exhausted() {
		if err := ctx.Err(); err != nil {
			return err
		}
		cur := s.front.Pop()
		switch rs.explored.Claim(cur.Key(), s.dir) {
		case explored.SameDirection:
			continue
		case explored.OppositeDirection:
			// the other sweep already expanded this article
			rs.win(s.bridgeTo(cur.Key(), cur.Key(), cur.Title))
			return nil
		}

		w.opts.OnExpand(cur.Title, s.dir)
		links := rs.meter.Expand(ctx, cur.Title, s.dir, w.opts.MaxLinks)
		log.Debug("expanded", zap.String("title", cur.Title), zap.Int("links", len(links)))
		if w.classify(ctx, rs, s, cur, links) {
			return nil
		}
	}

	switch {
	case rs.found.Load():
		s.outcome = Found
	case s.front.Len() == 0:
		s.outcome = DeadEnd
	default:
		s.outcome = TimedOut
	}

	return nil
}

// classify handles the neighbors of cur and reports whether the walk is
// over. The goal test runs before the meeting test, and both run before any
// node is built or scored.
func (w *Walker) classify(ctx context.Context, rs *runState, s *sweep, cur *core.Node, links []oracle.Link) bool {
	greedy := w.opts.Algorithm == frontier.GreedyBestFirst
	seen := make(map[string]struct{}, len(links))
	for _, l := range links {
		if len(seen) >= w.opts.MaxLinks {
			break
		}
		if l.Namespace != oracle.NamespaceArticle {
			continue
		}
		key := core.Canonical(l.Title)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if key == s.target.Key() {
			rs.win(s.bridgeTo(cur.Key(), key, ""))
			return true
		}
		if d, ok := rs.explored.Lookup(key); ok {
			if d != s.dir {
				rs.win(s.bridgeTo(cur.Key(), key, l.Title))
				return true
			}
			continue
		}
		if s.tree.Has(key) {
			continue
		}

		n := core.NewNode(l.Title)
		if _, err := s.tree.Adopt(n, cur); err != nil {
			continue
		}
		if greedy {
			if w.eval.NeedsCategories() {
				w.loadCategories(ctx, rs, n)
			}
			n.Cost = w.eval.Cost(n, s.target)
		}
		s.front.Push(n)
	}

	return false
}

// bridge is the link that completes a path: fwdKey is in the forward tree,
// bwdKey in the backward tree.
type bridge struct {
	fwdKey  string
	bwdKey  string
	meeting string
}

// runState is shared by the sweeps of one walk.
type runState struct {
	found    atomic.Bool
	explored *explored.Set
	meter    *oracle.Metered
	budget   int64

	mu     sync.Mutex
	bridge bridge
}

func (rs *runState) exhausted() bool { return rs.meter.Calls() >= rs.budget }

// win records b if no sweep has succeeded yet.
func (rs *runState) win(b bridge) bool {
	if !rs.found.CompareAndSwap(false, true) {
		return false
	}
	rs.mu.Lock()
	rs.bridge = b
	rs.mu.Unlock()

	return true
}

func (rs *runState) winner() bridge {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return rs.bridge
}
