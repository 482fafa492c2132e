package walker

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/wikiwalk/config"
	"github.com/katalvlaran/wikiwalk/core"
	"github.com/katalvlaran/wikiwalk/frontier"
	"github.com/katalvlaran/wikiwalk/heuristic"
	"go.uber.org/zap"
)

// Sentinel errors for walk construction and execution.
var (
	// ErrNotFound is wrapped by *NotFoundError when an endpoint is not a
	// real article.
	ErrNotFound = errors.New("walker: page not found")

	// ErrOracleNil is returned if a nil oracle is passed.
	ErrOracleNil = errors.New("walker: oracle is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("walker: invalid option supplied")
)

// NotFoundError names the endpoint that failed its existence check.
type NotFoundError struct {
	Title string
}

// Error implements error.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("walker: page %q not found", e.Title)
}

// Unwrap lets errors.Is match ErrNotFound.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// State is the lifecycle of a walk: Init, then Running, then exactly one of
// the terminal states Found, DeadEnd or TimedOut.
type State int32

const (
	// Init: no walk has run, or the last one was cancelled.
	Init State = iota
	// Running: sweeps are expanding.
	Running
	// Found: a path connects start and end.
	Found
	// DeadEnd: a frontier emptied before any path was found.
	DeadEnd
	// TimedOut: the request budget ran out before any path was found.
	TimedOut
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Init:
		return "init"
	case Running:
		return "running"
	case Found:
		return "found"
	case DeadEnd:
		return "dead end"
	case TimedOut:
		return "timed out"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Terminal reports whether s ends a walk.
func (s State) Terminal() bool { return s >= Found }

// Result is the outcome of one Walk.
type Result struct {
	// RunID identifies the walk in logs and traces.
	RunID uuid.UUID

	// Outcome is Found, DeadEnd or TimedOut.
	Outcome State

	// Path lists display titles from start to end when Outcome is Found.
	Path []string

	// Meeting is the article both sweeps reached in a bidirectional meeting,
	// empty otherwise.
	Meeting string

	// Requests is the number of budgeted oracle calls made.
	Requests int64

	// Expansions and CategoryCalls split Requests by kind.
	Expansions    int64
	CategoryCalls int64

	// Explored is the number of articles popped and expanded.
	Explored int

	Duration time.Duration
}

// Option configures a Walker via functional arguments.
// An invalid Option is recorded internally and surfaced as
// ErrOptionViolation by New.
type Option func(*Options)

// Options holds the walk parameters.
type Options struct {
	// Algorithm selects the frontier: frontier.BreadthFirst or
	// frontier.GreedyBestFirst.
	Algorithm frontier.Algorithm

	// Bidirectional runs a backward sweep from the end concurrently with the
	// forward sweep from the start.
	Bidirectional bool

	// Heuristics and K configure the greedy ordering.
	Heuristics heuristic.Set
	K          float64

	// MaxLinks caps the neighbors considered per expansion.
	MaxLinks int

	// MaxRequests is the call budget shared by all sweeps.
	MaxRequests int

	// MaxCategories caps the categories fetched per article.
	MaxCategories int

	// Logger receives debug output per expansion and one line per walk.
	Logger *zap.Logger

	// OnExpand is called before each expansion with the popped title.
	OnExpand func(title string, dir core.Direction)

	err error
}

// DefaultOptions returns breadth-first, unidirectional options with no
// heuristics, a budget of 200 calls, 50 links per expansion and 20
// categories per article.
func DefaultOptions() Options {
	return Options{
		Algorithm:     frontier.BreadthFirst,
		Heuristics:    heuristic.NewSet(),
		K:             heuristic.DefaultK,
		MaxLinks:      50,
		MaxRequests:   200,
		MaxCategories: 20,
		Logger:        zap.NewNop(),
		OnExpand:      func(string, core.Direction) {},
	}
}

// WithAlgorithm selects the frontier ordering.
func WithAlgorithm(a frontier.Algorithm) Option {
	return func(o *Options) {
		if _, err := frontier.New(a); err != nil {
			o.err = fmt.Errorf("%w: %v", ErrOptionViolation, err)
			return
		}
		o.Algorithm = a
	}
}

// WithBidirectional enables or disables the backward sweep.
func WithBidirectional(on bool) Option {
	return func(o *Options) { o.Bidirectional = on }
}

// WithHeuristics replaces the enabled heuristics.
func WithHeuristics(kinds ...heuristic.Kind) Option {
	return func(o *Options) { o.Heuristics = heuristic.NewSet(kinds...) }
}

// WithK sets the cost numerator. k must be positive.
func WithK(k float64) Option {
	return func(o *Options) {
		if !(k > 0) {
			o.err = fmt.Errorf("%w: K must be positive (%g)", ErrOptionViolation, k)
			return
		}
		o.K = k
	}
}

// WithMaxLinks caps neighbors per expansion. n must be positive.
func WithMaxLinks(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: MaxLinks must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxLinks = n
	}
}

// WithMaxRequests sets the call budget. n must be positive.
func WithMaxRequests(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: MaxRequests must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxRequests = n
	}
}

// WithMaxCategories caps categories per article. n must be positive.
func WithMaxCategories(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: MaxCategories must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxCategories = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithOnExpand registers a progress callback. It runs on the sweep's
// goroutine, so under Bidirectional it must be safe for concurrent use.
func WithOnExpand(fn func(title string, dir core.Direction)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnExpand = fn
		}
	}
}

// FromPreferences translates stored preferences into Options.
func FromPreferences(p config.Preferences) []Option {
	opts := []Option{
		WithAlgorithm(frontier.Algorithm(p.Algorithm)),
		WithBidirectional(p.Bidirectional()),
		WithMaxLinks(p.MaxLinks),
		WithMaxRequests(p.MaxRequests),
		WithMaxCategories(p.MaxCategories),
		WithK(p.K),
	}
	set, err := p.HeuristicSet()
	if err != nil {
		return append(opts, func(o *Options) {
			o.err = fmt.Errorf("%w: %v", ErrOptionViolation, err)
		})
	}

	return append(opts, WithHeuristics(set.Kinds()...))
}
