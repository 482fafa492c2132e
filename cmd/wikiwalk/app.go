package main

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/katalvlaran/wikiwalk/config"
	"github.com/katalvlaran/wikiwalk/internal/logger"
	"github.com/katalvlaran/wikiwalk/oracle"
	"github.com/katalvlaran/wikiwalk/walker"
)

// app carries what every subcommand shares.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	configPath string
	graphPath  string
	logMode    string
	logLevel   string
	trace      bool

	prefs config.Preferences
	log   *logger.Logger
	stats *stats

	graphOnce sync.Once
	graph     *oracle.Memory
	graphErr  error

	liveMu  sync.Mutex
	live    *oracle.MediaWiki
	liveKey liveSettings

	shutdown func(context.Context) error
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		in:     in,
		out:    out,
		errOut: errOut,
		prefs:  config.Default(),
		log:    logger.Nop(),
		stats:  &stats{},
	}
}

// oracle returns the offline table when --graph is set, the live wiki
// otherwise.
func (a *app) oracle() (oracle.Oracle, error) {
	if a.graphPath != "" {
		a.graphOnce.Do(func() {
			var opts []oracle.MemoryOption
			if a.prefs.Seed != 0 {
				opts = append(opts, oracle.WithMemorySeed(a.prefs.Seed))
			}
			a.graph, a.graphErr = oracle.LoadMemory(a.graphPath, opts...)
		})
		if a.graphErr != nil {
			return nil, a.graphErr
		}
		return a.graph, nil
	}

	return a.liveOracle(), nil
}

// liveSettings are the preferences a MediaWiki client is built from.
type liveSettings struct {
	mediaWiki config.MediaWiki
	seed      int64
}

// liveOracle returns the shared MediaWiki client, so every walk goes through
// one rate limiter and one category dedupe. The client is rebuilt only when
// its settings changed since the last call.
func (a *app) liveOracle() *oracle.MediaWiki {
	a.liveMu.Lock()
	defer a.liveMu.Unlock()

	key := liveSettings{mediaWiki: a.prefs.MediaWiki, seed: a.prefs.Seed}
	if a.live != nil && key == a.liveKey {
		return a.live
	}
	mw := key.mediaWiki
	a.live = oracle.NewMediaWiki(
		oracle.WithBaseURL(mw.BaseURL),
		oracle.WithUserAgent(mw.UserAgent),
		oracle.WithTimeout(mw.Timeout),
		oracle.WithRateLimit(mw.RequestsPerSecond),
		oracle.WithSeed(key.seed),
		oracle.WithLogger(a.log.Zap()),
	)
	a.liveKey = key

	return a.live
}

// walk runs one walk with the current preferences, records it for "stat",
// and prints the outcome.
func (a *app) walk(ctx context.Context, start, end string, opts ...walker.Option) (*walker.Result, error) {
	o, err := a.oracle()
	if err != nil {
		return nil, err
	}
	opts = append(walker.FromPreferences(a.prefs), append(opts, walker.WithLogger(a.log.Zap()))...)
	w, err := walker.New(ctx, start, end, o, opts...)
	if err != nil {
		var nf *walker.NotFoundError
		if errors.As(err, &nf) {
			printNotFound(a.out, nf.Title)
		}
		return nil, err
	}
	res, err := w.Walk(ctx)
	if err != nil {
		return nil, err
	}
	a.stats.record(start, end, a.prefs, res)
	printResult(a.out, res)

	return res, nil
}
