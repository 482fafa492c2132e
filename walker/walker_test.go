package walker_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/wikiwalk/config"
	"github.com/katalvlaran/wikiwalk/core"
	"github.com/katalvlaran/wikiwalk/frontier"
	"github.com/katalvlaran/wikiwalk/heuristic"
	"github.com/katalvlaran/wikiwalk/oracle"
	"github.com/katalvlaran/wikiwalk/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// links builds a Memory oracle from "From>To" edges.
func links(edges ...string) *oracle.Memory {
	m := oracle.NewMemory()
	for _, e := range edges {
		parts := strings.SplitN(e, ">", 2)
		m.AddLink(parts[0], parts[1])
	}

	return m
}

// uniqueOracle says every title exists and answers each expansion with
// fanout titles nobody has seen before.
type uniqueOracle struct {
	fanout int
	next   atomic.Int64
}

func (u *uniqueOracle) Exists(context.Context, string) bool { return true }

func (u *uniqueOracle) Expand(_ context.Context, _ string, _ core.Direction, _ int) []oracle.Link {
	out := make([]oracle.Link, u.fanout)
	for i := range out {
		out[i] = oracle.Link{Title: fmt.Sprintf("page-%d", u.next.Add(1))}
	}

	return out
}

func (u *uniqueOracle) Categories(context.Context, string, int) []string { return nil }

func walk(t *testing.T, o oracle.Oracle, start, end string, opts ...walker.Option) *walker.Result {
	t.Helper()
	ctx := context.Background()
	w, err := walker.New(ctx, start, end, o, opts...)
	require.NoError(t, err)
	res, err := w.Walk(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, res.Outcome, w.State())

	return res
}

// requireValidPath checks that path runs start → end over real links.
func requireValidPath(t *testing.T, m *oracle.Memory, path []string, start, end string) {
	t.Helper()
	require.NotEmpty(t, path)
	assert.Equal(t, core.Canonical(start), core.Canonical(path[0]))
	assert.Equal(t, core.Canonical(end), core.Canonical(path[len(path)-1]))
	ctx := context.Background()
	for i := 0; i+1 < len(path); i++ {
		found := false
		for _, l := range m.Expand(ctx, path[i], core.Forward, 0) {
			if core.Canonical(l.Title) == core.Canonical(path[i+1]) {
				found = true
				break
			}
		}
		require.True(t, found, "no link %q → %q in %v", path[i], path[i+1], path)
	}
}

func TestWalk_DirectLink(t *testing.T) {
	res := walk(t, links("Dog>Animal", "Dog>Pet"), "Dog", "Animal")
	assert.Equal(t, walker.Found, res.Outcome)
	assert.Equal(t, []string{"Dog", "Animal"}, res.Path)
	assert.EqualValues(t, 1, res.Requests)
	assert.EqualValues(t, 1, res.Expansions)
	assert.Empty(t, res.Meeting)
	assert.NotEqual(t, uuid.Nil, res.RunID)
}

func TestWalk_BudgetExhausted(t *testing.T) {
	res := walk(t, &uniqueOracle{fanout: 3}, "A", "Z", walker.WithMaxRequests(5))
	assert.Equal(t, walker.TimedOut, res.Outcome)
	assert.Nil(t, res.Path)
	assert.EqualValues(t, 5, res.Requests)
}

func TestWalk_IsolatedStart(t *testing.T) {
	m := oracle.NewMemory()
	m.AddArticle("A")
	m.AddLink("Y", "Z")

	res := walk(t, m, "A", "Z")
	assert.Equal(t, walker.DeadEnd, res.Outcome)
	assert.EqualValues(t, 1, res.Expansions)
	assert.Equal(t, 1, res.Explored)
}

func TestWalk_BidirectionalMeeting(t *testing.T) {
	m := links("A>B", "B>M", "M>Y", "Y>Z")
	for i := 0; i < 50; i++ {
		res := walk(t, m, "A", "Z", walker.WithBidirectional(true))
		require.Equal(t, walker.Found, res.Outcome)
		assert.Equal(t, []string{"A", "B", "M", "Y", "Z"}, res.Path)

		count := 0
		for _, title := range res.Path {
			if title == "M" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	}
}

func TestWalk_BidirectionalUsesBothSweeps(t *testing.T) {
	// A fans out widely; Z has a single inbound chain, so the backward sweep
	// does real work before the sides meet.
	m := links("A>B1", "A>B2", "A>B3", "B1>C1", "B2>C2", "B3>M", "M>Y", "Y>X", "X>Z")
	var mu sync.Mutex
	dirs := map[core.Direction]int{}
	res := walk(t, m, "A", "Z",
		walker.WithBidirectional(true),
		walker.WithOnExpand(func(_ string, d core.Direction) {
			mu.Lock()
			dirs[d]++
			mu.Unlock()
		}),
	)
	require.Equal(t, walker.Found, res.Outcome)
	requireValidPath(t, m, res.Path, "A", "Z")
	assert.Equal(t, []string{"A", "B3", "M", "Y", "X", "Z"}, res.Path)
	assert.Positive(t, dirs[core.Forward]+dirs[core.Backward])
	assert.EqualValues(t, dirs[core.Forward]+dirs[core.Backward], res.Expansions)
}

func TestWalk_SameEndpoints(t *testing.T) {
	res := walk(t, links("Dog>Wolf"), "Dog", " dog ")
	assert.Equal(t, walker.Found, res.Outcome)
	assert.Equal(t, []string{"Dog"}, res.Path)
	assert.Zero(t, res.Requests)
}

func TestWalk_CanonicalIdentity(t *testing.T) {
	res := walk(t, links("A>Albert_Einstein"), "A", "albert einstein")
	assert.Equal(t, walker.Found, res.Outcome)
	assert.Equal(t, []string{"A", "albert einstein"}, res.Path)
}

func TestWalk_ExpansionFailureIsADeadEndAtThatNode(t *testing.T) {
	m := links("A>B", "A>C", "B>Z", "C>Z")
	m.Fail("B")

	res := walk(t, m, "A", "Z")
	assert.Equal(t, walker.Found, res.Outcome)
	assert.Equal(t, []string{"A", "C", "Z"}, res.Path)
	assert.EqualValues(t, 3, res.Expansions)
}

func TestWalk_Termination(t *testing.T) {
	m := links("A>B", "B>A", "B>C", "C>B", "C>A")
	m.AddArticle("Z")

	res := walk(t, m, "A", "Z", walker.WithMaxRequests(1000))
	assert.Equal(t, walker.DeadEnd, res.Outcome)
	assert.EqualValues(t, 3, res.Expansions)

	res = walk(t, m, "A", "Z", walker.WithMaxRequests(1000), walker.WithBidirectional(true))
	assert.Equal(t, walker.DeadEnd, res.Outcome)
}

func TestWalk_MaxLinksCapsNeighbors(t *testing.T) {
	m := links("A>B", "A>C", "A>D", "A>Z")
	m.AddArticle("B")

	res := walk(t, m, "A", "Z", walker.WithMaxLinks(3))
	assert.Equal(t, walker.DeadEnd, res.Outcome)

	res = walk(t, m, "A", "Z", walker.WithMaxLinks(4))
	assert.Equal(t, walker.Found, res.Outcome)
}

func TestWalk_BudgetRespect(t *testing.T) {
	for budget := 1; budget <= 20; budget++ {
		res := walk(t, &uniqueOracle{fanout: 4}, "A", "Z", walker.WithMaxRequests(budget))
		assert.Equal(t, walker.TimedOut, res.Outcome)
		assert.EqualValues(t, budget, res.Requests, "unidirectional budget %d", budget)

		res = walk(t, &uniqueOracle{fanout: 4}, "A", "Z",
			walker.WithMaxRequests(budget), walker.WithBidirectional(true))
		assert.Equal(t, walker.TimedOut, res.Outcome)
		assert.GreaterOrEqual(t, res.Requests, int64(budget))
		assert.LessOrEqual(t, res.Requests, int64(budget+1), "bidirectional budget %d", budget)
	}
}

func TestWalk_GreedyPrefersSimilarTitles(t *testing.T) {
	m := links("A>Q1", "A>Q2", "A>Q3", "A>Zeta Prime", "Zeta Prime>Zeta")

	bfs := walk(t, m, "A", "Zeta")
	assert.Equal(t, walker.Found, bfs.Outcome)
	assert.EqualValues(t, 5, bfs.Expansions)

	gbfs := walk(t, m, "A", "Zeta",
		walker.WithAlgorithm(frontier.GreedyBestFirst),
		walker.WithHeuristics(heuristic.LongestCommonSubstring),
	)
	assert.Equal(t, walker.Found, gbfs.Outcome)
	assert.Equal(t, []string{"A", "Zeta Prime", "Zeta"}, gbfs.Path)
	assert.EqualValues(t, 2, gbfs.Expansions)
	assert.Zero(t, gbfs.CategoryCalls)
}

func TestWalk_CategoryHeuristic(t *testing.T) {
	m := links("A>Q1", "A>Q2", "A>Wolfish", "Wolfish>Wolf", "Q1>Wolf")
	m.SetCategories("Wolf", "Canids")
	m.SetCategories("Wolfish", "Canids")
	m.SetCategories("Q1", "Plants")

	res := walk(t, m, "A", "Wolf",
		walker.WithAlgorithm(frontier.GreedyBestFirst),
		walker.WithHeuristics(heuristic.CategoryOverlap),
	)
	assert.Equal(t, walker.Found, res.Outcome)
	assert.Equal(t, []string{"A", "Wolfish", "Wolf"}, res.Path)
	assert.EqualValues(t, 2, res.Expansions)
	assert.EqualValues(t, 4, res.CategoryCalls, "target plus three neighbors")
	assert.Equal(t, res.Expansions+res.CategoryCalls, res.Requests)
}

func TestWalk_BreadthFirstIgnoresCategories(t *testing.T) {
	m := links("Dog>Animal")
	m.SetCategories("Animal", "Animals")

	res := walk(t, m, "Dog", "Animal",
		walker.WithHeuristics(heuristic.CategoryOverlap),
		walker.WithMaxRequests(1),
	)
	assert.Equal(t, walker.Found, res.Outcome)
	assert.Equal(t, []string{"Dog", "Animal"}, res.Path)
	assert.Zero(t, res.CategoryCalls)
	assert.Equal(t, res.Expansions, res.Requests)

	bi := walk(t, m, "Dog", "Animal",
		walker.WithBidirectional(true),
		walker.WithHeuristics(heuristic.CategoryOverlap, heuristic.Hamming),
	)
	assert.Equal(t, walker.Found, bi.Outcome)
	assert.Zero(t, bi.CategoryCalls)
}

// noInbound hides every inbound link, so backward sweeps dead-end at once.
type noInbound struct{ *oracle.Memory }

func (n noInbound) Expand(ctx context.Context, title string, d core.Direction, limit int) []oracle.Link {
	if d == core.Backward {
		return nil
	}

	return n.Memory.Expand(ctx, title, d, limit)
}

func TestWalk_GoalTestBeforeMeeting(t *testing.T) {
	// The forward sweep waits until the backward sweep has claimed Z, so Z
	// is both the target and an opposite-direction article when A expands.
	claimed := make(chan struct{})
	var once sync.Once
	res := walk(t, noInbound{links("A>Z")}, "A", "Z",
		walker.WithBidirectional(true),
		walker.WithOnExpand(func(title string, d core.Direction) {
			if d == core.Backward {
				once.Do(func() { close(claimed) })
				return
			}
			select {
			case <-claimed:
			case <-time.After(5 * time.Second):
				t.Error("backward sweep never expanded the target")
			}
		}),
	)
	require.Equal(t, walker.Found, res.Outcome)
	assert.Equal(t, []string{"A", "Z"}, res.Path)
	assert.Empty(t, res.Meeting, "reaching the target is not a meeting")
	assert.EqualValues(t, 2, res.Expansions)
}

func TestWalk_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w, err := walker.New(ctx, "A", "Z", links("A>B", "B>Z"))
	require.NoError(t, err)
	cancel()

	res, err := w.Walk(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestWalk_OnExpand(t *testing.T) {
	var seen []string
	res := walk(t, links("A>B", "B>C", "C>Z"), "A", "Z",
		walker.WithOnExpand(func(title string, d core.Direction) {
			assert.Equal(t, core.Forward, d)
			seen = append(seen, title)
		}),
	)
	assert.Equal(t, []string{"A", "B", "C"}, seen)
	assert.EqualValues(t, len(seen), res.Expansions)
}

func TestWalk_Repeatable(t *testing.T) {
	ctx := context.Background()
	w, err := walker.New(ctx, "A", "Z", links("A>B", "B>Z"))
	require.NoError(t, err)
	assert.Equal(t, walker.Init, w.State())

	first, err := w.Walk(ctx)
	require.NoError(t, err)
	second, err := w.Walk(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, first.Requests, second.Requests, "each walk has its own budget")
	assert.NotEqual(t, first.RunID, second.RunID)
}

// randomGraph returns a seeded random directed graph over n articles.
func randomGraph(seed int64, n, out int) (*oracle.Memory, []string) {
	rng := rand.New(rand.NewSource(seed))
	m := oracle.NewMemory(oracle.WithMemorySeed(seed))
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Article %d", i)
		m.AddArticle(names[i])
	}
	for i := range names {
		for j := 0; j < out; j++ {
			m.AddLink(names[i], names[rng.Intn(n)])
		}
	}

	return m, names
}

func TestWalk_PathValidity(t *testing.T) {
	m, names := randomGraph(7, 60, 3)
	variants := map[string][]walker.Option{
		"bfs-uni": nil,
		"bfs-bi":  {walker.WithBidirectional(true)},
		"gbfs-uni": {
			walker.WithAlgorithm(frontier.GreedyBestFirst),
			walker.WithHeuristics(heuristic.Hamming, heuristic.LongestCommonSubstring),
		},
		"gbfs-bi": {
			walker.WithAlgorithm(frontier.GreedyBestFirst),
			walker.WithHeuristics(heuristic.LongestCommonSubstring),
			walker.WithBidirectional(true),
		},
	}
	for name, opts := range variants {
		t.Run(name, func(t *testing.T) {
			found := 0
			for i := 0; i < 20; i++ {
				start, end := names[i], names[len(names)-1-i]
				res := walk(t, m, start, end, append([]walker.Option{walker.WithMaxRequests(500)}, opts...)...)
				if res.Outcome != walker.Found {
					continue
				}
				found++
				requireValidPath(t, m, res.Path, start, end)
			}
			assert.Positive(t, found)
		})
	}
}

func TestWalk_ConcurrentBidirectionalWalks(t *testing.T) {
	m, names := randomGraph(11, 80, 3)
	const walks = 16
	results := make([]*walker.Result, walks)
	errs := make([]error, walks)
	var wg sync.WaitGroup
	for i := 0; i < walks; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w, err := walker.New(context.Background(), names[i], names[len(names)-1-i], m,
				walker.WithBidirectional(true), walker.WithMaxRequests(400))
			if err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = w.Walk(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < walks; i++ {
		require.NoError(t, errs[i])
		if results[i].Outcome == walker.Found {
			requireValidPath(t, m, results[i].Path, names[i], names[len(names)-1-i])
		}
	}
}

func TestNew_NotFound(t *testing.T) {
	ctx := context.Background()
	m := links("A>Z")

	cases := []struct {
		start, end, missing string
	}{
		{"Nowhere", "Z", "Nowhere"},
		{"A", "Elsewhere", "Elsewhere"},
		{"Nowhere", "Elsewhere", "Nowhere"},
		{"", "Z", ""},
	}
	for _, tc := range cases {
		_, err := walker.New(ctx, tc.start, tc.end, m)
		require.Error(t, err)
		assert.ErrorIs(t, err, walker.ErrNotFound)
		var nf *walker.NotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, tc.missing, nf.Title)
	}
}

func TestNew_OptionViolations(t *testing.T) {
	ctx := context.Background()
	m := links("A>Z")

	_, err := walker.New(ctx, "A", "Z", nil)
	assert.ErrorIs(t, err, walker.ErrOracleNil)

	for _, opt := range []walker.Option{
		walker.WithAlgorithm("dfs"),
		walker.WithMaxRequests(0),
		walker.WithMaxLinks(-1),
		walker.WithMaxCategories(0),
		walker.WithK(0),
	} {
		_, err = walker.New(ctx, "A", "Z", m, opt)
		assert.ErrorIs(t, err, walker.ErrOptionViolation)
	}
}

func TestFromPreferences(t *testing.T) {
	p := config.Default()
	require.NoError(t, p.Set("algorithm", "gbfs"))
	require.NoError(t, p.Set("direction", "bi"))
	require.NoError(t, p.Set("heuristics", "lcs,categories"))
	require.NoError(t, p.Set("max_requests", "9"))

	w, err := walker.New(context.Background(), "A", "Z", links("A>Z"), walker.FromPreferences(p)...)
	require.NoError(t, err)
	opts := w.Options()
	assert.Equal(t, frontier.GreedyBestFirst, opts.Algorithm)
	assert.True(t, opts.Bidirectional)
	assert.Equal(t, 9, opts.MaxRequests)
	assert.True(t, opts.Heuristics.Has(heuristic.LongestCommonSubstring))
	assert.True(t, opts.Heuristics.Has(heuristic.CategoryOverlap))
	assert.False(t, opts.Heuristics.Has(heuristic.Hamming))

	p.Heuristics = []string{"astrology"}
	_, err = walker.New(context.Background(), "A", "Z", links("A>Z"), walker.FromPreferences(p)...)
	assert.ErrorIs(t, err, walker.ErrOptionViolation)
}

func TestState(t *testing.T) {
	assert.Equal(t, "found", walker.Found.String())
	assert.Equal(t, "dead end", walker.DeadEnd.String())
	assert.Equal(t, "timed out", walker.TimedOut.String())
	assert.True(t, walker.TimedOut.Terminal())
	assert.False(t, walker.Running.Terminal())
	assert.False(t, walker.Init.Terminal())
}
