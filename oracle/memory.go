package oracle

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"sync"

	"github.com/katalvlaran/wikiwalk/core"
	"gopkg.in/yaml.v3"
)

// Memory is an in-memory directed link table that satisfies Oracle.
//
// Articles are keyed by canonical title. Outbound links keep insertion order
// and inbound links are indexed as links are added. Without a seed, Expand
// returns links in insertion order; with WithMemorySeed the order is shuffled
// reproducibly.
//
// Memory is safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	titles   map[string]string // canonical → display title
	out      map[string][]Link
	in       map[string][]Link
	cats     map[string][]Link
	failing  map[string]bool
	denylist []string

	rngMu sync.Mutex
	rng   *rand.Rand
}

// MemoryOption configures a Memory oracle.
type MemoryOption func(*Memory)

// WithMemorySeed shuffles Expand results with a PRNG seeded by seed.
func WithMemorySeed(seed int64) MemoryOption {
	return func(m *Memory) { m.rng = rand.New(rand.NewSource(seed)) }
}

// WithMemoryDenylist replaces the category denylist.
func WithMemoryDenylist(list []string) MemoryOption {
	return func(m *Memory) { m.denylist = append([]string(nil), list...) }
}

// NewMemory returns an empty link table.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		titles:   make(map[string]string),
		out:      make(map[string][]Link),
		in:       make(map[string][]Link),
		cats:     make(map[string][]Link),
		failing:  make(map[string]bool),
		denylist: DefaultCategoryDenylist,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// AddArticle registers title as an existing article. Idempotent.
func (m *Memory) AddArticle(title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addArticleLocked(title)
}

func (m *Memory) addArticleLocked(title string) string {
	key := core.Canonical(title)
	if _, ok := m.titles[key]; !ok {
		m.titles[key] = title
	}

	return key
}

// AddLink records an article-namespace link from → to, registering both
// articles. Duplicate links are ignored.
func (m *Memory) AddLink(from, to string) { m.AddLinkNS(from, to, NamespaceArticle) }

// AddLinkNS records a link from → to where the target lives in namespace ns.
// Only namespace-0 targets are registered as articles.
func (m *Memory) AddLinkNS(from, to string, ns int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fk := m.addArticleLocked(from)
	tk := core.Canonical(to)
	if ns == NamespaceArticle {
		m.addArticleLocked(to)
	}
	for _, l := range m.out[fk] {
		if core.Canonical(l.Title) == tk && l.Namespace == ns {
			return
		}
	}
	m.out[fk] = append(m.out[fk], Link{Title: to, Namespace: ns})
	if ns == NamespaceArticle {
		m.in[tk] = append(m.in[tk], Link{Title: m.titles[fk], Namespace: NamespaceArticle})
	}
}

// SetCategories replaces the category list of title. Entries without the
// "Category:" prefix get it added.
func (m *Memory) SetCategories(title string, cats ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := m.addArticleLocked(title)
	links := make([]Link, 0, len(cats))
	for _, c := range cats {
		if len(c) < 9 || c[:9] != "Category:" {
			c = "Category:" + c
		}
		links = append(links, Link{Title: c, Namespace: NamespaceCategory})
	}
	m.cats[key] = links
}

// Fail makes every Expand and Categories call on title return an empty
// answer, as a transport failure would.
func (m *Memory) Fail(title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing[core.Canonical(title)] = true
}

// Len returns the number of known articles.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.titles)
}

// Exists implements Oracle.
func (m *Memory) Exists(_ context.Context, title string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.titles[core.Canonical(title)]

	return ok
}

// Expand implements Oracle.
func (m *Memory) Expand(ctx context.Context, title string, dir core.Direction, limit int) []Link {
	if ctx.Err() != nil {
		return nil
	}
	m.mu.RLock()
	key := core.Canonical(title)
	if m.failing[key] {
		m.mu.RUnlock()
		return nil
	}
	var src []Link
	if dir == core.Backward {
		src = m.in[key]
	} else {
		src = m.out[key]
	}
	links := append([]Link(nil), src...)
	m.mu.RUnlock()

	m.shuffle(links)
	if limit > 0 && len(links) > limit {
		links = links[:limit]
	}

	return links
}

// Categories implements Oracle.
func (m *Memory) Categories(ctx context.Context, title string, limit int) []string {
	if ctx.Err() != nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	key := core.Canonical(title)
	if m.failing[key] {
		return nil
	}

	return FilterCategories(m.cats[key], m.denylist, limit)
}

func (m *Memory) shuffle(links []Link) {
	if m.rng == nil {
		return
	}
	m.rngMu.Lock()
	m.rng.Shuffle(len(links), func(i, j int) { links[i], links[j] = links[j], links[i] })
	m.rngMu.Unlock()
}

// memoryFixture is the YAML layout read by LoadMemory:
//
//	articles:
//	  Dog:
//	    links: [Animal, Pet]
//	    categories: [Mammals]
type memoryFixture struct {
	Articles map[string]struct {
		Links      []string `yaml:"links"`
		Categories []string `yaml:"categories"`
	} `yaml:"articles"`
}

// DecodeMemory reads a YAML link table from r.
func DecodeMemory(r io.Reader, opts ...MemoryOption) (*Memory, error) {
	var fx memoryFixture
	if err := yaml.NewDecoder(r).Decode(&fx); err != nil {
		return nil, fmt.Errorf("oracle: decode link table: %w", err)
	}
	m := NewMemory(opts...)
	// sorted for a stable inbound index
	titles := make([]string, 0, len(fx.Articles))
	for title := range fx.Articles {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	for _, title := range titles {
		art := fx.Articles[title]
		m.AddArticle(title)
		for _, to := range art.Links {
			m.AddLink(title, to)
		}
		if len(art.Categories) > 0 {
			m.SetCategories(title, art.Categories...)
		}
	}

	return m, nil
}

// LoadMemory reads a YAML link table from path.
func LoadMemory(path string, opts ...MemoryOption) (*Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("oracle: open link table: %w", err)
	}
	defer f.Close()

	return DecodeMemory(f, opts...)
}
