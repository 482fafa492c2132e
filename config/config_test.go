package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/katalvlaran/wikiwalk/config"
	"github.com/katalvlaran/wikiwalk/heuristic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	p := config.Default()
	require.NoError(t, p.Validate())
	assert.Equal(t, config.AlgorithmBFS, p.Algorithm)
	assert.False(t, p.Bidirectional())
	assert.Equal(t, heuristic.DefaultK, p.K)
	set, err := p.HeuristicSet()
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wikiwalk.yaml")
	data := `
algorithm: gbfs
direction: bi
heuristics: [LCS, category-overlap, lcs]
max_requests: 40
mediawiki:
  timeout: 3s
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	p, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.AlgorithmGBFS, p.Algorithm)
	assert.True(t, p.Bidirectional())
	assert.Equal(t, []string{"lcs", "categories"}, p.Heuristics)
	assert.Equal(t, 40, p.MaxRequests)
	assert.Equal(t, 50, p.MaxLinks, "absent keys keep defaults")
	assert.Equal(t, 3*time.Second, p.MediaWiki.Timeout)
	assert.Equal(t, "https://en.wikipedia.org", p.MediaWiki.BaseURL)

	p, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), p)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}

	_, err := config.Load(filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err)

	_, err = config.Load(write("bad-alg.yaml", "algorithm: dfs\n"))
	assert.ErrorIs(t, err, config.ErrInvalidPreference)

	_, err = config.Load(write("bad-h.yaml", "heuristics: [astrology]\n"))
	assert.ErrorIs(t, err, config.ErrInvalidPreference)

	_, err = config.Load(write("bad-yaml.yaml", "max_links: [1\n"))
	assert.ErrorIs(t, err, config.ErrInvalidPreference)

	_, err = config.Load(write("zero.yaml", "max_requests: 0\n"))
	assert.ErrorIs(t, err, config.ErrInvalidPreference)
}

func TestSet(t *testing.T) {
	p := config.Default()

	require.NoError(t, p.Set("alg", "GBFS"))
	require.NoError(t, p.Set("dir", "bi"))
	require.NoError(t, p.Set("heuristics", "hamming, lcs"))
	require.NoError(t, p.Set("max_links", "25"))
	require.NoError(t, p.Set("max_requests", "7"))
	require.NoError(t, p.Set("k", "10"))
	require.NoError(t, p.Set("seed", "42"))
	require.NoError(t, p.Set("timeout", "2s"))
	require.NoError(t, p.Set("rps", "0"))

	assert.Equal(t, config.AlgorithmGBFS, p.Algorithm)
	assert.True(t, p.Bidirectional())
	assert.Equal(t, []string{"hamming", "lcs"}, p.Heuristics)
	assert.Equal(t, 25, p.MaxLinks)
	assert.Equal(t, 7, p.MaxRequests)
	assert.Equal(t, 10.0, p.K)
	assert.EqualValues(t, 42, p.Seed)
	assert.Equal(t, 2*time.Second, p.MediaWiki.Timeout)

	require.NoError(t, p.Set("heuristics", "none"))
	assert.Empty(t, p.Heuristics)
}

func TestSet_RejectsAndKeepsState(t *testing.T) {
	p := config.Default()
	before := config.Default()

	for _, kv := range [][2]string{
		{"colour", "blue"},
		{"max_links", "many"},
		{"max_links", "0"},
		{"direction", "sideways"},
		{"heuristics", "hamming,astrology"},
		{"k", "-1"},
		{"base_url", "not a url"},
	} {
		err := p.Set(kv[0], kv[1])
		assert.ErrorIs(t, err, config.ErrInvalidPreference, kv[0])
	}
	assert.Equal(t, before, p)
}

func TestString(t *testing.T) {
	p := config.Default()
	require.NoError(t, p.Set("heuristics", "categories"))
	out := p.String()
	assert.Contains(t, out, "search algorithm: bfs")
	assert.Contains(t, out, "search dir: uni")
	assert.Contains(t, out, " - categories: true")
	assert.Contains(t, out, " - hamming: false")
	assert.Contains(t, out, " - lcs: false")
}
