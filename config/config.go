// Package config holds the walk preferences: which frontier to use, whether
// to search from both ends, which heuristics order a greedy frontier, and the
// limits that bound a walk. Preferences load from YAML and are validated with
// struct tags.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/katalvlaran/wikiwalk/heuristic"
	"gopkg.in/yaml.v3"
)

// ErrInvalidPreference is returned when a preference fails validation or
// cannot be parsed.
var ErrInvalidPreference = errors.New("config: invalid preference")

// Algorithms and directions accepted by Preferences.
const (
	AlgorithmBFS  = "bfs"
	AlgorithmGBFS = "gbfs"

	DirectionUni = "uni"
	DirectionBi  = "bi"
)

// Preferences configures a walk.
type Preferences struct {
	Algorithm     string    `yaml:"algorithm" validate:"oneof=bfs gbfs"`
	Direction     string    `yaml:"direction" validate:"oneof=uni bi"`
	Heuristics    []string  `yaml:"heuristics" validate:"dive,oneof=hamming lcs categories"`
	MaxLinks      int       `yaml:"max_links" validate:"min=1,max=500"`
	MaxRequests   int       `yaml:"max_requests" validate:"min=1"`
	MaxCategories int       `yaml:"max_categories" validate:"min=1,max=500"`
	K             float64   `yaml:"k" validate:"gt=0"`
	Seed          int64     `yaml:"seed"`
	MediaWiki     MediaWiki `yaml:"mediawiki"`
}

// MediaWiki configures the live oracle.
type MediaWiki struct {
	BaseURL           string        `yaml:"base_url" validate:"required,url"`
	UserAgent         string        `yaml:"user_agent" validate:"required"`
	Timeout           time.Duration `yaml:"timeout" validate:"gt=0"`
	RequestsPerSecond float64       `yaml:"rps" validate:"gte=0"`
}

// Default returns the preferences of a fresh session: breadth-first,
// unidirectional, no heuristics.
func Default() Preferences {
	return Preferences{
		Algorithm:     AlgorithmBFS,
		Direction:     DirectionUni,
		Heuristics:    []string{},
		MaxLinks:      50,
		MaxRequests:   200,
		MaxCategories: 20,
		K:             heuristic.DefaultK,
		MediaWiki: MediaWiki{
			BaseURL:           "https://en.wikipedia.org",
			UserAgent:         "wikiwalk/1.0 (https://github.com/katalvlaran/wikiwalk)",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 10,
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field against its tag.
func (p Preferences) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreference, err)
	}

	return nil
}

// Bidirectional reports whether both sweeps run.
func (p Preferences) Bidirectional() bool { return p.Direction == DirectionBi }

// HeuristicSet converts Heuristics into a heuristic.Set.
func (p Preferences) HeuristicSet() (heuristic.Set, error) {
	kinds := make([]heuristic.Kind, 0, len(p.Heuristics))
	for _, name := range p.Heuristics {
		k, err := heuristic.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPreference, err)
		}
		kinds = append(kinds, k)
	}

	return heuristic.NewSet(kinds...), nil
}

// Load reads YAML from path over Default and validates the result. Keys
// absent from the file keep their defaults. An empty path returns Default.
func Load(path string) (Preferences, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("%w: parse %s: %v", ErrInvalidPreference, path, err)
	}
	if err = p.normalizeHeuristics(); err != nil {
		return p, err
	}

	return p, p.Validate()
}

// Set assigns one preference from its textual form, as typed at the prompt.
// Keys are the YAML names ("max_links", "rps", ...) plus the short aliases
// "alg" and "dir". Heuristics take a comma-separated list or "none". On
// error p is left unchanged.
func (p *Preferences) Set(key, value string) error {
	next := *p
	next.Heuristics = append([]string(nil), p.Heuristics...)
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	var err error
	switch key {
	case "algorithm", "alg":
		next.Algorithm = strings.ToLower(value)
	case "direction", "dir":
		next.Direction = strings.ToLower(value)
	case "heuristics", "heuristic":
		next.Heuristics = splitList(value)
		err = next.normalizeHeuristics()
	case "max_links":
		next.MaxLinks, err = strconv.Atoi(value)
	case "max_requests":
		next.MaxRequests, err = strconv.Atoi(value)
	case "max_categories":
		next.MaxCategories, err = strconv.Atoi(value)
	case "k":
		next.K, err = strconv.ParseFloat(value, 64)
	case "seed":
		next.Seed, err = strconv.ParseInt(value, 10, 64)
	case "base_url":
		next.MediaWiki.BaseURL = value
	case "user_agent":
		next.MediaWiki.UserAgent = value
	case "timeout":
		next.MediaWiki.Timeout, err = time.ParseDuration(value)
	case "rps":
		next.MediaWiki.RequestsPerSecond, err = strconv.ParseFloat(value, 64)
	default:
		return fmt.Errorf("%w: unknown key %q", ErrInvalidPreference, key)
	}
	if err != nil {
		if errors.Is(err, ErrInvalidPreference) {
			return err
		}
		return fmt.Errorf("%w: %s=%q: %v", ErrInvalidPreference, key, value, err)
	}
	if err = next.Validate(); err != nil {
		return err
	}
	*p = next

	return nil
}

// normalizeHeuristics maps aliases onto canonical names, deduplicated and in
// Kind order.
func (p *Preferences) normalizeHeuristics() error {
	set, err := p.HeuristicSet()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(set))
	for _, k := range set.Kinds() {
		names = append(names, k.String())
	}
	p.Heuristics = names

	return nil
}

func splitList(s string) []string {
	if strings.EqualFold(s, "none") || s == "" {
		return []string{}
	}
	var out []string
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		out = append(out, strings.ToLower(f))
	}

	return out
}

// String renders the preferences for the prompt's "pref" command.
func (p Preferences) String() string {
	const indent = "       "
	var sb strings.Builder
	fmt.Fprintf(&sb, "%ssearch algorithm: %s\n", indent, p.Algorithm)
	fmt.Fprintf(&sb, "%ssearch dir: %s\n", indent, p.Direction)
	fmt.Fprintf(&sb, "%smax links: %d\n", indent, p.MaxLinks)
	fmt.Fprintf(&sb, "%smax requests: %d\n", indent, p.MaxRequests)
	fmt.Fprintf(&sb, "%smax categories: %d\n", indent, p.MaxCategories)
	fmt.Fprintf(&sb, "%sk: %g\n", indent, p.K)
	fmt.Fprintf(&sb, "%sseed: %d\n", indent, p.Seed)

	enabled := make(map[string]bool, len(p.Heuristics))
	for _, h := range p.Heuristics {
		enabled[h] = true
	}
	all := []string{
		heuristic.Hamming.String(),
		heuristic.LongestCommonSubstring.String(),
		heuristic.CategoryOverlap.String(),
	}
	sort.Strings(all)
	fmt.Fprintf(&sb, "\n%sheuristics:\n", indent)
	for _, h := range all {
		fmt.Fprintf(&sb, "%s - %s: %t\n", indent, h, enabled[h])
	}

	return sb.String()
}
