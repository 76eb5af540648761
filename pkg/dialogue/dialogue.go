// Package dialogue maps item names to short dialogue lines and descriptions.
//
// A catalog is a TOML document:
//
//	fallback = "…"
//
//	[lines]
//	apple = "Crunchy. Keeps the doctor away."
//
//	[descriptions]
//	apple = "A red apple, slightly bruised."
//
// Lookups try an exact key, then a case-insensitive key, then the closest key
// by edit distance within a limit that grows with the key length. Names that
// match nothing get the fallback line.
package dialogue

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/agnivade/levenshtein"

	"github.com/matzehuels/cartpile/pkg/errors"
)

// DefaultFallback is returned when no line matches.
const DefaultFallback = "…"

// minFuzzyLen is the shortest name considered for fuzzy matching.
const minFuzzyLen = 3

// Source describes how a lookup was resolved.
type Source string

const (
	SourceExact    Source = "exact"
	SourceFold     Source = "fold"
	SourceFuzzy    Source = "fuzzy"
	SourceFallback Source = "fallback"
)

// Match is the result of a lookup.
type Match struct {
	Key      string // catalog key that matched, empty for fallback
	Text     string
	Source   Source
	Distance int // edit distance for fuzzy matches
}

// Catalog holds dialogue lines and item descriptions keyed by item name.
type Catalog struct {
	Fallback     string            `toml:"fallback"`
	Lines        map[string]string `toml:"lines"`
	Descriptions map[string]string `toml:"descriptions"`
}

// New returns an empty catalog with the default fallback.
func New() *Catalog {
	return &Catalog{
		Fallback:     DefaultFallback,
		Lines:        make(map[string]string),
		Descriptions: make(map[string]string),
	}
}

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dialogue catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog from TOML bytes.
func Parse(data []byte) (*Catalog, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a catalog from r. Unknown keys are rejected.
func Decode(r io.Reader) (*Catalog, error) {
	c := New()
	md, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid dialogue catalog")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown catalog key %q", undecoded[0].String())
	}
	if c.Fallback == "" {
		c.Fallback = DefaultFallback
	}
	if c.Lines == nil {
		c.Lines = make(map[string]string)
	}
	if c.Descriptions == nil {
		c.Descriptions = make(map[string]string)
	}
	return c, nil
}

// Add sets the line for name.
func (c *Catalog) Add(name, line string) { c.Lines[name] = line }

// Len returns the number of lines.
func (c *Catalog) Len() int { return len(c.Lines) }

// Names returns the line keys, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Lines))
	for k := range c.Lines {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Line returns the dialogue line for name, or the fallback.
func (c *Catalog) Line(name string) string { return c.Lookup(name).Text }

// Lookup resolves name against the lines.
func (c *Catalog) Lookup(name string) Match {
	if m, ok := lookup(c.Lines, name); ok {
		return m
	}
	return Match{Text: c.Fallback, Source: SourceFallback}
}

// Describe returns the description for name, resolved like [Catalog.Lookup].
// ok is false when nothing matched.
func (c *Catalog) Describe(name string) (string, bool) {
	m, ok := lookup(c.Descriptions, name)
	return m.Text, ok
}

func lookup(entries map[string]string, name string) (Match, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Match{}, false
	}
	if text, ok := entries[name]; ok {
		return Match{Key: name, Text: text, Source: SourceExact}, true
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		if strings.EqualFold(k, name) {
			return Match{Key: k, Text: entries[k], Source: SourceFold}, true
		}
	}

	lower := strings.ToLower(name)
	if len(lower) < minFuzzyLen {
		return Match{}, false
	}
	var best *Match
	for _, k := range keys {
		dist := levenshtein.ComputeDistance(lower, strings.ToLower(k))
		if dist > distanceLimit(len(k)) {
			continue
		}
		m := Match{Key: k, Text: entries[k], Source: SourceFuzzy, Distance: dist}
		// keys are sorted, so ties keep the lexically smaller key
		if best == nil || m.Distance < best.Distance {
			best = &m
		}
	}
	if best == nil {
		return Match{}, false
	}
	return *best, true
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
