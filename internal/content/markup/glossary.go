package markup

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Glossary resolves a term to its definition. Implementations must be safe for concurrent reads.
type Glossary interface {
	Lookup(term string) (string, bool)
}

// MapGlossary is an immutable term table keyed by NormalizeTerm.
type MapGlossary struct {
	defs map[string]string
}

// NewGlossary copies terms into a MapGlossary. Later duplicates (after normalization) win
// in key order, so the result does not depend on map iteration order.
func NewGlossary(terms map[string]string) *MapGlossary {
	keys := make([]string, 0, len(terms))
	for k := range terms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	defs := make(map[string]string, len(terms))
	for _, k := range keys {
		n := NormalizeTerm(k)
		if n == "" {
			continue
		}
		defs[n] = terms[k]
	}
	return &MapGlossary{defs: defs}
}

func (g *MapGlossary) Lookup(term string) (string, bool) {
	if g == nil {
		return "", false
	}
	def, ok := g.defs[NormalizeTerm(term)]
	return def, ok
}

func (g *MapGlossary) Len() int {
	if g == nil {
		return 0
	}
	return len(g.defs)
}

// Terms returns the normalized terms in sorted order.
func (g *MapGlossary) Terms() []string {
	if g == nil {
		return nil
	}
	out := make([]string, 0, len(g.defs))
	for k := range g.defs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Entries returns a copy of the normalized table.
func (g *MapGlossary) Entries() map[string]string {
	out := make(map[string]string)
	if g == nil {
		return out
	}
	for k, v := range g.defs {
		out[k] = v
	}
	return out
}

// NormalizeTerm trims and case-folds a glossary term.
func NormalizeTerm(term string) string {
	return cases.Fold().String(strings.TrimSpace(term))
}

type emptyGlossary struct{}

func (emptyGlossary) Lookup(string) (string, bool) { return "", false }
