// Package search implements a small weighted similarity index for resolving
// human-typed asset queries. Matching is deliberately near-exact: a short,
// ambiguous query yields nothing rather than the wrong asset.
package search

import (
	"sort"
	"strings"
)

// DefaultThreshold is the minimum per-field similarity for a hit.
const DefaultThreshold = 0.82

// Field is one searchable string with a ranking weight. Weights order
// results; they do not loosen the acceptance threshold.
type Field struct {
	Text   string
	Weight float64
}

type entry[T any] struct {
	item   T
	fields []Field
}

type Index[T any] struct {
	threshold float64
	entries   []entry[T]
}

func New[T any](threshold float64) *Index[T] {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Index[T]{threshold: threshold}
}

func (ix *Index[T]) Add(item T, fields ...Field) {
	ix.entries = append(ix.entries, entry[T]{item: item, fields: fields})
}

func (ix *Index[T]) Len() int { return len(ix.entries) }

// Search returns up to limit items ordered best-first. An empty or blank
// query returns nothing.
func (ix *Index[T]) Search(query string, limit int) []T {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil
	}

	type scored struct {
		idx   int
		score float64
	}
	var hits []scored
	for i, ent := range ix.entries {
		best := 0.0
		for _, field := range ent.fields {
			text := strings.ToLower(strings.TrimSpace(field.Text))
			if text == "" {
				continue
			}
			sim := similarity(query, text)
			if sim < ix.threshold {
				continue
			}
			weight := field.Weight
			if weight <= 0 {
				weight = 1
			}
			if s := sim * weight; s > best {
				best = s
			}
		}
		if best > 0 {
			hits = append(hits, scored{idx: i, score: best})
		}
	}

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].score > hits[b].score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]T, 0, len(hits))
	for _, h := range hits {
		out = append(out, ix.entries[h.idx].item)
	}
	return out
}

// similarity scores query against text in [0,1]. Exact equality is 1,
// a prefix hit scores above any edit-distance hit, everything else is
// normalized edit distance.
func similarity(query, text string) float64 {
	if query == text {
		return 1
	}
	if strings.HasPrefix(text, query) {
		return 0.9 + 0.1*float64(len(query))/float64(len(text))
	}
	qr := []rune(query)
	tr := []rune(text)
	longest := len(qr)
	if len(tr) > longest {
		longest = len(tr)
	}
	if longest == 0 {
		return 0
	}
	return 1 - float64(editDistance(qr, tr))/float64(longest)
}

func editDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
