// Package rank scores fragments against a query with the BM25 ranking
// function. Scoring is a pure function of an index snapshot, the query
// terms, and the parameters; it never mutates the snapshot and is safe
// to call concurrently.
package rank

import (
	"math"
	"sort"

	"github.com/zero-assistant/zeroindex/internal/store"
)

// Params are the BM25 tuning parameters.
type Params struct {
	// K1 controls term frequency saturation.
	K1 float64
	// B controls document length normalization.
	B float64
}

// DefaultParams returns the standard BM25 parameters.
func DefaultParams() Params {
	return Params{K1: 1.5, B: 0.75}
}

// Scored pairs a fragment with its relevance score.
type Scored struct {
	Fragment store.Fragment
	Score    float64
}

// Score ranks the snapshot's fragments against the query terms and
// returns at most topK results in descending score order. Equal scores
// are broken by ascending chunk index, so repeated calls over the same
// snapshot always produce the same ordering. An empty index yields an
// empty result, and query terms unseen in the corpus contribute nothing
// (idf 0) rather than failing.
func Score(ix *store.Index, queryTerms []string, topK int, p Params) []Scored {
	n := ix.Len()
	if n == 0 || topK <= 0 || len(queryTerms) == 0 {
		return nil
	}

	terms := distinct(queryTerms)
	df := documentFrequencies(ix, terms)
	avgdl := averageLength(ix)

	scored := make([]Scored, n)
	for i, frag := range ix.Fragments {
		freqs := store.TermFrequency(ix.Tokens[i])
		docLen := float64(len(ix.Tokens[i]))

		var score float64
		for _, term := range terms {
			f := float64(freqs[term])
			if f == 0 {
				continue
			}
			idf := math.Log(1 + (float64(n)-float64(df[term])+0.5)/(float64(df[term])+0.5))
			score += idf * (f * (p.K1 + 1)) / (f + p.K1*(1-p.B+p.B*docLen/avgdl))
		}

		scored[i] = Scored{Fragment: frag, Score: score}
	}

	sort.Slice(scored, func(a, b int) bool {
		if scored[a].Score != scored[b].Score {
			return scored[a].Score > scored[b].Score
		}
		return scored[a].Fragment.ChunkIndex < scored[b].Fragment.ChunkIndex
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}

// distinct returns the unique terms in first-seen order.
func distinct(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// documentFrequencies counts, per query term, the fragments whose token
// set contains the term.
func documentFrequencies(ix *store.Index, terms []string) map[string]int {
	want := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		want[t] = struct{}{}
	}

	df := make(map[string]int, len(terms))
	for _, tokens := range ix.Tokens {
		seen := make(map[string]struct{})
		for _, tok := range tokens {
			if _, ok := want[tok]; !ok {
				continue
			}
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	return df
}

// averageLength returns the mean token list length, floored at 1.0 so an
// all-empty corpus cannot divide by zero.
func averageLength(ix *store.Index) float64 {
	total := 0
	for _, tokens := range ix.Tokens {
		total += len(tokens)
	}
	avg := float64(total) / float64(ix.Len())
	if avg == 0 {
		return 1.0
	}
	return avg
}
