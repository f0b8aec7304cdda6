// Package match computes ranked similarity between a candidate resume
// vector and the posting embedding corpus, and persists the scores.
package match

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// DefaultTopN bounds how many scores one run persists.
const DefaultTopN = 200

var (
	ErrEmptyCorpus       = errors.New("reference corpus is empty")
	ErrDimensionMismatch = errors.New("vector dimension differs from corpus")
)

// Reference is one corpus entry: a posting id and its embedding.
type Reference struct {
	ReferenceID string
	Vector      []float64
}

// Score is a normalized match result.
type Score struct {
	ReferenceID  string  `json:"reference_id"`
	MatchPercent float64 `json:"match_percent"`
}

// Cosine returns the cosine similarity of a and b, and 0.0 when either norm
// is zero.
func Cosine(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Rank scores the query against every corpus entry and returns the top
// topN results, best first.
//
// Scores are normalized relative to the in-batch maximum: the best raw
// cosine in this corpus maps to exactly 100.00. The percentage is therefore
// not comparable across runs against different corpora. Ties keep corpus
// order.
func Rank(query []float64, corpus []Reference, topN int) ([]Score, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	dim := len(corpus[0].Vector)
	if len(query) != dim {
		return nil, fmt.Errorf("query has %d dimensions, corpus has %d: %w", len(query), dim, ErrDimensionMismatch)
	}

	raw := make([]float64, len(corpus))
	maxRaw := math.Inf(-1)
	for i, ref := range corpus {
		if len(ref.Vector) != dim {
			return nil, fmt.Errorf("corpus entry %s has %d dimensions, expected %d: %w",
				ref.ReferenceID, len(ref.Vector), dim, ErrDimensionMismatch)
		}
		raw[i] = Cosine(query, ref.Vector)
		if raw[i] > maxRaw {
			maxRaw = raw[i]
		}
	}

	// Dividing by a non-positive maximum would flip the ranking.
	norm := maxRaw
	if norm <= 0 {
		norm = 1.0
	}

	scores := make([]Score, len(corpus))
	for i, ref := range corpus {
		scores[i] = Score{
			ReferenceID:  ref.ReferenceID,
			MatchPercent: round2(raw[i] / norm * 100),
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].MatchPercent > scores[j].MatchPercent
	})

	if len(scores) > topN {
		scores = scores[:topN]
	}
	return scores, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
