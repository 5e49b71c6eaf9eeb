// Package recommend holds the vector math behind book recommendations.
package recommend

import (
	"math"
	"sort"
)

// Mean returns the element-wise average of vectors. Vectors whose length
// differs from the first one are ignored. It returns nil when vectors is empty.
func Mean(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}

	dim := len(vectors[0])
	sum := make([]float64, dim)
	n := 0
	for _, v := range vectors {
		if len(v) != dim {
			continue
		}
		for i, x := range v {
			sum[i] += float64(x)
		}
		n++
	}

	out := make([]float32, dim)
	for i := range sum {
		out[i] = float32(sum[i] / float64(n))
	}
	return out
}

// Cosine returns the cosine similarity of a and b, or 0 when the lengths
// differ, either vector is empty, or either norm is zero.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Candidate is an item that can be ranked against a profile vector.
type Candidate struct {
	ID     string
	Vector []float32
}

type Scored struct {
	ID    string
	Score float64
}

// Rank scores candidates against profile and returns the best k by
// descending score. Equal scores keep their input order.
func Rank(profile []float32, candidates []Candidate, k int) []Scored {
	if k <= 0 {
		return nil
	}

	scored := make([]Scored, len(candidates))
	for i, c := range candidates {
		scored[i] = Scored{ID: c.ID, Score: Cosine(profile, c.Vector)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}
