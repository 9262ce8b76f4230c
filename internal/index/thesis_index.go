package index

import (
	"math"
	"sort"
	"sync"
)

// Hit is one nearest-neighbor result: the squared L2 distance to the
// query and the index of the stored vector.
type Hit struct {
	Distance float64
	Index    int
}

// ThesisIndex holds the vectors of the active thesis points alongside
// the point texts and keywords they were built from. Replace swaps the
// whole state atomically; readers always see a consistent thesis.
type ThesisIndex struct {
	mu       sync.RWMutex
	dim      int
	points   []string
	keywords []string
	vectors  [][]float32
}

func NewThesisIndex(dim int) *ThesisIndex {
	return &ThesisIndex{dim: dim}
}

// Replace installs a new thesis, discarding the previous one. Vectors
// whose dimension does not match the index are dropped together with
// their point.
func (t *ThesisIndex) Replace(points []string, keywords []string, vectors [][]float32) {
	kept := make([]string, 0, len(points))
	vecs := make([][]float32, 0, len(vectors))
	for i, v := range vectors {
		if i >= len(points) || len(v) != t.dim {
			continue
		}
		kept = append(kept, points[i])
		vecs = append(vecs, v)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.points = kept
	t.keywords = append([]string(nil), keywords...)
	t.vectors = vecs
}

// Search returns up to k hits ordered by ascending distance.
func (t *ThesisIndex) Search(query []float32, k int) []Hit {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.vectors) == 0 || len(query) != t.dim || k <= 0 {
		return nil
	}

	hits := make([]Hit, 0, len(t.vectors))
	for i, v := range t.vectors {
		hits = append(hits, Hit{Distance: l2Squared(query, v), Index: i})
	}
	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// Snapshot returns copies of the current points and keywords.
func (t *ThesisIndex) Snapshot() (points []string, keywords []string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.points...), append([]string(nil), t.keywords...)
}

func (t *ThesisIndex) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.vectors)
}

func (t *ThesisIndex) Dimension() int {
	return t.dim
}

func l2Squared(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	if math.IsNaN(sum) {
		return math.MaxFloat64
	}
	return sum
}
