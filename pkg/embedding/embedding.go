/*
Package embedding serves nearest-neighbour queries over a word-vector model.

The model is loaded once at start-up and shared by every request. Two file
formats are read: the word2vec text format ("word v1 v2 ...", with an optional
"count dim" header) and a msgpack snapshot written by Save, which loads much
faster for large vocabularies.

MostSimilar follows the usual word2vec semantics: the unit vectors of the
positive words are averaged, every other word is ranked by cosine similarity
to that mean and the query words themselves are excluded.
*/
package embedding

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrOutOfVocabulary is returned when a query word is unknown to the model.
var ErrOutOfVocabulary = errors.New("word not in vocabulary")

// Neighbor is one ranked result of MostSimilar.
type Neighbor struct {
	Word  string
	Score float64
}

// Model answers neighbour queries.
type Model interface {
	Contains(word string) bool
	MostSimilar(positive []string, topN int) ([]Neighbor, error)
}

// Vectors is an in-memory, read-only embedding table.
// A nil *Vectors behaves as an empty vocabulary.
type Vectors struct {
	dim   int
	words []string
	vecs  [][]float32
	index map[string]int
}

// NewVectors builds a table from words and their vectors, normalising each
// vector to unit length. All vectors must share one dimension.
func NewVectors(words []string, vecs [][]float32) (*Vectors, error) {
	if len(words) != len(vecs) {
		return nil, fmt.Errorf("embedding: %d words but %d vectors", len(words), len(vecs))
	}
	v := &Vectors{
		words: make([]string, 0, len(words)),
		vecs:  make([][]float32, 0, len(words)),
		index: make(map[string]int, len(words)),
	}
	for i, w := range words {
		if v.dim == 0 {
			v.dim = len(vecs[i])
		}
		if len(vecs[i]) != v.dim {
			return nil, fmt.Errorf("embedding: %q has dim %d, want %d", w, len(vecs[i]), v.dim)
		}
		if _, dup := v.index[w]; dup {
			continue
		}
		v.index[w] = len(v.words)
		v.words = append(v.words, w)
		v.vecs = append(v.vecs, normalize(vecs[i]))
	}
	return v, nil
}

// Len returns the vocabulary size.
func (v *Vectors) Len() int {
	if v == nil {
		return 0
	}
	return len(v.words)
}

// Dim returns the vector dimension.
func (v *Vectors) Dim() int {
	if v == nil {
		return 0
	}
	return v.dim
}

// Contains reports whether word has a vector.
func (v *Vectors) Contains(word string) bool {
	if v == nil {
		return false
	}
	_, ok := v.index[word]
	return ok
}

// MostSimilar returns up to topN words closest to the mean of positive.
func (v *Vectors) MostSimilar(positive []string, topN int) ([]Neighbor, error) {
	if len(positive) == 0 {
		return nil, errors.New("embedding: no query words")
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %q", ErrOutOfVocabulary, positive[0])
	}
	mean := make([]float64, v.dim)
	exclude := make(map[int]bool, len(positive))
	for _, w := range positive {
		i, ok := v.index[w]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrOutOfVocabulary, w)
		}
		exclude[i] = true
		for d, x := range v.vecs[i] {
			mean[d] += float64(x)
		}
	}

	neighbors := make([]Neighbor, 0, len(v.words))
	for i, w := range v.words {
		if exclude[i] {
			continue
		}
		neighbors = append(neighbors, Neighbor{Word: w, Score: Cosine(mean, v.vecs[i])})
	}
	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Score > neighbors[j].Score
	})
	if topN > 0 && len(neighbors) > topN {
		neighbors = neighbors[:topN]
	}
	return neighbors, nil
}

// Cosine returns the cosine similarity of a and b, or 0 when either is zero
// or the lengths differ.
func Cosine[A, B float32 | float64](a []A, b []B) float64 {
	if len(a) != len(b) {
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

func normalize(vec []float32) []float32 {
	var n float64
	for _, x := range vec {
		n += float64(x) * float64(x)
	}
	out := make([]float32, len(vec))
	if n == 0 {
		return out
	}
	n = math.Sqrt(n)
	for i, x := range vec {
		out[i] = float32(float64(x) / n)
	}
	return out
}
