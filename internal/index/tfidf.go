package index

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// MinDocFreq is the minimum number of distinct documents a term must appear
// in to enter the vocabulary. Terms below the threshold are noise for
// similarity purposes and are dropped at fit time.
const MinDocFreq = 2

// tokenPattern matches runs of two or more word characters, lowercased
// before matching. Single-character tokens carry no signal and are skipped.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize splits text into lowercase terms of at least two word characters.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// SparseVector is an L2-normalized term-weight vector keyed by vocabulary
// column. Absent columns are zero.
type SparseVector map[int]float64

// Dot returns the inner product of two sparse vectors.
func (v SparseVector) Dot(other SparseVector) float64 {
	// Iterate the smaller operand.
	a, b := v, other
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for col, w := range a {
		sum += w * b[col]
	}
	return sum
}

// Vectorizer maps free text to sparse TF-IDF vectors over a fixed
// vocabulary. Immutable after FitVectorizer; rebuild to pick up new corpora.
type Vectorizer struct {
	vocab map[string]int
	idf   []float64
}

// FitVectorizer learns a vocabulary and IDF weights from the corpus,
// keeping only terms present in at least minDF distinct documents.
// An empty resulting vocabulary is a fit failure, not an empty model.
func FitVectorizer(corpus []string, minDF int) (*Vectorizer, error) {
	if minDF < 1 {
		minDF = 1
	}

	docFreq := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, term := range Tokenize(text) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			docFreq[term]++
		}
	}

	vocab := make(map[string]int)
	for term, df := range docFreq {
		if df >= minDF {
			vocab[term] = 0 // column assigned below
		}
	}
	if len(vocab) == 0 {
		return nil, fmt.Errorf(
			"no terms appear in at least %d of %d documents", minDF, len(corpus),
		)
	}

	// Deterministic column order: sorted terms.
	terms := make([]string, 0, len(vocab))
	for term := range vocab {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	for col, term := range terms {
		vocab[term] = col
	}

	// Smooth IDF: ln((1+n)/(1+df)) + 1.
	n := float64(len(corpus))
	idf := make([]float64, len(terms))
	for term, col := range vocab {
		idf[col] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	return &Vectorizer{vocab: vocab, idf: idf}, nil
}

// Transform projects text into the fitted vector space. Terms outside the
// vocabulary are ignored; text with no known terms maps to the zero vector.
func (v *Vectorizer) Transform(text string) SparseVector {
	counts := make(map[int]float64)
	for _, term := range Tokenize(text) {
		if col, ok := v.vocab[term]; ok {
			counts[col]++
		}
	}
	if len(counts) == 0 {
		return SparseVector{}
	}

	vec := make(SparseVector, len(counts))
	var norm float64
	for col, tf := range counts {
		w := tf * v.idf[col]
		vec[col] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for col := range vec {
		vec[col] /= norm
	}
	return vec
}

// VocabularySize returns the number of retained terms.
func (v *Vectorizer) VocabularySize() int { return len(v.vocab) }
