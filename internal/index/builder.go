package index

import (
	"fmt"

	"github.com/topsearch/topsearch/internal/domain"
)

// DefaultK is the number of neighbors returned per search, degraded to the
// corpus size for smaller collections.
const DefaultK = 5

// Bundle is the complete, immutable output of one index build for one
// collection. Articles holds only the retained records; row i of the
// neighbor index corresponds to Articles[i] and Corpus[i].
type Bundle struct {
	Vectorizer *Vectorizer
	Neighbors  *NeighborIndex
	Articles   []domain.Article
	Corpus     []string
}

// Build fits a TF-IDF model and a cosine KNN structure over the articles'
// title+summary text. Articles whose derived text is empty are dropped.
// A fully empty corpus returns (nil, nil): no index is available, which is
// not an error. A corpus that defeats the vocabulary threshold returns
// domain.ErrModelFitting.
func Build(articles []domain.Article) (*Bundle, error) {
	retained := make([]domain.Article, 0, len(articles))
	corpus := make([]string, 0, len(articles))
	for _, a := range articles {
		text := a.IndexText()
		if text == "" {
			continue
		}
		retained = append(retained, a)
		corpus = append(corpus, text)
	}
	if len(corpus) == 0 {
		return nil, nil
	}

	vectorizer, err := FitVectorizer(corpus, MinDocFreq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrModelFitting, err)
	}

	rows := make([]SparseVector, len(corpus))
	for i, text := range corpus {
		rows[i] = vectorizer.Transform(text)
	}
	neighbors := FitNeighbors(rows, DefaultK)

	return &Bundle{
		Vectorizer: vectorizer,
		Neighbors:  neighbors,
		Articles:   retained,
		Corpus:     corpus,
	}, nil
}

// Nearest projects the query into the bundle's vector space and returns the
// retained articles closest to it, nearest first.
func (b *Bundle) Nearest(query string) []domain.Article {
	vec := b.Vectorizer.Transform(query)
	neighbors := b.Neighbors.KNearest(vec)

	out := make([]domain.Article, len(neighbors))
	for i, n := range neighbors {
		out[i] = b.Articles[n.Index]
	}
	return out
}
