package domain

import "errors"

var (
	// ErrNotFound signals a missing article or an empty filtered listing.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery signals a blank or whitespace-only search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidYear signals a malformed year filter parameter.
	ErrInvalidYear = errors.New("invalid year format")
	// ErrInvalidArticle signals an article record that fails ingest validation.
	ErrInvalidArticle = errors.New("invalid article")
	// ErrIndexUnavailable signals that no similarity index could be built
	// because the collection has no usable corpus.
	ErrIndexUnavailable = errors.New("similarity index unavailable")
	// ErrModelFitting signals a degenerate corpus: the minimum document
	// frequency threshold left the vocabulary empty.
	ErrModelFitting = errors.New("model fitting failed")
	// ErrDataSource signals that the document store could not be reached.
	ErrDataSource = errors.New("data source unreachable")
)
