package db

// SearchEntry is a single FT.SEARCH hit: the key and its returned fields.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}

// SearchResult is the outcome of an FT.SEARCH call.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}
