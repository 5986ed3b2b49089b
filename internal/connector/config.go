package connector

import (
	"fmt"
	"strings"
)

// Config holds the parsed connection string for one collection.
//
// A connection string looks like http://localhost:9200/my_collection: the
// engine base address followed by the collection name as the final path
// segment. The trailing slash is optional.
type Config struct {
	// Base is the engine address without the collection segment and without
	// a trailing slash, e.g. "http://localhost:9200".
	Base string
	// Collection is the final path segment, e.g. "my_collection".
	Collection string
}

// ParseConnectionString splits a connection string into the engine base
// address and the collection name. It fails fast on strings with no path
// separator before the collection segment or with an empty collection.
func ParseConnectionString(raw string) (Config, error) {
	trimmed := strings.TrimSuffix(raw, "/")

	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return Config{}, fmt.Errorf("%w: no / before collection name in %q, want e.g. http://localhost:9200/my_collection", ErrInvalidConnectionString, raw)
	}

	base := trimmed[:idx]
	collection := trimmed[idx+1:]

	if collection == "" || strings.HasSuffix(base, "/") || !strings.Contains(base, "://") {
		return Config{}, fmt.Errorf("%w: %q, want e.g. http://localhost:9200/my_collection", ErrInvalidConnectionString, raw)
	}

	return Config{Base: base, Collection: collection}, nil
}

// searchPath is the collection-scoped search endpoint.
func (c Config) searchPath() string {
	return "/" + c.Collection + "/_search"
}

// scrollPath is the collection-root scroll continuation endpoint. Scroll
// cursors are not collection-scoped, so this deliberately omits the
// collection segment.
func (c Config) scrollPath() string {
	return "/_search/scroll"
}

func (c Config) mgetPath() string {
	return "/" + c.Collection + "/_mget"
}

func (c Config) bulkPath() string {
	return "/" + c.Collection + "/_bulk"
}

func (c Config) deleteByQueryPath() string {
	return "/" + c.Collection + "/_delete_by_query"
}

func (c Config) templatePath() string {
	return "/_template/" + c.Collection
}
