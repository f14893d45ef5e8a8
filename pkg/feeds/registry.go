package feeds

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	registry = make(map[string]Extractor)
	mu       sync.RWMutex
)

// Register adds an extractor to the registry under its feed identifier
func Register(e Extractor) {
	mu.Lock()
	defer mu.Unlock()
	registry[normalize(e.Feed())] = e
}

// Lookup returns the extractor for a feed identifier. Matching is case-insensitive.
func Lookup(feed string) (Extractor, error) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := registry[normalize(feed)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFeed, feed)
	}
	return e, nil
}

// List returns all registered feed identifiers, sorted
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(feed string) string {
	return strings.ToLower(strings.TrimSpace(feed))
}
