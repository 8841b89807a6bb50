package logic

import (
	"strings"

	"shopgrip/internal/domain"
)

// SearchFilter handles filtering of the product list. The result of the
// last application is cached; re-rendering with an unchanged catalog and
// query never re-walks the list.
type SearchFilter struct {
	lastQuery   string
	lastVersion int
	cached      []string
	valid       bool
}

// NewSearchFilter creates a new search filter
func NewSearchFilter() *SearchFilter {
	return &SearchFilter{}
}

// Matches checks if a product matches the given query.
// Matching is a case-insensitive substring test against the product name;
// the empty query matches everything.
func (sf *SearchFilter) Matches(product *domain.Product, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(product.Name), strings.ToLower(query))
}

// Apply returns the ids of matching products in their original order.
// version identifies the catalog snapshot; passing the same (version, query)
// pair returns the cached result.
func (sf *SearchFilter) Apply(orderedIDs []string, products map[string]*domain.Product, version int, query string) []string {
	if sf.valid && sf.lastQuery == query && sf.lastVersion == version {
		return sf.cached
	}

	lowerQuery := strings.ToLower(query)
	matched := make([]string, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		product, ok := products[id]
		if !ok {
			continue
		}
		if lowerQuery == "" || strings.Contains(strings.ToLower(product.Name), lowerQuery) {
			matched = append(matched, id)
		}
	}

	sf.lastQuery = query
	sf.lastVersion = version
	sf.cached = matched
	sf.valid = true
	return matched
}
