package directory

import (
	"slices"
	"strings"

	"github.com/muse-loyalty/muse-stores/internal/catalog"
)

// regionAliases maps lower-cased short region names to the text matched
// against store regions.
var regionAliases = map[string]string{
	"uae": "united arab emirates",
	"ksa": "saudi arabia",
	"kwt": "kuwait",
	"bah": "bahrain",
}

// ResolveRegion lower-cases input and expands known aliases.
func ResolveRegion(input string) string {
	lower := strings.ToLower(input)
	if full, ok := regionAliases[lower]; ok {
		return full
	}
	return lower
}

// Criteria holds optional filters. Empty fields impose no constraint.
type Criteria struct {
	Region   string `json:"region,omitempty"`   // Substring after alias resolution
	Brand    string `json:"brand,omitempty"`    // Substring of sponsor name
	Category string `json:"category,omitempty"` // Exact store category
	Vertical string `json:"vertical,omitempty"` // Substring
	City     string `json:"city,omitempty"`     // Substring
}

// IsZero reports whether no filter is set.
func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// Filter returns the stores matching every set criterion, in source order.
// Text comparisons ignore case. Category is the only exact match since
// categories are a small closed set.
func (d *Directory) Filter(c Criteria) ([]catalog.Store, error) {
	stores, err := d.src.Stores()
	if err != nil {
		return nil, err
	}
	if c.IsZero() {
		return slices.Clone(stores), nil
	}
	return applyCriteria(stores, c), nil
}

func applyCriteria(stores []catalog.Store, c Criteria) []catalog.Store {
	if c.Region != "" {
		r := ResolveRegion(c.Region)
		stores = where(stores, func(s catalog.Store) bool { return containsFold(s.Region, r) })
	}
	if c.Brand != "" {
		b := strings.ToLower(c.Brand)
		stores = where(stores, func(s catalog.Store) bool { return containsFold(s.SponsorName, b) })
	}
	if c.Category != "" {
		cat := strings.ToLower(c.Category)
		stores = where(stores, func(s catalog.Store) bool { return strings.ToLower(s.StoreCategory) == cat })
	}
	if c.Vertical != "" {
		v := strings.ToLower(c.Vertical)
		stores = where(stores, func(s catalog.Store) bool { return containsFold(s.Vertical, v) })
	}
	if c.City != "" {
		ci := strings.ToLower(c.City)
		stores = where(stores, func(s catalog.Store) bool { return containsFold(s.City, ci) })
	}
	return stores
}
