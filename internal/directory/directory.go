// Package directory implements the query layer over the flattened store
// collection: distinct values, search, filtering and lookup.
package directory

import (
	"sort"
	"strings"

	"github.com/muse-loyalty/muse-stores/internal/catalog"
)

// Source supplies the store collection. *catalog.Loader satisfies it.
type Source interface {
	Stores() ([]catalog.Store, error)
}

// Directory answers queries against a single cached snapshot of stores.
type Directory struct {
	src Source
}

// New returns a Directory backed by src.
func New(src Source) *Directory {
	return &Directory{src: src}
}

// All returns every store in source order.
func (d *Directory) All() ([]catalog.Store, error) {
	return d.src.Stores()
}

// Regions returns the sorted distinct regions.
func (d *Directory) Regions() ([]string, error) {
	return d.distinct(func(s catalog.Store) string { return s.Region })
}

// Brands returns the sorted distinct sponsor names.
func (d *Directory) Brands() ([]string, error) {
	return d.distinct(func(s catalog.Store) string { return s.SponsorName })
}

// Categories returns the sorted distinct store categories.
func (d *Directory) Categories() ([]string, error) {
	return d.distinct(func(s catalog.Store) string { return s.StoreCategory })
}

// Verticals returns the sorted distinct verticals.
func (d *Directory) Verticals() ([]string, error) {
	return d.distinct(func(s catalog.Store) string { return s.Vertical })
}

func (d *Directory) distinct(field func(catalog.Store) string) ([]string, error) {
	stores, err := d.src.Stores()
	if err != nil {
		return nil, err
	}
	return distinctValues(stores, field), nil
}

// distinctValues collects the non-empty values of field, deduplicated and
// sorted ascending.
func distinctValues(stores []catalog.Store, field func(catalog.Store) string) []string {
	seen := make(map[string]bool)
	values := []string{}
	for _, s := range stores {
		v := field(s)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// Search returns stores where any of name, region, city, brand, company,
// mall or id contains query, ignoring case. An empty query matches every
// store.
func (d *Directory) Search(query string) ([]catalog.Store, error) {
	stores, err := d.src.Stores()
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	return where(stores, func(s catalog.Store) bool {
		return containsFold(s.Name, q) ||
			containsFold(s.Region, q) ||
			containsFold(s.City, q) ||
			containsFold(s.SponsorName, q) ||
			containsFold(s.CompanyName, q) ||
			containsFold(s.Mall, q) ||
			containsFold(s.ID, q)
	}), nil
}

// Get returns the first store whose ID or POS key equals id exactly.
// ok is false when no store matches.
func (d *Directory) Get(id string) (store catalog.Store, ok bool, err error) {
	stores, err := d.src.Stores()
	if err != nil {
		return catalog.Store{}, false, err
	}
	for _, s := range stores {
		if s.ID == id || s.POSKey == id {
			return s, true, nil
		}
	}
	return catalog.Store{}, false, nil
}

// Limit returns at most n stores from the front of stores. n <= 0 means no
// limit.
func Limit(stores []catalog.Store, n int) []catalog.Store {
	if n <= 0 || n >= len(stores) {
		return stores
	}
	return stores[:n]
}

// where returns the stores matching keep in their original order. The result
// never aliases the input.
func where(stores []catalog.Store, keep func(catalog.Store) bool) []catalog.Store {
	out := []catalog.Store{}
	for _, s := range stores {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// containsFold reports whether s contains lowerSub after lower-casing s.
// lowerSub must already be lower case.
func containsFold(s, lowerSub string) bool {
	return strings.Contains(strings.ToLower(s), lowerSub)
}
