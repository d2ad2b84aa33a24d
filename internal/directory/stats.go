package directory

import (
	"sort"

	"github.com/muse-loyalty/muse-stores/internal/catalog"
)

// Count pairs a distinct value with a number of stores.
type Count struct {
	Value  string `json:"value"`
	Stores int    `json:"stores"`
}

// Stats summarises the collection.
type Stats struct {
	Total      int     `json:"total"`
	Regions    int     `json:"regions"`
	Brands     int     `json:"brands"`
	Categories int     `json:"categories"`
	Verticals  int     `json:"verticals"`
	ByRegion   []Count `json:"by_region"`
	ByCategory []Count `json:"by_category"`
	ByVertical []Count `json:"by_vertical"`
}

// Stats computes totals and per-value counts by region, category and
// vertical. Counts are exact matches on the field value.
func (d *Directory) Stats() (Stats, error) {
	stores, err := d.src.Stores()
	if err != nil {
		return Stats{}, err
	}

	region := func(s catalog.Store) string { return s.Region }
	brand := func(s catalog.Store) string { return s.SponsorName }
	category := func(s catalog.Store) string { return s.StoreCategory }
	vertical := func(s catalog.Store) string { return s.Vertical }

	return Stats{
		Total:      len(stores),
		Regions:    len(distinctValues(stores, region)),
		Brands:     len(distinctValues(stores, brand)),
		Categories: len(distinctValues(stores, category)),
		Verticals:  len(distinctValues(stores, vertical)),
		ByRegion:   countBy(stores, region),
		ByCategory: countBy(stores, category),
		ByVertical: countBy(stores, vertical),
	}, nil
}

// RegionCounts returns every region with the number of stores the region
// filter selects for it. Because the filter matches substrings, a region
// whose name is contained in another's counts both.
func (d *Directory) RegionCounts() ([]Count, error) {
	return d.filterCounts(
		func(s catalog.Store) string { return s.Region },
		func(v string) Criteria { return Criteria{Region: v} },
	)
}

// BrandCounts returns every brand with the number of stores the brand filter
// selects for it.
func (d *Directory) BrandCounts() ([]Count, error) {
	return d.filterCounts(
		func(s catalog.Store) string { return s.SponsorName },
		func(v string) Criteria { return Criteria{Brand: v} },
	)
}

func (d *Directory) filterCounts(field func(catalog.Store) string, criteria func(string) Criteria) ([]Count, error) {
	stores, err := d.src.Stores()
	if err != nil {
		return nil, err
	}

	values := distinctValues(stores, field)
	counts := make([]Count, 0, len(values))
	for _, v := range values {
		counts = append(counts, Count{Value: v, Stores: len(applyCriteria(stores, criteria(v)))})
	}
	return counts, nil
}

// countBy counts stores per non-empty field value, ordered by count
// descending and then by value.
func countBy(stores []catalog.Store, field func(catalog.Store) string) []Count {
	tally := make(map[string]int)
	for _, s := range stores {
		if v := field(s); v != "" {
			tally[v]++
		}
	}

	counts := make([]Count, 0, len(tally))
	for v, n := range tally {
		counts = append(counts, Count{Value: v, Stores: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Stores != counts[j].Stores {
			return counts[i].Stores > counts[j].Stores
		}
		return counts[i].Value < counts[j].Value
	})
	return counts
}
