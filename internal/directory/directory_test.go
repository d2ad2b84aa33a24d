package directory

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"testing"

	"github.com/muse-loyalty/muse-stores/internal/catalog"
)

const fixturePath = "../catalog/testdata/stores.json"

func newFixtureDirectory(t *testing.T) *Directory {
	t.Helper()

	d := New(catalog.NewLoader(fixturePath))
	if _, err := d.All(); err != nil {
		t.Fatalf("loading fixture: %v", err)
	}
	return d
}

func ids(stores []catalog.Store) []string {
	out := make([]string, len(stores))
	for i, s := range stores {
		out[i] = s.ID
	}
	return out
}

// failingSource always returns err.
type failingSource struct{ err error }

func (f failingSource) Stores() ([]catalog.Store, error) { return nil, f.err }

func TestDistinctValues(t *testing.T) {
	d := newFixtureDirectory(t)

	tests := []struct {
		name string
		fn   func() ([]string, error)
		want []string
	}{
		{"regions", d.Regions, []string{"Bahrain", "Kuwait", "Saudi Arabia", "United Arab Emirates"}},
		{"brands", d.Brands, []string{"BOBBI BROWN", "GUCCI", "HARVEY NICHOLS", "RALPH LAUREN"}},
		{"categories", d.Categories, []string{"BEAUTY", "FASHION", "MULTI"}},
		{"verticals", d.Verticals, []string{"Beauty", "Luxury", "Retail"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			for i, v := range got {
				if v == "" {
					t.Errorf("empty value at %d", i)
				}
				if i > 0 && got[i-1] >= v {
					t.Errorf("not strictly ascending at %d: %q >= %q", i, got[i-1], v)
				}
			}
		})
	}
}

func TestResolveRegion(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"uae", "united arab emirates"},
		{"UAE", "united arab emirates"},
		{"KSA", "saudi arabia"},
		{"kwt", "kuwait"},
		{"Bah", "bahrain"},
		{"Bahrain", "bahrain"},
		{"United Arab Emirates", "united arab emirates"},
		{"qatar", "qatar"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ResolveRegion(tt.input); got != tt.want {
				t.Errorf("ResolveRegion(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	d := newFixtureDirectory(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"ralph lauren", []string{"R70", "R71"}},
		{"RALPH lauren", []string{"R70", "R71"}},
		{"bahrain", []string{"G05", "L01"}}, // region
		{"dubai", []string{"R70", "R71"}},   // name and city
		{"kering", []string{"G05", "S33"}},  // company
		{"avenues", []string{"K20"}},        // mall
		{"s33", []string{"S33"}},            // id
		{"gucci", []string{"G05", "S33"}},   // name and brand
		{"", []string{"R70", "R71", "B12", "G05", "L01", "K20", "K21", "S33"}},
		{"no such store", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := d.Search(tt.query)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if !reflect.DeepEqual(ids(got), tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, ids(got), tt.want)
			}
		})
	}
}

func TestSearch_DoesNotUseRegionAliases(t *testing.T) {
	d := newFixtureDirectory(t)

	got, err := d.Search("ksa")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Search(\"ksa\") = %v, want no results", ids(got))
	}
}

func TestFilter(t *testing.T) {
	d := newFixtureDirectory(t)

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"none", Criteria{}, []string{"R70", "R71", "B12", "G05", "L01", "K20", "K21", "S33"}},
		{"region", Criteria{Region: "Bahrain"}, []string{"G05", "L01"}},
		{"region alias", Criteria{Region: "uae"}, []string{"R70", "R71", "B12"}},
		{"region alias upper", Criteria{Region: "KSA"}, []string{"S33"}},
		{"region substring", Criteria{Region: "arab"}, []string{"R70", "R71", "B12", "S33"}},
		{"brand", Criteria{Brand: "gucci"}, []string{"G05", "S33"}},
		{"brand substring", Criteria{Brand: "ralph"}, []string{"R70", "R71"}},
		{"category exact", Criteria{Category: "fashion"}, []string{"R70", "R71", "G05", "S33"}},
		{"category partial does not match", Criteria{Category: "FASH"}, []string{}},
		{"vertical", Criteria{Vertical: "lux"}, []string{"G05", "S33"}},
		{"city", Criteria{City: "kuwait"}, []string{"K20", "K21"}},
		{"combined", Criteria{Region: "uae", Brand: "ralph lauren"}, []string{"R70", "R71"}},
		{"combined empty", Criteria{Region: "uae", Brand: "ralph", City: "abu"}, []string{}},
		{"all fields", Criteria{Region: "ksa", Brand: "gucci", Category: "FASHION", Vertical: "luxury", City: "riyadh"}, []string{"S33"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Filter(tt.criteria)
			if err != nil {
				t.Fatalf("Filter() error = %v", err)
			}
			if !reflect.DeepEqual(ids(got), tt.want) {
				t.Errorf("Filter(%+v) = %v, want %v", tt.criteria, ids(got), tt.want)
			}
		})
	}
}

func TestFilter_RegionAliasRoundTrip(t *testing.T) {
	d := newFixtureDirectory(t)

	pairs := [][2]string{
		{"uae", "united arab emirates"},
		{"ksa", "Saudi Arabia"},
		{"kwt", "KUWAIT"},
		{"bah", "bahrain"},
	}
	for _, p := range pairs {
		alias, err := d.Filter(Criteria{Region: p[0]})
		if err != nil {
			t.Fatal(err)
		}
		full, err := d.Filter(Criteria{Region: p[1]})
		if err != nil {
			t.Fatal(err)
		}
		if len(alias) == 0 {
			t.Errorf("Filter(region=%q) returned nothing", p[0])
		}
		if !reflect.DeepEqual(alias, full) {
			t.Errorf("Filter(region=%q) = %v, Filter(region=%q) = %v", p[0], ids(alias), p[1], ids(full))
		}
	}
}

func TestFilter_DoesNotAliasCache(t *testing.T) {
	d := newFixtureDirectory(t)

	got, err := d.Filter(Criteria{})
	if err != nil {
		t.Fatal(err)
	}
	got[0].Name = "CHANGED"

	all, err := d.All()
	if err != nil {
		t.Fatal(err)
	}
	if all[0].Name == "CHANGED" {
		t.Error("modifying Filter() result changed the cached collection")
	}
}

func TestGet(t *testing.T) {
	d := newFixtureDirectory(t)

	tests := []struct {
		id     string
		wantID string
		wantOK bool
	}{
		{"R70", "R70", true},
		{"POS-R71", "R71", true},
		{"R71", "R71", true},
		{"L01", "L01", true}, // POS key falls back to id
		{"r70", "", false},
		{"NONEXISTENT_999", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			s, ok, err := d.Get(tt.id)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("Get(%q) ok = %v, want %v", tt.id, ok, tt.wantOK)
			}
			if s.ID != tt.wantID {
				t.Errorf("Get(%q).ID = %q, want %q", tt.id, s.ID, tt.wantID)
			}
		})
	}

	s, _, _ := d.Get("R70")
	if s.Name != "RALPH LAUREN - THE DUBAI MALL" {
		t.Errorf("Get(R70).Name = %q", s.Name)
	}
}

func TestQueriesAreIdempotent(t *testing.T) {
	d := newFixtureDirectory(t)

	queries := map[string]func() (interface{}, error){
		"search": func() (interface{}, error) { return d.Search("mall") },
		"filter": func() (interface{}, error) { return d.Filter(Criteria{Category: "FASHION"}) },
		"brands": func() (interface{}, error) { return d.Brands() },
		"stats":  func() (interface{}, error) { return d.Stats() },
	}

	for name, q := range queries {
		first, err := q()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		second, err := q()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("%s: results differ between calls", name)
		}
	}
}

func TestStats(t *testing.T) {
	d := newFixtureDirectory(t)

	got, err := d.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	want := Stats{
		Total:      8,
		Regions:    4,
		Brands:     4,
		Categories: 3,
		Verticals:  3,
		ByRegion: []Count{
			{"United Arab Emirates", 3},
			{"Bahrain", 2},
			{"Kuwait", 2},
			{"Saudi Arabia", 1},
		},
		ByCategory: []Count{
			{"FASHION", 4},
			{"BEAUTY", 1},
			{"MULTI", 1},
		},
		ByVertical: []Count{
			{"Retail", 3},
			{"Luxury", 2},
			{"Beauty", 1},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Stats() = %+v\nwant %+v", got, want)
	}

	sum := 0
	for _, c := range got.ByRegion {
		sum += c.Stores
	}
	if sum != got.Total {
		t.Errorf("region counts sum to %d, want %d", sum, got.Total)
	}
}

func TestRegionAndBrandCounts(t *testing.T) {
	d := newFixtureDirectory(t)

	regions, err := d.RegionCounts()
	if err != nil {
		t.Fatal(err)
	}
	wantRegions := []Count{{"Bahrain", 2}, {"Kuwait", 2}, {"Saudi Arabia", 1}, {"United Arab Emirates", 3}}
	if !reflect.DeepEqual(regions, wantRegions) {
		t.Errorf("RegionCounts() = %v, want %v", regions, wantRegions)
	}

	brands, err := d.BrandCounts()
	if err != nil {
		t.Fatal(err)
	}
	wantBrands := []Count{{"BOBBI BROWN", 1}, {"GUCCI", 2}, {"HARVEY NICHOLS", 1}, {"RALPH LAUREN", 2}}
	if !reflect.DeepEqual(brands, wantBrands) {
		t.Errorf("BrandCounts() = %v, want %v", brands, wantBrands)
	}
}

func TestCountBy_TieOrder(t *testing.T) {
	stores := []catalog.Store{
		{ID: "1", Vertical: "b"},
		{ID: "2", Vertical: "a"},
		{ID: "3", Vertical: ""},
		{ID: "4", Vertical: "c"},
		{ID: "5", Vertical: "c"},
	}
	got := countBy(stores, func(s catalog.Store) string { return s.Vertical })
	want := []Count{{"c", 2}, {"a", 1}, {"b", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("countBy() = %v, want %v", got, want)
	}
}

func TestLimit(t *testing.T) {
	stores := make([]catalog.Store, 5)
	for i := range stores {
		stores[i].ID = fmt.Sprintf("S%d", i)
	}

	tests := []struct {
		n    int
		want int
	}{
		{0, 5},
		{-1, 5},
		{2, 2},
		{5, 5},
		{10, 5},
	}
	for _, tt := range tests {
		if got := Limit(stores, tt.n); len(got) != tt.want {
			t.Errorf("Limit(%d) len = %d, want %d", tt.n, len(got), tt.want)
		}
	}
}

func TestCriteria_IsZero(t *testing.T) {
	if !(Criteria{}).IsZero() {
		t.Error("empty Criteria not zero")
	}
	if (Criteria{City: "Dubai"}).IsZero() {
		t.Error("Criteria with city reported zero")
	}
}

func TestLoadErrorPropagates(t *testing.T) {
	d := New(failingSource{err: catalog.ErrDataUnavailable})

	calls := map[string]func() error{
		"all":     func() error { _, err := d.All(); return err },
		"regions": func() error { _, err := d.Regions(); return err },
		"search":  func() error { _, err := d.Search("x"); return err },
		"filter":  func() error { _, err := d.Filter(Criteria{}); return err },
		"get":     func() error { _, _, err := d.Get("x"); return err },
		"stats":   func() error { _, err := d.Stats(); return err },
		"counts":  func() error { _, err := d.RegionCounts(); return err },
	}

	names := make([]string, 0, len(calls))
	for name := range calls {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := calls[name](); !errors.Is(err, catalog.ErrDataUnavailable) {
			t.Errorf("%s: error = %v, want ErrDataUnavailable", name, err)
		}
	}
}
