package catalog

// RawDataset is the nested tree as stored on disk. Only the first element is
// consulted.
type RawDataset []RawRoot

// RawRoot is the top-level grouping holding all nodes.
type RawRoot struct {
	Nodes []RawNode `json:"nodes"`
}

// RawNode is a named grouping such as "Market".
type RawNode struct {
	Name          string           `json:"name"`
	Subcategories []RawSubcategory `json:"subcategories"`
}

// RawSubcategory groups stores by region.
type RawSubcategory struct {
	Name     string     `json:"name"`
	Children []RawStore `json:"children"`
}

// RawStore is a store entry as found in the source. Nested sections are
// pointers so that absent sections are distinguishable from empty ones.
type RawStore struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	ExternalIDs *RawExternalIDs `json:"external_ids,omitempty"`
	Metadata    *RawMetadata    `json:"metadata,omitempty"`
}

// RawExternalIDs holds identifiers assigned by external systems.
type RawExternalIDs struct {
	POSKey string `json:"POSKey"`
}

// RawMetadata holds location and contact details.
type RawMetadata struct {
	City        string          `json:"city"`
	Address     string          `json:"address"`
	TimeZone    string          `json:"time_zone"`
	Email       string          `json:"email"`
	CatalogData *RawCatalogData `json:"dynamic_catalog_data,omitempty"`
}

// RawCatalogData holds the loyalty catalog classification.
type RawCatalogData struct {
	Vertical      string `json:"vertical"`
	OrgName       string `json:"org_name"`
	SponsorName   string `json:"sponsor_name"`
	BUName        string `json:"bu_name"`
	DistrictName  string `json:"district_name"`
	StoreCategory string `json:"store_category"`
	CompanyName   string `json:"company_name"`
	Mall          string `json:"mall"`
}

// toStore maps a raw entry to a Store in the given region. Absent sections
// leave their fields empty.
func toStore(raw RawStore, region string) Store {
	s := Store{
		ID:     raw.ID,
		Name:   raw.Name,
		Region: region,
		POSKey: raw.ID,
	}

	if raw.ExternalIDs != nil && raw.ExternalIDs.POSKey != "" {
		s.POSKey = raw.ExternalIDs.POSKey
	}

	md := raw.Metadata
	if md == nil {
		return s
	}
	s.City = md.City
	s.Address = md.Address
	s.Timezone = md.TimeZone
	s.Email = md.Email

	cd := md.CatalogData
	if cd == nil {
		return s
	}
	s.Vertical = cd.Vertical
	s.OrgName = cd.OrgName
	s.SponsorName = cd.SponsorName
	s.BUName = cd.BUName
	s.DistrictName = cd.DistrictName
	s.StoreCategory = cd.StoreCategory
	s.CompanyName = cd.CompanyName
	s.Mall = cd.Mall

	return s
}
