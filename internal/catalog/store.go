// Package catalog loads the store dataset and flattens it into store records.
package catalog

// Store is a single flattened store record. Every field is always present in
// serialized output, possibly empty.
type Store struct {
	// Identity
	ID     string `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"` // Name of the enclosing subcategory
	POSKey string `json:"posKey"` // Secondary identifier, falls back to ID

	// Location and contact
	City     string `json:"city"`
	Address  string `json:"address"`
	Timezone string `json:"timezone"`
	Email    string `json:"email"`

	// Catalog classification
	Vertical      string `json:"vertical"`
	OrgName       string `json:"orgName"`
	SponsorName   string `json:"sponsorName"` // Brand
	BUName        string `json:"buName"`
	DistrictName  string `json:"districtName"`
	StoreCategory string `json:"storeCategory"`
	CompanyName   string `json:"companyName"`
	Mall          string `json:"mall"`
}

// Fields returns the record's values in serialization order.
// The order matches FieldNames.
func (s Store) Fields() []string {
	return []string{
		s.ID, s.Name, s.Region, s.POSKey,
		s.City, s.Address, s.Timezone, s.Email,
		s.Vertical, s.OrgName, s.SponsorName, s.BUName,
		s.DistrictName, s.StoreCategory, s.CompanyName, s.Mall,
	}
}

// FieldNames lists the JSON names of Store fields in serialization order.
var FieldNames = []string{
	"id", "name", "region", "posKey",
	"city", "address", "timezone", "email",
	"vertical", "orgName", "sponsorName", "buName",
	"districtName", "storeCategory", "companyName", "mall",
}
