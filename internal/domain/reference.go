package domain

import "time"

// ReferenceKind identifies one of the name-keyed lookup tables.
type ReferenceKind string

const (
	KindDistrict ReferenceKind = "districts"
	KindGroup    ReferenceKind = "groups"
	KindIndustry ReferenceKind = "industries"
)

// Valid reports whether k names a known lookup table.
func (k ReferenceKind) Valid() bool {
	switch k {
	case KindDistrict, KindGroup, KindIndustry:
		return true
	}
	return false
}

// Reference is a row in a name-keyed lookup table. Name is stored normalized;
// Display is the title-cased form filled on read.
type Reference struct {
	ID         string        `json:"id" db:"id"`
	Kind       ReferenceKind `json:"-" db:"-"`
	Name       string        `json:"name" db:"name"`
	Display    string        `json:"display" db:"-"`
	DistrictID *string       `json:"district_id,omitempty" db:"district_id"` // groups only
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
}

// Location is a sub-county/parish pair, optionally tied to a district.
type Location struct {
	ID         string    `json:"id" db:"id"`
	DistrictID *string   `json:"district_id" db:"district_id"`
	SubCounty  string    `json:"sub_county" db:"sub_county"`
	Parish     string    `json:"parish" db:"parish"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
