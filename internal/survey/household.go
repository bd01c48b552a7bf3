// Package survey holds the household and individual records of one survey snapshot.
package survey

import "time"

// GPS is one recorded location fix. Every field is nullable.
type GPS struct {
	Latitude  *float64 `bson:"latitude"`
	Longitude *float64 `bson:"longitude"`
	Altitude  *float64 `bson:"altitude"`
	Accuracy  *float64 `bson:"accuracy"`
}

// Complete reports whether latitude, longitude and altitude are all present.
func (g GPS) Complete() bool {
	return g.Latitude != nil && g.Longitude != nil && g.Altitude != nil
}

// GPSKind names one of the three fixes recorded per household.
type GPSKind string

const (
	GPSHousehold GPSKind = "household"
	GPSWater     GPSKind = "water_source"
	GPSToilet    GPSKind = "toilet"
)

// GPSKinds is the fixed reporting order of the three fixes.
var GPSKinds = []GPSKind{GPSHousehold, GPSWater, GPSToilet}

// Household is one interviewed dwelling.
type Household struct {
	Key            string
	Site           string
	District       string
	LLG            string
	Ward           string
	Village        string
	LocationNumber *int
	DwellingNumber *int

	Sector         *int
	Submitter      string
	Collector      string
	QualityOfficer string
	Outcome        *int

	HouseholdGPS GPS
	WaterGPS     GPS
	ToiletGPS    GPS

	RespondentName         *string
	RespondentRelationship *string
	TotalMembers           *int

	Consent      bool
	DeathConsent bool
	Deaths       *int

	InterviewedAt string
	SubmittedAt   *time.Time
}

// Fix returns the GPS triple of the given kind.
func (h *Household) Fix(kind GPSKind) GPS {
	switch kind {
	case GPSWater:
		return h.WaterGPS
	case GPSToilet:
		return h.ToiletGPS
	default:
		return h.HouseholdGPS
	}
}

// Individual is one roster line of a household.
type Individual struct {
	Key           string
	ParentKey     string
	FirstName     *string
	LastName      *string
	Sex           *string
	LineNumber    *int
	Relationship  *int
	AgeCategory   *int
	Age           *int
	MaritalStatus *int
}

// Snapshot is the full set of records fetched for one computation pass.
type Snapshot struct {
	Households  []Household
	Individuals []Individual
}

// Classified is a household with its derived labels. Empty labels mean unmapped.
type Classified struct {
	Household

	SectorName      string
	InterviewStatus string
	Fixes           map[GPSKind]FixLabels
}

// FixLabels are the completeness and accuracy buckets of one GPS triple.
type FixLabels struct {
	Completeness string
	Accuracy     string
}

const (
	Complete      = "Complete"
	Missing       = "Missing"
	Accurate      = "Accurate"
	Inaccurate    = "Inaccurate"
	NotApplicable = "N/A"
)

// Good reports whether the triple is complete and within the accuracy threshold.
func (l FixLabels) Good() bool {
	return l.Completeness == Complete && l.Accuracy == Accurate
}
