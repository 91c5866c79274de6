package model

import "time"

// Record is one electric-vehicle registration. String attributes are empty
// when the cell was blank; numeric attributes are nil.
type Record struct {
	County              string `json:"county,omitempty"`
	City                string `json:"city,omitempty"`
	State               string `json:"state,omitempty"`
	PostalCode          string `json:"postalCode,omitempty"`
	ModelYear           *int   `json:"modelYear,omitempty"`
	Make                string `json:"make,omitempty"`
	Model               string `json:"model,omitempty"`
	ElectricVehicleType string `json:"electricVehicleType,omitempty"`
	CAFVEligibility     string `json:"cafvEligibility,omitempty"`
	ElectricRange       *int   `json:"electricRange,omitempty"`
	BaseMSRP            *int   `json:"baseMsrp,omitempty"`
	LegislativeDistrict string `json:"legislativeDistrict,omitempty"`
	ElectricUtility     string `json:"electricUtility,omitempty"`
	// Extra holds columns without a typed field (VIN, DOL Vehicle ID, ...),
	// keyed by header name. Values are int64, float64, bool, string or nil.
	Extra map[string]any `json:"extra,omitempty"`
}

// Dataset is the parsed CSV resource together with load metadata.
type Dataset struct {
	Header      []string  `json:"header"`
	Records     []Record  `json:"-"`
	Source      string    `json:"source"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	LoadedAt    time.Time `json:"loadedAt"`
}

// Bucket is one label/count pair of an aggregate view.
type Bucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Distribution is an ordered aggregate view.
type Distribution []Bucket

// Total sums all bucket counts.
func (d Distribution) Total() int {
	var n int
	for _, b := range d {
		n += b.Value
	}
	return n
}

// Get returns the count for a label and whether it exists.
func (d Distribution) Get(name string) (int, bool) {
	for _, b := range d {
		if b.Name == name {
			return b.Value, true
		}
	}
	return 0, false
}

// Summary holds the headline metrics of a filtered record set.
type Summary struct {
	TotalVehicles    int    `json:"totalVehicles"`
	TopMake          string `json:"topMake"`
	AvgElectricRange int    `json:"avgElectricRange"`
	MostCommonYear   string `json:"mostCommonYear"`
}

// ActiveFilter is a decoded attribute/value pair as shown to the user.
type ActiveFilter struct {
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
}

// Dashboard is the full result for one decoded filter set.
type Dashboard struct {
	Filters            []ActiveFilter `json:"filters"`
	Count              int            `json:"count"`
	MakeDistribution   Distribution   `json:"makeDistribution"`
	EVTypeDistribution Distribution   `json:"evTypeDistribution"`
	YearlyTrend        Distribution   `json:"yearlyTrend"`
	RangeDistribution  Distribution   `json:"rangeDistribution"`
	CountyDistribution Distribution   `json:"countyDistribution"`
	Summary            Summary        `json:"summary"`
	DatasetFingerprint string         `json:"datasetFingerprint,omitempty"`
}

// FilterCategory is one attribute and the options a user can pick from.
type FilterCategory struct {
	Name    string   `json:"name"`
	Key     string   `json:"key"`
	Options []string `json:"options"`
}

// CityCount is the most common city of the dataset.
type CityCount struct {
	City  string `json:"city" firestore:"city"`
	Count int    `json:"count" firestore:"count"`
}

// MakeCount is the most common manufacturer of the dataset.
type MakeCount struct {
	Make  string `json:"make" firestore:"make"`
	Count int    `json:"count" firestore:"count"`
}

// Overview is a singleton summary of the whole dataset, published after each load.
type Overview struct {
	LastUpdated     time.Time `json:"lastUpdated,omitempty" firestore:"lastUpdated,omitempty"`
	TotalEVs        int       `json:"totalEVs" firestore:"totalEVs"`
	TopCity         CityCount `json:"topCity" firestore:"topCity"`
	TopManufacturer MakeCount `json:"topManufacturer" firestore:"topManufacturer"`
	Fingerprint     string    `json:"fingerprint,omitempty" firestore:"fingerprint,omitempty"`
}

// Load run statuses.
const (
	LoadStatusRunning = "running"
	LoadStatusSuccess = "success"
	LoadStatusFailed  = "failed"
)

// LoadRun tracks the lifecycle of a dataset load.
type LoadRun struct {
	RunID       string    `json:"runId,omitempty" firestore:"runId,omitempty"`
	Source      string    `json:"source,omitempty" firestore:"source,omitempty"`
	Status      string    `json:"status,omitempty" firestore:"status,omitempty"`
	Records     int       `json:"records" firestore:"records"`
	Fingerprint string    `json:"fingerprint,omitempty" firestore:"fingerprint,omitempty"`
	StartedAt   time.Time `json:"startedAt,omitempty" firestore:"startedAt,omitempty"`
	FinishedAt  time.Time `json:"finishedAt,omitempty" firestore:"finishedAt,omitempty"`
	Error       string    `json:"error,omitempty" firestore:"error,omitempty"`
}
