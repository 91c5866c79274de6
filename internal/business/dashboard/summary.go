package dashboard

import (
	"math"

	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"
)

// Summarize derives the headline metrics of a filtered set from its make
// distribution and yearly trend.
func Summarize(records []model.Record, makes, years model.Distribution) model.Summary {
	s := model.Summary{
		TotalVehicles:    len(records),
		TopMake:          NotAvailable,
		AvgElectricRange: AverageRange(records),
		MostCommonYear:   NotAvailable,
	}
	if len(makes) > 0 && makes[0].Name != OthersLabel {
		s.TopMake = makes[0].Name
	}
	best := 0
	for _, b := range years {
		if b.Value > best {
			best = b.Value
			s.MostCommonYear = b.Name
		}
	}
	return s
}

// AverageRange is the mean electric range rounded half up. Missing ranges
// count as zero.
func AverageRange(records []model.Record) int {
	if len(records) == 0 {
		return 0
	}
	var sum int
	for _, r := range records {
		if r.ElectricRange != nil {
			sum += *r.ElectricRange
		}
	}
	return int(math.Floor(float64(sum)/float64(len(records)) + 0.5))
}
