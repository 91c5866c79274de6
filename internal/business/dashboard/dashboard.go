// Package dashboard derives filter options, filters records and computes
// the aggregate views of the EV registration dataset.
package dashboard

import "github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"

// Build filters records by criteria and computes every aggregate view.
func Build(records []model.Record, criteria Criteria, topN int) model.Dashboard {
	filtered := Filter(records, criteria)
	makes := MakeDistribution(filtered, topN)
	years := YearlyTrend(filtered)
	return model.Dashboard{
		Filters:            criteria.Active(),
		Count:              len(filtered),
		MakeDistribution:   makes,
		EVTypeDistribution: EVTypeDistribution(filtered),
		YearlyTrend:        years,
		RangeDistribution:  RangeDistribution(filtered),
		CountyDistribution: CountyDistribution(filtered, topN),
		Summary:            Summarize(filtered, makes, years),
	}
}
