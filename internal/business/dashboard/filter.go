package dashboard

import (
	"strings"

	"github.com/spf13/cast"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/business/dataset"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"
)

// Filter returns the records matching every criterion. Empty criteria
// return all records.
func Filter(records []model.Record, criteria Criteria) []model.Record {
	if len(criteria) == 0 {
		return records
	}
	out := make([]model.Record, 0, len(records)/4)
	for _, r := range records {
		if MatchAll(r, criteria) {
			out = append(out, r)
		}
	}
	return out
}

// MatchAll reports whether r satisfies every criterion.
func MatchAll(r model.Record, criteria Criteria) bool {
	for _, c := range criteria {
		if !Match(r, c) {
			return false
		}
	}
	return true
}

// Match tests a single criterion. Range and MSRP compare bucket labels,
// Model Year compares as an integer and everything else by string form.
func Match(r model.Record, c Criterion) bool {
	switch c.Attribute {
	case dataset.ColElectricRange:
		b, ok := RangeBucket(r.ElectricRange)
		return ok && b == c.Value
	case dataset.ColBaseMSRP:
		b, ok := MSRPBucket(r.BaseMSRP)
		return ok && b == c.Value
	case dataset.ColModelYear:
		if r.ModelYear == nil {
			return false
		}
		year, err := cast.ToIntE(strings.TrimSpace(c.Value))
		if err != nil {
			return false
		}
		return *r.ModelYear == year
	}
	v := dataset.StringValue(r, c.Attribute)
	return v != "" && v == c.Value
}
