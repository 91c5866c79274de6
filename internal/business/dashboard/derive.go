package dashboard

import (
	"math"
	"sort"
	"strconv"

	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/business/dataset"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"
)

// DeriveFilters computes the selectable options for every attribute in
// Attributes. Range and MSRP always offer their fixed bucket labels; every
// other attribute offers its distinct present values in natural order.
func DeriveFilters(records []model.Record) []model.FilterCategory {
	out := make([]model.FilterCategory, 0, len(Attributes))
	for _, attr := range Attributes {
		out = append(out, model.FilterCategory{
			Name:    attr,
			Key:     EncodeKey(attr),
			Options: deriveOptions(records, attr),
		})
	}
	return out
}

func deriveOptions(records []model.Record, attr string) []string {
	if len(records) == 0 {
		return []string{}
	}
	switch attr {
	case dataset.ColElectricRange:
		return append([]string(nil), RangeBuckets...)
	case dataset.ColBaseMSRP:
		return append([]string(nil), MSRPBuckets...)
	case dataset.ColModelYear:
		return modelYears(records)
	}

	seen := make(map[string]struct{})
	opts := []string{}
	for _, r := range records {
		v := dataset.StringValue(r, attr)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		opts = append(opts, v)
	}
	sort.Slice(opts, func(i, j int) bool { return naturalLess(opts[i], opts[j]) })
	return opts
}

func modelYears(records []model.Record) []string {
	seen := make(map[int]struct{})
	var years []int
	for _, r := range records {
		if r.ModelYear == nil {
			continue
		}
		if _, ok := seen[*r.ModelYear]; ok {
			continue
		}
		seen[*r.ModelYear] = struct{}{}
		years = append(years, *r.ModelYear)
	}
	sort.Ints(years)
	opts := make([]string, 0, len(years))
	for _, y := range years {
		opts = append(opts, strconv.Itoa(y))
	}
	return opts
}

// naturalLess orders numeric-looking values numerically and before any
// non-numeric value; everything else compares as plain strings.
func naturalLess(a, b string) bool {
	fa, okA := numeric(a)
	fb, okB := numeric(b)
	switch {
	case okA && okB:
		if fa != fb {
			return fa < fb
		}
		return a < b
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}

func numeric(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
