package dashboard

import (
	"sort"
	"strconv"

	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"
)

// DefaultTopN is the number of named buckets kept by the make and county views.
const DefaultTopN = 10

// counter tallies labels, remembering first-seen order.
type counter struct {
	index map[string]int
	dist  model.Distribution
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(label string) {
	if i, ok := c.index[label]; ok {
		c.dist[i].Value++
		return
	}
	c.index[label] = len(c.dist)
	c.dist = append(c.dist, model.Bucket{Name: label, Value: 1})
}

func orUnknown(s string) string {
	if s == "" {
		return UnknownLabel
	}
	return s
}

// MakeDistribution counts records by make, keeping the top n and folding the rest into Others.
func MakeDistribution(records []model.Record, n int) model.Distribution {
	c := newCounter()
	for _, r := range records {
		c.add(orUnknown(r.Make))
	}
	return TopN(c.dist, n)
}

// CountyDistribution counts records by county with the same top-n rule as makes.
func CountyDistribution(records []model.Record, n int) model.Distribution {
	c := newCounter()
	for _, r := range records {
		c.add(orUnknown(r.County))
	}
	return TopN(c.dist, n)
}

// EVTypeDistribution counts records by vehicle type in first-seen order.
func EVTypeDistribution(records []model.Record) model.Distribution {
	c := newCounter()
	for _, r := range records {
		c.add(orUnknown(r.ElectricVehicleType))
	}
	if c.dist == nil {
		return model.Distribution{}
	}
	return c.dist
}

// YearlyTrend counts records by model year, ascending. Records without a year are dropped.
func YearlyTrend(records []model.Record) model.Distribution {
	counts := make(map[int]int)
	for _, r := range records {
		if r.ModelYear != nil {
			counts[*r.ModelYear]++
		}
	}
	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)
	out := make(model.Distribution, 0, len(years))
	for _, y := range years {
		out = append(out, model.Bucket{Name: strconv.Itoa(y), Value: counts[y]})
	}
	return out
}

// RangeDistribution counts records per range bucket. Every bucket is present,
// in fixed order; records without a range are not counted.
func RangeDistribution(records []model.Record) model.Distribution {
	out := make(model.Distribution, len(RangeBuckets))
	for i, label := range RangeBuckets {
		out[i].Name = label
	}
	for _, r := range records {
		label, ok := RangeBucket(r.ElectricRange)
		if !ok {
			continue
		}
		for i := range out {
			if out[i].Name == label {
				out[i].Value++
				break
			}
		}
	}
	return out
}

// TopN sorts by descending count, ties in input order, and keeps n buckets.
// When more than n exist the remainder is summed into a trailing Others bucket.
func TopN(dist model.Distribution, n int) model.Distribution {
	if n <= 0 {
		n = DefaultTopN
	}
	sorted := append(model.Distribution(nil), dist...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })
	if len(sorted) <= n {
		if sorted == nil {
			return model.Distribution{}
		}
		return sorted
	}
	var rest int
	for _, b := range sorted[n:] {
		rest += b.Value
	}
	return append(sorted[:n:n], model.Bucket{Name: OthersLabel, Value: rest})
}
