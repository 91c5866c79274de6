package dashboard

import "github.com/weiwei-tsao/ev-dashboard/apps/api/internal/business/dataset"

// Attributes is the ordered list of filterable attributes.
var Attributes = []string{
	dataset.ColCounty,
	dataset.ColCity,
	dataset.ColState,
	dataset.ColPostalCode,
	dataset.ColModelYear,
	dataset.ColMake,
	dataset.ColModel,
	dataset.ColEVType,
	dataset.ColCAFV,
	dataset.ColElectricRange,
	dataset.ColBaseMSRP,
	dataset.ColLegislativeDistrict,
	dataset.ColElectricUtility,
}

// Electric range bucket labels, in display order.
const (
	Range0To100   = "0-100"
	Range101To200 = "101-200"
	Range201To300 = "201-300"
	Range301To400 = "301-400"
	RangeOver400  = "400+"
)

// Base MSRP bucket labels, in display order.
const (
	MSRPUnder30k  = "Under $30k"
	MSRP30kTo50k  = "$30k-$50k"
	MSRP50kTo75k  = "$50k-$75k"
	MSRP75kTo100k = "$75k-$100k"
	MSRPOver100k  = "Over $100k"
)

var (
	RangeBuckets = []string{Range0To100, Range101To200, Range201To300, Range301To400, RangeOver400}
	MSRPBuckets  = []string{MSRPUnder30k, MSRP30kTo50k, MSRP50kTo75k, MSRP75kTo100k, MSRPOver100k}
)

// Labels used by the aggregates.
const (
	UnknownLabel = "Unknown"
	OthersLabel  = "Others"
	NotAvailable = "N/A"
)

// KnownAttribute reports whether name is one of Attributes.
func KnownAttribute(name string) bool {
	for _, a := range Attributes {
		if a == name {
			return true
		}
	}
	return false
}

// RangeBucket returns the bucket label for an electric range. Missing and
// negative ranges fall in no bucket.
func RangeBucket(r *int) (string, bool) {
	if r == nil || *r < 0 {
		return "", false
	}
	switch v := *r; {
	case v <= 100:
		return Range0To100, true
	case v <= 200:
		return Range101To200, true
	case v <= 300:
		return Range201To300, true
	case v <= 400:
		return Range301To400, true
	default:
		return RangeOver400, true
	}
}

// MSRPBucket returns the price bucket label for a base MSRP.
func MSRPBucket(p *int) (string, bool) {
	if p == nil {
		return "", false
	}
	switch v := *p; {
	case v < 30000:
		return MSRPUnder30k, true
	case v <= 50000:
		return MSRP30kTo50k, true
	case v <= 75000:
		return MSRP50kTo75k, true
	case v <= 100000:
		return MSRP75kTo100k, true
	default:
		return MSRPOver100k, true
	}
}
