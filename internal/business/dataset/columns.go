package dataset

import (
	"strconv"

	"github.com/spf13/cast"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"
)

// Header names with a typed field on model.Record.
const (
	ColCounty              = "County"
	ColCity                = "City"
	ColState               = "State"
	ColPostalCode          = "Postal Code"
	ColModelYear           = "Model Year"
	ColMake                = "Make"
	ColModel               = "Model"
	ColEVType              = "Electric Vehicle Type"
	ColCAFV                = "Clean Alternative Fuel Vehicle (CAFV)"
	ColCAFVEligibility     = "Clean Alternative Fuel Vehicle (CAFV) Eligibility"
	ColElectricRange       = "Electric Range"
	ColBaseMSRP            = "Base MSRP"
	ColLegislativeDistrict = "Legislative District"
	ColElectricUtility     = "Electric Utility"
)

type column struct {
	set func(r *model.Record, raw string)
	get func(r model.Record) any
}

var columns = map[string]column{
	ColCounty: {
		set: func(r *model.Record, v string) { r.County = v },
		get: func(r model.Record) any { return r.County },
	},
	ColCity: {
		set: func(r *model.Record, v string) { r.City = v },
		get: func(r model.Record) any { return r.City },
	},
	ColState: {
		set: func(r *model.Record, v string) { r.State = v },
		get: func(r model.Record) any { return r.State },
	},
	ColPostalCode: {
		set: func(r *model.Record, v string) { r.PostalCode = v },
		get: func(r model.Record) any { return r.PostalCode },
	},
	ColModelYear: {
		set: func(r *model.Record, v string) { r.ModelYear = parseInt(v) },
		get: func(r model.Record) any { return intValue(r.ModelYear) },
	},
	ColMake: {
		set: func(r *model.Record, v string) { r.Make = v },
		get: func(r model.Record) any { return r.Make },
	},
	ColModel: {
		set: func(r *model.Record, v string) { r.Model = v },
		get: func(r model.Record) any { return r.Model },
	},
	ColEVType: {
		set: func(r *model.Record, v string) { r.ElectricVehicleType = v },
		get: func(r model.Record) any { return r.ElectricVehicleType },
	},
	ColCAFV: {
		set: func(r *model.Record, v string) { r.CAFVEligibility = v },
		get: func(r model.Record) any { return r.CAFVEligibility },
	},
	ColCAFVEligibility: {
		set: func(r *model.Record, v string) { r.CAFVEligibility = v },
		get: func(r model.Record) any { return r.CAFVEligibility },
	},
	ColElectricRange: {
		set: func(r *model.Record, v string) { r.ElectricRange = parseInt(v) },
		get: func(r model.Record) any { return intValue(r.ElectricRange) },
	},
	ColBaseMSRP: {
		set: func(r *model.Record, v string) { r.BaseMSRP = parseInt(v) },
		get: func(r model.Record) any { return intValue(r.BaseMSRP) },
	},
	ColLegislativeDistrict: {
		set: func(r *model.Record, v string) { r.LegislativeDistrict = v },
		get: func(r model.Record) any { return r.LegislativeDistrict },
	},
	ColElectricUtility: {
		set: func(r *model.Record, v string) { r.ElectricUtility = v },
		get: func(r model.Record) any { return r.ElectricUtility },
	},
}

// IsTyped reports whether the header name maps to a typed Record field.
func IsTyped(name string) bool {
	_, ok := columns[name]
	return ok
}

// Value returns the record's value for a header name: a string for text
// columns, an int for numeric ones, or the passthrough value. ok is false
// when the value is missing.
func Value(r model.Record, name string) (any, bool) {
	if c, ok := columns[name]; ok {
		v := c.get(r)
		switch tv := v.(type) {
		case nil:
			return nil, false
		case string:
			return tv, tv != ""
		default:
			return tv, true
		}
	}
	v, ok := r.Extra[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// StringValue renders Value as text; missing values render as "".
func StringValue(r model.Record, name string) string {
	v, ok := Value(r, name)
	if !ok {
		return ""
	}
	switch tv := v.(type) {
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	default:
		return cast.ToString(tv)
	}
}

func intValue(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
