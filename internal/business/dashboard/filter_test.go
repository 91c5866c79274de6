package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"
)

func TestMatch(t *testing.T) {
	r := model.Record{
		City:          "Seattle",
		ModelYear:     ip(2022),
		ElectricRange: ip(250),
		BaseMSRP:      ip(69900),
		Extra:         map[string]any{"DOL Vehicle ID": int64(125701579), "Clean Fleet": true},
	}
	tests := []struct {
		name string
		c    Criterion
		want bool
	}{
		{"string equal", Criterion{Attribute: "City", Value: "Seattle"}, true},
		{"string case sensitive", Criterion{Attribute: "City", Value: "seattle"}, false},
		{"range bucket", Criterion{Attribute: "Electric Range", Value: "201-300"}, true},
		{"range other bucket", Criterion{Attribute: "Electric Range", Value: "0-100"}, false},
		{"range raw value", Criterion{Attribute: "Electric Range", Value: "250"}, false},
		{"msrp bucket", Criterion{Attribute: "Base MSRP", Value: "$50k-$75k"}, true},
		{"msrp unknown label", Criterion{Attribute: "Base MSRP", Value: "cheap"}, false},
		{"year typed", Criterion{Attribute: "Model Year", Value: "2022"}, true},
		{"year padded", Criterion{Attribute: "Model Year", Value: " 2022 "}, true},
		{"year mismatch", Criterion{Attribute: "Model Year", Value: "2021"}, false},
		{"year unparsable", Criterion{Attribute: "Model Year", Value: "twenty"}, false},
		{"passthrough int", Criterion{Attribute: "Dol Vehicle Id", Value: "125701579"}, false},
		{"passthrough exact name", Criterion{Attribute: "DOL Vehicle ID", Value: "125701579"}, true},
		{"passthrough bool", Criterion{Attribute: "Clean Fleet", Value: "true"}, true},
		{"missing field", Criterion{Attribute: "Make", Value: ""}, false},
		{"absent column", Criterion{Attribute: "Color", Value: "red"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(r, tt.c))
		})
	}
}

func TestMatchMissingNumbers(t *testing.T) {
	r := model.Record{City: "Yakima"}
	assert.False(t, Match(r, Criterion{Attribute: "Electric Range", Value: Range0To100}))
	assert.False(t, Match(r, Criterion{Attribute: "Base MSRP", Value: MSRPUnder30k}))
	assert.False(t, Match(r, Criterion{Attribute: "Model Year", Value: "0"}))
}

func TestFilter(t *testing.T) {
	records := scenarioRecords()

	assert.Len(t, Filter(records, nil), 3)
	assert.Len(t, Filter(records, Criteria{{"City", "Seattle"}}), 2)
	assert.Len(t, Filter(records, Criteria{{"City", "Seattle"}, {"Electric Range", "201-300"}}), 2)
	assert.Len(t, Filter(records, Criteria{{"City", "Seattle"}, {"Model Year", "2021"}}), 0)
	assert.Len(t, Filter(records, Criteria{{"Make", "NISSAN"}, {"Electric Range", "101-200"}}), 1)
}
