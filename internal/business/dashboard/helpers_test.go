package dashboard

import "github.com/weiwei-tsao/ev-dashboard/apps/api/pkg/model"

func ip(v int) *int { return &v }

func scenarioRecords() []model.Record {
	return []model.Record{
		{Make: "TESLA", City: "Seattle", ElectricRange: ip(250), ModelYear: ip(2022)},
		{Make: "TESLA", City: "Seattle", ElectricRange: ip(300), ModelYear: ip(2022)},
		{Make: "NISSAN", City: "Bellevue", ElectricRange: ip(150), ModelYear: ip(2021)},
	}
}
