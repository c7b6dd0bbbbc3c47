package garage

import (
	"cmp"
	"slices"
)

// TypeCost aggregates the priced events of one service type.
type TypeCost struct {
	ServiceType ServiceType `json:"service_type"`
	Count       int         `json:"count"`
	Total       float64     `json:"total"`
	Average     float64     `json:"average"`
	Min         float64     `json:"min"`
	Max         float64     `json:"max"`
}

// CostSummary is the spend on one car. Events without a cost are ignored.
type CostSummary struct {
	CarID  int64      `json:"car_id"`
	Total  float64    `json:"total"`
	Count  int        `json:"count"`
	ByType []TypeCost `json:"by_type"`
}

// CostPerMile relates spend to distance driven since the first recorded
// service odometer.
type CostPerMile struct {
	TotalCost   float64 `json:"total_cost"`
	TotalMiles  int     `json:"total_miles"`
	CostPerMile float64 `json:"cost_per_mile"`
}

// CarCost is one car's row in a garage-wide cost comparison.
type CarCost struct {
	Car         Car
	Total       float64
	Count       int
	PerService  float64
	CostPerMile float64
	Miles       int
}

// CompareCosts joins per-car summaries with cost-per-mile figures, most
// expensive car first. Cars without priced services are listed at zero.
func CompareCosts(cars []Car, sums []CostSummary, perMile map[int64]CostPerMile) []CarCost {
	byCar := make(map[int64]CostSummary, len(sums))
	for _, s := range sums {
		byCar[s.CarID] = s
	}

	rows := make([]CarCost, 0, len(cars))
	for _, c := range cars {
		s := byCar[c.ID]
		cpm := perMile[c.ID]
		row := CarCost{
			Car:         c,
			Total:       s.Total,
			Count:       s.Count,
			CostPerMile: cpm.CostPerMile,
			Miles:       cpm.TotalMiles,
		}
		if s.Count > 0 {
			row.PerService = s.Total / float64(s.Count)
		}
		rows = append(rows, row)
	}
	slices.SortStableFunc(rows, func(a, b CarCost) int {
		return cmp.Compare(b.Total, a.Total)
	})
	return rows
}

// CostAverages returns the garage-wide mean spend per car and per priced
// service.
func CostAverages(rows []CarCost) (perCar, perService float64) {
	var total float64
	count := 0
	for _, r := range rows {
		total += r.Total
		count += r.Count
	}
	if len(rows) > 0 {
		perCar = total / float64(len(rows))
	}
	if count > 0 {
		perService = total / float64(count)
	}
	return perCar, perService
}
