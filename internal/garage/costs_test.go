package garage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareCosts(t *testing.T) {
	cars := []Car{
		{ID: 1, Year: 1994, Make: "Mazda", Model: "Miata"},
		{ID: 2, Year: 2019, Make: "Honda", Model: "Civic"},
		{ID: 3, Year: 2008, Make: "BMW", Model: "328i"},
	}
	sums := []CostSummary{
		{CarID: 1, Total: 300, Count: 3},
		{CarID: 2, Total: 900, Count: 2},
	}
	perMile := map[int64]CostPerMile{
		2: {TotalCost: 900, TotalMiles: 3000, CostPerMile: 0.3},
	}

	rows := CompareCosts(cars, sums, perMile)

	require.Len(t, rows, 3)
	assert.Equal(t, []int64{2, 1, 3}, []int64{rows[0].Car.ID, rows[1].Car.ID, rows[2].Car.ID})
	assert.InDelta(t, 450, rows[0].PerService, 1e-9)
	assert.InDelta(t, 0.3, rows[0].CostPerMile, 1e-9)
	assert.Equal(t, 3000, rows[0].Miles)
	assert.InDelta(t, 100, rows[1].PerService, 1e-9)
	assert.Zero(t, rows[2].Total)
	assert.Zero(t, rows[2].PerService)
	assert.Zero(t, rows[2].Miles)
}

func TestCompareCosts_TiesKeepCarOrder(t *testing.T) {
	cars := []Car{{ID: 5}, {ID: 4}}
	rows := CompareCosts(cars, nil, nil)

	require.Len(t, rows, 2)
	assert.Equal(t, int64(5), rows[0].Car.ID)
	assert.Equal(t, int64(4), rows[1].Car.ID)
}

func TestCostAverages(t *testing.T) {
	perCar, perService := CostAverages([]CarCost{
		{Total: 900, Count: 2},
		{Total: 300, Count: 3},
		{},
	})
	assert.InDelta(t, 400, perCar, 1e-9)
	assert.InDelta(t, 240, perService, 1e-9)

	perCar, perService = CostAverages(nil)
	assert.Zero(t, perCar)
	assert.Zero(t, perService)
}
