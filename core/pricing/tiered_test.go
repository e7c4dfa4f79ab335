package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudcart/core/rates"
)

func TestTieredCostMarginalSummation(t *testing.T) {
	tiers := []rates.EgressTier{
		{UpToGB: ptr(10.0), PerGB: 0.09},
		{UpToGB: nil, PerGB: 0.05},
	}

	cost, charges := TieredCost(15, tiers)
	assert.InDelta(t, 10*0.09+5*0.05, cost, 1e-12)
	assert.InDelta(t, 1.15, cost, 1e-12)

	require.Len(t, charges, 2)
	assert.InDelta(t, 10, charges[0].GB, 0)
	assert.InDelta(t, 5, charges[1].GB, 0)
	assert.Nil(t, charges[1].UpToGB)
}

func TestTieredCostBoundaries(t *testing.T) {
	tiers := []rates.EgressTier{
		{UpToGB: ptr(10.0), PerGB: 0.09},
		{UpToGB: ptr(50.0), PerGB: 0.07},
		{UpToGB: nil, PerGB: 0.05},
	}

	tests := []struct {
		name  string
		gb    float64
		want  float64
		tiers int
	}{
		{"zero", 0, 0, 0},
		{"negative", -5, 0, 0},
		{"within first", 4, 4 * 0.09, 1},
		{"exactly first", 10, 10 * 0.09, 1},
		{"into second", 30, 10*0.09 + 20*0.07, 2},
		{"exactly second", 50, 10*0.09 + 40*0.07, 2},
		{"unbounded", 1000, 10*0.09 + 40*0.07 + 950*0.05, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, charges := TieredCost(tt.gb, tiers)
			assert.InDelta(t, tt.want, cost, 1e-9)
			assert.Len(t, charges, tt.tiers)
		})
	}
}

func TestTieredCostBoundedTableLeavesOverflowUnbilled(t *testing.T) {
	tiers := []rates.EgressTier{{UpToGB: ptr(10.0), PerGB: 0.1}}

	cost, _ := TieredCost(25, tiers)
	assert.InDelta(t, 1.0, cost, 1e-12)
}

func TestDataTransferScenario(t *testing.T) {
	e := testEngine(t)

	cost, ok, err := e.Price(DataTransfer{IngressGB: 50, EgressGB: 200}, "ap-southeast-1")
	require.NoError(t, err)
	require.True(t, ok)

	details := cost.Details.(TransferDetails)
	assert.Zero(t, details.IngressCost)
	assert.Equal(t, CategoryNetwork, cost.Category)

	want, _ := TieredCost(200, e.Rates().DataTransfer.EgressTiers)
	assert.InDelta(t, want, details.EgressCost, 0)
	assert.InDelta(t, want, cost.Monthly, 0)

	// default table: first GB free, the rest at the 0.09 tier; region not applied
	assert.InDelta(t, 199*0.09, cost.Monthly, 1e-9)

	var billed float64
	for _, c := range details.Tiers {
		billed += c.GB
	}
	assert.InDelta(t, 200, billed, 1e-9)
}
