package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categories(h HiddenEstimate) []string {
	out := make([]string, 0, len(h.HiddenCosts))
	for _, c := range h.HiddenCosts {
		out = append(out, c.Category)
	}
	return out
}

func TestHiddenComputeAndObjectStorage(t *testing.T) {
	e := testEngine(t)

	est := e.EstimateHidden([]Service{
		EC2{InstanceType: "t3.micro", HoursPerDay: 24},
		S3{StorageClass: "standard", StorageGB: 10},
	}, "us-east-1")

	require.Len(t, est.HiddenCosts, 3)
	assert.Equal(t, []string{"NAT Gateway", "Inter-Service Traffic", "EBS Snapshots"}, categories(est))

	dt := e.Rates().DataTransfer
	assert.InDelta(t, RoundCents(720*dt.NATGatewayHourly+50*dt.NATGatewayPerGB), est.HiddenCosts[0].EstimatedMonthlyCost, 1e-9)
	assert.Equal(t, SeverityWarning, est.HiddenCosts[0].Severity)

	// zero requests falls back to the default request volume
	assert.InDelta(t, RoundCents(10000*0.001*dt.CrossRegionPerGB), est.HiddenCosts[1].EstimatedMonthlyCost, 1e-9)
	assert.Equal(t, SeverityInfo, est.HiddenCosts[1].Severity)

	assert.InDelta(t, 20.0, est.HiddenCosts[2].EstimatedMonthlyCost, 0)
}

func TestHiddenRulesTriggerIndependently(t *testing.T) {
	e := testEngine(t)

	tests := []struct {
		name     string
		services []Service
		want     []string
	}{
		{
			name:     "empty cart",
			services: nil,
			want:     []string{},
		},
		{
			name:     "database alone",
			services: []Service{RDS{InstanceType: "db.t3.micro"}},
			want:     []string{},
		},
		{
			name: "compute and database",
			services: []Service{
				RDS{InstanceType: "db.t3.micro"},
				EC2{InstanceType: "t3.micro", HoursPerDay: 12},
			},
			want: []string{"NAT Gateway", "Database Connections", "EBS Snapshots"},
		},
		{
			name:     "egress at threshold",
			services: []Service{DataTransfer{EgressGB: 100}},
			want:     []string{},
		},
		{
			name:     "egress over threshold",
			services: []Service{DataTransfer{EgressGB: 250}},
			want:     []string{"Egress Spikes"},
		},
		{
			name: "everything",
			services: []Service{
				EC2{InstanceType: "m5.large", HoursPerDay: 24},
				S3{StorageClass: "standard", RequestsPerMonth: 5000},
				RDS{InstanceType: "db.r5.large"},
				DataTransfer{EgressGB: 200},
			},
			want: []string{"NAT Gateway", "Inter-Service Traffic", "Database Connections", "Egress Spikes", "EBS Snapshots"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := e.EstimateHidden(tt.services, "us-east-1")
			assert.Equal(t, tt.want, categories(est))
		})
	}
}

func TestHiddenNATScalesWithComputeHours(t *testing.T) {
	e := testEngine(t)
	dt := e.Rates().DataTransfer

	est := e.EstimateHidden([]Service{
		EC2{InstanceType: "t3.micro", HoursPerDay: 8},
		EC2{InstanceType: "t3.micro", HoursPerDay: 10},
	}, "")

	hours := (8.0 + 10.0) * 30
	assert.InDelta(t, RoundCents(hours*dt.NATGatewayHourly+50*dt.NATGatewayPerGB), est.HiddenCosts[0].EstimatedMonthlyCost, 1e-9)
}

func TestHiddenEgressSpike(t *testing.T) {
	e := testEngine(t)

	est := e.EstimateHidden([]Service{
		DataTransfer{EgressGB: 500},
		DataTransfer{EgressGB: 5000},
	}, "us-east-1")

	require.Len(t, est.HiddenCosts, 1)
	// only the first data transfer descriptor is considered
	assert.InDelta(t, 500*0.2*0.09, est.HiddenCosts[0].EstimatedMonthlyCost, 1e-9)
	assert.Equal(t, SeverityWarning, est.HiddenCosts[0].Severity)
}

func TestHiddenTotalIsRoundedSum(t *testing.T) {
	e := testEngine(t)

	est := e.EstimateHidden(demoServices(), "us-east-1")

	var sum float64
	for _, c := range est.HiddenCosts {
		sum += c.EstimatedMonthlyCost
	}
	assert.InDelta(t, sum, est.TotalHiddenCost, 0.011)
	assert.Equal(t, RoundCents(est.TotalHiddenCost), est.TotalHiddenCost)
}

func TestMergeHiddenLeavesReportUntouched(t *testing.T) {
	e := testEngine(t)

	report, err := e.CalculateAll(demoServices(), "us-east-1", false)
	require.NoError(t, err)
	est := e.EstimateHidden(demoServices(), "us-east-1")
	before := report.Total.Monthly

	merged := MergeHidden(report, est)

	assert.Equal(t, before, report.Total.Monthly)
	assert.Zero(t, report.Breakdown.Hidden)
	assert.InDelta(t, before+est.TotalHiddenCost, merged.Total.Monthly, 1e-9)
	assert.InDelta(t, est.TotalHiddenCost, merged.Breakdown.Hidden, 0)
	assert.InDelta(t, merged.Total.Monthly, merged.Breakdown.Sum(), 1e-6)
}

func TestProductionOverheadComponents(t *testing.T) {
	e := testEngine(t)
	overhead := e.Rates().ProductionOverhead

	base, _, err := e.Price(S3{StorageClass: "standard", StorageGB: 1000}, "us-east-1")
	require.NoError(t, err)

	prod := ApplyProductionOverhead(base, overhead)
	require.NotNil(t, prod.ProductionOverhead)

	o := prod.ProductionOverhead
	assert.InDelta(t, base.Monthly*(overhead.RedundancyMultiplier-1), o.Redundancy, 1e-9)
	assert.InDelta(t, base.Monthly*overhead.BackupCostPercentage, o.Backup, 1e-9)
	assert.InDelta(t, base.Monthly+o.Total(), prod.Monthly, 1e-9)
	assert.InDelta(t, prod.Monthly/720, prod.Hourly, 1e-12)
	assert.InDelta(t, prod.Monthly/30, prod.Daily, 1e-12)
	assert.Nil(t, base.ProductionOverhead)
}
