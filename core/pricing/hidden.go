package pricing

import "github.com/shopspring/decimal"

// Severity ranks a hidden cost
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Rough constants behind the hidden-cost heuristics.
// They are deliberately independent of the tiered and production pricing paths.
const (
	natAssumedGBProcessed  = 50
	defaultS3Requests      = 10000
	requestsToGB           = 0.001
	dbConnectionOverhead   = 15
	egressSpikeThresholdGB = 100
	egressSpikeFraction    = 0.2
	egressSpikeRatePerGB   = 0.09
	ebsSnapshotMonthlyCost = 20
)

// HiddenCost is one heuristic line item
type HiddenCost struct {
	Category             string   `json:"category"`
	Description          string   `json:"description"`
	EstimatedMonthlyCost float64  `json:"estimatedMonthlyCost"`
	Severity             Severity `json:"severity"`
}

// HiddenEstimate is the result of EstimateHidden
type HiddenEstimate struct {
	HiddenCosts     []HiddenCost `json:"hiddenCosts"`
	TotalHiddenCost float64      `json:"totalHiddenCost"`
}

// EstimateHidden applies fixed co-occurrence and threshold rules to the raw
// service list. It never fails; missing optional figures fall back to defaults.
// Region is accepted for symmetry with CalculateAll and is not used.
func (e *Engine) EstimateHidden(services []Service, _ string) HiddenEstimate {
	dt := e.rates.DataTransfer
	est := HiddenEstimate{HiddenCosts: []HiddenCost{}}
	total := decimal.Zero

	add := func(category, description string, cost float64, sev Severity) {
		est.HiddenCosts = append(est.HiddenCosts, HiddenCost{
			Category:             category,
			Description:          description,
			EstimatedMonthlyCost: RoundCents(cost),
			Severity:             sev,
		})
		total = total.Add(decimal.NewFromFloat(cost))
	}

	var (
		computeHours float64
		hasEC2       bool
		firstS3      *S3
		hasRDS       bool
		firstDT      *DataTransfer
	)
	for _, svc := range services {
		switch s := svc.(type) {
		case EC2:
			hasEC2 = true
			computeHours += s.HoursPerDay * DaysPerMonth
		case S3:
			if firstS3 == nil {
				firstS3 = &s
			}
		case RDS:
			hasRDS = true
		case DataTransfer:
			if firstDT == nil {
				firstDT = &s
			}
		}
	}

	if hasEC2 {
		nat := computeHours*dt.NATGatewayHourly + natAssumedGBProcessed*dt.NATGatewayPerGB
		add("NAT Gateway",
			"EC2 instances in private subnets require NAT Gateway for internet access",
			nat, SeverityWarning)
	}

	if hasEC2 && firstS3 != nil {
		requests := firstS3.RequestsPerMonth
		if requests == 0 {
			requests = defaultS3Requests
		}
		add("Inter-Service Traffic",
			"Data transfer between EC2 and S3 within the same region",
			requests*requestsToGB*dt.CrossRegionPerGB, SeverityInfo)
	}

	if hasRDS && hasEC2 {
		add("Database Connections",
			"Connection pooling and management overhead for RDS",
			dbConnectionOverhead, SeverityInfo)
	}

	if firstDT != nil && firstDT.EgressGB > egressSpikeThresholdGB {
		add("Egress Spikes",
			"Traffic often exceeds estimates by 20-30%",
			firstDT.EgressGB*egressSpikeFraction*egressSpikeRatePerGB, SeverityWarning)
	}

	if hasEC2 {
		add("EBS Snapshots",
			"Automated EBS snapshots for EC2 volumes",
			ebsSnapshotMonthlyCost, SeverityInfo)
	}

	est.TotalHiddenCost = total.Round(2).InexactFloat64()
	return est
}

// MergeHidden returns a copy of the report with the hidden estimate folded
// into breakdown.hidden and total.monthly. Hourly and daily totals are
// re-derived for the merged amount using the 720/30 constants.
func MergeHidden(r *Report, h HiddenEstimate) *Report {
	merged := *r
	merged.PerService = append([]ServiceCost(nil), r.PerService...)
	merged.Breakdown.Hidden += h.TotalHiddenCost
	merged.Total.Monthly += h.TotalHiddenCost
	merged.Total.Hourly += h.TotalHiddenCost / HoursPerMonth
	merged.Total.Daily += h.TotalHiddenCost / DaysPerMonth
	return &merged
}
