package pricing

import (
	"go.uber.org/zap"

	"cloudcart/core/rates"
	"cloudcart/internal/errors"
	"cloudcart/internal/logging"
)

// ServiceCost is one priced line item in a report
type ServiceCost struct {
	ID       string `json:"id,omitempty"`
	Type     Kind   `json:"type"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Cost
}

// Breakdown is quantity-weighted monthly cost per category.
// Hidden is reserved for callers that merge heuristic estimates; the engine leaves it zero.
type Breakdown struct {
	Compute float64 `json:"compute"`
	Storage float64 `json:"storage"`
	Network float64 `json:"network"`
	Hidden  float64 `json:"hidden"`
}

// Totals are quantity-weighted sums across all line items
type Totals struct {
	Hourly  float64 `json:"hourly"`
	Daily   float64 `json:"daily"`
	Monthly float64 `json:"monthly"`
}

// Report is the aggregate result of CalculateAll
type Report struct {
	PerService []ServiceCost `json:"perService"`
	Breakdown  Breakdown     `json:"breakdown"`
	Total      Totals        `json:"total"`
}

// Engine prices services against a fixed rate table.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	rates *rates.Table
}

// NewEngine creates an engine over an immutable rate table
func NewEngine(table *rates.Table) *Engine {
	return &Engine{rates: table}
}

// Rates returns the table the engine prices against
func (e *Engine) Rates() *rates.Table {
	return e.rates
}

// Price computes the unit cost of a single service.
// ok is false for service kinds the engine does not price.
func (e *Engine) Price(svc Service, region string) (cost Cost, ok bool, err error) {
	switch s := svc.(type) {
	case EC2:
		cost, err = computeCost(e.rates, s, region)
	case S3:
		cost, err = objectStorageCost(e.rates, s, region)
	case RDS:
		cost, err = databaseCost(e.rates, s, region)
	case DataTransfer:
		cost, err = dataTransferCost(e.rates, s, region)
	case Unsupported:
		return Cost{}, false, nil
	default:
		return Cost{}, false, errors.Newf(errors.TypeInternal, "no pricing function for service %T", svc)
	}
	if err != nil {
		return Cost{}, false, err
	}
	return cost, true, nil
}

// CalculateAll prices every service in order and aggregates the result.
// The first lookup failure aborts the whole batch; unsupported kinds are skipped.
func (e *Engine) CalculateAll(services []Service, region string, productionMode bool) (*Report, error) {
	report := &Report{PerService: []ServiceCost{}}

	for _, svc := range services {
		cost, ok, err := e.Price(svc, region)
		if err != nil {
			return nil, err
		}
		if !ok {
			logging.Debug("skipping unsupported service type",
				zap.String("type", string(svc.Kind())),
				zap.String("id", svc.Metadata().ID))
			continue
		}

		if productionMode {
			cost = ApplyProductionOverhead(cost, e.rates.ProductionOverhead)
		}

		meta := svc.Metadata()
		name := meta.Name
		if name == "" {
			name = defaultName(svc.Kind())
		}
		quantity := svc.Units()

		report.PerService = append(report.PerService, ServiceCost{
			ID:       meta.ID,
			Type:     svc.Kind(),
			Name:     name,
			Quantity: quantity,
			Cost:     cost,
		})

		q := float64(quantity)
		report.Breakdown.add(cost.Category, cost.Monthly*q)
		report.Total.Hourly += cost.Hourly * q
		report.Total.Daily += cost.Daily * q
		report.Total.Monthly += cost.Monthly * q
	}

	return report, nil
}

// ApplyProductionOverhead inflates a unit cost by the production surcharge.
// Backup, monitoring and logging are percentages of the pre-redundancy figure.
func ApplyProductionOverhead(cost Cost, overhead rates.ProductionOverhead) Cost {
	original := cost.Monthly

	monthly := original * overhead.RedundancyMultiplier
	monthly += original * overhead.BackupCostPercentage
	monthly += original * overhead.MonitoringCostPercentage
	monthly += original * overhead.LoggingCostPercentage

	cost.Monthly = monthly
	cost.Hourly = monthly / HoursPerMonth
	cost.Daily = monthly / DaysPerMonth
	cost.ProductionOverhead = &Overhead{
		Redundancy: original * (overhead.RedundancyMultiplier - 1),
		Backup:     original * overhead.BackupCostPercentage,
		Monitoring: original * overhead.MonitoringCostPercentage,
		Logging:    original * overhead.LoggingCostPercentage,
	}
	return cost
}

func (b *Breakdown) add(c Category, monthly float64) {
	switch c {
	case CategoryCompute:
		b.Compute += monthly
	case CategoryStorage:
		b.Storage += monthly
	case CategoryNetwork:
		b.Network += monthly
	}
}

// Sum is compute + storage + network + hidden
func (b Breakdown) Sum() float64 {
	return b.Compute + b.Storage + b.Network + b.Hidden
}

func defaultName(k Kind) string {
	switch k {
	case KindEC2:
		return "EC2"
	case KindS3:
		return "S3"
	case KindRDS:
		return "RDS"
	case KindDataTransfer:
		return "DATATRANSFER"
	}
	return string(k)
}
