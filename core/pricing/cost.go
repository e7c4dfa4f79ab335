package pricing

import "github.com/shopspring/decimal"

const (
	// HoursPerMonth converts a monthly figure to an hourly one
	HoursPerMonth = 720

	// DaysPerMonth converts a monthly figure to a daily one
	DaysPerMonth = 30
)

// Cost is the unit economics of one line item (quantity not applied)
type Cost struct {
	Hourly             float64   `json:"hourly"`
	Daily              float64   `json:"daily"`
	Monthly            float64   `json:"monthly"`
	Category           Category  `json:"category"`
	Details            any       `json:"details"`
	ProductionOverhead *Overhead `json:"productionOverhead,omitempty"`
}

// Overhead is the additive breakdown of the production surcharge
type Overhead struct {
	Redundancy float64 `json:"redundancy"`
	Backup     float64 `json:"backup"`
	Monitoring float64 `json:"monitoring"`
	Logging    float64 `json:"logging"`
}

// Total is the sum of all overhead components
func (o Overhead) Total() float64 {
	return o.Redundancy + o.Backup + o.Monitoring + o.Logging
}

// EC2Details explains a compute cost
type EC2Details struct {
	InstanceType string      `json:"instanceType"`
	VCPU         int         `json:"vcpu"`
	Memory       float64     `json:"memory"`
	OS           string      `json:"os"`
	PricingType  PricingType `json:"pricingType"`
	HoursPerDay  float64     `json:"hoursPerDay"`
}

// S3Details explains an object storage cost
type S3Details struct {
	StorageClass     string  `json:"storageClass"`
	StorageGB        float64 `json:"storageGB"`
	RequestsPerMonth float64 `json:"requestsPerMonth"`
	StorageCost      float64 `json:"storageCost"`
	RequestCost      float64 `json:"requestCost"`
}

// RDSDetails explains a database cost
type RDSDetails struct {
	Engine       string  `json:"engine"`
	InstanceType string  `json:"instanceType"`
	VCPU         int     `json:"vcpu"`
	Memory       float64 `json:"memory"`
	StorageGB    float64 `json:"storageGB"`
	MultiAZ      bool    `json:"multiAZ"`
	ComputeCost  float64 `json:"computeCost"`
	StorageCost  float64 `json:"storageCost"`
}

// TransferDetails explains a data transfer cost
type TransferDetails struct {
	IngressGB   float64      `json:"ingressGB"`
	EgressGB    float64      `json:"egressGB"`
	IngressCost float64      `json:"ingressCost"`
	EgressCost  float64      `json:"egressCost"`
	Tiers       []TierCharge `json:"tiers,omitempty"`
}

// fromMonthly back-derives hourly and daily figures
func fromMonthly(monthly float64, category Category, details any) Cost {
	return Cost{
		Hourly:   monthly / HoursPerMonth,
		Daily:    monthly / DaysPerMonth,
		Monthly:  monthly,
		Category: category,
		Details:  details,
	}
}

// RoundCents rounds a dollar amount half away from zero to two places
func RoundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// FormatUSD renders a dollar amount as $X.XX
func FormatUSD(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}
