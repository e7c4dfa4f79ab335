// Package pricing - Deterministic cost engine
// Maps service descriptors onto the static rate table.
// Pure functions only: no I/O, no shared mutable state.
package pricing

// Kind identifies a service variant
type Kind string

const (
	KindEC2          Kind = "ec2"
	KindS3           Kind = "s3"
	KindRDS          Kind = "rds"
	KindDataTransfer Kind = "dataTransfer"
)

// Kinds lists every priced service kind.
// A new variant must be added here and to the engine switch.
var Kinds = []Kind{KindEC2, KindS3, KindRDS, KindDataTransfer}

// Priced reports whether k is one of Kinds
func (k Kind) Priced() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Category groups costs in the breakdown
type Category string

const (
	CategoryCompute Category = "compute"
	CategoryStorage Category = "storage"
	CategoryNetwork Category = "network"
)

// PricingType selects the EC2 purchase option
type PricingType string

const (
	PricingOnDemand PricingType = "on-demand"
	PricingSpot     PricingType = "spot"
)

// Meta is caller-supplied identity, passed through untouched
type Meta struct {
	ID   string
	Name string
}

// Service is a closed set of priceable descriptors.
// Only types in this package implement it.
type Service interface {
	// Kind returns the variant tag
	Kind() Kind

	// Metadata returns the caller's identifier and display name
	Metadata() Meta

	// Units is the quantity multiplier applied at aggregation
	Units() int

	isService()
}

// EC2 is a compute instance line item
type EC2 struct {
	Meta
	InstanceType string
	HoursPerDay  float64
	PricingType  PricingType
	OS           string
	Quantity     int
}

// S3 is an object storage line item
type S3 struct {
	Meta
	StorageClass     string
	StorageGB        float64
	RequestsPerMonth float64
	Quantity         int
}

// RDS is a relational database line item
type RDS struct {
	Meta
	Engine       string
	InstanceType string
	StorageGB    float64
	MultiAZ      bool
	Quantity     int
}

// DataTransfer is the network traffic line item
type DataTransfer struct {
	Meta
	IngressGB float64
	EgressGB  float64
}

// Unsupported carries a descriptor whose type the engine does not price.
// The engine skips it without error.
type Unsupported struct {
	Meta
	Type string
}

func (s EC2) Kind() Kind          { return KindEC2 }
func (s S3) Kind() Kind           { return KindS3 }
func (s RDS) Kind() Kind          { return KindRDS }
func (s DataTransfer) Kind() Kind { return KindDataTransfer }
func (s Unsupported) Kind() Kind  { return Kind(s.Type) }

func (s EC2) Metadata() Meta          { return s.Meta }
func (s S3) Metadata() Meta           { return s.Meta }
func (s RDS) Metadata() Meta          { return s.Meta }
func (s DataTransfer) Metadata() Meta { return s.Meta }
func (s Unsupported) Metadata() Meta  { return s.Meta }

func (s EC2) Units() int          { return units(s.Quantity) }
func (s S3) Units() int           { return units(s.Quantity) }
func (s RDS) Units() int          { return units(s.Quantity) }
func (s DataTransfer) Units() int { return 1 }
func (s Unsupported) Units() int  { return 1 }

func (EC2) isService()          {}
func (S3) isService()           {}
func (RDS) isService()          {}
func (DataTransfer) isService() {}
func (Unsupported) isService()  {}

// units treats a missing or zero quantity as one
func units(q int) int {
	if q <= 0 {
		return 1
	}
	return q
}
