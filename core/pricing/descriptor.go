package pricing

import (
	"cloudcart/internal/errors"
)

// DefaultHoursPerDay is used when an EC2 descriptor omits hoursPerDay
const DefaultHoursPerDay = 24

// Descriptor is the wire form of a cart line item.
// Only the fields relevant to Type are read.
type Descriptor struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Type string `json:"type" yaml:"type"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// ec2, rds
	InstanceType string `json:"instanceType,omitempty" yaml:"instanceType,omitempty"`

	// ec2
	HoursPerDay *float64 `json:"hoursPerDay,omitempty" yaml:"hoursPerDay,omitempty"`
	PricingType string   `json:"pricingType,omitempty" yaml:"pricingType,omitempty"`
	OS          string   `json:"os,omitempty" yaml:"os,omitempty"`

	// s3
	StorageClass     string  `json:"storageClass,omitempty" yaml:"storageClass,omitempty"`
	RequestsPerMonth float64 `json:"requestsPerMonth,omitempty" yaml:"requestsPerMonth,omitempty"`

	// s3, rds
	StorageGB float64 `json:"storageGB,omitempty" yaml:"storageGB,omitempty"`

	// rds
	Engine  string `json:"engine,omitempty" yaml:"engine,omitempty"`
	MultiAZ bool   `json:"multiAZ,omitempty" yaml:"multiAZ,omitempty"`

	// dataTransfer
	IngressGB float64 `json:"ingressGB,omitempty" yaml:"ingressGB,omitempty"`
	EgressGB  float64 `json:"egressGB,omitempty" yaml:"egressGB,omitempty"`

	// ec2, s3, rds
	Quantity int `json:"quantity,omitempty" yaml:"quantity,omitempty"`
}

// Service converts the descriptor into its typed variant.
// Unrecognized types become Unsupported.
func (d Descriptor) Service() Service {
	meta := Meta{ID: d.ID, Name: d.Name}

	switch Kind(d.Type) {
	case KindEC2:
		hours := float64(DefaultHoursPerDay)
		if d.HoursPerDay != nil {
			hours = *d.HoursPerDay
		}
		pt := PricingType(d.PricingType)
		if pt == "" {
			pt = PricingOnDemand
		}
		os := d.OS
		if os == "" {
			os = "linux"
		}
		return EC2{
			Meta:         meta,
			InstanceType: d.InstanceType,
			HoursPerDay:  hours,
			PricingType:  pt,
			OS:           os,
			Quantity:     d.Quantity,
		}
	case KindS3:
		return S3{
			Meta:             meta,
			StorageClass:     d.StorageClass,
			StorageGB:        d.StorageGB,
			RequestsPerMonth: d.RequestsPerMonth,
			Quantity:         d.Quantity,
		}
	case KindRDS:
		return RDS{
			Meta:         meta,
			Engine:       d.Engine,
			InstanceType: d.InstanceType,
			StorageGB:    d.StorageGB,
			MultiAZ:      d.MultiAZ,
			Quantity:     d.Quantity,
		}
	case KindDataTransfer:
		return DataTransfer{
			Meta:      meta,
			IngressGB: d.IngressGB,
			EgressGB:  d.EgressGB,
		}
	default:
		return Unsupported{Meta: meta, Type: d.Type}
	}
}

// Validate checks the documented ranges of a descriptor.
// Lookups against the rate table are left to the engine. Descriptors of a
// kind the engine does not price, a missing type included, always pass so
// that the engine can skip them.
func (d Descriptor) Validate() error {
	if !Kind(d.Type).Priced() {
		return nil
	}
	if d.Quantity < 0 {
		return errors.Inputf("%s: quantity must not be negative", d.label())
	}

	switch Kind(d.Type) {
	case KindEC2:
		if d.InstanceType == "" {
			return errors.Inputf("%s: instanceType is required", d.label())
		}
		if d.HoursPerDay != nil && (*d.HoursPerDay < 1 || *d.HoursPerDay > 24) {
			return errors.Inputf("%s: hoursPerDay must be between 1 and 24", d.label())
		}
		switch PricingType(d.PricingType) {
		case "", PricingOnDemand, PricingSpot:
		default:
			return errors.Inputf("%s: pricingType must be on-demand or spot", d.label())
		}
	case KindS3:
		if d.StorageClass == "" {
			return errors.Inputf("%s: storageClass is required", d.label())
		}
		if d.StorageGB < 0 || d.RequestsPerMonth < 0 {
			return errors.Inputf("%s: storageGB and requestsPerMonth must not be negative", d.label())
		}
	case KindRDS:
		if d.InstanceType == "" {
			return errors.Inputf("%s: instanceType is required", d.label())
		}
		if d.StorageGB < 0 {
			return errors.Inputf("%s: storageGB must not be negative", d.label())
		}
	case KindDataTransfer:
		if d.IngressGB < 0 || d.EgressGB < 0 {
			return errors.Inputf("%s: ingressGB and egressGB must not be negative", d.label())
		}
	}
	return nil
}

func (d Descriptor) label() string {
	if d.Name != "" {
		return d.Name
	}
	if d.ID != "" {
		return d.ID
	}
	return d.Type
}

// Services converts a descriptor list in order
func Services(ds []Descriptor) []Service {
	out := make([]Service, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.Service())
	}
	return out
}

// ValidateAll returns the first descriptor validation failure
func ValidateAll(ds []Descriptor) error {
	for _, d := range ds {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}
