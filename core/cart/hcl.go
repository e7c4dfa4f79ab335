package cart

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"cloudcart/core/pricing"
	"cloudcart/internal/errors"
)

// hclCart mirrors Cart using snake_case attributes and labelled service blocks:
//
//	region          = "us-east-1"
//	production_mode = true
//
//	service "ec2" {
//	  name          = "web"
//	  instance_type = "m5.large"
//	  quantity      = 2
//	}
type hclCart struct {
	Region         string       `hcl:"region,optional"`
	ProductionMode bool         `hcl:"production_mode,optional"`
	Services       []hclService `hcl:"service,block"`
}

type hclService struct {
	Type string `hcl:"type,label"`

	ID               *string  `hcl:"id,optional"`
	Name             *string  `hcl:"name,optional"`
	InstanceType     *string  `hcl:"instance_type,optional"`
	HoursPerDay      *float64 `hcl:"hours_per_day,optional"`
	PricingType      *string  `hcl:"pricing_type,optional"`
	OS               *string  `hcl:"os,optional"`
	StorageClass     *string  `hcl:"storage_class,optional"`
	RequestsPerMonth *float64 `hcl:"requests_per_month,optional"`
	StorageGB        *float64 `hcl:"storage_gb,optional"`
	Engine           *string  `hcl:"engine,optional"`
	MultiAZ          *bool    `hcl:"multi_az,optional"`
	IngressGB        *float64 `hcl:"ingress_gb,optional"`
	EgressGB         *float64 `hcl:"egress_gb,optional"`
	Quantity         *int     `hcl:"quantity,optional"`
}

func parseHCL(data []byte, filename string) (*Cart, error) {
	if filename == "" {
		filename = "cart.hcl"
	}

	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	var raw hclCart
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	c := &Cart{
		Region:         raw.Region,
		ProductionMode: raw.ProductionMode,
		Services:       make([]pricing.Descriptor, 0, len(raw.Services)),
	}
	for _, s := range raw.Services {
		c.Services = append(c.Services, s.descriptor())
	}
	return c, nil
}

func (s hclService) descriptor() pricing.Descriptor {
	return pricing.Descriptor{
		ID:               deref(s.ID),
		Type:             s.Type,
		Name:             deref(s.Name),
		InstanceType:     deref(s.InstanceType),
		HoursPerDay:      s.HoursPerDay,
		PricingType:      deref(s.PricingType),
		OS:               deref(s.OS),
		StorageClass:     deref(s.StorageClass),
		RequestsPerMonth: deref(s.RequestsPerMonth),
		StorageGB:        deref(s.StorageGB),
		Engine:           deref(s.Engine),
		MultiAZ:          deref(s.MultiAZ),
		IngressGB:        deref(s.IngressGB),
		EgressGB:         deref(s.EgressGB),
		Quantity:         deref(s.Quantity),
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func diagError(filename string, diags hcl.Diagnostics) error {
	var msgs []string
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		line := 0
		if diag.Subject != nil {
			line = diag.Subject.Start.Line
		}
		msgs = append(msgs, fmt.Sprintf("line %d: %s: %s", line, diag.Summary, diag.Detail))
	}
	return errors.Parsing("invalid HCL cart "+filename, fmt.Errorf("%s", strings.Join(msgs, "; ")))
}
