// Package catalog - AWS options
package catalog

import (
	"fmt"

	"cloudcart/core/pricing"
	"cloudcart/core/rates"
)

// Tooltips are short explanations shown next to cart fields
var Tooltips = map[string]string{
	"ec2":            "Amazon EC2 provides scalable computing capacity in the cloud.",
	"s3":             "Amazon S3 is object storage built to store and retrieve any amount of data.",
	"rds":            "Amazon RDS makes it easy to set up, operate, and scale a relational database.",
	"dataTransfer":   "Data transfer costs for moving data in and out of AWS.",
	"spot":           "Spot Instances let you use spare EC2 capacity at a steep discount.",
	"onDemand":       "On-Demand Instances let you pay by the hour with no commitments.",
	"multiAZ":        "Multi-AZ provides high availability by replicating your database in another zone.",
	"productionMode": "Production mode adds backups, monitoring, logging, and redundancy overhead.",
}

// FromRates builds a catalog from the rate table
func FromRates(t *rates.Table) *Catalog {
	c := NewCatalog()
	RegisterAWS(c, t)
	return c
}

// RegisterAWS populates the catalog with every option the rate table prices
func RegisterAWS(c *Catalog, t *rates.Table) {
	for _, code := range t.RegionCodes() {
		r := t.Regions[code]
		c.Register(Entry{Group: GroupRegion, Value: code, Label: r.Name, Multiplier: r.Multiplier})
	}

	for _, name := range rates.SortedKeys(t.EC2.InstanceTypes) {
		inst := t.EC2.InstanceTypes[name]
		c.Register(Entry{
			Group:  GroupInstance,
			Value:  name,
			Label:  sizeLabel(name, inst),
			VCPU:   inst.VCPU,
			Memory: inst.Memory,
		})
	}

	for _, name := range rates.SortedKeys(t.S3.StorageClasses) {
		class := t.S3.StorageClasses[name]
		label := class.Label
		if label == "" {
			label = name
		}
		c.Register(Entry{Group: GroupStorageClass, Value: name, Label: label, Description: class.Description})
	}

	for _, name := range rates.SortedKeys(t.RDS.InstanceTypes) {
		inst := t.RDS.InstanceTypes[name]
		c.Register(Entry{
			Group:  GroupRDSInstance,
			Value:  name,
			Label:  sizeLabel(name, inst),
			VCPU:   inst.VCPU,
			Memory: inst.Memory,
		})
	}

	for _, name := range rates.SortedKeys(t.RDS.Engines) {
		c.Register(Entry{Group: GroupEngine, Value: name, Label: t.RDS.Engines[name]})
	}

	for _, name := range rates.SortedKeys(t.EC2.OSMultiplier) {
		c.Register(Entry{Group: GroupOS, Value: name, Label: name, Multiplier: t.EC2.OSMultiplier[name]})
	}

	c.Register(Entry{Group: GroupPricingType, Value: string(pricing.PricingOnDemand), Label: "On-Demand", Description: Tooltips["onDemand"]})
	c.Register(Entry{Group: GroupPricingType, Value: string(pricing.PricingSpot), Label: "Spot", Description: Tooltips["spot"], Multiplier: t.EC2.SpotDiscount})
}

func sizeLabel(name string, inst rates.Instance) string {
	return fmt.Sprintf("%s (%d vCPU, %g GB)", name, inst.VCPU, inst.Memory)
}

// DemoArchitecture is a small three-tier web stack used as a starting cart
func DemoArchitecture() []pricing.Descriptor {
	hours := float64(pricing.DefaultHoursPerDay)
	return []pricing.Descriptor{
		{
			Type:         "ec2",
			Name:         "Web Server Cluster",
			InstanceType: "m5.large",
			HoursPerDay:  &hours,
			PricingType:  string(pricing.PricingOnDemand),
			OS:           "linux",
			Quantity:     2,
		},
		{
			Type:         "ec2",
			Name:         "API Server",
			InstanceType: "t3.large",
			HoursPerDay:  &hours,
			PricingType:  string(pricing.PricingOnDemand),
			OS:           "linux",
			Quantity:     2,
		},
		{
			Type:             "s3",
			Name:             "Media Storage",
			StorageClass:     "standard",
			StorageGB:        500,
			RequestsPerMonth: 100000,
		},
		{
			Type:         "rds",
			Name:         "Production Database",
			Engine:       "postgres",
			InstanceType: "db.r5.large",
			StorageGB:    100,
			MultiAZ:      true,
		},
		{
			Type:      "dataTransfer",
			Name:      "Data Transfer",
			IngressGB: 50,
			EgressGB:  200,
		},
	}
}
