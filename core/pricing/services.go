package pricing

import (
	"cloudcart/core/rates"
	"cloudcart/internal/errors"
)

// computeCost prices an EC2 line item.
// Hourly is the per-running-hour rate; monthly follows hoursPerDay.
func computeCost(t *rates.Table, s EC2, region string) (Cost, error) {
	inst, ok := t.EC2Instance(s.InstanceType)
	if !ok {
		return Cost{}, errors.UnknownInstanceType(s.InstanceType)
	}

	hourly := inst.HourlyRate
	hourly *= t.OSMultiplier(s.OS)
	if s.PricingType == PricingSpot {
		hourly *= t.EC2.SpotDiscount
	}
	hourly *= t.RegionMultiplier(region)

	return Cost{
		Hourly:   hourly,
		Daily:    hourly * s.HoursPerDay,
		Monthly:  hourly * (s.HoursPerDay * DaysPerMonth),
		Category: CategoryCompute,
		Details: EC2Details{
			InstanceType: s.InstanceType,
			VCPU:         inst.VCPU,
			Memory:       inst.Memory,
			OS:           s.OS,
			PricingType:  s.PricingType,
			HoursPerDay:  s.HoursPerDay,
		},
	}, nil
}

// objectStorageCost prices an S3 line item
func objectStorageCost(t *rates.Table, s S3, region string) (Cost, error) {
	class, ok := t.StorageClassRate(s.StorageClass)
	if !ok {
		return Cost{}, errors.UnknownStorageClass(s.StorageClass)
	}

	multiplier := t.RegionMultiplier(region)
	storage := s.StorageGB * class.PerGBMonth * multiplier
	requests := s.RequestsPerMonth * class.GetRequest * multiplier

	return fromMonthly(storage+requests, CategoryStorage, S3Details{
		StorageClass:     s.StorageClass,
		StorageGB:        s.StorageGB,
		RequestsPerMonth: s.RequestsPerMonth,
		StorageCost:      storage,
		RequestCost:      requests,
	}), nil
}

// databaseCost prices an RDS line item.
// Databases are reported under the storage category.
func databaseCost(t *rates.Table, s RDS, region string) (Cost, error) {
	inst, ok := t.RDSInstance(s.InstanceType)
	if !ok {
		return Cost{}, errors.UnknownRDSInstanceType(s.InstanceType)
	}

	multiplier := t.RegionMultiplier(region)
	hourly := inst.HourlyRate * multiplier
	if s.MultiAZ {
		hourly *= t.RDS.MultiAZMultiplier
	}

	compute := hourly * HoursPerMonth
	storage := s.StorageGB * t.RDS.StoragePerGB * multiplier

	return fromMonthly(compute+storage, CategoryStorage, RDSDetails{
		Engine:       s.Engine,
		InstanceType: s.InstanceType,
		VCPU:         inst.VCPU,
		Memory:       inst.Memory,
		StorageGB:    s.StorageGB,
		MultiAZ:      s.MultiAZ,
		ComputeCost:  compute,
		StorageCost:  storage,
	}), nil
}

// dataTransferCost prices network traffic.
// Ingress is free; egress uses the global tier table and ignores region.
func dataTransferCost(t *rates.Table, s DataTransfer, _ string) (Cost, error) {
	const ingress = 0.0
	egress, tiers := TieredCost(s.EgressGB, t.DataTransfer.EgressTiers)

	return fromMonthly(ingress+egress, CategoryNetwork, TransferDetails{
		IngressGB:   s.IngressGB,
		EgressGB:    s.EgressGB,
		IngressCost: ingress,
		EgressCost:  egress,
		Tiers:       tiers,
	}), nil
}
