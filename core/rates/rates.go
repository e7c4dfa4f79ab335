// Package rates - Static rate table
// The rate table is loaded once at startup and never mutated afterwards.
// Every pricing function reads it; none writes it.
package rates

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"math"
	"os"
	"sort"

	"cloudcart/internal/errors"
)

//go:embed pricing.json
var defaultTable []byte

// Instance is the rate and shape of a single instance type
type Instance struct {
	HourlyRate float64 `json:"hourlyRate"`
	VCPU       int     `json:"vcpu"`
	Memory     float64 `json:"memory"`
}

// EC2Rates holds compute pricing
type EC2Rates struct {
	InstanceTypes map[string]Instance `json:"instanceTypes"`

	// OSMultiplier scales the base (linux) rate per operating system
	OSMultiplier map[string]float64 `json:"osMultiplier"`

	// SpotDiscount is the fraction of the on-demand rate paid for spot capacity
	SpotDiscount float64 `json:"spotDiscount"`
}

// StorageClass holds object storage pricing for one class
type StorageClass struct {
	PerGBMonth  float64 `json:"perGBMonth"`
	GetRequest  float64 `json:"getRequest"`
	Label       string  `json:"label,omitempty"`
	Description string  `json:"description,omitempty"`
}

// S3Rates holds object storage pricing
type S3Rates struct {
	StorageClasses map[string]StorageClass `json:"storageClasses"`
}

// RDSRates holds relational database pricing
type RDSRates struct {
	InstanceTypes     map[string]Instance `json:"instanceTypes"`
	Engines           map[string]string   `json:"engines,omitempty"`
	MultiAZMultiplier float64             `json:"multiAZMultiplier"`
	StoragePerGB      float64             `json:"storagePerGB"`
}

// Region is a geographic price adjustment
type Region struct {
	Multiplier float64 `json:"multiplier"`
	Name       string  `json:"name,omitempty"`
}

// EgressTier is one band of the progressive egress table.
// A nil UpToGB marks the unbounded final tier.
type EgressTier struct {
	UpToGB *float64 `json:"upToGB"`
	PerGB  float64  `json:"perGB"`
}

// Limit returns the tier's upper bound, +Inf for the unbounded tier
func (t EgressTier) Limit() float64 {
	if t.UpToGB == nil {
		return math.Inf(1)
	}
	return *t.UpToGB
}

// DataTransferRates holds network pricing
type DataTransferRates struct {
	EgressTiers      []EgressTier `json:"egressTiers"`
	NATGatewayHourly float64      `json:"natGatewayHourly"`
	NATGatewayPerGB  float64      `json:"natGatewayPerGB"`
	CrossRegionPerGB float64      `json:"crossRegionPerGB"`
}

// ProductionOverhead approximates the extra cost of a production deployment
type ProductionOverhead struct {
	RedundancyMultiplier     float64 `json:"redundancyMultiplier"`
	BackupCostPercentage     float64 `json:"backupCostPercentage"`
	MonitoringCostPercentage float64 `json:"monitoringCostPercentage"`
	LoggingCostPercentage    float64 `json:"loggingCostPercentage"`
}

// Table is the complete rate table.
// A *Table returned by Load or Default must be treated as read-only.
type Table struct {
	Version            string             `json:"version,omitempty"`
	Currency           string             `json:"currency,omitempty"`
	EC2                EC2Rates           `json:"ec2"`
	S3                 S3Rates            `json:"s3"`
	RDS                RDSRates           `json:"rds"`
	Regions            map[string]Region  `json:"regions"`
	DataTransfer       DataTransferRates  `json:"dataTransfer"`
	ProductionOverhead ProductionOverhead `json:"productionOverhead"`

	snapshot string
}

// Default returns the rate table compiled into the binary
func Default() (*Table, error) {
	return Parse(defaultTable)
}

// DefaultJSON returns a copy of the embedded rate table document
func DefaultJSON() []byte {
	return bytes.Clone(defaultTable)
}

// MustDefault returns the embedded table and panics if it is invalid
func MustDefault() *Table {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t
}

// Load reads a rate table from a JSON file.
// An empty path loads the embedded default.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeConfig, err, "failed to read rate table %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates a rate table
func Parse(data []byte) (*Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	t := &Table{}
	if err := dec.Decode(t); err != nil {
		return nil, errors.Parsing("invalid rate table", err)
	}
	if t.Currency == "" {
		t.Currency = "USD"
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	canonical, err := json.Marshal(t)
	if err != nil {
		return nil, errors.Internal("failed to hash rate table", err)
	}
	sum := sha256.Sum256(canonical)
	t.snapshot = "rates-" + hex.EncodeToString(sum[:])[:12]

	return t, nil
}

// Validate checks structural invariants of the table
func (t *Table) Validate() error {
	for name, inst := range t.EC2.InstanceTypes {
		if inst.HourlyRate < 0 {
			return errors.Newf(errors.TypeConfig, "ec2 instance %s has negative hourly rate", name)
		}
	}
	for name, m := range t.EC2.OSMultiplier {
		if m <= 0 {
			return errors.Newf(errors.TypeConfig, "ec2 os multiplier for %s must be positive", name)
		}
	}
	if t.EC2.SpotDiscount <= 0 || t.EC2.SpotDiscount > 1 {
		return errors.Newf(errors.TypeConfig, "ec2 spot discount must be in (0, 1], got %v", t.EC2.SpotDiscount)
	}
	for name, sc := range t.S3.StorageClasses {
		if sc.PerGBMonth < 0 || sc.GetRequest < 0 {
			return errors.Newf(errors.TypeConfig, "s3 storage class %s has a negative rate", name)
		}
	}
	for name, inst := range t.RDS.InstanceTypes {
		if inst.HourlyRate < 0 {
			return errors.Newf(errors.TypeConfig, "rds instance %s has negative hourly rate", name)
		}
	}
	if t.RDS.MultiAZMultiplier <= 0 {
		return errors.Config("rds multiAZMultiplier must be positive")
	}
	if t.RDS.StoragePerGB < 0 {
		return errors.Config("rds storagePerGB must not be negative")
	}
	for code, r := range t.Regions {
		if r.Multiplier <= 0 {
			return errors.Newf(errors.TypeConfig, "region %s multiplier must be positive", code)
		}
	}

	tiers := t.DataTransfer.EgressTiers
	if len(tiers) == 0 {
		return errors.Config("dataTransfer.egressTiers must not be empty")
	}
	prev := 0.0
	for i, tier := range tiers {
		if tier.PerGB < 0 {
			return errors.Newf(errors.TypeConfig, "egress tier %d has negative rate", i)
		}
		if tier.UpToGB == nil {
			if i != len(tiers)-1 {
				return errors.Newf(errors.TypeConfig, "egress tier %d is unbounded but not last", i)
			}
			continue
		}
		if *tier.UpToGB <= prev {
			return errors.Newf(errors.TypeConfig, "egress tier %d bound %v must exceed %v", i, *tier.UpToGB, prev)
		}
		prev = *tier.UpToGB
	}

	po := t.ProductionOverhead
	if po.RedundancyMultiplier < 1 {
		return errors.Config("productionOverhead.redundancyMultiplier must be at least 1")
	}
	if po.BackupCostPercentage < 0 || po.MonitoringCostPercentage < 0 || po.LoggingCostPercentage < 0 {
		return errors.Config("productionOverhead percentages must not be negative")
	}
	return nil
}

// Snapshot identifies the table contents; equal tables share a snapshot ID
func (t *Table) Snapshot() string {
	return t.snapshot
}

// RegionMultiplier returns the region's price multiplier, 1 when unknown
func (t *Table) RegionMultiplier(region string) float64 {
	if r, ok := t.Regions[region]; ok {
		return r.Multiplier
	}
	return 1
}

// OSMultiplier returns the operating system multiplier, 1 when unknown
func (t *Table) OSMultiplier(osName string) float64 {
	if m, ok := t.EC2.OSMultiplier[osName]; ok {
		return m
	}
	return 1
}

// EC2Instance looks up a compute instance type
func (t *Table) EC2Instance(instanceType string) (Instance, bool) {
	inst, ok := t.EC2.InstanceTypes[instanceType]
	return inst, ok
}

// StorageClassRate looks up an object storage class
func (t *Table) StorageClassRate(class string) (StorageClass, bool) {
	sc, ok := t.S3.StorageClasses[class]
	return sc, ok
}

// RDSInstance looks up a database instance type
func (t *Table) RDSInstance(instanceType string) (Instance, bool) {
	inst, ok := t.RDS.InstanceTypes[instanceType]
	return inst, ok
}

// RegionCodes returns the known region codes in sorted order
func (t *Table) RegionCodes() []string {
	return SortedKeys(t.Regions)
}

// SortedKeys returns the keys of a rate map in sorted order
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
