// Package catalog - Catalog validation
// Checks descriptors against the catalog before they reach the engine.
package catalog

import (
	"fmt"

	"cloudcart/core/pricing"
	"cloudcart/internal/errors"
)

// ValidationRule is a catalog entry validation rule
type ValidationRule func(*Entry) error

// DefaultValidationRules returns the standard validation rules
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		validateLabel,
		validateSizing,
	}
}

// Validate checks every entry against rules
func (c *Catalog) Validate(rules []ValidationRule) []error {
	var errs []error
	for _, g := range Groups {
		for _, entry := range c.List(g) {
			for _, rule := range rules {
				if err := rule(&entry); err != nil {
					errs = append(errs, fmt.Errorf("%s:%s: %w", entry.Group, entry.Value, err))
				}
			}
		}
	}
	return errs
}

func validateLabel(e *Entry) error {
	if e.Label == "" {
		return fmt.Errorf("label is required")
	}
	return nil
}

func validateSizing(e *Entry) error {
	if e.Group != GroupInstance && e.Group != GroupRDSInstance {
		return nil
	}
	if e.VCPU <= 0 || e.Memory <= 0 {
		return fmt.Errorf("instance sizes need vcpu and memory")
	}
	return nil
}

// CheckDescriptor reports a descriptor that references an option missing
// from the catalog. Unsupported service types pass; the engine skips them.
func (c *Catalog) CheckDescriptor(d pricing.Descriptor) error {
	switch pricing.Kind(d.Type) {
	case pricing.KindEC2:
		if !c.Has(GroupInstance, d.InstanceType) {
			return errors.UnknownInstanceType(d.InstanceType)
		}
	case pricing.KindS3:
		if !c.Has(GroupStorageClass, d.StorageClass) {
			return errors.UnknownStorageClass(d.StorageClass)
		}
	case pricing.KindRDS:
		if !c.Has(GroupRDSInstance, d.InstanceType) {
			return errors.UnknownRDSInstanceType(d.InstanceType)
		}
		if d.Engine != "" && !c.Has(GroupEngine, d.Engine) {
			return errors.Inputf("unknown database engine: %s", d.Engine)
		}
	}
	return nil
}
