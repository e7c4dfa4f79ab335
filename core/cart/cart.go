// Package cart loads architecture carts from disk.
// A cart is a region, a production flag and an ordered list of service descriptors.
package cart

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"cloudcart/core/pricing"
	"cloudcart/internal/errors"
)

// Format is a cart file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// Cart is the input to a cost calculation
type Cart struct {
	Region         string               `json:"region" yaml:"region"`
	ProductionMode bool                 `json:"productionMode" yaml:"productionMode"`
	Services       []pricing.Descriptor `json:"services" yaml:"services"`
}

// FormatFor picks the encoding from a file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", errors.Inputf("unsupported cart file extension: %q", filepath.Ext(path))
}

// Load reads and decodes a cart file
func Load(path string) (*Cart, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("cart file", path)
		}
		return nil, errors.Wrapf(errors.TypeInput, err, "read cart %s", path)
	}

	return Parse(data, format, path)
}

// Parse decodes cart data. filename is only used in diagnostics.
func Parse(data []byte, format Format, filename string) (*Cart, error) {
	var c Cart

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return nil, errors.Parsing("invalid JSON cart "+filename, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil {
			return nil, errors.Parsing("invalid YAML cart "+filename, err)
		}
	case FormatHCL:
		parsed, err := parseHCL(data, filename)
		if err != nil {
			return nil, err
		}
		c = *parsed
	default:
		return nil, errors.Inputf("unsupported cart format: %s", format)
	}

	if c.Services == nil {
		c.Services = []pricing.Descriptor{}
	}
	return &c, nil
}

// Validate checks the cart shape and every descriptor
func (c *Cart) Validate() error {
	if strings.TrimSpace(c.Region) == "" {
		return errors.Input("region is required")
	}
	return pricing.ValidateAll(c.Services)
}

// AssignIDs gives every service without an id a random one.
// It returns the number of ids assigned.
func (c *Cart) AssignIDs() int {
	n := 0
	for i := range c.Services {
		if c.Services[i].ID == "" {
			c.Services[i].ID = uuid.NewString()
			n++
		}
	}
	return n
}

// Priceable converts the descriptors into engine input
func (c *Cart) Priceable() []pricing.Service {
	return pricing.Services(c.Services)
}
