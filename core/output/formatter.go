// Package output renders cost reports for humans and machines.
package output

import (
	"io"
	"sort"
	"strings"

	"cloudcart/core/pricing"
	"cloudcart/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatTable is a human-readable terminal table
	FormatTable Format = "table"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown report, suitable for PR comments
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported format
var Formats = []Format{FormatTable, FormatJSON, FormatMarkdown}

// ParseFormat resolves a user-supplied format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", "cli":
		return FormatTable, nil
	case "md":
		return FormatMarkdown, nil
	case FormatTable, FormatJSON, FormatMarkdown:
		return f, nil
	}
	return "", errors.Inputf("unknown output format %q (want table, json or markdown)", s)
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given result
	Render(w io.Writer, result *Result) error
}

// Result is everything a formatter may show about one estimate
type Result struct {
	// Region the cart was priced in
	Region string `json:"region"`

	// ProductionMode reports whether the production overhead was applied
	ProductionMode bool `json:"productionMode"`

	// Report is the engine output
	Report *pricing.Report `json:"report"`

	// Hidden holds heuristic extra costs, if they were requested
	Hidden *pricing.HiddenEstimate `json:"hidden,omitempty"`

	// PricingSnapshot identifies the rate table used
	PricingSnapshot string `json:"pricingSnapshot"`

	// Version is the tool version
	Version string `json:"version,omitempty"`
}

// New returns the formatter for f
func New(f Format, noColor bool) (Formatter, error) {
	switch f {
	case FormatTable:
		return &TableFormatter{NoColor: noColor}, nil
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}, nil
	case FormatMarkdown:
		return &MarkdownFormatter{}, nil
	}
	return nil, errors.Inputf("unknown output format %q", f)
}

// categoryShare is one row of the breakdown, in a fixed order
type categoryShare struct {
	name    string
	monthly float64
}

func categories(b pricing.Breakdown) []categoryShare {
	rows := []categoryShare{
		{"compute", b.Compute},
		{"storage", b.Storage},
		{"network", b.Network},
	}
	if b.Hidden > 0 {
		rows = append(rows, categoryShare{"hidden", b.Hidden})
	}
	return rows
}

// topServices returns line items ordered by quantity-weighted monthly cost,
// most expensive first. Ties keep cart order.
func topServices(r *pricing.Report) []pricing.ServiceCost {
	items := append([]pricing.ServiceCost(nil), r.PerService...)
	sort.SliceStable(items, func(i, j int) bool {
		return lineTotal(items[i]) > lineTotal(items[j])
	})
	return items
}

func lineTotal(sc pricing.ServiceCost) float64 {
	return sc.Monthly * float64(sc.Quantity)
}

func validate(result *Result) error {
	if result == nil || result.Report == nil {
		return errors.New(errors.TypeInternal, "nothing to render")
	}
	return nil
}
