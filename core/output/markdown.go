package output

import (
	"fmt"
	"io"
	"strings"

	"cloudcart/core/pricing"
)

// MarkdownFormatter renders GitHub-flavored markdown
type MarkdownFormatter struct{}

// Format implements Formatter
func (f *MarkdownFormatter) Format() Format { return FormatMarkdown }

// Render implements Formatter
func (f *MarkdownFormatter) Render(w io.Writer, result *Result) error {
	if err := validate(result); err != nil {
		return err
	}
	r := result.Report

	var b strings.Builder
	b.WriteString("## Cost Estimate\n\n")
	fmt.Fprintf(&b, "**%s/month** (%s/day, %s/hour) in `%s`",
		pricing.FormatUSD(r.Total.Monthly),
		pricing.FormatUSD(r.Total.Daily),
		pricing.FormatUSD(r.Total.Hourly),
		result.Region)
	if result.ProductionMode {
		b.WriteString(", production overhead applied")
	}
	b.WriteString("\n\n")

	if len(r.PerService) > 0 {
		b.WriteString("| Service | Type | Qty | Unit Monthly | Monthly |\n")
		b.WriteString("|---|---|---:|---:|---:|\n")
		for _, sc := range topServices(r) {
			fmt.Fprintf(&b, "| %s | %s | %d | %s | %s |\n",
				escapeCell(sc.Name), sc.Type, sc.Quantity,
				pricing.FormatUSD(sc.Monthly), pricing.FormatUSD(lineTotal(sc)))
		}
		b.WriteString("\n")
	}

	b.WriteString("| Category | Monthly |\n|---|---:|\n")
	for _, c := range categories(r.Breakdown) {
		fmt.Fprintf(&b, "| %s | %s |\n", c.name, pricing.FormatUSD(c.monthly))
	}

	if result.Hidden != nil && len(result.Hidden.HiddenCosts) > 0 {
		fmt.Fprintf(&b, "\n### Hidden costs (%s/month)\n\n", pricing.FormatUSD(result.Hidden.TotalHiddenCost))
		for _, h := range result.Hidden.HiddenCosts {
			fmt.Fprintf(&b, "- **%s** %s: %s\n", h.Category, pricing.FormatUSD(h.EstimatedMonthlyCost), h.Description)
		}
	}

	if result.PricingSnapshot != "" {
		fmt.Fprintf(&b, "\n<sub>pricing snapshot `%s`</sub>\n", result.PricingSnapshot)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
