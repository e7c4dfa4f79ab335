package output

import (
	"fmt"
	"io"

	"cloudcart/core/pricing"
	"cloudcart/core/ui"
)

// TableFormatter renders a colored terminal report
type TableFormatter struct {
	NoColor bool
}

// Format implements Formatter
func (f *TableFormatter) Format() Format { return FormatTable }

// Render implements Formatter
func (f *TableFormatter) Render(w io.Writer, result *Result) error {
	if err := validate(result); err != nil {
		return err
	}
	r := result.Report
	out := ui.NewWriter(w, f.NoColor)

	summary := out.NewCostSummary()
	summary.Region = result.Region
	summary.Monthly = pricing.FormatUSD(r.Total.Monthly)
	summary.Daily = pricing.FormatUSD(r.Total.Daily)
	summary.Hourly = pricing.FormatUSD(r.Total.Hourly)
	summary.Services = len(r.PerService)
	summary.Production = result.ProductionMode
	if result.Hidden != nil && r.Breakdown.Hidden == 0 && result.Hidden.TotalHiddenCost > 0 {
		summary.Hidden = pricing.FormatUSD(result.Hidden.TotalHiddenCost)
	}
	summary.Render()

	if len(r.PerService) > 0 {
		out.Println("")
		out.SubHeader("Services")
		table := out.NewTable("Service", "Type", "Qty", "Unit Monthly", "Monthly", "Category")
		for _, sc := range topServices(r) {
			table.AddRow(
				sc.Name,
				string(sc.Type),
				fmt.Sprintf("%d", sc.Quantity),
				pricing.FormatUSD(sc.Monthly),
				pricing.FormatUSD(lineTotal(sc)),
				string(sc.Category),
			)
		}
		table.Render()
	}

	out.Println("")
	out.SubHeader("Breakdown")
	chart := out.NewShareChart(30)
	for _, c := range categories(r.Breakdown) {
		chart.Add(c.name, c.monthly, pricing.FormatUSD(c.monthly))
	}
	chart.Render()

	if result.Hidden != nil && len(result.Hidden.HiddenCosts) > 0 {
		out.Println("")
		out.SubHeader("Hidden Costs")
		table := out.NewTable("Category", "Monthly", "Severity", "Description")
		for _, h := range result.Hidden.HiddenCosts {
			table.AddRow(h.Category, pricing.FormatUSD(h.EstimatedMonthlyCost), string(h.Severity), h.Description)
		}
		table.Render()
	}

	if result.PricingSnapshot != "" {
		out.Println("")
		out.Println("%s", out.Colorize(ui.Dim, "Pricing snapshot "+result.PricingSnapshot))
	}
	return nil
}
