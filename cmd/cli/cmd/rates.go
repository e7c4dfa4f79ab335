// Package cmd - rate table and catalog commands
package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"cloudcart/core/catalog"
	"cloudcart/core/pricing"
	"cloudcart/core/rates"
	"cloudcart/core/ui"
)

var ratesShowJSON bool

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Inspect, validate and export the rate table",
}

var ratesShowCmd = &cobra.Command{
	Use:   "show [group]",
	Short: "Show catalog entries and their rates",
	Long: `Show what a cart may reference, derived from the active rate table.

Groups: region, instanceType, storageClass, rdsInstanceType, engine, os, pricingType.
Without a group every group is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRatesShow,
}

var ratesValidateCmd = &cobra.Command{
	Use:   "validate <rate-table.json>",
	Short: "Check a rate table file without using it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := rates.Load(args[0])
		if err != nil {
			return err
		}

		cat := catalog.FromRates(table)
		problems := cat.Validate(catalog.DefaultValidationRules())

		out := cmd.OutOrStdout()
		w := ui.NewWriter(out, !colorEnabled(out))
		for _, p := range problems {
			w.Warning("%s", p.Error())
		}
		w.Success("%s is valid (snapshot %s, %d catalog entries)", args[0], table.Snapshot(), cat.Stats().Total)
		return nil
	},
}

var ratesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the embedded rate table, as a starting point for --rates",
	RunE: func(cmd *cobra.Command, args []string) error {
		data := rates.DefaultJSON()
		if outputFile == "" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(outputFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write rate table: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outputFile)
		return nil
	},
}

var ratesDemoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Print the built-in demo architecture as a cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(cmd.OutOrStdout(), map[string]any{
			"region":         "us-east-1",
			"productionMode": false,
			"services":       catalog.DemoArchitecture(),
		})
	},
}

func init() {
	rootCmd.AddCommand(ratesCmd)
	ratesCmd.AddCommand(ratesShowCmd, ratesValidateCmd, ratesExportCmd, ratesDemoCmd)

	ratesShowCmd.Flags().BoolVar(&ratesShowJSON, "json", false, "print every group as JSON")
	ratesExportCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write to a file instead of stdout")
}

func runRatesShow(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	cat := catalog.FromRates(a.Rates)
	if ratesShowJSON {
		return writeJSON(cmd.OutOrStdout(), cat.All())
	}

	groups := catalog.Groups
	if len(args) == 1 {
		g := catalog.Group(args[0])
		if len(cat.List(g)) == 0 {
			return fmt.Errorf("unknown catalog group %q", args[0])
		}
		groups = []catalog.Group{g}
	}

	out := cmd.OutOrStdout()
	w := ui.NewWriter(out, !colorEnabled(out))
	for _, g := range groups {
		w.Header(string(g))
		table := w.NewTable("Value", "Label", "Rate")
		for _, e := range cat.List(g) {
			table.AddRow(e.Value, e.Label, rateFor(a.Rates, g, e))
		}
		table.Render()
	}
	w.Println("")
	w.Println("%s", w.Colorize(ui.Dim, "Pricing snapshot "+a.Rates.Snapshot()))
	return nil
}

// rateFor describes the price behind a catalog entry
func rateFor(t *rates.Table, g catalog.Group, e catalog.Entry) string {
	switch g {
	case catalog.GroupRegion:
		return "×" + strconv.FormatFloat(t.RegionMultiplier(e.Value), 'f', -1, 64)
	case catalog.GroupInstance:
		if inst, ok := t.EC2Instance(e.Value); ok {
			return pricing.FormatUSD(inst.HourlyRate) + "/hr"
		}
	case catalog.GroupRDSInstance:
		if inst, ok := t.RDSInstance(e.Value); ok {
			return pricing.FormatUSD(inst.HourlyRate) + "/hr"
		}
	case catalog.GroupStorageClass:
		if sc, ok := t.StorageClassRate(e.Value); ok {
			return "$" + strconv.FormatFloat(sc.PerGBMonth, 'f', -1, 64) + "/GB-mo"
		}
	case catalog.GroupOS:
		return "×" + strconv.FormatFloat(t.OSMultiplier(e.Value), 'f', -1, 64)
	case catalog.GroupPricingType:
		if e.Value == string(pricing.PricingSpot) {
			return "×" + strconv.FormatFloat(t.EC2.SpotDiscount, 'f', -1, 64)
		}
		return "×1"
	}
	return ""
}
