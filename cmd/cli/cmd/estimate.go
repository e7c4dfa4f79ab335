// Package cmd - estimate and hidden commands
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cloudcart/core/cart"
	"cloudcart/core/catalog"
	"cloudcart/core/output"
	"cloudcart/core/pricing"
	"cloudcart/internal/app"
	"cloudcart/internal/config"
	"cloudcart/internal/logging"
)

var (
	outputFormat string
	outputFile   string
	region       string
	production   bool
	showHidden   bool
	mergeHidden  bool
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate [cart-file]",
	Short: "Price an architecture cart",
	Long: `Price every service in a cart and print per-service, per-category and
total costs.

The cart may be JSON, YAML or HCL, chosen by file extension. Without a file
the built-in demo architecture is priced.

Examples:
  cloudcart estimate
  cloudcart estimate architecture.yaml
  cloudcart estimate --region eu-west-1 --production architecture.hcl
  cloudcart estimate --format json --hidden --merge-hidden architecture.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEstimate,
}

// hiddenCmd prints only the heuristic hidden costs
var hiddenCmd = &cobra.Command{
	Use:   "hidden [cart-file]",
	Short: "List commonly overlooked costs for a cart",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHidden,
}

func init() {
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(hiddenCmd)

	for _, c := range []*cobra.Command{estimateCmd, hiddenCmd} {
		c.Flags().StringVarP(&region, "region", "r", "", "override the cart region")
		c.Flags().StringVarP(&outputFormat, "format", "f", "table", "output format (table, json, markdown)")
		c.Flags().StringVarP(&outputFile, "output", "o", "", "write output to a file instead of stdout")
	}
	estimateCmd.Flags().BoolVar(&production, "production", false, "apply production overhead (overrides the cart)")
	estimateCmd.Flags().BoolVar(&showHidden, "hidden", false, "include the hidden cost estimate")
	estimateCmd.Flags().BoolVar(&mergeHidden, "merge-hidden", false, "fold hidden costs into the totals (implies --hidden)")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	c, err := loadCart(cmd, args, a)
	if err != nil {
		return err
	}

	services := c.Priceable()
	report, err := a.Engine.CalculateAll(services, c.Region, c.ProductionMode)
	if err != nil {
		return err
	}

	result := &output.Result{
		Region:          c.Region,
		ProductionMode:  c.ProductionMode,
		Report:          report,
		PricingSnapshot: a.Rates.Snapshot(),
		Version:         app.Version,
	}
	if showHidden || mergeHidden {
		hidden := a.Engine.EstimateHidden(services, c.Region)
		result.Hidden = &hidden
		if mergeHidden {
			result.Report = pricing.MergeHidden(report, hidden)
		}
	}

	logging.Debug("estimate complete",
		zap.String("region", c.Region),
		zap.Int("services", len(report.PerService)),
		zap.Float64("monthly", result.Report.Total.Monthly))

	return render(cmd, result)
}

func runHidden(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	c, err := loadCart(cmd, args, a)
	if err != nil {
		return err
	}

	hidden := a.Engine.EstimateHidden(c.Priceable(), c.Region)
	return withOutput(cmd, func(w io.Writer) error {
		format, err := output.ParseFormat(outputFormat)
		if err != nil {
			return err
		}
		if format == output.FormatJSON {
			return writeJSON(w, hidden)
		}
		printHidden(w, hidden)
		return nil
	})
}

// loadCart reads the cart named in args, or the demo architecture, applies flag
// overrides, and checks every service against the catalog of the active rate table
func loadCart(cmd *cobra.Command, args []string, a *app.App) (*cart.Cart, error) {
	var c *cart.Cart
	if len(args) == 0 {
		c = &cart.Cart{
			Region:   config.Get().Pricing.DefaultRegion,
			Services: catalog.DemoArchitecture(),
		}
	} else {
		var err error
		if c, err = cart.Load(args[0]); err != nil {
			return nil, err
		}
	}

	if region != "" {
		c.Region = region
	}
	if c.Region == "" {
		c.Region = config.Get().Pricing.DefaultRegion
	}
	if f := cmd.Flags().Lookup("production"); f != nil && f.Changed {
		c.ProductionMode = production
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	cat := catalog.FromRates(a.Rates)
	for _, d := range c.Services {
		if err := cat.CheckDescriptor(d); err != nil {
			return nil, err
		}
	}
	if n := c.AssignIDs(); n > 0 {
		logging.Debug("assigned service ids", zap.Int("count", n))
	}
	return c, nil
}

func render(cmd *cobra.Command, result *output.Result) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	return withOutput(cmd, func(w io.Writer) error {
		formatter, err := output.New(format, !colorEnabled(w))
		if err != nil {
			return err
		}
		return formatter.Render(w, result)
	})
}

// withOutput hands fn the --output file, or the command's stdout
func withOutput(cmd *cobra.Command, fn func(w io.Writer) error) error {
	if outputFile == "" {
		return fn(cmd.OutOrStdout())
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
