// Package cmd - advise commands
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cloudcart/core/advisor"
	"cloudcart/core/pricing"
	"cloudcart/core/ui"
	"cloudcart/internal/config"
)

var (
	simulatePrompt      string
	workloadDescription string
	adviseJSON          bool
)

var adviseCmd = &cobra.Command{
	Use:   "advise",
	Short: "Ask the language model about a cart",
	Long: `Advisory commands send computed costs to Gemini and print its commentary.

They require GEMINI_API_KEY (or advisor.api_key in the config file).`,
}

var adviseHiddenCmd = &cobra.Command{
	Use:   "hidden [cart-file]",
	Short: "Explain commonly overlooked costs",
	Args:  cobra.MaximumNArgs(1),
	RunE: adviseRun("Analyzing hidden costs", func(ctx context.Context, adv *advisor.Advisor, req advisor.Request) (any, string, error) {
		res, err := adv.AnalyzeHiddenCosts(ctx, req)
		if err != nil {
			return nil, "", err
		}
		return res, fmt.Sprintf("Estimated hidden costs: %s/month", pricing.FormatUSD(res.TotalHiddenCost)), nil
	}),
}

var adviseOptimizeCmd = &cobra.Command{
	Use:   "optimize [cart-file]",
	Short: "Suggest ways to reduce cost",
	Args:  cobra.MaximumNArgs(1),
	RunE: adviseRun("Looking for savings", func(ctx context.Context, adv *advisor.Advisor, req advisor.Request) (any, string, error) {
		res, err := adv.Optimize(ctx, req)
		if err != nil {
			return nil, "", err
		}
		return res, fmt.Sprintf("Current cost: %s/month", pricing.FormatUSD(res.CurrentCost)), nil
	}),
}

var adviseSimulateCmd = &cobra.Command{
	Use:   "simulate [cart-file]",
	Short: "Answer a what-if question about a cart",
	Args:  cobra.MaximumNArgs(1),
	RunE: adviseRun("Simulating", func(ctx context.Context, adv *advisor.Advisor, req advisor.Request) (any, string, error) {
		res, err := adv.Simulate(ctx, req, simulatePrompt)
		if err != nil {
			return nil, "", err
		}
		return res, fmt.Sprintf("Original cost: %s/month", pricing.FormatUSD(res.OriginalCost)), nil
	}),
}

var adviseWorkloadCmd = &cobra.Command{
	Use:   "workload [cart-file]",
	Short: "Check whether a cart fits a described workload",
	Args:  cobra.MaximumNArgs(1),
	RunE: adviseRun("Analyzing workload", func(ctx context.Context, adv *advisor.Advisor, req advisor.Request) (any, string, error) {
		res, err := adv.AnalyzeWorkload(ctx, req, workloadDescription)
		if err != nil {
			return nil, "", err
		}
		return res, fmt.Sprintf("Current cost: %s/month", pricing.FormatUSD(res.CurrentCost)), nil
	}),
}

var adviseProductionCmd = &cobra.Command{
	Use:   "production [cart-file]",
	Short: "Explain the production overhead",
	Args:  cobra.MaximumNArgs(1),
	RunE: adviseRun("Comparing base and production", func(ctx context.Context, adv *advisor.Advisor, req advisor.Request) (any, string, error) {
		res, err := adv.ExplainProduction(ctx, req)
		if err != nil {
			return nil, "", err
		}
		return res, fmt.Sprintf("Base %s/month, production %s/month (+%s)",
			pricing.FormatUSD(res.BaseCost), pricing.FormatUSD(res.ProductionCost), pricing.FormatUSD(res.Increase)), nil
	}),
}

func init() {
	rootCmd.AddCommand(adviseCmd)
	adviseCmd.AddCommand(adviseHiddenCmd, adviseOptimizeCmd, adviseSimulateCmd, adviseWorkloadCmd, adviseProductionCmd)

	for _, c := range adviseCmd.Commands() {
		c.Flags().StringVarP(&region, "region", "r", "", "override the cart region")
		c.Flags().BoolVar(&adviseJSON, "json", false, "print the full response as JSON")
	}
	adviseSimulateCmd.Flags().StringVarP(&simulatePrompt, "prompt", "p", "", "the what-if question [REQUIRED]")
	adviseWorkloadCmd.Flags().StringVarP(&workloadDescription, "description", "d", "", "the workload to check against [REQUIRED]")
	adviseSimulateCmd.MarkFlagRequired("prompt")
	adviseWorkloadCmd.MarkFlagRequired("description")
}

type adviseFunc func(ctx context.Context, adv *advisor.Advisor, req advisor.Request) (result any, headline string, err error)

// adviseRun loads the cart, runs op under a spinner, and prints the headline figure and commentary
func adviseRun(label string, op adviseFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		c, err := loadCart(cmd, args, a)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		w := ui.NewWriter(out, !colorEnabled(out))
		if verbose {
			w.SetVerbosity(2)
		}
		// with --json stdout carries only the document, so progress goes to stderr
		status := w
		if adviseJSON {
			errOut := cmd.ErrOrStderr()
			status = ui.NewWriter(errOut, !colorEnabled(errOut))
		}
		runner := ui.NewRunner(status, !adviseJSON && isTerminal(out))

		ctx, cancel := context.WithTimeout(cmd.Context(), config.Get().Advisor.Timeout()+5*time.Second)
		defer cancel()

		req := advisor.Request{Region: c.Region, ProductionMode: c.ProductionMode, Services: c.Services}
		var (
			result   any
			headline string
		)
		err = runner.Step(ctx, label, func(ctx context.Context) error {
			var err error
			result, headline, err = op(ctx, a.Advisor, req)
			return err
		})
		if err != nil {
			return err
		}

		if adviseJSON {
			return writeJSON(out, result)
		}
		w.Header(headline)
		w.Println("%s", strings.TrimSpace(explanation(result)))
		w.Println("")
		w.Println("%s", w.Colorize(ui.Dim, "model "+a.Advisor.Model()))
		w.Debug("%d cached responses", a.Advisor.CachedResponses())
		return nil
	}
}

func explanation(result any) string {
	switch r := result.(type) {
	case *advisor.HiddenAnalysis:
		return r.AIExplanation
	case *advisor.Optimization:
		return r.AIExplanation
	case *advisor.Simulation:
		return r.AIExplanation
	case *advisor.WorkloadAnalysis:
		return r.AIExplanation
	case *advisor.ProductionExplanation:
		return r.AIExplanation
	}
	return ""
}

func printHidden(out io.Writer, hidden pricing.HiddenEstimate) {
	w := ui.NewWriter(out, !colorEnabled(out))
	w.Header("Hidden Costs")
	if len(hidden.HiddenCosts) == 0 {
		w.Success("No hidden costs detected")
		return
	}
	table := w.NewTable("Category", "Monthly", "Severity", "Description")
	for _, h := range hidden.HiddenCosts {
		table.AddRow(h.Category, pricing.FormatUSD(h.EstimatedMonthlyCost), string(h.Severity), h.Description)
	}
	table.Render()
	w.Println("")
	w.Println("%s", w.Colorize(ui.Bold, "Total: "+pricing.FormatUSD(hidden.TotalHiddenCost)+"/month"))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
