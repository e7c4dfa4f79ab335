package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudcart/internal/config"
	"cloudcart/internal/errors"
)

const demoYAML = "../../../core/cart/testdata/demo.yaml"

// execute runs the root command with a throwaway config and fresh flag state
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvGeminiAPIKey, "")
	t.Setenv(config.EnvRateTable, "")

	return executeWithConfig(t, filepath.Join(t.TempDir(), "config.json"), args...)
}

func executeWithConfig(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeStreams(t, cfgPath, args...)
	return out, err
}

// executeStreams keeps stdout and stderr apart
func executeStreams(t *testing.T, cfgPath string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { config.Set(config.Default()) })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{
		"--config", cfgPath,
		"--env-file", filepath.Join(t.TempDir(), "missing.env"),
		"--no-color",
	}, args...))

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type jsonResult struct {
	Region         string `json:"region"`
	ProductionMode bool   `json:"productionMode"`
	Report         struct {
		PerService []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"perService"`
		Breakdown struct {
			Hidden float64 `json:"hidden"`
		} `json:"breakdown"`
		Total struct {
			Monthly float64 `json:"monthly"`
		} `json:"total"`
	} `json:"report"`
	Hidden *struct {
		TotalHiddenCost float64 `json:"totalHiddenCost"`
	} `json:"hidden"`
	PricingSnapshot string `json:"pricingSnapshot"`
}

func decodeResult(t *testing.T, out string) jsonResult {
	t.Helper()
	var r jsonResult
	require.NoError(t, json.Unmarshal([]byte(out), &r), out)
	return r
}

func TestEstimateDemoArchitecture(t *testing.T) {
	out, err := execute(t, "estimate", "--format", "json")
	require.NoError(t, err)

	r := decodeResult(t, out)
	assert.Equal(t, "us-east-1", r.Region)
	assert.Len(t, r.Report.PerService, 5)
	assert.Greater(t, r.Report.Total.Monthly, 0.0)
	assert.Nil(t, r.Hidden)
	assert.NotEmpty(t, r.PricingSnapshot)
	for _, sc := range r.Report.PerService {
		assert.NotEmpty(t, sc.ID, "ids are assigned")
	}
}

func TestEstimateCartFileWithOverrides(t *testing.T) {
	out, err := execute(t, "estimate", "-f", "json", demoYAML)
	require.NoError(t, err)
	base := decodeResult(t, out)
	assert.Equal(t, "eu-west-1", base.Region)
	assert.True(t, base.ProductionMode)

	out, err = execute(t, "estimate", "-f", "json", "--region", "us-east-1", "--production=false", demoYAML)
	require.NoError(t, err)
	plain := decodeResult(t, out)
	assert.Equal(t, "us-east-1", plain.Region)
	assert.False(t, plain.ProductionMode)
	assert.Less(t, plain.Report.Total.Monthly, base.Report.Total.Monthly)
}

func TestEstimateMergeHidden(t *testing.T) {
	out, err := execute(t, "estimate", "-f", "json", "--merge-hidden")
	require.NoError(t, err)

	r := decodeResult(t, out)
	require.NotNil(t, r.Hidden)
	assert.Greater(t, r.Hidden.TotalHiddenCost, 0.0)
	assert.InDelta(t, r.Hidden.TotalHiddenCost, r.Report.Breakdown.Hidden, 1e-9)
}

func TestEstimateMarkdownToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")

	_, err := execute(t, "estimate", "--format", "markdown", "--output", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "## Cost Estimate")
}

func TestEstimateTable(t *testing.T) {
	out, err := execute(t, "estimate", "--hidden")
	require.NoError(t, err)

	assert.Contains(t, out, "Monthly Cost:")
	assert.Contains(t, out, "Hidden Costs")
	assert.NotContains(t, out, "\033[")
}

func TestEstimateErrors(t *testing.T) {
	_, err := execute(t, "estimate", "does-not-exist.yaml")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))

	_, err = execute(t, "estimate", "--format", "html")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"region":"us-east-1","services":[{"type":"ec2","instanceType":"z9.giant"}]}`), 0644))
	_, err = execute(t, "estimate", bad)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeUnknownInstanceType))
}

func TestHiddenCommand(t *testing.T) {
	out, err := execute(t, "hidden", "--format", "json", demoYAML)
	require.NoError(t, err)

	var hidden struct {
		HiddenCosts []struct {
			Category string `json:"category"`
		} `json:"hiddenCosts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &hidden))
	require.NotEmpty(t, hidden.HiddenCosts)
	assert.Equal(t, "NAT Gateway", hidden.HiddenCosts[0].Category)

	out, err = execute(t, "hidden", demoYAML)
	require.NoError(t, err)
	assert.Contains(t, out, "Total: $")
}

func TestAdviseWithoutKey(t *testing.T) {
	_, err := execute(t, "advise", "optimize")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeAdvisorUnavailable))
}

func TestAdviseRequiresPrompt(t *testing.T) {
	_, err := execute(t, "advise", "simulate")
	assert.ErrorContains(t, err, "prompt")
}

func TestAdviseAgainstGenerator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Use reserved instances."}]}}]}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Advisor.BaseURL = srv.URL
	cfgPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, cfg.Save(cfgPath))

	t.Setenv(config.EnvRateTable, "")
	t.Setenv(config.EnvGeminiAPIKey, "test-key")

	out, err := executeWithConfig(t, cfgPath, "advise", "optimize", demoYAML)
	require.NoError(t, err)
	assert.Contains(t, out, "Current cost: $")
	assert.Contains(t, out, "Use reserved instances.")

	out, status, err := executeStreams(t, cfgPath, "advise", "simulate", "--json", "--prompt", "what if spot?", demoYAML)
	require.NoError(t, err)
	assert.Contains(t, status, "Simulating")
	var sim struct {
		OriginalCost  float64 `json:"originalCost"`
		AIExplanation string  `json:"aiExplanation"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &sim))
	assert.Greater(t, sim.OriginalCost, 0.0)
	assert.Equal(t, "Use reserved instances.", sim.AIExplanation)
}

func TestRatesCommands(t *testing.T) {
	out, err := execute(t, "rates", "show", "region")
	require.NoError(t, err)
	assert.Contains(t, out, "us-east-1")
	assert.Contains(t, out, "Pricing snapshot rates-")

	_, err = execute(t, "rates", "show", "nonsense")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "rates.json")
	_, err = execute(t, "rates", "export", "-o", path)
	require.NoError(t, err)

	out, err = execute(t, "rates", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	out, err = execute(t, "rates", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, `"services"`)
}

func TestRatesFlagOverridesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0644))

	_, err := execute(t, "--rates", path, "estimate")
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloudcart", "config.json")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	_, err = execute(t, "config", "init", path)
	assert.ErrorContains(t, err, "already exists")

	t.Setenv(config.EnvGeminiAPIKey, "super-secret")
	out, err = executeWithConfig(t, path, "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "super-secret")
	assert.Contains(t, out, "********")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cloudcart version")
	assert.Contains(t, out, "pricing snapshot rates-")
}

func TestEstimateRejectsUnknownEngine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"region":"us-east-1","services":[{"type":"rds","engine":"db2","instanceType":"db.t3.micro","storageGB":20}]}`), 0644))

	_, err := execute(t, "estimate", path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
}

func TestRatesShowJSON(t *testing.T) {
	out, err := execute(t, "rates", "show", "--json")
	require.NoError(t, err)

	var groups map[string][]struct {
		Value string `json:"value"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &groups))
	assert.NotEmpty(t, groups["region"])
	assert.NotEmpty(t, groups["instanceType"])
}
