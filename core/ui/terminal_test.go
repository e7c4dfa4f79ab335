package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	table := w.NewTable("Service", "Monthly")
	table.AddRow("Web Server Cluster", "$140.16")
	table.AddRow("S3", "$11.55", "ignored")
	table.AddRow("RDS")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)

	assert.Equal(t, "Service            │ Monthly", lines[0])
	assert.Equal(t, strings.Repeat("─", 18)+"─┼─"+strings.Repeat("─", 7), lines[1])
	assert.Equal(t, "Web Server Cluster │ $140.16", lines[2])
	assert.Equal(t, "S3                 │ $11.55", lines[3])
	assert.Equal(t, "RDS                │", lines[4])
	assert.NotContains(t, buf.String(), "ignored")
}

func TestNoColorOmitsEscapes(t *testing.T) {
	var plain, colored bytes.Buffer

	NewWriter(&plain, true).Success("done %d", 3)
	NewWriter(&colored, false).Success("done %d", 3)

	assert.Equal(t, "✓ done 3\n", plain.String())
	assert.Contains(t, colored.String(), Green)
	assert.Contains(t, colored.String(), Reset)
}

func TestVerbosityGatesInfoAndDebug(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	w.Debug("hidden")
	w.Info("shown")
	w.SetVerbosity(0)
	w.Info("quiet")
	w.SetVerbosity(2)
	w.Debug("verbose")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "verbose")
}

func TestMessagesKeepPercentSigns(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf, true).Warning("%s", "up 20% this month")

	assert.Equal(t, "⚠ up 20% this month\n", buf.String())
}

func TestCostSummary(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	s := w.NewCostSummary()
	s.Region = "eu-west-1"
	s.Monthly = "$1,000.00"
	s.Daily = "$33.33"
	s.Hourly = "$1.39"
	s.Services = 4
	s.Production = true
	s.Hidden = "$78.00"
	s.Render()

	out := buf.String()
	assert.Contains(t, out, "Monthly Cost: $1,000.00")
	assert.Contains(t, out, "Region:   eu-west-1")
	assert.Contains(t, out, "Services: 4")
	assert.Contains(t, out, "Production overhead applied")
	assert.Contains(t, out, "Likely hidden costs: $78.00/month")
}

func TestShareChart(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	chart := w.NewShareChart(10)
	chart.Add("compute", 75, "$75.00")
	chart.Add("network", 25, "$25.00")
	chart.Add("storage", 0, "$0.00")
	chart.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "compute [████████░░]  75.0%  $75.00", lines[0])
	assert.Equal(t, "network [███░░░░░░░]  25.0%  $25.00", lines[1])
	assert.Equal(t, "storage [░░░░░░░░░░]   0.0%  $0.00", lines[2])
}

func TestShareChartEmptyTotal(t *testing.T) {
	var buf bytes.Buffer
	chart := NewWriter(&buf, true).NewShareChart(0)
	chart.Add("compute", 0, "")
	chart.Render()

	assert.Contains(t, buf.String(), "0.0%")
}

func TestRunnerStep(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(NewWriter(&buf, true), false)

	require.NoError(t, r.Step(context.Background(), "Pricing cart", func(context.Context) error { return nil }))

	boom := errors.New("boom")
	err := r.Step(context.Background(), "Asking advisor", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, "✓ Pricing cart\n✗ Asking advisor\n", buf.String())
}

func TestRunnerSpinner(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(NewWriter(&buf, true), true)

	require.NoError(t, r.Step(context.Background(), "Thinking", func(context.Context) error { return nil }))
	assert.Contains(t, buf.String(), "✓ Thinking (< 1s)")
}
