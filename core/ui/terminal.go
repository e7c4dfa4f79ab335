// Package ui - Terminal user interface
// Colored CLI output with tables, cost summaries and spinners.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Colors for terminal output
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
)

// Writer is the UI output destination
type Writer struct {
	out       io.Writer
	noColor   bool
	verbosity int
}

// NewWriter creates a UI writer
func NewWriter(out io.Writer, noColor bool) *Writer {
	if out == nil {
		out = os.Stdout
	}
	return &Writer{
		out:       out,
		noColor:   noColor,
		verbosity: 1,
	}
}

// SetVerbosity sets output verbosity (0=quiet, 1=normal, 2=verbose)
func (w *Writer) SetVerbosity(level int) {
	w.verbosity = level
}

// Colorize applies color if enabled
func (w *Writer) Colorize(c, text string) string {
	if w.noColor {
		return text
	}
	return c + text + Reset
}

// Print writes formatted text
func (w *Writer) Print(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes formatted text with newline
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Header prints a section header
func (w *Writer) Header(title string) {
	w.Println("")
	w.Println("%s", w.Colorize(Bold+Cyan, "━━━ "+title+" ━━━"))
	w.Println("")
}

// SubHeader prints a subsection header
func (w *Writer) SubHeader(title string) {
	w.Println("%s", w.Colorize(Bold, "▸ "+title))
}

// Success prints a success message
func (w *Writer) Success(format string, args ...interface{}) {
	w.Println("%s%s", w.Colorize(Green, "✓ "), fmt.Sprintf(format, args...))
}

// Warning prints a warning
func (w *Writer) Warning(format string, args ...interface{}) {
	w.Println("%s%s", w.Colorize(Yellow, "⚠ "), fmt.Sprintf(format, args...))
}

// Error prints an error
func (w *Writer) Error(format string, args ...interface{}) {
	w.Println("%s%s", w.Colorize(Red, "✗ "), fmt.Sprintf(format, args...))
}

// Info prints an info message
func (w *Writer) Info(format string, args ...interface{}) {
	if w.verbosity < 1 {
		return
	}
	w.Println("%s%s", w.Colorize(Blue, "ℹ "), fmt.Sprintf(format, args...))
}

// Debug prints a debug message
func (w *Writer) Debug(format string, args ...interface{}) {
	if w.verbosity < 2 {
		return
	}
	w.Println("%s", w.Colorize(Dim, "  "+fmt.Sprintf(format, args...)))
}

// Table renders an aligned text table
type Table struct {
	w       *Writer
	headers []string
	rows    [][]string
	widths  []int
}

// NewTable creates a table
func (w *Writer) NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = displayWidth(h)
	}
	return &Table{
		w:       w,
		headers: headers,
		rows:    [][]string{},
		widths:  widths,
	}
}

// AddRow adds a row; missing cells are blank, extra cells are dropped
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		}
		if n := displayWidth(row[i]); n > t.widths[i] {
			t.widths[i] = n
		}
	}
	t.rows = append(t.rows, row)
}

// Render prints the table
func (t *Table) Render() {
	t.w.Println("%s", t.w.Colorize(Bold, t.line(t.headers)))

	sep := make([]string, len(t.widths))
	for i, w := range t.widths {
		sep[i] = strings.Repeat("─", w)
	}
	t.w.Println("%s", strings.Join(sep, "─┼─"))

	for _, row := range t.rows {
		t.w.Println("%s", t.line(row))
	}
}

func (t *Table) line(cells []string) string {
	padded := make([]string, len(cells))
	for i, c := range cells {
		padded[i] = c + strings.Repeat(" ", t.widths[i]-displayWidth(c))
	}
	return strings.TrimRight(strings.Join(padded, " │ "), " ")
}

// CostSummary renders the headline totals of an estimate
type CostSummary struct {
	w          *Writer
	Region     string
	Monthly    string
	Daily      string
	Hourly     string
	Services   int
	Hidden     string
	Production bool
}

// NewCostSummary creates a cost summary
func (w *Writer) NewCostSummary() *CostSummary {
	return &CostSummary{w: w}
}

// Render prints the cost summary
func (s *CostSummary) Render() {
	s.w.Header("Cost Estimate")

	s.w.Println("%s", s.w.Colorize(Bold, "╭─────────────────────────────────────╮"))
	s.w.Println("%s%s%s", s.w.Colorize(Bold, "│"), s.w.Colorize(Green, fmt.Sprintf("  Monthly Cost: %-21s", s.Monthly)), s.w.Colorize(Bold, "│"))
	s.w.Println("%s%s%s", s.w.Colorize(Bold, "│"), s.w.Colorize(Dim, fmt.Sprintf("  Daily Cost:   %-21s", s.Daily)), s.w.Colorize(Bold, "│"))
	s.w.Println("%s%s%s", s.w.Colorize(Bold, "│"), s.w.Colorize(Dim, fmt.Sprintf("  Hourly Cost:  %-21s", s.Hourly)), s.w.Colorize(Bold, "│"))
	s.w.Println("%s", s.w.Colorize(Bold, "╰─────────────────────────────────────╯"))
	s.w.Println("")

	s.w.Println("%s", s.w.Colorize(Dim, fmt.Sprintf("  Region:   %s", s.Region)))
	s.w.Println("%s", s.w.Colorize(Dim, fmt.Sprintf("  Services: %d", s.Services)))
	if s.Production {
		s.w.Info("Production overhead applied")
	}
	if s.Hidden != "" {
		s.w.Warning("Likely hidden costs: %s/month", s.Hidden)
	}
}

// ShareChart renders labelled horizontal bars proportional to each value's share of the total
type ShareChart struct {
	w      *Writer
	width  int
	labels []string
	values []float64
	notes  []string
}

// NewShareChart creates a chart with bars of the given width
func (w *Writer) NewShareChart(width int) *ShareChart {
	if width <= 0 {
		width = 30
	}
	return &ShareChart{w: w, width: width}
}

// Add appends a bar. note is printed after the percentage.
func (c *ShareChart) Add(label string, value float64, note string) {
	c.labels = append(c.labels, label)
	c.values = append(c.values, value)
	c.notes = append(c.notes, note)
}

// Render prints one bar per entry
func (c *ShareChart) Render() {
	var total float64
	labelWidth := 0
	for i, v := range c.values {
		total += v
		if n := displayWidth(c.labels[i]); n > labelWidth {
			labelWidth = n
		}
	}

	for i, v := range c.values {
		percent := 0.0
		if total > 0 {
			percent = v / total
		}
		filled := int(percent*float64(c.width) + 0.5)
		bar := strings.Repeat("█", filled) + strings.Repeat("░", c.width-filled)
		label := c.labels[i] + strings.Repeat(" ", labelWidth-displayWidth(c.labels[i]))

		c.w.Println("%s [%s] %5.1f%%  %s", label, c.w.Colorize(Cyan, bar), percent*100, c.notes[i])
	}
}

// Spinner shows a loading spinner
type Spinner struct {
	w       *Writer
	label   string
	frames  []string
	current int
	started time.Time
	stop    chan struct{}
	done    chan struct{}
}

// NewSpinner creates a spinner
func (w *Writer) NewSpinner(label string) *Spinner {
	return &Spinner{
		w:      w,
		label:  label,
		frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start starts the spinner
func (s *Spinner) Start() {
	s.started = time.Now()
	go func() {
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				close(s.done)
				return
			case <-ticker.C:
				s.current = (s.current + 1) % len(s.frames)
				fmt.Fprintf(s.w.out, "\r%s %s", s.w.Colorize(Cyan, s.frames[s.current]), s.label)
			}
		}
	}()
}

// Stop stops the spinner and prints the outcome with elapsed time
func (s *Spinner) Stop(success bool) {
	close(s.stop)
	<-s.done

	icon := s.w.Colorize(Green, "✓")
	if !success {
		icon = s.w.Colorize(Red, "✗")
	}
	fmt.Fprintf(s.w.out, "\r%s %s %s\n", icon, s.label, s.w.Colorize(Dim, "("+formatDuration(time.Since(s.started))+")"))
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "< 1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
}

// displayWidth counts runes, which is close enough for the box-drawing
// and ASCII text this package prints
func displayWidth(s string) int {
	return len([]rune(s))
}
