// Package ui - Step runner with live feedback
package ui

import (
	"context"
	"time"

	"go.uber.org/zap"

	"cloudcart/internal/logging"
)

// Runner executes named steps, showing a spinner while each one runs
type Runner struct {
	w           *Writer
	showSpinner bool
}

// NewRunner creates a runner. Spinners are suppressed when interactive is false.
func NewRunner(w *Writer, interactive bool) *Runner {
	return &Runner{w: w, showSpinner: interactive}
}

// Step runs fn under label and reports success or failure
func (r *Runner) Step(ctx context.Context, label string, fn func(ctx context.Context) error) error {
	start := time.Now()

	var spinner *Spinner
	if r.showSpinner {
		spinner = r.w.NewSpinner(label)
		spinner.Start()
	}

	err := fn(ctx)

	if spinner != nil {
		spinner.Stop(err == nil)
	} else if err == nil {
		r.w.Success("%s", label)
	} else {
		r.w.Error("%s", label)
	}

	logging.Debug("step finished",
		zap.String("step", label),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err))

	return err
}
