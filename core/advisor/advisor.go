// Package advisor turns computed cost figures into natural-language guidance.
// Each operation prices the cart, renders a prompt and asks a Generator for text.
// The generated text is opaque; only the numeric fields are computed here.
package advisor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"cloudcart/core/pricing"
	"cloudcart/internal/errors"
	"cloudcart/internal/logging"
)

// Generator produces text for a prompt
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
	Model() string
}

// Request is the cart an advisory operation works on
type Request struct {
	Region         string               `json:"region"`
	ProductionMode bool                 `json:"productionMode"`
	Services       []pricing.Descriptor `json:"services"`
}

// HiddenAnalysis is the heuristic estimate plus the model's commentary
type HiddenAnalysis struct {
	pricing.HiddenEstimate
	AIExplanation string `json:"aiExplanation"`
}

// Optimization answers a cost reduction request
type Optimization struct {
	CurrentCost   float64 `json:"currentCost"`
	AIExplanation string  `json:"aiExplanation"`
}

// Simulation answers a what-if question
type Simulation struct {
	OriginalCost  float64 `json:"originalCost"`
	AIExplanation string  `json:"aiExplanation"`
}

// WorkloadAnalysis reviews the cart against a described workload
type WorkloadAnalysis struct {
	CurrentCost   float64 `json:"currentCost"`
	AIExplanation string  `json:"aiExplanation"`
}

// ProductionExplanation compares base and production pricing
type ProductionExplanation struct {
	BaseCost       float64 `json:"baseCost"`
	ProductionCost float64 `json:"productionCost"`
	Increase       float64 `json:"increase"`
	AIExplanation  string  `json:"aiExplanation"`
}

// Advisor runs advisory operations against one engine and one generator
type Advisor struct {
	engine *pricing.Engine
	gen    Generator
	cache  *cache.Cache
}

// New creates an advisor. gen may be nil, in which case every operation
// fails with ADVISOR_UNAVAILABLE. A zero ttl disables response caching.
func New(engine *pricing.Engine, gen Generator, ttl time.Duration) *Advisor {
	a := &Advisor{engine: engine, gen: gen}
	if ttl > 0 {
		a.cache = cache.New(ttl, 2*ttl)
	}
	return a
}

// Available reports whether a generator is configured
func (a *Advisor) Available() bool {
	return a.gen != nil
}

// Model returns the generator's model name, or "" when unavailable
func (a *Advisor) Model() string {
	if a.gen == nil {
		return ""
	}
	return a.gen.Model()
}

// CachedResponses returns the number of live cache entries
func (a *Advisor) CachedResponses() int {
	if a.cache == nil {
		return 0
	}
	return a.cache.ItemCount()
}

// AnalyzeHiddenCosts estimates commonly overlooked charges and asks the model to explain them
func (a *Advisor) AnalyzeHiddenCosts(ctx context.Context, req Request) (*HiddenAnalysis, error) {
	if err := a.ready(req); err != nil {
		return nil, err
	}
	report, err := a.price(req, req.ProductionMode)
	if err != nil {
		return nil, err
	}
	hidden := a.engine.EstimateHidden(pricing.Services(req.Services), req.Region)

	prompt, err := hiddenCostsPrompt(req, report, hidden)
	if err != nil {
		return nil, err
	}
	text, err := a.generate(ctx, "hidden-costs", prompt)
	if err != nil {
		return nil, err
	}
	return &HiddenAnalysis{HiddenEstimate: hidden, AIExplanation: text}, nil
}

// Optimize asks for concrete savings recommendations
func (a *Advisor) Optimize(ctx context.Context, req Request) (*Optimization, error) {
	if err := a.ready(req); err != nil {
		return nil, err
	}
	report, err := a.price(req, req.ProductionMode)
	if err != nil {
		return nil, err
	}

	prompt, err := optimizePrompt(req, report)
	if err != nil {
		return nil, err
	}
	text, err := a.generate(ctx, "optimize", prompt)
	if err != nil {
		return nil, err
	}
	return &Optimization{CurrentCost: report.Total.Monthly, AIExplanation: text}, nil
}

// Simulate answers a free-form what-if question about the cart
func (a *Advisor) Simulate(ctx context.Context, req Request, question string) (*Simulation, error) {
	if strings.TrimSpace(question) == "" {
		return nil, errors.Input("prompt is required")
	}
	if err := a.ready(req); err != nil {
		return nil, err
	}
	report, err := a.price(req, req.ProductionMode)
	if err != nil {
		return nil, err
	}

	prompt, err := simulatePrompt(req, report, question)
	if err != nil {
		return nil, err
	}
	text, err := a.generate(ctx, "simulate", prompt)
	if err != nil {
		return nil, err
	}
	return &Simulation{OriginalCost: report.Total.Monthly, AIExplanation: text}, nil
}

// AnalyzeWorkload reviews the cart against a described workload
func (a *Advisor) AnalyzeWorkload(ctx context.Context, req Request, description string) (*WorkloadAnalysis, error) {
	if strings.TrimSpace(description) == "" {
		return nil, errors.Input("workloadDescription is required")
	}
	if err := a.ready(req); err != nil {
		return nil, err
	}
	report, err := a.price(req, req.ProductionMode)
	if err != nil {
		return nil, err
	}

	prompt, err := workloadPrompt(req, report, description)
	if err != nil {
		return nil, err
	}
	text, err := a.generate(ctx, "workload", prompt)
	if err != nil {
		return nil, err
	}
	return &WorkloadAnalysis{CurrentCost: report.Total.Monthly, AIExplanation: text}, nil
}

// ExplainProduction prices the cart with and without production overhead
// and asks the model to explain the difference. req.ProductionMode is ignored.
func (a *Advisor) ExplainProduction(ctx context.Context, req Request) (*ProductionExplanation, error) {
	if err := a.ready(req); err != nil {
		return nil, err
	}
	base, err := a.price(req, false)
	if err != nil {
		return nil, err
	}
	prod, err := a.price(req, true)
	if err != nil {
		return nil, err
	}

	baseCost := base.Total.Monthly
	prodCost := prod.Total.Monthly

	prompt, err := productionPrompt(req, baseCost, prodCost)
	if err != nil {
		return nil, err
	}
	text, err := a.generate(ctx, "production", prompt)
	if err != nil {
		return nil, err
	}
	return &ProductionExplanation{
		BaseCost:       baseCost,
		ProductionCost: prodCost,
		Increase:       prodCost - baseCost,
		AIExplanation:  text,
	}, nil
}

func (a *Advisor) ready(req Request) error {
	if strings.TrimSpace(req.Region) == "" {
		return errors.Input("region is required")
	}
	if err := pricing.ValidateAll(req.Services); err != nil {
		return err
	}
	if a.gen == nil {
		return errors.AdvisorUnavailable()
	}
	return nil
}

func (a *Advisor) price(req Request, production bool) (*pricing.Report, error) {
	return a.engine.CalculateAll(pricing.Services(req.Services), req.Region, production)
}

func (a *Advisor) generate(ctx context.Context, op, prompt string) (string, error) {
	key := cacheKey(a.gen.Model(), prompt)
	if a.cache != nil {
		if v, ok := a.cache.Get(key); ok {
			logging.Debug("advisor cache hit", zap.String("operation", op))
			return v.(string), nil
		}
	}

	start := time.Now()
	text, err := a.gen.Generate(ctx, SystemPrompt, prompt)
	if err != nil {
		logging.Warn("advisor request failed",
			zap.String("operation", op),
			zap.String("model", a.gen.Model()),
			zap.Error(err))
		return "", errors.Wrap(errors.TypeNetwork, "advisor request failed", err)
	}
	logging.Debug("advisor response",
		zap.String("operation", op),
		zap.Duration("duration", time.Since(start)),
		zap.Int("chars", len(text)))

	if a.cache != nil {
		a.cache.SetDefault(key, text)
	}
	return text, nil
}

func cacheKey(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}
