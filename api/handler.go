// Package api - HTTP handlers
// Each handler delegates to the engine or the advisor and maps errors to status codes.
package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"cloudcart/core/catalog"
	"cloudcart/core/pricing"
	"cloudcart/internal/errors"
	"cloudcart/internal/logging"
)

const requestIDHeader = "X-Request-ID"

// call carries per-request bookkeeping
type call struct {
	id    string
	start time.Time
	hash  string
}

func (s *Server) begin(w http.ResponseWriter, r *http.Request) *call {
	id := strings.TrimSpace(r.Header.Get(requestIDHeader))
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(requestIDHeader, id)
	return &call{id: id, start: time.Now()}
}

func (s *Server) metadata(c *call, model string) *ResponseMetadata {
	return &ResponseMetadata{
		RequestID:       c.id,
		InputHash:       c.hash,
		EngineVersion:   s.opts.Version,
		PricingSnapshot: s.engine.Rates().Snapshot(),
		Model:           model,
		DurationMs:      time.Since(c.start).Milliseconds(),
	}
}

// decodeCart reads and validates a cart body. It writes the error response
// itself and returns nil when the request cannot proceed.
func (s *Server) decodeCart(w http.ResponseWriter, r *http.Request, c *call) *CartRequest {
	var req CartRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, c.id, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return nil
	}

	if strings.TrimSpace(req.Region) == "" || req.Services == nil {
		writeError(w, c.id, "VALIDATION_ERROR", "Region and services array required", http.StatusBadRequest)
		return nil
	}
	if err := pricing.ValidateAll(req.descriptors()); err != nil {
		s.fail(w, r, c, err)
		return nil
	}

	c.hash = computeInputHash(&req)
	return &req
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, map[string]interface{}{
		"status":          "ok",
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"version":         s.opts.Version,
		"pricingSnapshot": s.engine.Rates().Snapshot(),
		"advisor":         s.advisor.Available(),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, map[string]string{
		"version":      s.opts.Version,
		"engine":       "cloudcart",
		"ratesVersion": s.engine.Rates().Version,
		"model":        s.advisor.Model(),
	}, http.StatusOK)
}

// handleCatalog handles GET /catalog
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c := s.catalog
	writeJSON(w, CatalogResponse{
		Regions:          c.List(catalog.GroupRegion),
		InstanceTypes:    c.List(catalog.GroupInstance),
		StorageClasses:   c.List(catalog.GroupStorageClass),
		RDSInstanceTypes: c.List(catalog.GroupRDSInstance),
		RDSEngines:       c.List(catalog.GroupEngine),
		OperatingSystems: c.List(catalog.GroupOS),
		PricingTypes:     c.List(catalog.GroupPricingType),
		Tooltips:         catalog.Tooltips,
		Demo:             catalog.DemoArchitecture(),
		PricingSnapshot:  s.engine.Rates().Snapshot(),
	}, http.StatusOK)
}

// handleCalculateCost handles POST /calculate-cost
func (s *Server) handleCalculateCost(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c := s.begin(w, r)
	req := s.decodeCart(w, r, c)
	if req == nil {
		return
	}

	report, err := s.engine.CalculateAll(pricing.Services(req.descriptors()), req.Region, req.ProductionMode)
	if err != nil {
		s.fail(w, r, c, err)
		return
	}

	types := make([]string, 0, len(report.PerService))
	for _, sc := range report.PerService {
		types = append(types, string(sc.Type))
	}
	s.metrics.observeReport(types, report.Total.Monthly)

	writeJSON(w, CostResponse{Report: report, Metadata: s.metadata(c, "")}, http.StatusOK)
}

// handleAnalyzeHiddenCosts handles POST /analyze-hidden-costs
func (s *Server) handleAnalyzeHiddenCosts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c := s.begin(w, r)
	req := s.decodeCart(w, r, c)
	if req == nil {
		return
	}

	result, err := s.advisor.AnalyzeHiddenCosts(r.Context(), req.advisorRequest())
	s.metrics.observeAdvisor("analyze_hidden_costs", err)
	if err != nil {
		s.fail(w, r, c, err)
		return
	}
	writeJSON(w, HiddenCostsResponse{HiddenAnalysis: result, Metadata: s.metadata(c, s.advisor.Model())}, http.StatusOK)
}

// handleOptimize handles POST /optimize
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c := s.begin(w, r)
	req := s.decodeCart(w, r, c)
	if req == nil {
		return
	}

	result, err := s.advisor.Optimize(r.Context(), req.advisorRequest())
	s.metrics.observeAdvisor("optimize", err)
	if err != nil {
		s.fail(w, r, c, err)
		return
	}
	writeJSON(w, OptimizeResponse{Optimization: result, Metadata: s.metadata(c, s.advisor.Model())}, http.StatusOK)
}

// handleSimulate handles POST /simulate
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c := s.begin(w, r)
	req := s.decodeCart(w, r, c)
	if req == nil {
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, c.id, "VALIDATION_ERROR", "Region, services array, and prompt required", http.StatusBadRequest)
		return
	}

	result, err := s.advisor.Simulate(r.Context(), req.advisorRequest(), req.Prompt)
	s.metrics.observeAdvisor("simulate", err)
	if err != nil {
		s.fail(w, r, c, err)
		return
	}
	writeJSON(w, SimulateResponse{Simulation: result, Metadata: s.metadata(c, s.advisor.Model())}, http.StatusOK)
}

// handleAnalyzeWorkload handles POST /analyze-workload
func (s *Server) handleAnalyzeWorkload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c := s.begin(w, r)
	req := s.decodeCart(w, r, c)
	if req == nil {
		return
	}
	if strings.TrimSpace(req.WorkloadDescription) == "" {
		writeError(w, c.id, "VALIDATION_ERROR", "Region, services array, and workload description required", http.StatusBadRequest)
		return
	}

	result, err := s.advisor.AnalyzeWorkload(r.Context(), req.advisorRequest(), req.WorkloadDescription)
	s.metrics.observeAdvisor("analyze_workload", err)
	if err != nil {
		s.fail(w, r, c, err)
		return
	}
	writeJSON(w, WorkloadResponse{WorkloadAnalysis: result, Metadata: s.metadata(c, s.advisor.Model())}, http.StatusOK)
}

// handleExplainProduction handles POST /explain-production
func (s *Server) handleExplainProduction(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	c := s.begin(w, r)
	req := s.decodeCart(w, r, c)
	if req == nil {
		return
	}

	result, err := s.advisor.ExplainProduction(r.Context(), req.advisorRequest())
	s.metrics.observeAdvisor("explain_production", err)
	if err != nil {
		s.fail(w, r, c, err)
		return
	}
	writeJSON(w, ProductionResponse{ProductionExplanation: result, Metadata: s.metadata(c, s.advisor.Model())}, http.StatusOK)
}

// fail maps a domain error onto a status code and logs it
func (s *Server) fail(w http.ResponseWriter, r *http.Request, c *call, err error) {
	status := statusFor(err)
	code := string(errors.TypeOf(err))
	if code == "" {
		code = string(errors.TypeInternal)
	}

	log := logging.With(
		zap.String("request_id", c.id),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err))
	if status >= http.StatusInternalServerError {
		log.Error("request failed")
	} else {
		log.Info("request rejected")
	}

	writeError(w, c.id, code, message(err), status)
}

func statusFor(err error) int {
	switch {
	case errors.IsClientError(err):
		return http.StatusBadRequest
	case errors.IsType(err, errors.TypeAdvisorUnavailable):
		return http.StatusServiceUnavailable
	case errors.IsType(err, errors.TypeNetwork):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// message returns the domain message without the type prefix
func message(err error) string {
	var e *errors.Error
	if errors.As(err, &e) {
		if e.Cause != nil && e.Type == errors.TypeNetwork {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Warn("failed to write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, requestID, code, msg string, status int) {
	writeJSON(w, ErrorResponse{Error: ErrorDetail{Code: code, Message: msg, RequestID: requestID}}, status)
}

// computeInputHash fingerprints the pricing-relevant part of a request
func computeInputHash(req *CartRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
