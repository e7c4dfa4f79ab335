// Package api - Request and response types
// Responses keep the engine's JSON shape at the top level and add a metadata block.
package api

import (
	"cloudcart/core/advisor"
	"cloudcart/core/catalog"
	"cloudcart/core/pricing"
)

// CartRequest is the body of every POST endpoint.
// Services is a pointer so a missing array can be told apart from an empty one.
type CartRequest struct {
	Region         string                `json:"region"`
	ProductionMode bool                  `json:"productionMode"`
	Services       *[]pricing.Descriptor `json:"services"`

	// Prompt is the what-if question for /simulate
	Prompt string `json:"prompt,omitempty"`

	// WorkloadDescription is the free-text workload for /analyze-workload
	WorkloadDescription string `json:"workloadDescription,omitempty"`
}

func (r *CartRequest) descriptors() []pricing.Descriptor {
	if r.Services == nil {
		return nil
	}
	return *r.Services
}

func (r *CartRequest) advisorRequest() advisor.Request {
	return advisor.Request{
		Region:         r.Region,
		ProductionMode: r.ProductionMode,
		Services:       r.descriptors(),
	}
}

// ResponseMetadata describes how a response was produced
type ResponseMetadata struct {
	RequestID       string `json:"requestId"`
	InputHash       string `json:"inputHash"`
	EngineVersion   string `json:"engineVersion"`
	PricingSnapshot string `json:"pricingSnapshot"`
	Model           string `json:"model,omitempty"`
	DurationMs      int64  `json:"durationMs"`
}

// CostResponse is returned by POST /calculate-cost
type CostResponse struct {
	*pricing.Report
	Metadata *ResponseMetadata `json:"metadata,omitempty"`
}

// HiddenCostsResponse is returned by POST /analyze-hidden-costs
type HiddenCostsResponse struct {
	*advisor.HiddenAnalysis
	Metadata *ResponseMetadata `json:"metadata,omitempty"`
}

// OptimizeResponse is returned by POST /optimize
type OptimizeResponse struct {
	*advisor.Optimization
	Metadata *ResponseMetadata `json:"metadata,omitempty"`
}

// SimulateResponse is returned by POST /simulate
type SimulateResponse struct {
	*advisor.Simulation
	Metadata *ResponseMetadata `json:"metadata,omitempty"`
}

// WorkloadResponse is returned by POST /analyze-workload
type WorkloadResponse struct {
	*advisor.WorkloadAnalysis
	Metadata *ResponseMetadata `json:"metadata,omitempty"`
}

// ProductionResponse is returned by POST /explain-production
type ProductionResponse struct {
	*advisor.ProductionExplanation
	Metadata *ResponseMetadata `json:"metadata,omitempty"`
}

// CatalogResponse is returned by GET /catalog
type CatalogResponse struct {
	Regions          []catalog.Entry      `json:"regions"`
	InstanceTypes    []catalog.Entry      `json:"ec2InstanceTypes"`
	StorageClasses   []catalog.Entry      `json:"s3StorageClasses"`
	RDSInstanceTypes []catalog.Entry      `json:"rdsInstanceTypes"`
	RDSEngines       []catalog.Entry      `json:"rdsEngines"`
	OperatingSystems []catalog.Entry      `json:"operatingSystems"`
	PricingTypes     []catalog.Entry      `json:"pricingTypes"`
	Tooltips         map[string]string    `json:"tooltips"`
	Demo             []pricing.Descriptor `json:"demoArchitecture"`
	PricingSnapshot  string               `json:"pricingSnapshot"`
}

// ErrorDetail provides error information
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// ErrorResponse wraps an ErrorDetail
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
