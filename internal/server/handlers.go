package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/laofangxose/au-finance-calculators/internal/calculation"
	"github.com/laofangxose/au-finance-calculators/internal/compare"
	"github.com/laofangxose/au-finance-calculators/internal/config"
	"github.com/laofangxose/au-finance-calculators/internal/domain"
	"github.com/laofangxose/au-finance-calculators/internal/transform"
)

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// CompareRequest is the body of POST /v1/compare
type CompareRequest struct {
	Name     string                `json:"name"`
	Scenario *domain.ScenarioInput `json:"scenario"`
	With     []string              `json:"with"`
	Variants []VariantRequest      `json:"variants"`
}

// VariantRequest names a list of transform specs such as "set_term:months=48"
type VariantRequest struct {
	Name       string   `json:"name"`
	Transforms []string `json:"transforms"`
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	scenario, err := s.parser.Parse(body, config.FormatJSON)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if specs := r.URL.Query()["transform"]; len(specs) > 0 {
		transforms, err := s.transforms.ParseTransformSpecs(specs)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		scenario, err = transform.ApplyTransforms(scenario, transforms)
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	key, err := CacheKey("calculate", s.tablesHash, scenario)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	if s.cache != nil {
		cached, hit, err := s.cache.Get(r.Context(), key)
		if err != nil {
			s.logger.Warnf("cache get %s: %v", key, err)
		}
		if hit {
			w.Header().Set(cacheHeader, "HIT")
			writeRaw(w, http.StatusOK, cached)
			return
		}
	}

	out := s.engine.Calculate(scenario)
	data, err := json.Marshal(out)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	if s.cache != nil {
		if err := s.cache.Set(r.Context(), key, data, s.cfg.CacheTTL); err != nil {
			s.logger.Warnf("cache set %s: %v", key, err)
		}
		w.Header().Set(cacheHeader, "MISS")
	}
	writeRaw(w, http.StatusOK, data)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	var req CompareRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Scenario == nil {
		writeError(w, r, http.StatusBadRequest, "scenario is required")
		return
	}
	if len(req.With) == 0 && len(req.Variants) == 0 {
		writeError(w, r, http.StatusBadRequest, "at least one template or variant is required")
		return
	}

	opts := compare.CompareOptions{BaseScenarioName: req.Name, Templates: req.With}
	for i, v := range req.Variants {
		transforms, err := s.transforms.ParseTransformSpecs(v.Transforms)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		name := v.Name
		if name == "" {
			name = fmt.Sprintf("variant_%d", i+1)
		}
		opts.Variants = append(opts.Variants, compare.Variant{
			Name:        name,
			Description: strings.Join(v.Transforms, ", "),
			Transforms:  transforms,
		})
	}

	compSet, err := s.comparer.Compare(r.Context(), req.Scenario, opts)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if r.Context().Err() != nil {
			status = http.StatusServiceUnavailable
		}
		writeError(w, r, status, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, compSet)
}

// SimpleInterestErrorResponse lists the input problems for POST /v1/simple-interest
type SimpleInterestErrorResponse struct {
	ErrorResponse
	Issues []domain.ValidationIssue `json:"issues"`
}

func (s *Server) handleSimpleInterest(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	var in calculation.SimpleInterestInput
	if err := json.Unmarshal(body, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := calculation.SimpleInterest(in)
	var siErr *calculation.SimpleInterestError
	if errors.As(err, &siErr) {
		writeJSON(w, r, http.StatusUnprocessableEntity, SimpleInterestErrorResponse{
			ErrorResponse: ErrorResponse{
				Status:    http.StatusUnprocessableEntity,
				Message:   siErr.Error(),
				RequestID: RequestIDFrom(r.Context()),
			},
			Issues: siErr.Issues,
		})
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.engine.Tables)
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	type templateInfo struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	registry := s.comparer.TemplateRegistry
	templates := []templateInfo{}
	for _, name := range registry.List() {
		t, _ := registry.Get(name)
		templates = append(templates, templateInfo{Name: t.Name, Description: t.Description})
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"templates":  templates,
		"transforms": s.transforms.List(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":        "ok",
		"jurisdiction":  s.engine.Tables.Metadata.Jurisdiction,
		"tablesUpdated": s.engine.Tables.Metadata.LastUpdated,
	})
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		writeError(w, r, http.StatusBadRequest, "failed to read body: "+err.Error())
		return nil, false
	}
	if len(body) == 0 {
		writeError(w, r, http.StatusBadRequest, "request body is empty")
		return nil, false
	}
	return body, true
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	writeRaw(w, status, data)
}

func writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	data, _ := json.Marshal(ErrorResponse{
		Status:    status,
		Message:   message,
		RequestID: RequestIDFrom(r.Context()),
	})
	writeRaw(w, status, data)
}
