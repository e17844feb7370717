package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"dive-pricing/core/engine"
	"dive-pricing/internal/errors"
)

// Server exposes the pricing engine over HTTP. Handlers parse the
// request, delegate to the backend, and serialize the result; they
// never perform pricing logic themselves.
type Server struct {
	backend engine.Backend
	mux     *http.ServeMux
	version string
	log     *zap.Logger
}

// NewServer creates an API server over a backend
func NewServer(backend engine.Backend, version string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		backend: backend,
		mux:     http.NewServeMux(),
		version: version,
		log:     log,
	}
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /boat-cost", s.handleBoatCost)
	s.mux.HandleFunc("POST /gas-fills", s.handleGasFills)
	s.mux.HandleFunc("POST /resolve", s.handleResolve)
	s.mux.HandleFunc("POST /allocate", s.handleAllocate)
	s.mux.HandleFunc("POST /totals", s.handleTotals)
	s.mux.HandleFunc("GET /health", s.handleHealth)
}

func (s *Server) handleBoatCost(w http.ResponseWriter, r *http.Request) {
	var req BoatCostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.InvalidInput("malformed request body"))
		return
	}

	engineReq, err := req.ToEngine()
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.backend.BoatCost(r.Context(), engineReq)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, boatCostResponse(result), http.StatusOK)
}

func (s *Server) handleGasFills(w http.ResponseWriter, r *http.Request) {
	var req GasFillsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.InvalidInput("malformed request body"))
		return
	}

	engineReq, err := req.ToEngine()
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.backend.GasFills(r.Context(), engineReq)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, gasFillsResponse(result), http.StatusOK)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.InvalidInput("malformed request body"))
		return
	}

	engineReq, err := req.ToEngine()
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.backend.Resolve(r.Context(), engineReq)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, resolveResponse(result), http.StatusOK)
}

func (s *Server) handleAllocate(w http.ResponseWriter, r *http.Request) {
	var req AllocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.InvalidInput("malformed request body"))
		return
	}

	engineReq, err := req.ToEngine()
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.backend.Allocate(r.Context(), engineReq)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, allocateResponse(result), http.StatusOK)
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	var req TotalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.InvalidInput("malformed request body"))
		return
	}

	engineReq, err := req.ToEngine()
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.backend.Totals(r.Context(), engineReq)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, totalsResponse(result), http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.Health(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, HealthResponse{
		Status:  "ok",
		Version: s.version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(t errors.Type) int {
	switch t {
	case errors.TypeInvalidInput, errors.TypeCurrencyMismatch:
		return http.StatusBadRequest
	case errors.TypeMissingVendorAgreement, errors.TypeMissingPrice:
		return http.StatusNotFound
	case errors.TypeConfiguration:
		return http.StatusUnprocessableEntity
	case errors.TypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	errType := errors.TypeOf(err)
	resp := ErrorResponse{
		ErrorType: string(errType),
		Message:   err.Error(),
	}
	if perr, ok := err.(*errors.Error); ok {
		resp.Message = perr.Message
		resp.Details = perr.Context
	}

	status := statusFor(errType)
	if status >= http.StatusInternalServerError {
		s.log.Error("pricing request failed", zap.String("error_type", string(errType)), zap.Error(err))
	}
	s.writeJSON(w, resp, status)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
	}
}
