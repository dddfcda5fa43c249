// Package api is the thin HTTP layer over the rating engine. It is only
// responsible for input ingestion, engine orchestration, and output
// serialization; no rating logic lives in handlers.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"freight-rate/core/rating"
	"freight-rate/core/types"
	"freight-rate/core/zone"
	"freight-rate/internal/errors"
	"freight-rate/internal/logging"
)

// Server hosts the rating engine over HTTP
type Server struct {
	engine  *rating.Engine
	router  chi.Router
	version string
}

// NewServer creates the HTTP server around a rating engine
func NewServer(engine *rating.Engine, version string) *Server {
	s := &Server{
		engine:  engine,
		version: version,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)

	r.Post("/rate", s.handleRate)
	r.Post("/zone", s.handleZone)
	r.Post("/cache/prewarm", s.handlePrewarm)
	r.Get("/cache/stats", s.handleCacheStats)
	r.Post("/cache/cleanup", s.handleCacheCleanup)
	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// ZoneRequest is the POST /zone payload
type ZoneRequest struct {
	CarrierID    string    `json:"carrier_id"`
	ServiceID    string    `json:"service_id,omitempty"`
	OriginPostal string    `json:"origin_postal"`
	DestPostal   string    `json:"dest_postal"`
	ShipDate     time.Time `json:"ship_date"`
}

// PrewarmRequest is the POST /cache/prewarm payload
type PrewarmRequest struct {
	Lanes []zone.Lane `json:"lanes"`
}

// PrewarmResponse reports the prewarm outcome
type PrewarmResponse struct {
	Warmed int      `json:"warmed"`
	Errors []string `json:"errors,omitempty"`
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	var shipment types.Shipment
	if err := json.NewDecoder(r.Body).Decode(&shipment); err != nil {
		s.writeError(w, errors.Parsing("invalid request body", err))
		return
	}
	if shipment.ShipDate.IsZero() {
		shipment.ShipDate = time.Now()
	}

	result, err := s.engine.CalculateRate(r.Context(), shipment)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleZone(w http.ResponseWriter, r *http.Request) {
	var req ZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Parsing("invalid request body", err))
		return
	}
	if req.ShipDate.IsZero() {
		req.ShipDate = time.Now()
	}

	result, err := s.engine.ResolveZone(r.Context(), req.CarrierID, req.ServiceID, req.OriginPostal, req.DestPostal, req.ShipDate)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePrewarm(w http.ResponseWriter, r *http.Request) {
	var req PrewarmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Parsing("invalid request body", err))
		return
	}

	warmed, errs := s.engine.PrewarmLanes(r.Context(), req.Lanes)
	resp := PrewarmResponse{Warmed: warmed}
	for _, err := range errs {
		resp.Errors = append(resp.Errors, err.Error())
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.CacheStats())
}

func (s *Server) handleCacheCleanup(w http.ResponseWriter, r *http.Request) {
	removed := s.engine.CleanupCaches()
	s.writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// errorBody is the error envelope returned to clients
type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	errType := errors.TypeInternal
	message := err.Error()

	if e, ok := err.(*errors.Error); ok {
		errType = e.Type
		switch e.Type {
		case errors.TypeInvalidArgument, errors.TypeParsing:
			status = http.StatusBadRequest
		case errors.TypeNotFound:
			status = http.StatusNotFound
		case errors.TypeUnimplemented:
			status = http.StatusNotImplemented
		}
	}

	if status >= 500 {
		logging.Error("request failed", zap.Error(err))
	}

	var body errorBody
	body.Error.Type = string(errType)
	body.Error.Message = message
	s.writeJSON(w, status, body)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
