package main

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Statistics holds app stats surfaced by the descriptor endpoint.
type Statistics struct {
	version string
	called  uint64
	started time.Time
}

// APIHandler defines the API handler.
type APIHandler struct {
	logger      *zap.Logger
	config      *Config
	stats       *Statistics
	clock       Clocker
	idsHandler  UIDHandler
	bookService BookServiceProvider
}

// NewAPIHandler provides a new instance of APIHandler.
func NewAPIHandler(logger *zap.Logger, config *Config, stats *Statistics, clock Clocker, idsHandler UIDHandler, bs BookServiceProvider) *APIHandler {
	return &APIHandler{
		logger:      logger,
		config:      config,
		stats:       stats,
		clock:       clock,
		idsHandler:  idsHandler,
		bookService: bs,
	}
}

// Health is the liveness probe. It always answers 200.
func (api *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	resp := SuccessResponse("Book store api is up & running.", map[string]interface{}{
		"uptime": fmt.Sprintf("%.0f mins", api.clock.Now().Sub(api.stats.started).Minutes()),
	})
	if err := WriteResponse(w, http.StatusOK, resp); err != nil {
		api.logger.Error("failed to send health response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// Index serves the capability descriptor of the api.
func (api *APIHandler) Index(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	resp := SuccessResponse("Welcome to the book store api.", map[string]interface{}{
		"version": api.stats.version,
		"served":  atomic.LoadUint64(&api.stats.called),
		"genres":  Genres,
		"endpoints": map[string]string{
			"health":    "GET /health",
			"create":    "POST /api/books",
			"list":      "GET /api/books",
			"search":    "GET /api/books/search?q=",
			"in stock":  "GET /api/books/stock/available",
			"by genre":  "GET /api/books/genre/{genre}",
			"fetch one": "GET /api/books/{id}",
			"update":    "PUT /api/books/{id}",
			"delete":    "DELETE /api/books/{id}",
		},
	})
	if err := WriteResponse(w, http.StatusOK, resp); err != nil {
		api.logger.Error("failed to send index response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// NotFound is the catch-all handler for unknown routes.
func (api *APIHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	resp := FailureResponse("route does not exist", r.Method+" "+r.URL.Path)
	if err := WriteResponse(w, http.StatusNotFound, resp); err != nil {
		api.logger.Error("failed to send not found response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// MethodNotAllowed answers known routes requested with a wrong method.
func (api *APIHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
	resp := FailureResponse("method not allowed on this route", r.Method+" "+r.URL.Path)
	if err := WriteResponse(w, http.StatusMethodNotAllowed, resp); err != nil {
		api.logger.Error("failed to send method not allowed response", zap.String("request.id", requestID), zap.Error(err))
	}
}
