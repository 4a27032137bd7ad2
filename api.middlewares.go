package main

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"
)

// MiddlewareFunc is a custom type for ease of use.
type MiddlewareFunc func(http.Handler) http.Handler

// Middlewares is a custom type to represent a stack of
// middleware functions used to build a single chain.
type Middlewares []MiddlewareFunc

// MiddlewaresStack builds the ordered stack installed on the router.
// The order matters: recovery must wrap everything, the request id
// must exist before anything logs, and cors must short-circuit
// preflight requests before they reach the route table.
func (api *APIHandler) MiddlewaresStack() Middlewares {
	return Middlewares{
		api.PanicRecoveryMiddleware,
		api.RequestsCounterMiddleware,
		api.RequestIDMiddleware,
		CORSMiddleware(),
		api.LoggingMiddleware,
	}
}

// LoggingMiddleware sets up the duration measurement for each request
// and logs its details on the way in and out.
func (api *APIHandler) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := api.clock.Now()
		requestID := GetValueFromContext(r.Context(), RequestIDContextKey)

		api.logger.Info(
			"request",
			zap.String("request.id", requestID),
			zap.String("request.method", r.Method),
			zap.String("request.path", r.URL.Path),
			zap.String("request.ip", GetRequestSourceIP(r)),
			zap.String("request.agent", r.UserAgent()),
		)

		next.ServeHTTP(w, r)

		api.logger.Info(
			"request",
			zap.String("request.id", requestID),
			zap.String("request.method", r.Method),
			zap.String("request.path", r.URL.Path),
			zap.Duration("request.duration", time.Since(start)),
		)
	})
}

// RequestsCounterMiddleware increments the number of received requests.
func (api *APIHandler) RequestsCounterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint64(&api.stats.called, 1)
		next.ServeHTTP(w, r)
	})
}

// RequestIDMiddleware generates and add a unique id to the request context.
func (api *APIHandler) RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := api.idsHandler.Generate(RequestIDPrefix)
		ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CORSMiddleware applies permissive cross-origin headers on each call
// and answers preflight requests with 200 without touching the routes.
func CORSMiddleware() MiddlewareFunc {
	return cors.New(cors.Options{
		AllowedOrigins:       []string{"*"},
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions, http.MethodPatch, http.MethodHead},
		AllowedHeaders:       []string{"*"},
		OptionsSuccessStatus: http.StatusOK,
	}).Handler
}

// PanicRecoveryMiddleware catches any panic during the request lifecycle and produces
// an error log for further analysis. It sends a failure response to the client with 500.
func (api *APIHandler) PanicRecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recovery := func() {
			if err := recover(); err != nil {
				requestID := GetValueFromContext(r.Context(), RequestIDContextKey)
				api.logger.Error("panic occurred", zap.String("request.id", requestID), zap.Any("error", err))
				resp := FailureResponse("failed to process the request", "internal server error")
				if err := WriteResponse(w, http.StatusInternalServerError, resp); err != nil {
					api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
				}
			}
		}
		defer recovery()
		next.ServeHTTP(w, r)
	})
}

// Chain wraps a given handler with a list of middlewares.
// It does by starting from the last middleware from the list.
func (m Middlewares) Chain(h http.Handler) http.Handler {
	if len(m) == 0 {
		return h
	}
	lg := len(m)
	handler := m[lg-1](h)

	for i := lg - 2; i >= 0; i-- {
		handler = m[i](handler)
	}

	return handler
}
