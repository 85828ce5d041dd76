package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// errorHandlerFunc is a handler whose returned error becomes a generic 500.
type errorHandlerFunc func(w http.ResponseWriter, r *http.Request) error

func (fn errorHandlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := fn(w, r); err != nil {
		logger(r).Error("unhandled request error", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Routes returns the router for every endpoint. Unmatched method/path
// combinations get 404 Not Found.
func (h *handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Get("/*", h.Page)

	r.Post("/stripe-key", h.StripeKey)
	r.Post("/create-payment-intent", h.CreatePaymentIntent)
	r.Method(http.MethodPost, "/checkout", errorHandlerFunc(h.Checkout))
	r.Method(http.MethodPost, "/webhook", errorHandlerFunc(h.Webhook))

	return r
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

// requestLogger logs one line per request once the response is written.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			slog.Info("request",
				"request_id", requestID(r),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
