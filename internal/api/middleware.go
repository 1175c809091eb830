package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"shareit/internal/metrics"
)

const requestIDHeader = "X-Request-Id"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		s.logger.Info().
			Str("request_id", w.Header().Get(requestIDHeader)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		metrics.ObserveHTTP(r.Method, endpointLabel(r.URL.Path), strconv.Itoa(recorder.status), time.Since(start))
	})
}

// endpointLabel collapses id-bearing paths so metric cardinality stays flat.
func endpointLabel(path string) string {
	switch path {
	case "/users", "/items", "/bookings", "/requests",
		"/items/search", "/bookings/owner", "/bookings/export", "/requests/all":
		return path
	}
	for _, prefix := range []string{"/users/", "/items/", "/bookings/", "/requests/"} {
		if len(path) > len(prefix) && path[:len(prefix)] == prefix {
			return prefix + "{id}"
		}
	}
	return path
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.global != nil && !s.global.Allow() {
			writeMessage(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		// Поштучный лимит считаем только для запросов с идентификатором
		// пользователя; сбой хранилища лимитов не должен ронять запрос.
		if s.limiter != nil {
			if userID, err := actorID(r); err == nil {
				window := time.Duration(s.cfg.RateLimit.UserWindow) * time.Second
				allowed, err := s.limiter.CheckRateLimit(r.Context(), userID, s.cfg.RateLimit.UserRequests, window)
				if err != nil {
					s.logger.Warn().Err(err).Int64("user_id", userID).Msg("rate limit check failed")
				} else if !allowed {
					writeMessage(w, http.StatusTooManyRequests, "rate limit exceeded")
					return
				}
			}
		}

		next.ServeHTTP(w, r)
	})
}
