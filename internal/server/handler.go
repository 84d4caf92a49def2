package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"resumescore/internal/errors"
	"resumescore/internal/observability"
	"resumescore/internal/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// requestID returns the caller-supplied request id or generates one.
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}

// createScoreHandler wraps the score handler with observability
func (s *Server) createScoreHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumescore.api")
		ctx, span := tracer.Start(ctx, "api.score")
		defer span.End()

		reqID := requestID(r)
		w.Header().Set("X-Request-ID", reqID)
		span.SetAttributes(attribute.String("request.id", reqID))

		// Parse request
		var req ScoreRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if err := s.validate.Struct(&req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
			return
		}

		role := req.Role
		if role == "" {
			role = s.AppConfig.Engine.DefaultRole
		}
		level := req.Level
		if level == "" {
			level = s.AppConfig.Engine.DefaultLevel
		}

		// Add request attributes to span
		span.SetAttributes(
			attribute.String("request.role", role),
			attribute.String("request.level", level),
			attribute.Int("request.skills", len(req.Facts.Skills)),
			attribute.Int("request.experience_entries", len(req.Facts.Experience)),
			attribute.String("operation", "score"),
		)

		// Track the scoring run with observability
		metrics := om.GetMetrics()
		var result *types.ScoreResult
		err := metrics.TrackScoring(ctx, "score", func(ctx context.Context) *observability.ScoringResult {
			out, scoreErr := s.Engine.Score(ctx, req.Facts, role, level)
			result = out
			sr := &observability.ScoringResult{Error: scoreErr}
			if out != nil {
				sr.Score = out.Score
				sr.Degraded = out.DegradedMatching
			}
			return sr
		}, om)

		if err != nil {
			span.RecordError(err)
			s.writeEngineError(w, err, reqID)
			metrics.RecordBusinessMetric(ctx, "resume_scored", false, om,
				attribute.String("error", err.Error()))
			return
		}

		// Record success metrics
		metrics.RecordBusinessMetric(ctx, "resume_scored", true, om,
			attribute.String("role", role),
			attribute.String("level", level),
			attribute.Bool("degraded_matching", result.DegradedMatching))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("response.score", result.Score),
			attribute.Int("response.findings", len(result.Findings)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createCriterionHandler wraps the single-criterion handler with observability
func (s *Server) createCriterionHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumescore.api")
		ctx, span := tracer.Start(ctx, "api.criterion")
		defer span.End()

		reqID := requestID(r)
		w.Header().Set("X-Request-ID", reqID)
		span.SetAttributes(attribute.String("request.id", reqID))

		var req CriterionRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if err := s.validate.Struct(&req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
			return
		}

		role := req.Role
		if role == "" {
			role = s.AppConfig.Engine.DefaultRole
		}
		level := req.Level
		if level == "" {
			level = s.AppConfig.Engine.DefaultLevel
		}

		span.SetAttributes(
			attribute.String("request.criterion", req.Criterion),
			attribute.String("request.role", role),
			attribute.String("request.level", level),
			attribute.String("operation", "criterion"),
		)

		metrics := om.GetMetrics()
		var result *types.CriterionScore
		err := metrics.TrackScoring(ctx, "criterion", func(ctx context.Context) *observability.ScoringResult {
			out, scoreErr := s.Engine.ScoreCriterion(ctx, req.Facts, role, level, req.Criterion)
			result = out
			sr := &observability.ScoringResult{Error: scoreErr}
			if out != nil {
				sr.Score = out.Score
			}
			return sr
		}, om)

		if err != nil {
			span.RecordError(err)
			s.writeEngineError(w, err, reqID)
			metrics.RecordBusinessMetric(ctx, "criterion_scored", false, om)
			return
		}

		metrics.RecordBusinessMetric(ctx, "criterion_scored", true, om,
			attribute.String("criterion", req.Criterion))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("response.score", result.Score),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// writeEngineError maps engine errors onto HTTP status codes. Unknown role,
// level, or criterion ids are caller mistakes; everything else is internal.
func (s *Server) writeEngineError(w http.ResponseWriter, err error, reqID string) {
	s.Logger.LogError(err, "Scoring request failed", "request_id", reqID)

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) &&
		(appErr.Type == errors.ErrorTypeValidation || appErr.Type == errors.ErrorTypeConfig) {
		writeErrorResponse(w, appErr.Code, appErr.Message, http.StatusBadRequest)
		return
	}
	writeErrorResponse(w, "Scoring failed", err.Error(), http.StatusInternalServerError)
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
