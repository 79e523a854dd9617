package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/storefront-labs/storefront-api/internal/domain"
	"github.com/storefront-labs/storefront-api/internal/platform/logger"
	"github.com/storefront-labs/storefront-api/internal/redact"
)

// SuccessResponse is the envelope of every successful response.
type SuccessResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
}

// ErrorResponse is the envelope of every error response. Errors is null
// unless the request failed validation. Stack is only set in development.
type ErrorResponse struct {
	Success    bool                `json:"success"`
	StatusCode int                 `json:"statusCode"`
	Message    string              `json:"message"`
	Errors     []domain.FieldError `json:"errors"`
	Stack      string              `json:"stack,omitempty"`
}

// ResponseOption defines a function to customize response behavior.
type ResponseOption func(*responseOptions)

type responseOptions struct {
	elevateLogLevel bool
}

// WithElevatedLogLevel returns a ResponseOption that raises 4xx errors to WARN level
// instead of the default DEBUG level.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithSuccess writes a success envelope.
func RespondWithSuccess(w http.ResponseWriter, r *http.Request, status int, data any, message string) {
	RespondWithJSON(w, r, status, SuccessResponse{
		Success:    true,
		StatusCode: status,
		Data:       data,
		Message:    message,
	})
}

// RespondWithErrorAndLog writes resp and logs the detailed error, redacted.
// The raw error text never reaches the client.
//
// Log level strategy:
// - 5xx errors: Always logged at ERROR level
// - 4xx errors: By default logged at DEBUG level
// - 429 Too Many Requests: Logged at WARN level (operational concern)
//
// WithElevatedLogLevel() raises a 4xx to WARN.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	resp ErrorResponse,
	err error,
	opts ...ResponseOption,
) {
	traceID := GetTraceID(r.Context())
	resp.Success = false

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", resp.StatusCode),
		slog.String("user_message", resp.Message),
	}
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}

	logLevel := slog.LevelDebug
	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		logLevel = slog.LevelError
	case resp.StatusCode == http.StatusTooManyRequests:
		logLevel = slog.LevelWarn
	case responseOpts.elevateLogLevel && resp.StatusCode >= http.StatusBadRequest:
		logLevel = slog.LevelWarn
	}

	log := logger.FromContextOrDefault(r.Context(), slog.Default())
	log.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, resp.StatusCode, resp)
}
