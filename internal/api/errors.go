package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	pkgerrors "github.com/pkg/errors"

	"github.com/storefront-labs/storefront-api/internal/api/shared"
	"github.com/storefront-labs/storefront-api/internal/domain"
	"github.com/storefront-labs/storefront-api/internal/platform/logger"
	"github.com/storefront-labs/storefront-api/internal/store"
)

// Client-facing messages written by the normalizer.
const (
	MsgValidationFailed = "Validation failed"
	MsgDuplicate        = "Duplicate field value entered"
	MsgRecordNotFound   = "Record not found"
	MsgReferenced       = "Record is referenced by other records"
	MsgInvalidEntity    = "Invalid entity data"
	MsgInternal         = "Internal Server Error"
	MsgRouteNotFound    = "Route not found"
	MsgMethodNotAllowed = "Method not allowed"
)

// HandlerFunc is an HTTP handler that returns its failure instead of
// writing it. ErrorHandler.Wrap adapts it to http.HandlerFunc.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

type statusCoder interface {
	StatusCode() int
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// ErrorHandler turns every error returned by a handler into the uniform
// error envelope.
type ErrorHandler struct {
	logger      *slog.Logger
	exposeStack bool
}

// NewErrorHandler creates an ErrorHandler. With exposeStack set, envelopes
// carry the error's stack trace.
func NewErrorHandler(log *slog.Logger, exposeStack bool) *ErrorHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ErrorHandler{
		logger:      log.With(slog.String("component", "error_handler")),
		exposeStack: exposeStack,
	}
}

// Wrap adapts fn to an http.HandlerFunc that reports returned errors.
func (h *ErrorHandler) Wrap(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			h.Handle(w, r, err)
		}
	}
}

// Handle writes the error envelope for err.
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if logger.FromContextOrDefault(r.Context(), nil) == nil {
		r = r.WithContext(logger.WithLogger(r.Context(), h.logger))
	}

	resp := classify(err)
	if h.exposeStack {
		resp.Stack = stackOf(err)
	}

	var opts []shared.ResponseOption
	if errors.Is(err, store.ErrReferenced) {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, resp, err, opts...)
}

// NotFound answers requests for unknown routes.
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Handle(w, r, domain.NotFound(MsgRouteNotFound))
}

// MethodNotAllowed answers requests with an unsupported method.
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	resp := envelope(http.StatusMethodNotAllowed, MsgMethodNotAllowed, nil)
	shared.RespondWithErrorAndLog(w, r, resp, fmt.Errorf("method %s not allowed on %s", r.Method, r.URL.Path))
}

// classify maps err to a status and client-safe message. The order of the
// checks decides which classification wins for wrapped errors.
func classify(err error) shared.ErrorResponse {
	var (
		ve *domain.ValidationError
		de *domain.Error
		sc statusCoder
	)

	switch {
	case errors.As(err, &ve):
		return envelope(http.StatusBadRequest, MsgValidationFailed, ve.Errors)
	case store.IsDuplicateError(err):
		return envelope(http.StatusConflict, MsgDuplicate, nil)
	case store.IsNotFoundError(err):
		return envelope(http.StatusNotFound, MsgRecordNotFound, nil)
	case errors.As(err, &de):
		return envelope(de.StatusCode(), de.Message, nil)
	case errors.Is(err, store.ErrReferenced):
		return envelope(http.StatusConflict, MsgReferenced, nil)
	case errors.Is(err, store.ErrInvalidEntity):
		return envelope(http.StatusBadRequest, MsgInvalidEntity, nil)
	case errors.As(err, &sc) && sc.StatusCode() >= http.StatusBadRequest:
		return envelope(sc.StatusCode(), http.StatusText(sc.StatusCode()), nil)
	default:
		return envelope(http.StatusInternalServerError, MsgInternal, nil)
	}
}

func envelope(status int, message string, fields []domain.FieldError) shared.ErrorResponse {
	return shared.ErrorResponse{
		StatusCode: status,
		Message:    message,
		Errors:     fields,
	}
}

// stackOf renders the deepest stack trace recorded in err's chain, or the
// error text when none was captured.
func stackOf(err error) string {
	var traced stackTracer
	for e := err; e != nil; e = errors.Unwrap(e) {
		if st, ok := e.(stackTracer); ok {
			traced = st
		}
	}
	if traced == nil {
		return err.Error()
	}
	return fmt.Sprintf("%s%+v", err.Error(), traced.StackTrace())
}
