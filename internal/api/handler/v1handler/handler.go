// Package v1handler implements the /v1 HTTP API on top of the calculator
// service. Bodies are encoded and decoded with jx; every failure is written
// as {"code": ..., "message": ...} with a status derived from its serrors kind.
package v1handler

import (
	"context"
	"errors"
	"net/http"

	"calculus/internal/calculator"
	"calculus/internal/config"
	"calculus/pkg/logger"
	"calculus/pkg/serrors"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

const (
	// DefaultLimit is the page size used when a list request has none.
	DefaultLimit = 20
	// MaxLimit caps the page size of list requests.
	MaxLimit = 100
	// DefaultMaxBodyBytes caps request bodies when Options leaves it unset.
	DefaultMaxBodyBytes = 1 << 16
)

// Deps are the services the handler calls into.
type Deps struct {
	Calculator calculator.Calculator
}

// Options tune request handling.
type Options struct {
	MaxBodyBytes int64
}

// NewOptions derives Options from the application config.
func NewOptions(cfg *config.Config) Options {
	return Options{MaxBodyBytes: cfg.HTTP.MaxBodyBytes}
}

type Handler struct {
	deps         Deps
	maxBodyBytes int64
}

func New(deps Deps, opts Options) *Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	return &Handler{deps: deps, maxBodyBytes: opts.MaxBodyBytes}
}

// Error is the body of every failed response.
type Error struct {
	Code    string
	Message string
}

// ErrorResponse is an Error together with its HTTP status.
type ErrorResponse struct {
	StatusCode int
	Response   Error
}

var defaultMessages = map[serrors.Kind]string{ //nolint: gochecknoglobals
	serrors.ErrNotFound:      "resource not found",
	serrors.ErrUnauthorized:  "unauthorized",
	serrors.ErrBadRequest:    "bad request",
	serrors.ErrUnprocessable: "the request cannot be computed",
	serrors.ErrInternal:      "internal error",
	serrors.ErrTimeout:       "request timed out",
	serrors.ErrUnavailable:   "service unavailable",
}

func statusOf(kind serrors.Kind) int {
	switch kind {
	case serrors.ErrNotFound:
		return http.StatusNotFound
	case serrors.ErrUnauthorized:
		return http.StatusUnauthorized
	case serrors.ErrBadRequest:
		return http.StatusBadRequest
	case serrors.ErrUnprocessable:
		return http.StatusUnprocessableEntity
	case serrors.ErrTimeout:
		return http.StatusGatewayTimeout
	case serrors.ErrUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewError maps err to a response. Internal errors are logged and replaced
// by a generic message; other kinds report their message, or the text of
// the error they mark, or a default for the kind.
func (h *Handler) NewError(ctx context.Context, err error) *ErrorResponse {
	kind := serrors.KindOf(err)
	if kind == nil {
		kind = serrors.ErrInternal
	}
	if _, known := defaultMessages[kind]; !known {
		kind = serrors.ErrInternal
	}

	status := statusOf(kind)
	if status >= http.StatusInternalServerError {
		logger.Error(ctx, "request failed", zap.Error(err), zap.Int("status", status))
	} else {
		logger.Debug(ctx, "request rejected", zap.Error(err), zap.Int("status", status))
	}

	msg := defaultMessages[kind]
	if kind != serrors.ErrInternal {
		var se *serrors.Error
		if m, ok := serrors.MessageOf(err); ok {
			msg = m
		} else if errors.As(err, &se) && se.Cause() != nil {
			msg = se.Cause().Error()
		}
	}

	return &ErrorResponse{
		StatusCode: status,
		Response:   Error{Code: kind.Error(), Message: msg},
	}
}

// response is a successful result. A nil body writes no content.
type response struct {
	status int
	body   func(e *jx.Encoder)
}

func ok(body func(e *jx.Encoder)) response { return response{status: http.StatusOK, body: body} }

type operationFunc func(r *http.Request) (response, error)

// operation adapts op to an http.Handler, tagging the request logger with
// the operation name.
func (h *Handler) operation(name string, op operationFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithFields(r.Context(), zap.String("operation", name))
		r = r.WithContext(ctx)

		res, err := op(r)
		if err != nil {
			h.writeError(ctx, w, err)

			return
		}

		if res.body == nil {
			w.WriteHeader(res.status)

			return
		}

		var e jx.Encoder
		res.body(&e)
		writeJSON(w, res.status, e.Bytes())
	})
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	res := h.NewError(ctx, err)
	if res.StatusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="calculus"`)
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Str(res.Response.Code)
	e.FieldStart("message")
	e.Str(res.Response.Message)
	e.ObjEnd()
	writeJSON(w, res.StatusCode, e.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Routes returns a mux serving every /v1 endpoint. Calculation endpoints
// identify the caller through sec; a nil sec treats every caller as
// anonymous.
func (h *Handler) Routes(sec *SecHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("POST /v1/integral/indefinite", h.operation("indefinite", h.Indefinite))
	mux.Handle("POST /v1/integral/definite", h.operation("definiteIntegral", h.DefiniteIntegral))
	mux.Handle("POST /v1/integral/area", h.operation("area", h.Area))
	mux.Handle("POST /v1/integral/average-value", h.operation("averageValue", h.AverageValue))
	mux.Handle("POST /v1/integral/arc-length", h.operation("arcLength", h.ArcLength))
	mux.Handle("POST /v1/integral/surface-area", h.operation("surfaceArea", h.SurfaceArea))
	mux.Handle("POST /v1/volume", h.operation("volume", h.Volume))
	mux.Handle("POST /v1/integral/steps", h.operation("steps", h.Steps))
	mux.Handle("POST /v1/integral/validate", h.operation("validate", h.Validate))
	mux.Handle("POST /v1/integral/comparison", h.operation("comparison", h.Comparison))
	mux.Handle("POST /v1/integral/samples", h.operation("samples", h.Samples))

	mux.Handle("POST /v1/calculations", h.operation("createCalculation", authenticated(sec, h.CreateCalculation)))
	mux.Handle("GET /v1/calculations", h.operation("listCalculations", authenticated(sec, h.ListCalculations)))
	mux.Handle("GET /v1/calculations/{id}", h.operation("getCalculation", authenticated(sec, h.GetCalculation)))
	mux.Handle("DELETE /v1/calculations/{id}",
		h.operation("deleteCalculation", authenticated(sec, h.DeleteCalculation)))

	return mux
}
