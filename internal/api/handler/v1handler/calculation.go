package v1handler

import (
	"net/http"
	"strconv"

	"calculus/pkg/domain"
	"calculus/pkg/serrors"

	"github.com/go-faster/jx"
	"github.com/google/uuid"
)

// CreateCalculation queues a calculation for the caller. The response is
// 202 while the calculation is pending and 200 when a cached result
// completed it immediately.
func (h *Handler) CreateCalculation(r *http.Request) (response, error) {
	req, err := h.readRequest(r)
	if err != nil {
		return response{}, err
	}
	if req.LowerBound == nil || req.UpperBound == nil {
		return response{}, serrors.With(serrors.ErrBadRequest, "lowerBound and upperBound are required")
	}

	calc, err := h.deps.Calculator.Enqueue(r.Context(), GetUserIDFromContext(r.Context()), domain.CalculationRequest{
		Quantity:   req.Quantity,
		Expression: req.Expression,
		LowerBound: *req.LowerBound,
		UpperBound: *req.UpperBound,
		Axis:       req.Axis,
	})
	if err != nil {
		return response{}, err //nolint: wrapcheck
	}

	status := http.StatusAccepted
	if calc.Status != domain.CalculationStatusPending {
		status = http.StatusOK
	}

	return response{status: status, body: func(e *jx.Encoder) { encodeCalculation(e, calc) }}, nil
}

// ListCalculations pages through the caller's calculations, newest first.
func (h *Handler) ListCalculations(r *http.Request) (response, error) {
	q := r.URL.Query()

	limit := DefaultLimit
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > MaxLimit {
			return response{}, serrors.With(serrors.ErrBadRequest, "limit must be between 1 and %d", MaxLimit)
		}
		limit = n
	}

	items, next, err := h.deps.Calculator.UserCalculations(r.Context(),
		GetUserIDFromContext(r.Context()),
		domain.CalculationStatus(q.Get("status")),
		q.Get("cursor"),
		uint(limit)) //nolint: gosec
	if err != nil {
		return response{}, err //nolint: wrapcheck
	}

	return ok(func(e *jx.Encoder) { encodeCalculationList(e, items, next) }), nil
}

func calculationID(r *http.Request) (domain.CalculationID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return domain.CalculationID{}, serrors.With(serrors.ErrBadRequest, "invalid calculation id")
	}

	return domain.CalculationID(id), nil
}

// GetCalculation returns one of the caller's calculations.
func (h *Handler) GetCalculation(r *http.Request) (response, error) {
	id, err := calculationID(r)
	if err != nil {
		return response{}, err
	}

	calc, err := h.deps.Calculator.Result(r.Context(), GetUserIDFromContext(r.Context()), id)
	if err != nil {
		return response{}, err //nolint: wrapcheck
	}

	return ok(func(e *jx.Encoder) { encodeCalculation(e, calc) }), nil
}

// DeleteCalculation removes one of the caller's calculations.
func (h *Handler) DeleteCalculation(r *http.Request) (response, error) {
	id, err := calculationID(r)
	if err != nil {
		return response{}, err
	}

	if err := h.deps.Calculator.Delete(r.Context(), GetUserIDFromContext(r.Context()), id); err != nil {
		return response{}, err //nolint: wrapcheck
	}

	return response{status: http.StatusNoContent}, nil
}
