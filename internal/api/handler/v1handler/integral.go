package v1handler

import (
	"net/http"

	"calculus/pkg/engine"

	"github.com/go-faster/jx"
)

// Indefinite returns the antiderivative of the expression, if it has one.
func (h *Handler) Indefinite(r *http.Request) (response, error) {
	req, err := h.readRequest(r)
	if err != nil {
		return response{}, err
	}
	expression, err := req.expression()
	if err != nil {
		return response{}, err
	}

	res, err := h.deps.Calculator.Indefinite(r.Context(), expression)
	if err != nil {
		return response{}, err //nolint: wrapcheck
	}

	return ok(func(e *jx.Encoder) { encodeIndefinite(e, res) }), nil
}

// quantity decodes a bounded request and computes q from it. Only surface
// area and volume read the axis.
func (h *Handler) quantity(r *http.Request, q engine.Quantity) (response, error) {
	req, err := h.readRequest(r)
	if err != nil {
		return response{}, err
	}
	expression, err := req.expression()
	if err != nil {
		return response{}, err
	}
	iv, err := req.interval()
	if err != nil {
		return response{}, err
	}

	in := engine.Request{Expression: expression, Interval: iv}
	if q.UsesAxis() {
		if in.Axis, err = req.axis(); err != nil {
			return response{}, err
		}
	}

	res, err := h.deps.Calculator.Compute(r.Context(), q, in)
	if err != nil {
		return response{}, err //nolint: wrapcheck
	}

	return ok(func(e *jx.Encoder) { encodeQuantity(e, res) }), nil
}

func (h *Handler) DefiniteIntegral(r *http.Request) (response, error) {
	return h.quantity(r, engine.QuantityIntegral)
}

func (h *Handler) Area(r *http.Request) (response, error) {
	return h.quantity(r, engine.QuantityArea)
}

func (h *Handler) AverageValue(r *http.Request) (response, error) {
	return h.quantity(r, engine.QuantityAverageValue)
}

func (h *Handler) ArcLength(r *http.Request) (response, error) {
	return h.quantity(r, engine.QuantityArcLength)
}

func (h *Handler) SurfaceArea(r *http.Request) (response, error) {
	return h.quantity(r, engine.QuantitySurfaceArea)
}

func (h *Handler) Volume(r *http.Request) (response, error) {
	return h.quantity(r, engine.QuantityVolume)
}

// Steps returns the rules applied while integrating the expression.
func (h *Handler) Steps(r *http.Request) (response, error) {
	req, err := h.readRequest(r)
	if err != nil {
		return response{}, err
	}
	expression, err := req.expression()
	if err != nil {
		return response{}, err
	}

	steps, err := h.deps.Calculator.Steps(r.Context(), expression)
	if err != nil {
		return response{}, err //nolint: wrapcheck
	}

	return ok(func(e *jx.Encoder) { encodeSteps(e, steps) }), nil
}

// Validate reports whether the expression parses and integrates. A bad
// expression is not an error here; it is described in the body.
func (h *Handler) Validate(r *http.Request) (response, error) {
	req, err := h.readRequest(r)
	if err != nil {
		return response{}, err
	}

	v, err := h.deps.Calculator.Validate(r.Context(), req.Expression)
	if err != nil {
		return response{}, err //nolint: wrapcheck
	}

	return ok(func(e *jx.Encoder) { encodeValidation(e, v) }), nil
}

// Comparison evaluates fixed-panel rules against the reconciled integral.
func (h *Handler) Comparison(r *http.Request) (response, error) {
	req, err := h.readRequest(r)
	if err != nil {
		return response{}, err
	}
	expression, err := req.expression()
	if err != nil {
		return response{}, err
	}
	iv, err := req.interval()
	if err != nil {
		return response{}, err
	}

	cmp, err := h.deps.Calculator.Compare(r.Context(), expression, iv, req.Panels)
	if err != nil {
		return response{}, err //nolint: wrapcheck
	}

	return ok(func(e *jx.Encoder) { encodeComparison(e, cmp) }), nil
}

// Samples returns plot points of the expression and its accumulated integral.
func (h *Handler) Samples(r *http.Request) (response, error) {
	req, err := h.readRequest(r)
	if err != nil {
		return response{}, err
	}
	expression, err := req.expression()
	if err != nil {
		return response{}, err
	}
	iv, err := req.interval()
	if err != nil {
		return response{}, err
	}

	s, err := h.deps.Calculator.Samples(r.Context(), expression, iv, req.Points)
	if err != nil {
		return response{}, err //nolint: wrapcheck
	}

	return ok(func(e *jx.Encoder) { encodeSamples(e, s) }), nil
}
