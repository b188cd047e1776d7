package v1handler

import (
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"calculus/internal/calculator"
	"calculus/pkg/domain"
	"calculus/pkg/engine"
	"calculus/pkg/numeric"
	"calculus/pkg/serrors"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// request is the union of every request body. Bounds are pointers so a
// missing bound can be told apart from zero.
type request struct {
	Quantity   string
	Expression string
	LowerBound *float64
	UpperBound *float64
	Axis       string
	Panels     int
	Points     int
}

func decodeRequest(data []byte) (request, error) {
	var req request
	d := jx.DecodeBytes(data)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "quantity":
			req.Quantity, err = d.Str()
		case "expression":
			req.Expression, err = d.Str()
		case "lowerBound":
			var v float64
			if v, err = d.Float64(); err == nil {
				req.LowerBound = &v
			}
		case "upperBound":
			var v float64
			if v, err = d.Float64(); err == nil {
				req.UpperBound = &v
			}
		case "axis":
			req.Axis, err = d.Str()
		case "panels":
			req.Panels, err = d.Int()
		case "points":
			req.Points, err = d.Int()
		default:
			return d.Skip() //nolint: wrapcheck
		}

		return errors.Wrapf(err, "decode %s", key)
	})
	if err != nil {
		return request{}, serrors.Mark(serrors.ErrBadRequest, errors.Wrap(err, "invalid request body"))
	}

	return req, nil
}

// readRequest reads and decodes a body of at most h.maxBodyBytes.
func (h *Handler) readRequest(r *http.Request) (request, error) {
	data, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return request{}, serrors.With(serrors.ErrBadRequest, "request body exceeds %d bytes", tooLarge.Limit)
		}

		return request{}, serrors.Wrap(serrors.ErrBadRequest, err, "could not read request body")
	}

	return decodeRequest(data)
}

func (req request) expression() (string, error) {
	if strings.TrimSpace(req.Expression) == "" {
		return "", serrors.With(serrors.ErrBadRequest, "expression is required")
	}

	return req.Expression, nil
}

// interval checks that both bounds are present, finite and ordered.
func (req request) interval() (engine.Interval, error) {
	if req.LowerBound == nil || req.UpperBound == nil {
		return engine.Interval{}, serrors.With(serrors.ErrBadRequest, "lowerBound and upperBound are required")
	}

	iv := engine.Interval{Lower: *req.LowerBound, Upper: *req.UpperBound}
	if err := iv.Validate(); err != nil {
		return engine.Interval{}, serrors.Mark(serrors.ErrBadRequest, err)
	}

	return iv, nil
}

func (req request) axis() (engine.Axis, error) {
	axis, err := engine.ParseAxis(req.Axis)
	if err != nil {
		return "", serrors.Mark(serrors.ErrBadRequest, err)
	}

	return axis, nil
}

func encodeFloat(e *jx.Encoder, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		e.Null()

		return
	}
	e.Float64(v)
}

func encodeOptFloat(e *jx.Encoder, v *float64) {
	if v == nil {
		e.Null()

		return
	}
	encodeFloat(e, *v)
}

func encodeOptStr(e *jx.Encoder, s string) {
	if s == "" {
		e.Null()

		return
	}
	e.Str(s)
}

func encodeTime(e *jx.Encoder, t time.Time) {
	e.Str(t.UTC().Format(time.RFC3339Nano))
}

// encodeResultFields writes the fields of a reconciled result into an
// object that is already open.
func encodeResultFields(e *jx.Encoder, r domain.CalculationResult) {
	e.FieldStart("chosenValue")
	encodeFloat(e, r.Value)
	e.FieldStart("chosenSource")
	e.Str(r.ChosenSource)
	e.FieldStart("symbolicValue")
	encodeOptFloat(e, r.SymbolicValue)
	e.FieldStart("numericalValue")
	encodeFloat(e, r.NumericalValue)
	e.FieldStart("errorEstimate")
	encodeOptFloat(e, r.ErrorEstimate)
	if r.Disagreement != nil {
		e.FieldStart("disagreement")
		encodeOptFloat(e, r.Disagreement)
	}
	e.FieldStart("symbolicOutcome")
	e.Str(r.SymbolicOutcome)
	e.FieldStart("integrand")
	e.Str(r.Integrand)
	e.FieldStart("antiderivative")
	encodeOptStr(e, r.Antiderivative)
	if r.Exact != "" {
		e.FieldStart("exact")
		e.Str(r.Exact)
	}
	e.FieldStart("subdivisions")
	e.Int(r.Subdivisions)
}

func encodeResult(e *jx.Encoder, r domain.CalculationResult) {
	e.ObjStart()
	encodeResultFields(e, r)
	e.ObjEnd()
}

func encodeQuantity(e *jx.Encoder, res engine.Result) {
	e.ObjStart()
	e.FieldStart("quantity")
	e.Str(string(res.Quantity))
	e.FieldStart("expression")
	e.Str(res.Expression)
	e.FieldStart("lowerBound")
	encodeFloat(e, res.Interval.Lower)
	e.FieldStart("upperBound")
	encodeFloat(e, res.Interval.Upper)
	if res.Axis != "" {
		e.FieldStart("axis")
		e.Str(string(res.Axis))
	}
	encodeResultFields(e, calculator.ResultOf(res))
	e.ObjEnd()
}

func encodeIndefinite(e *jx.Encoder, res engine.Indefinite) {
	e.ObjStart()
	e.FieldStart("expression")
	e.Str(res.Expression.String())
	e.FieldStart("outcome")
	e.Str(string(res.Outcome))
	e.FieldStart("hasClosedForm")
	e.Bool(res.HasClosedForm())
	e.FieldStart("antiderivative")
	if res.Antiderivative != nil {
		e.Str(res.Antiderivative.String())
	} else {
		e.Null()
	}
	e.FieldStart("latex")
	e.Str(res.LaTeX)
	e.ObjEnd()
}

func encodeSteps(e *jx.Encoder, steps []engine.Step) {
	e.ObjStart()
	e.FieldStart("steps")
	e.ArrStart()
	for _, s := range steps {
		e.ObjStart()
		e.FieldStart("rule")
		e.Str(s.Rule)
		e.FieldStart("title")
		e.Str(s.Title)
		e.FieldStart("description")
		e.Str(s.Description)
		e.FieldStart("formula")
		e.Str(s.Formula)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
}

func encodeValidation(e *jx.Encoder, v engine.Validation) {
	e.ObjStart()
	e.FieldStart("valid")
	e.Bool(v.Valid)
	e.FieldStart("isIntegrable")
	e.Bool(v.IsIntegrable)
	e.FieldStart("message")
	e.Str(v.Message)
	if v.Valid {
		e.FieldStart("parsed")
		e.Str(v.Parsed)
		e.FieldStart("latex")
		e.Str(v.LaTeX)
	}
	e.ObjEnd()
}

func encodeComparison(e *jx.Encoder, c engine.Comparison) {
	e.ObjStart()
	e.FieldStart("reference")
	encodeResult(e, calculator.ResultOf(engine.Result{Value: c.Reference.ChosenValue, Integration: c.Reference}))
	e.FieldStart("panels")
	e.Int(c.Panels)
	e.FieldStart("methods")
	e.ArrStart()
	for _, m := range c.Methods {
		e.ObjStart()
		e.FieldStart("method")
		e.Str(string(m.Method))
		e.FieldStart("value")
		encodeFloat(e, m.Value)
		e.FieldStart("absError")
		encodeFloat(e, m.AbsError)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
}

func encodePoints(e *jx.Encoder, points []numeric.Point) {
	if points == nil {
		e.Null()

		return
	}

	e.ArrStart()
	for _, p := range points {
		e.ObjStart()
		e.FieldStart("x")
		encodeFloat(e, p.X)
		e.FieldStart("y")
		if p.Defined {
			encodeFloat(e, p.Y)
		} else {
			e.Null()
		}
		e.ObjEnd()
	}
	e.ArrEnd()
}

func encodeSamples(e *jx.Encoder, s engine.Samples) {
	e.ObjStart()
	e.FieldStart("function")
	encodePoints(e, s.Function)
	e.FieldStart("integral")
	encodePoints(e, s.Integral)
	e.FieldStart("antiderivative")
	if s.Antiderivative != nil {
		e.Str(s.Antiderivative.String())
	} else {
		e.Null()
	}
	e.ObjEnd()
}

func encodeCalculation(e *jx.Encoder, c *domain.Calculation) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(c.ID.String())
	e.FieldStart("status")
	e.Str(string(c.Status))
	e.FieldStart("quantity")
	e.Str(c.Request.Quantity)
	e.FieldStart("expression")
	e.Str(c.Request.Expression)
	e.FieldStart("lowerBound")
	encodeFloat(e, c.Request.LowerBound)
	e.FieldStart("upperBound")
	encodeFloat(e, c.Request.UpperBound)
	if c.Request.Axis != "" {
		e.FieldStart("axis")
		e.Str(c.Request.Axis)
	}
	e.FieldStart("result")
	if c.Result != nil {
		encodeResult(e, *c.Result)
	} else {
		e.Null()
	}
	e.FieldStart("attempts")
	e.Int(int(c.Attempts)) //nolint: gosec
	if c.LastError != "" {
		e.FieldStart("error")
		e.Str(c.LastError)
	}
	e.FieldStart("createdAt")
	encodeTime(e, c.CreatedAt)
	if !c.UpdatedAt.IsZero() {
		e.FieldStart("updatedAt")
		encodeTime(e, c.UpdatedAt)
	}
	e.ObjEnd()
}

func encodeCalculationList(e *jx.Encoder, items []domain.Calculation, nextCursor string) {
	e.ObjStart()
	e.FieldStart("items")
	e.ArrStart()
	for i := range items {
		encodeCalculation(e, &items[i])
	}
	e.ArrEnd()
	e.FieldStart("nextCursor")
	encodeOptStr(e, nextCursor)
	e.ObjEnd()
}

// MarshalQuantity renders res the way the quantity endpoints do.
func MarshalQuantity(res engine.Result) []byte {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	encodeQuantity(e, res)

	return append([]byte(nil), e.Bytes()...)
}
