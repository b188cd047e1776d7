package numeric

import (
	"container/heap"
	"errors"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/integrate/quad"
)

// ErrDivergence is returned when quadrature cannot produce a bounded estimate.
var ErrDivergence = errors.New("quadrature did not converge")

// Options controls adaptive quadrature.
type Options struct {
	// AbsTolerance is the absolute error target.
	AbsTolerance float64
	// RelTolerance is the error target relative to the magnitude of the result.
	RelTolerance float64
	// MaxSubdivisions caps the number of interval bisections.
	MaxSubdivisions int
	// DivergenceTolerance is the relative error still accepted once the
	// subdivision budget is exhausted.
	DivergenceTolerance float64
}

// DefaultOptions returns tolerances matching common adaptive integrators.
func DefaultOptions() Options {
	return Options{
		AbsTolerance:        1.49e-8,
		RelTolerance:        1.49e-8,
		MaxSubdivisions:     200,
		DivergenceTolerance: 1e-3,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.AbsTolerance <= 0 {
		o.AbsTolerance = d.AbsTolerance
	}
	if o.RelTolerance <= 0 {
		o.RelTolerance = d.RelTolerance
	}
	if o.MaxSubdivisions <= 0 {
		o.MaxSubdivisions = d.MaxSubdivisions
	}
	if o.DivergenceTolerance <= 0 {
		o.DivergenceTolerance = d.DivergenceTolerance
	}

	return o
}

// Estimate is the outcome of a quadrature.
type Estimate struct {
	Value float64
	// Error is the estimated absolute error of Value.
	Error        float64
	Subdivisions int
	Evaluations  int
}

// Gauss-Legendre rules on [-1, 1]. The difference between the two orders is
// the local error estimate of a panel.
type rule struct{ x, w []float64 }

func legendre(n int) rule {
	r := rule{x: make([]float64, n), w: make([]float64, n)}
	quad.Legendre{}.FixedLocations(r.x, r.w, -1, 1)

	return r
}

var (
	coarseRule = sync.OnceValue(func() rule { return legendre(10) }) //nolint: gochecknoglobals
	fineRule   = sync.OnceValue(func() rule { return legendre(21) }) //nolint: gochecknoglobals
)

func (r rule) apply(f Func, a, b float64) float64 {
	c, h := (a+b)/2, (b-a)/2

	var s float64
	for i, x := range r.x {
		s += r.w[i] * f(c+h*x)
	}

	return s * h
}

type panel struct {
	a, b  float64
	value float64
	err   float64
}

func newPanel(f Func, a, b float64) panel {
	fine := fineRule().apply(f, a, b)
	coarse := coarseRule().apply(f, a, b)

	return panel{a: a, b: b, value: fine, err: math.Abs(fine - coarse)}
}

const evalsPerPanel = 31

// panels is a max-heap on the error estimate.
type panels []panel

func (p panels) Len() int           { return len(p) }
func (p panels) Less(i, j int) bool { return p[i].err > p[j].err }
func (p panels) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
func (p *panels) Push(x any)        { *p = append(*p, x.(panel)) } //nolint: forcetypeassert

func (p *panels) Pop() any {
	old := *p
	n := len(old)
	x := old[n-1]
	*p = old[:n-1]

	return x
}

// collapsedWidth is the panel width, relative to the interval, below which a
// panel is treated as having shrunk onto a single point.
const collapsedWidth = 0x1p-30

// pointMass splits the totals into the contribution of panels narrower than
// width and the value of the rest.
func (p panels) pointMass(width float64) (float64, float64) {
	var mass, rest float64
	for _, pn := range p {
		if pn.b-pn.a <= width {
			mass += math.Abs(pn.value) + pn.err
		} else {
			rest += pn.value
		}
	}

	return mass, rest
}

func (p panels) totals() (float64, float64) {
	var value, err float64
	for _, pn := range p {
		value += pn.value
		err += pn.err
	}

	return value, err
}

// Quadrature integrates f over [a, b] by adaptive bisection: the panel with
// the largest error estimate is split until the global estimate meets the
// tolerances or the subdivision budget is spent. A budget-exhausted estimate
// is still returned when its error is within DivergenceTolerance relative to
// max(1, |value|); otherwise ErrDivergence is returned. Refinement that has
// collapsed onto a point carrying more than DivergenceTolerance of the result
// is a non-integrable singularity and also yields ErrDivergence.
func Quadrature(f Func, a, b float64, opts Options) (Estimate, error) {
	if a == b {
		return Estimate{}, nil
	}
	if a > b {
		est, err := Quadrature(f, b, a, opts)
		est.Value = -est.Value

		return est, err
	}
	opts = opts.withDefaults()

	h := &panels{newPanel(f, a, b)}
	est := Estimate{Evaluations: evalsPerPanel}
	for {
		est.Value, est.Error = h.totals()
		if !IsFinite(est.Value) || !IsFinite(est.Error) {
			return est, fmt.Errorf("%w: non-finite estimate %v", ErrDivergence, est.Value)
		}
		if est.Error <= math.Max(opts.AbsTolerance, opts.RelTolerance*math.Abs(est.Value)) {
			return est, nil
		}
		if est.Subdivisions >= opts.MaxSubdivisions {
			break
		}

		worst := heap.Pop(h).(panel) //nolint: forcetypeassert
		mid := worst.a + (worst.b-worst.a)/2
		if mid <= worst.a || mid >= worst.b {
			// no room left to bisect in float64
			heap.Push(h, worst)

			break
		}
		heap.Push(h, newPanel(f, worst.a, mid))
		heap.Push(h, newPanel(f, mid, worst.b))
		est.Subdivisions++
		est.Evaluations += 2 * evalsPerPanel
	}

	est.Value, est.Error = h.totals()
	mass, rest := h.pointMass((b - a) * collapsedWidth)
	if mass > opts.DivergenceTolerance*math.Max(1, math.Abs(rest)) {
		return est, fmt.Errorf("%w: singular contribution %g after %d subdivisions",
			ErrDivergence, mass, est.Subdivisions)
	}
	if est.Error <= opts.DivergenceTolerance*math.Max(1, math.Abs(est.Value)) {
		return est, nil
	}

	return est, fmt.Errorf("%w: error estimate %g after %d subdivisions",
		ErrDivergence, est.Error, est.Subdivisions)
}
