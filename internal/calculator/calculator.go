// Package calculator is the service layer in front of the integration
// engine. It bounds every computation by a deadline, translates engine
// failures into semantic errors, records metrics and manages calculations
// that are computed by the background worker.
package calculator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"calculus/internal/config"
	"calculus/pkg/engine"
	"calculus/pkg/logger"
	"calculus/pkg/metrics"
	"calculus/pkg/numeric"
	"calculus/pkg/serrors"
	"calculus/pkg/storage"

	"go.uber.org/zap"
)

// Options configure the calculator.
type Options struct {
	Engine engine.Options
	// ComputeTimeout bounds each engine call. Zero means only the caller's
	// context applies.
	ComputeTimeout time.Duration
	// MaxAttempts is the retry budget of a background job.
	MaxAttempts int
	// ResultCacheTTL is how long a completed result is reused for new
	// identical requests.
	ResultCacheTTL time.Duration
}

// NewOptions derives Options from the application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Engine: engine.Options{
			DisagreementThreshold: cfg.Engine.DisagreementThreshold,
			Quadrature: numeric.Options{
				AbsTolerance:        cfg.Engine.AbsTolerance,
				RelTolerance:        cfg.Engine.RelTolerance,
				MaxSubdivisions:     cfg.Engine.MaxSubdivisions,
				DivergenceTolerance: cfg.Engine.DivergenceTolerance,
			},
			MaxSamples: cfg.Engine.MaxSamples,
		},
		ComputeTimeout: cfg.Calculator.ComputeTimeout,
		MaxAttempts:    cfg.Calculator.MaxAttempts,
		ResultCacheTTL: cfg.Calculator.ResultCacheTTL,
	}
}

type calculator struct {
	options Options
	engine  *engine.Engine
	// storage is nil when the calculator only serves synchronous requests.
	storage storage.Storage
}

// New returns a Calculator. A nil storage disables the background
// calculation methods, which then fail with serrors.ErrUnavailable.
func New(storage storage.Storage, options Options) Calculator {
	return &calculator{
		options: options,
		engine:  engine.New(options.Engine),
		storage: storage,
	}
}

// run executes fn in its own goroutine and gives up when ctx ends or the
// compute timeout elapses. The goroutine is left to finish on its own; the
// engine bounds its work by the subdivision and sample limits.
func run[T any](ctx context.Context, timeout time.Duration, fn func() (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var zero T
	if err := ctx.Err(); err != nil {
		return zero, serrors.Wrap(serrors.ErrTimeout, err, "computation timed out")
	}

	type outcome struct {
		v   T
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := fn()
		done <- outcome{v: v, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			return o.v, translate(o.err)
		}

		return o.v, nil
	case <-ctx.Done():
		return zero, serrors.Wrap(serrors.ErrTimeout, ctx.Err(), "computation timed out")
	}
}

// translate maps engine failures onto serrors kinds.
func translate(err error) error {
	var kind serrors.Kind
	switch {
	case errors.Is(err, engine.ErrQuadratureDivergence):
		kind = serrors.ErrUnprocessable
	case errors.Is(err, engine.ErrParse),
		errors.Is(err, engine.ErrInvalidInterval),
		errors.Is(err, engine.ErrDegenerateInterval),
		errors.Is(err, engine.ErrInvalidAxis),
		errors.Is(err, engine.ErrInvalidQuantity),
		errors.Is(err, engine.ErrInvalidCount):
		kind = serrors.ErrBadRequest
	default:
		return fmt.Errorf("could not compute: %w", err)
	}

	return serrors.Mark(kind, err)
}

// IsPermanent reports whether retrying err cannot succeed.
func IsPermanent(err error) bool {
	return errors.Is(err, serrors.ErrBadRequest) || errors.Is(err, serrors.ErrUnprocessable)
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}

	return serrors.KindOf(err).Error()
}

func quantityLabel(q engine.Quantity) string {
	if _, err := engine.ParseQuantity(string(q)); err != nil {
		return "unknown"
	}

	return string(q)
}

func (c *calculator) Compute(ctx context.Context, q engine.Quantity, req engine.Request) (engine.Result, error) {
	label := quantityLabel(q)
	start := time.Now()
	res, err := run(ctx, c.options.ComputeTimeout, func() (engine.Result, error) {
		return c.engine.Compute(q, req)
	})
	metrics.ComputeDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	metrics.Computations.WithLabelValues(label, resultLabel(err)).Inc()
	if err != nil {
		logger.Debug(ctx, "computation failed",
			zap.String("quantity", string(q)),
			zap.String("expression", req.Expression),
			zap.Error(err))

		return engine.Result{}, err
	}

	in := res.Integration
	metrics.ChosenSource.WithLabelValues(string(in.ChosenSource)).Inc()
	metrics.SymbolicOutcome.WithLabelValues(string(in.Symbolic)).Inc()
	metrics.Subdivisions.Observe(float64(in.Subdivisions))
	logger.Debug(ctx, "computed",
		zap.String("quantity", string(q)),
		zap.String("expression", req.Expression),
		zap.Float64("value", res.Value),
		zap.String("source", string(in.ChosenSource)),
		zap.Duration("took", time.Since(start)))

	return res, nil
}

func (c *calculator) Indefinite(ctx context.Context, expression string) (engine.Indefinite, error) {
	return run(ctx, c.options.ComputeTimeout, func() (engine.Indefinite, error) {
		return c.engine.Indefinite(expression)
	})
}

func (c *calculator) Steps(ctx context.Context, expression string) ([]engine.Step, error) {
	return run(ctx, c.options.ComputeTimeout, func() ([]engine.Step, error) {
		return c.engine.Steps(expression)
	})
}

func (c *calculator) Validate(ctx context.Context, expression string) (engine.Validation, error) {
	return run(ctx, c.options.ComputeTimeout, func() (engine.Validation, error) {
		return c.engine.Validate(expression), nil
	})
}

func (c *calculator) Compare(ctx context.Context,
	expression string,
	iv engine.Interval,
	panels int) (engine.Comparison, error) {
	return run(ctx, c.options.ComputeTimeout, func() (engine.Comparison, error) {
		return c.engine.Compare(expression, iv, panels)
	})
}

func (c *calculator) Samples(ctx context.Context,
	expression string,
	iv engine.Interval,
	points int) (engine.Samples, error) {
	return run(ctx, c.options.ComputeTimeout, func() (engine.Samples, error) {
		return c.engine.Samples(expression, iv, points)
	})
}
