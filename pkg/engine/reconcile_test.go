package engine_test

import (
	"testing"

	"calculus/pkg/engine"
	"calculus/pkg/expr"
	"calculus/pkg/numeric"

	"github.com/stretchr/testify/require"
)

func closedForm(v float64) engine.Symbolic {
	return engine.Symbolic{Outcome: engine.OutcomeClosedForm, Antiderivative: expr.X, Value: v}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name       string
		sym        engine.Symbolic
		numerical  float64
		wantValue  float64
		wantSource engine.Source
	}{
		{
			name:       "no symbolic value",
			sym:        engine.Symbolic{Outcome: engine.OutcomeNoClosedForm},
			numerical:  2.5,
			wantValue:  2.5,
			wantSource: engine.SourceNumerical,
		},
		{
			name:       "non-finite symbolic value",
			sym:        engine.Symbolic{Outcome: engine.OutcomeNonFinite, Antiderivative: expr.X},
			numerical:  -1,
			wantValue:  -1,
			wantSource: engine.SourceNumerical,
		},
		{
			name:       "within threshold",
			sym:        closedForm(1.005),
			numerical:  1,
			wantValue:  1.005,
			wantSource: engine.SourceSymbolic,
		},
		{
			name:       "exactly at threshold",
			sym:        closedForm(101),
			numerical:  100,
			wantValue:  101,
			wantSource: engine.SourceSymbolic,
		},
		{
			name:       "beyond threshold",
			sym:        closedForm(1.02),
			numerical:  1,
			wantValue:  1,
			wantSource: engine.SourceNumerical,
		},
		{
			name:       "zero numerical uses absolute disagreement",
			sym:        closedForm(0.005),
			numerical:  0,
			wantValue:  0.005,
			wantSource: engine.SourceSymbolic,
		},
		{
			name:       "zero numerical beyond threshold",
			sym:        closedForm(0.5),
			numerical:  0,
			wantValue:  0,
			wantSource: engine.SourceNumerical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := engine.Reconcile(tt.sym, numeric.Estimate{Value: tt.numerical, Error: 1e-10}, engine.DefaultThreshold)
			require.Equal(t, tt.wantValue, res.ChosenValue)
			require.Equal(t, tt.wantSource, res.ChosenSource)
			require.Equal(t, tt.numerical, res.NumericalValue)
			require.Equal(t, 1e-10, res.ErrorEstimate)
			require.Equal(t, tt.sym.Outcome, res.Symbolic)

			if tt.sym.HasValue() {
				require.NotNil(t, res.SymbolicValue)
				require.Equal(t, tt.sym.Value, *res.SymbolicValue)
				require.NotNil(t, res.Disagreement)
			} else {
				require.Nil(t, res.SymbolicValue)
				require.Nil(t, res.Disagreement)
			}
		})
	}
}

func TestReconcile_Threshold(t *testing.T) {
	est := numeric.Estimate{Value: 1}

	res := engine.Reconcile(closedForm(1.05), est, 0.1)
	require.Equal(t, engine.SourceSymbolic, res.ChosenSource)

	res = engine.Reconcile(closedForm(1.05), est, 0)
	require.Equal(t, engine.SourceNumerical, res.ChosenSource)
}

func TestDisagreement(t *testing.T) {
	require.InDelta(t, 0.5, engine.Disagreement(3, 2), 1e-15)
	require.Equal(t, 1.5, engine.Disagreement(1, -2))
	require.Equal(t, 0.25, engine.Disagreement(-0.25, 0))
}

func TestOutcome_Err(t *testing.T) {
	require.NoError(t, engine.OutcomeClosedForm.Err())
	require.ErrorIs(t, engine.OutcomeNoClosedForm.Err(), engine.ErrNoClosedForm)
	require.ErrorIs(t, engine.OutcomeNonFinite.Err(), engine.ErrNonFiniteResult)
}
