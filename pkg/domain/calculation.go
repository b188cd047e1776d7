package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CalculationID identifies a stored calculation.
type CalculationID uuid.UUID

func (c CalculationID) String() string { return uuid.UUID(c).String() }

// CalculationStatus is the lifecycle state of a calculation.
type CalculationStatus string

const (
	// CalculationStatusPending means a job has been enqueued and has not finished.
	CalculationStatusPending CalculationStatus = "PENDING"
	// CalculationStatusCompleted means Result is set.
	CalculationStatusCompleted CalculationStatus = "COMPLETED"
	// CalculationStatusFailed means the request could not be computed; see LastError.
	CalculationStatusFailed CalculationStatus = "FAILED"
)

// CalculationRequest is what the caller asked for. Expression holds the
// canonical rendering of the parsed expression once the request is accepted.
type CalculationRequest struct {
	Quantity   string  `json:"quantity"`
	Expression string  `json:"expression"`
	LowerBound float64 `json:"lowerBound"`
	UpperBound float64 `json:"upperBound"`
	// Axis is empty for quantities that are not solids or surfaces of revolution.
	Axis string `json:"axis,omitempty"`
}

// Key identifies requests that necessarily produce the same result. Two
// requests with the same key share one background job.
func (r CalculationRequest) Key() string {
	return strings.Join([]string{
		r.Quantity,
		r.Expression,
		strconv.FormatFloat(r.LowerBound, 'g', -1, 64),
		strconv.FormatFloat(r.UpperBound, 'g', -1, 64),
		r.Axis,
	}, "|")
}

// CalculationResult is the reconciled value of a completed calculation.
type CalculationResult struct {
	Value          float64  `json:"value"`
	ChosenSource   string   `json:"chosenSource"`
	SymbolicValue  *float64 `json:"symbolicValue"`
	NumericalValue float64  `json:"numericalValue"`
	ErrorEstimate  *float64 `json:"errorEstimate"`
	Disagreement   *float64 `json:"disagreement,omitempty"`
	// SymbolicOutcome is closed_form, no_closed_form or non_finite.
	SymbolicOutcome string `json:"symbolicOutcome"`
	Integrand       string `json:"integrand,omitempty"`
	Antiderivative  string `json:"antiderivative,omitempty"`
	Exact           string `json:"exact,omitempty"`
	Subdivisions    int    `json:"subdivisions"`
}

// Calculation is a request submitted for background computation together with
// its current state.
type Calculation struct {
	ID     CalculationID `json:"id"`
	UserID UserID        `json:"userId"`

	Request CalculationRequest `json:"request"`
	Status  CalculationStatus  `json:"status"`
	// Result is nil until Status is completed.
	Result *CalculationResult `json:"result,omitempty"`

	Attempts  uint   `json:"attempts"`
	LastError string `json:"error,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	DeletedAt time.Time `json:"-"`
}
