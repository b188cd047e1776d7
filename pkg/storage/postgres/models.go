package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"calculus/pkg/domain"

	"github.com/google/uuid"
)

// PgCalculation is a row of the calculations table.
type PgCalculation struct {
	ID     uuid.UUID `db:"id"      goqu:"skipinsert"`
	UserID uuid.UUID `db:"user_id"`

	RequestKey string  `db:"request_key"`
	Quantity   string  `db:"quantity"`
	Expression string  `db:"expression"`
	LowerBound float64 `db:"lower_bound"`
	UpperBound float64 `db:"upper_bound"`
	Axis       string  `db:"axis"`

	Status string `db:"status"`
	// Result is NULL until the calculation completes.
	Result []byte `db:"result" goqu:"skipinsert"`

	Attempts  uint           `db:"attempts"   goqu:"skipinsert"`
	LastError sql.NullString `db:"last_error"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
	DeletedAt sql.NullTime `db:"deleted_at" goqu:"skipinsert"`
}

func (p *PgCalculation) ToDomain() (*domain.Calculation, error) {
	var result *domain.CalculationResult
	if len(p.Result) > 0 && string(p.Result) != "null" {
		result = &domain.CalculationResult{}
		if err := json.Unmarshal(p.Result, result); err != nil {
			return nil, fmt.Errorf("could not unmarshal calculation result: %w", err)
		}
	}

	return &domain.Calculation{
		ID:     domain.CalculationID(p.ID),
		UserID: domain.UserID(p.UserID),
		Request: domain.CalculationRequest{
			Quantity:   p.Quantity,
			Expression: p.Expression,
			LowerBound: p.LowerBound,
			UpperBound: p.UpperBound,
			Axis:       p.Axis,
		},
		Status:    domain.CalculationStatus(p.Status),
		Result:    result,
		Attempts:  p.Attempts,
		LastError: p.LastError.String,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt.Time,
		DeletedAt: p.DeletedAt.Time,
	}, nil
}

func (p *PgCalculation) FromDomain(c domain.Calculation) error {
	var result []byte
	if c.Result != nil {
		b, err := json.Marshal(c.Result)
		if err != nil {
			return fmt.Errorf("could not marshal calculation result: %w", err)
		}
		result = b
	}

	*p = PgCalculation{
		ID:         uuid.UUID(c.ID),
		UserID:     uuid.UUID(c.UserID),
		RequestKey: c.Request.Key(),
		Quantity:   c.Request.Quantity,
		Expression: c.Request.Expression,
		LowerBound: c.Request.LowerBound,
		UpperBound: c.Request.UpperBound,
		Axis:       c.Request.Axis,
		Status:     string(c.Status),
		Result:     result,
		Attempts:   c.Attempts,
		LastError:  sql.NullString{String: c.LastError, Valid: c.LastError != ""},
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  sql.NullTime{Time: c.UpdatedAt, Valid: !c.UpdatedAt.IsZero()},
		DeletedAt:  sql.NullTime{Time: c.DeletedAt, Valid: !c.DeletedAt.IsZero()},
	}

	return nil
}

func domainCalculationsToPg(calculations []domain.Calculation) ([]PgCalculation, error) {
	out := make([]PgCalculation, len(calculations))
	for i := range out {
		if err := out[i].FromDomain(calculations[i]); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func pgCalculationsToDomain(rows []PgCalculation) ([]domain.Calculation, error) {
	out := make([]domain.Calculation, 0, len(rows))
	for _, row := range rows {
		d, err := row.ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}

	return out, nil
}
