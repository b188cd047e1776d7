package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"calculus/pkg/domain"
	"calculus/pkg/storage"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
)

const calculationsTable = "calculations"

func (p *PgSQL) StoreCalculations(ctx context.Context,
	calculations ...domain.Calculation) ([]domain.Calculation, error) {
	if len(calculations) == 0 {
		return nil, nil
	}

	rows, err := domainCalculationsToPg(calculations)
	if err != nil {
		return nil, err
	}

	var stored []PgCalculation
	if err := p.Builder.Insert(calculationsTable).
		Rows(rows).
		Returning(&PgCalculation{}).
		Executor().ScanStructsContext(ctx, &stored); err != nil {
		return nil, fmt.Errorf("could not store calculations into pg: %w", err)
	}

	return pgCalculationsToDomain(stored)
}

// updateRecord renders updates as a SET clause. A failed status guarded by
// MaxAttempts keeps the current status until the last attempt.
func updateRecord(updates storage.CalculationUpdates) (goqu.Record, error) {
	rec := goqu.Record{
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
		"attempts":   goqu.L("attempts + 1"),
	}

	switch {
	case updates.Status == "":
	case updates.Status == domain.CalculationStatusFailed && updates.MaxAttempts > 0:
		rec["status"] = goqu.L("CASE WHEN attempts + 1 >= ? THEN ? ELSE status END",
			updates.MaxAttempts, string(updates.Status))
	default:
		rec["status"] = string(updates.Status)
	}

	if updates.Result != nil {
		b, err := json.Marshal(updates.Result)
		if err != nil {
			return nil, fmt.Errorf("could not marshal result: %w", err)
		}
		rec["result"] = string(b)
	}

	if updates.LastError != nil {
		if *updates.LastError == "" {
			rec["last_error"] = goqu.L("NULL")
		} else {
			rec["last_error"] = *updates.LastError
		}
	}

	return rec, nil
}

func (p *PgSQL) UpdatePendingCalculationsByKey(ctx context.Context,
	key string,
	updates storage.CalculationUpdates) error {
	rec, err := updateRecord(updates)
	if err != nil {
		return err
	}

	if _, err := p.Builder.Update(calculationsTable).
		Set(rec).
		Where(
			goqu.I("request_key").Eq(key),
			goqu.I("status").Eq(string(domain.CalculationStatusPending)),
			goqu.I("deleted_at").IsNull(),
		).Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("could not update pending calculations by key in pg: %w", err)
	}

	return nil
}

func (p *PgSQL) PendingCalculationCountByKey(ctx context.Context, key string) (int64, error) {
	n, err := p.Builder.From(calculationsTable).
		Where(
			goqu.I("request_key").Eq(key),
			goqu.I("status").Eq(string(domain.CalculationStatusPending)),
			goqu.I("deleted_at").IsNull(),
		).CountContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not count pending calculations in pg: %w", err)
	}

	return n, nil
}

func (p *PgSQL) UpdateCalculationByID(ctx context.Context,
	id domain.CalculationID,
	updates storage.CalculationUpdates) (*domain.Calculation, error) {
	rec, err := updateRecord(updates)
	if err != nil {
		return nil, err
	}

	var row PgCalculation
	found, err := p.Builder.Update(calculationsTable).
		Set(rec).
		Where(
			goqu.I("id").Eq(uuid.UUID(id)),
			goqu.I("deleted_at").IsNull(),
		).
		Returning(&PgCalculation{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update calculation in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

func (p *PgSQL) DeleteCalculation(ctx context.Context,
	userID domain.UserID,
	id domain.CalculationID) (*domain.Calculation, error) {
	var row PgCalculation
	found, err := p.Builder.Update(calculationsTable).
		Set(goqu.Record{"deleted_at": goqu.L("CURRENT_TIMESTAMP")}).
		Where(
			goqu.I("id").Eq(uuid.UUID(id)),
			goqu.I("user_id").Eq(uuid.UUID(userID)),
			goqu.I("deleted_at").IsNull(),
		).
		Returning(&PgCalculation{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not delete calculation in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

func (p *PgSQL) UserCalculations(ctx context.Context,
	userID domain.UserID,
	status domain.CalculationStatus,
	cursor storage.CalculationCursor,
	limit uint) (storage.UserCalculations, error) {
	where := []exp.Expression{
		goqu.I("user_id").Eq(uuid.UUID(userID)),
		goqu.I("deleted_at").IsNull(),
	}
	if status != "" {
		where = append(where, goqu.I("status").Eq(string(status)))
	}
	if !cursor.IsZero() {
		where = append(where, goqu.L("(created_at, id) < (?, ?)", cursor.CreatedAt, uuid.UUID(cursor.ID)))
	}

	// one extra row tells whether another page exists
	var rows []PgCalculation
	if err := p.Builder.From(calculationsTable).
		Where(where...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(limit+1).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return storage.UserCalculations{}, fmt.Errorf("could not fetch user calculations from pg: %w", err)
	}

	var next *storage.CalculationCursor
	if uint(len(rows)) > limit {
		rows = rows[:limit]
		if limit > 0 {
			last := rows[len(rows)-1]
			next = &storage.CalculationCursor{CreatedAt: last.CreatedAt, ID: domain.CalculationID(last.ID)}
		}
	}

	calculations, err := pgCalculationsToDomain(rows)
	if err != nil {
		return storage.UserCalculations{}, err
	}

	return storage.UserCalculations{Calculations: calculations, NextCursor: next}, nil
}

func (p *PgSQL) CalculationByID(ctx context.Context,
	userID domain.UserID,
	id domain.CalculationID) (*domain.Calculation, error) {
	var row PgCalculation
	found, err := p.Builder.From(calculationsTable).
		Where(
			goqu.I("id").Eq(uuid.UUID(id)),
			goqu.I("user_id").Eq(uuid.UUID(userID)),
			goqu.I("deleted_at").IsNull(),
		).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch calculation by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

func (p *PgSQL) LastCompletedCalculationByKey(ctx context.Context, key string) (*domain.Calculation, error) {
	var row PgCalculation
	found, err := p.Builder.From(calculationsTable).
		Where(
			goqu.I("request_key").Eq(key),
			goqu.I("status").Eq(string(domain.CalculationStatusCompleted)),
			goqu.I("deleted_at").IsNull(),
		).
		Order(goqu.I("updated_at").Desc().NullsLast(), goqu.I("created_at").Desc()).
		Limit(1).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch last completed calculation: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}
