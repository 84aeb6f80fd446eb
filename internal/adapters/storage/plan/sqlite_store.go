package plan

import (
	"context"
	"database/sql"
	"fmt"

	"adjja/internal/adapters/storage"
	domain "adjja/internal/domain/plan"
)

const planColumns = "id, name, price_cents, currency, interval, active"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new PlanStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Plan by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Plan, error) {
	query := "SELECT " + planColumns + " FROM plan WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanPlan(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Plan{}, fmt.Errorf("plan not found: %w", err)
	}
	return entity, err
}

// Save persists a Plan to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Plan) error {
	query := `INSERT INTO plan (id, name, price_cents, currency, interval, active)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, price_cents=excluded.price_cents, currency=excluded.currency, interval=excluded.interval, active=excluded.active`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		entity.PriceCents,
		entity.Currency,
		entity.Interval,
		entity.Active,
	)
	return err
}

// Delete removes a Plan from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM plan WHERE id = ?", id)
	return err
}

// List retrieves plans, optionally restricted to active ones.
// PRE: none
// POST: Returns matching entities ordered by price
func (s *SQLiteStore) List(ctx context.Context, activeOnly bool) ([]domain.Plan, error) {
	query := "SELECT " + planColumns + " FROM plan"
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY price_cents ASC"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Plan
	for rows.Next() {
		entity, err := scanPlan(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, nil
}

// Count returns the total number of plans.
// PRE: none
// POST: Returns total plan count
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM plan").Scan(&count)
	return count, err
}

// scanPlan extracts a Plan from a row scanner function.
func scanPlan(scan func(dest ...interface{}) error) (domain.Plan, error) {
	var entity domain.Plan
	err := scan(
		&entity.ID,
		&entity.Name,
		&entity.PriceCents,
		&entity.Currency,
		&entity.Interval,
		&entity.Active,
	)
	if err != nil {
		return domain.Plan{}, err
	}
	return entity, nil
}
