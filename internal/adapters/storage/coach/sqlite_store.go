package coach

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"adjja/internal/adapters/storage"
	domain "adjja/internal/domain/coach"
)

const coachColumns = "id, account_id, email, phone, name, belt, specialties, status"

// specialtySep joins specialties into a single column. Newline cannot
// appear in a specialty name, so the round trip is unambiguous.
const specialtySep = "\n"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new CoachStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Coach by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Coach, error) {
	query := "SELECT " + coachColumns + " FROM coach WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanCoach(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Coach{}, fmt.Errorf("coach not found: %w", err)
	}
	return entity, err
}

// GetByEmail retrieves a Coach by email. The lookup is case-insensitive.
// PRE: email is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Coach, error) {
	query := "SELECT " + coachColumns + " FROM coach WHERE email = ? COLLATE NOCASE"
	row := s.db.QueryRowContext(ctx, query, strings.TrimSpace(email))

	entity, err := scanCoach(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Coach{}, fmt.Errorf("coach not found: %w", err)
	}
	return entity, err
}

// GetByAccountID retrieves a Coach by account ID.
// PRE: accountID is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByAccountID(ctx context.Context, accountID string) (domain.Coach, error) {
	query := "SELECT " + coachColumns + " FROM coach WHERE account_id = ?"
	row := s.db.QueryRowContext(ctx, query, accountID)

	entity, err := scanCoach(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Coach{}, fmt.Errorf("coach not found: %w", err)
	}
	return entity, err
}

// Save persists a Coach to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Coach) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	fields := []string{"id", "account_id", "email", "phone", "name", "belt", "specialties", "status"}
	placeholders := []string{"?", "?", "?", "?", "?", "?", "?", "?"}
	updates := []string{
		"account_id=excluded.account_id",
		"email=excluded.email",
		"phone=excluded.phone",
		"name=excluded.name",
		"belt=excluded.belt",
		"specialties=excluded.specialties",
		"status=excluded.status",
	}

	query := fmt.Sprintf(
		"INSERT INTO coach (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	var accountID interface{}
	if entity.AccountID != "" {
		accountID = entity.AccountID
	}

	_, err = tx.ExecContext(ctx, query,
		entity.ID,
		accountID,
		entity.Email,
		entity.Phone,
		entity.Name,
		entity.Belt,
		strings.Join(entity.Specialties, specialtySep),
		entity.Status,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a Coach from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM coach WHERE id = ?", id)
	return err
}

// Count returns the total number of coaches matching the filter.
// PRE: filter has valid parameters
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM coach"+where, args...).Scan(&count)
	return count, err
}

// List retrieves a list of Coaches based on the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities ordered by name
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Coach, error) {
	where, args := listWhereClause(filter)
	query := "SELECT " + coachColumns + " FROM coach" + where + " ORDER BY name ASC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Coach
	for rows.Next() {
		entity, err := scanCoach(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, nil
}

// listWhereClause builds the WHERE clause and args for List/Count queries.
func listWhereClause(filter ListFilter) (string, []any) {
	where := " WHERE 1=1"
	var args []any

	if filter.Status != "" {
		where += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		where += " AND (name LIKE ? OR email LIKE ?)"
		term := "%" + filter.Search + "%"
		args = append(args, term, term)
	}
	return where, args
}

// scanCoach extracts a Coach from a row scanner function.
func scanCoach(scan func(dest ...interface{}) error) (domain.Coach, error) {
	var entity domain.Coach
	var accountID sql.NullString
	var specialties string
	err := scan(
		&entity.ID,
		&accountID,
		&entity.Email,
		&entity.Phone,
		&entity.Name,
		&entity.Belt,
		&specialties,
		&entity.Status,
	)
	if err != nil {
		return domain.Coach{}, err
	}
	if accountID.Valid {
		entity.AccountID = accountID.String
	}
	if specialties != "" {
		entity.Specialties = strings.Split(specialties, specialtySep)
	}
	return entity, nil
}
