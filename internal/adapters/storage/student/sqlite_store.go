package student

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"adjja/internal/adapters/storage"
	domain "adjja/internal/domain/student"
)

const studentColumns = "id, account_id, email, phone, name, belt, stripes, plan_id, status"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new StudentStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Student by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Student, error) {
	query := "SELECT " + studentColumns + " FROM student WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanStudent(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Student{}, fmt.Errorf("student not found: %w", err)
	}
	return entity, err
}

// GetByEmail retrieves a Student by email. The lookup is case-insensitive.
// PRE: email is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Student, error) {
	query := "SELECT " + studentColumns + " FROM student WHERE email = ? COLLATE NOCASE"
	row := s.db.QueryRowContext(ctx, query, strings.TrimSpace(email))

	entity, err := scanStudent(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Student{}, fmt.Errorf("student not found: %w", err)
	}
	return entity, err
}

// GetByAccountID retrieves a Student by account ID.
// PRE: accountID is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByAccountID(ctx context.Context, accountID string) (domain.Student, error) {
	query := "SELECT " + studentColumns + " FROM student WHERE account_id = ?"
	row := s.db.QueryRowContext(ctx, query, accountID)

	entity, err := scanStudent(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Student{}, fmt.Errorf("student not found: %w", err)
	}
	return entity, err
}

// Save persists a Student to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Student) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	fields := []string{"id", "account_id", "email", "phone", "name", "belt", "stripes", "plan_id", "status"}
	placeholders := []string{"?", "?", "?", "?", "?", "?", "?", "?", "?"}
	updates := []string{
		"account_id=excluded.account_id",
		"email=excluded.email",
		"phone=excluded.phone",
		"name=excluded.name",
		"belt=excluded.belt",
		"stripes=excluded.stripes",
		"plan_id=excluded.plan_id",
		"status=excluded.status",
	}

	query := fmt.Sprintf(
		"INSERT INTO student (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	var accountID interface{}
	if entity.AccountID != "" {
		accountID = entity.AccountID
	}
	var planID interface{}
	if entity.PlanID != "" {
		planID = entity.PlanID
	}

	_, err = tx.ExecContext(ctx, query,
		entity.ID,
		accountID,
		entity.Email,
		entity.Phone,
		entity.Name,
		entity.Belt,
		entity.Stripes,
		planID,
		entity.Status,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a Student from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM student WHERE id = ?", id)
	return err
}

// SearchByName finds students whose name matches the query (case-insensitive LIKE).
// PRE: query is non-empty, limit > 0
// POST: Returns matching students ordered by name
func (s *SQLiteStore) SearchByName(ctx context.Context, query string, limit int) ([]domain.Student, error) {
	q := "SELECT " + studentColumns + " FROM student WHERE name LIKE ? AND status != 'archived' ORDER BY name LIMIT ?"
	rows, err := s.db.QueryContext(ctx, q, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Student
	for rows.Next() {
		entity, err := scanStudent(rows.Scan)
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

	if filter.Belt != "" {
		where += " AND belt = ?"
		args = append(args, filter.Belt)
	}
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

// sortClause returns a safe ORDER BY clause. Only allowed columns are accepted.
func sortClause(filter ListFilter) string {
	allowed := map[string]string{
		"name": "name", "email": "email",
		"belt": "belt", "status": "status",
	}
	col, ok := allowed[filter.Sort]
	if !ok {
		return " ORDER BY name ASC"
	}
	dir := "ASC"
	if filter.Dir == "desc" {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir
}

// Count returns the total number of students matching the filter.
// PRE: filter has valid parameters
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhereClause(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM student"+where, args...).Scan(&count)
	return count, err
}

// List retrieves a list of Students based on the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Student, error) {
	where, args := listWhereClause(filter)
	query := "SELECT " + studentColumns + " FROM student" + where
	query += sortClause(filter)

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

	var results []domain.Student
	for rows.Next() {
		entity, err := scanStudent(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, nil
}

// scanStudent extracts a Student from a row scanner function.
func scanStudent(scan func(dest ...interface{}) error) (domain.Student, error) {
	var entity domain.Student
	var accountID, planID sql.NullString
	err := scan(
		&entity.ID,
		&accountID,
		&entity.Email,
		&entity.Phone,
		&entity.Name,
		&entity.Belt,
		&entity.Stripes,
		&planID,
		&entity.Status,
	)
	if err != nil {
		return domain.Student{}, err
	}
	if accountID.Valid {
		entity.AccountID = accountID.String
	}
	if planID.Valid {
		entity.PlanID = planID.String
	}
	return entity, nil
}
