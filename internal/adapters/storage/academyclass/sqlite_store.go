package academyclass

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"adjja/internal/adapters/storage"
	domain "adjja/internal/domain/academyclass"
)

const classColumns = "id, name, coach_id, instructor, schedule, level, capacity, duration"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ClassStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Class by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Class, error) {
	query := "SELECT " + classColumns + " FROM class WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanClass(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Class{}, fmt.Errorf("class not found: %w", err)
	}
	return entity, err
}

// Save persists a Class to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Class) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	fields := []string{"id", "name", "coach_id", "instructor", "schedule", "level", "capacity", "duration"}
	placeholders := []string{"?", "?", "?", "?", "?", "?", "?", "?"}
	updates := []string{
		"name=excluded.name",
		"coach_id=excluded.coach_id",
		"instructor=excluded.instructor",
		"schedule=excluded.schedule",
		"level=excluded.level",
		"capacity=excluded.capacity",
		"duration=excluded.duration",
	}

	query := fmt.Sprintf(
		"INSERT INTO class (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)

	var coachID interface{}
	if entity.CoachID != "" {
		coachID = entity.CoachID
	}

	_, err = tx.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		coachID,
		entity.Instructor,
		entity.Schedule,
		entity.Level,
		entity.Capacity,
		entity.Duration,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a Class from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM class WHERE id = ?", id)
	return err
}

// List retrieves Classes based on the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities ordered by name
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Class, error) {
	var queryBuilder strings.Builder
	var args []interface{}

	queryBuilder.WriteString("SELECT " + classColumns + " FROM class WHERE 1=1")

	if filter.Level != "" {
		queryBuilder.WriteString(" AND level = ?")
		args = append(args, filter.Level)
	}
	if filter.Search != "" {
		queryBuilder.WriteString(" AND (name LIKE ? OR instructor LIKE ?)")
		term := "%" + filter.Search + "%"
		args = append(args, term, term)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	queryBuilder.WriteString(" ORDER BY name ASC LIMIT ? OFFSET ?")
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectClasses(rows)
}

// ListByCoach retrieves all classes assigned to a coach.
// PRE: coachID is non-empty
// POST: Returns matching entities ordered by name
func (s *SQLiteStore) ListByCoach(ctx context.Context, coachID string) ([]domain.Class, error) {
	query := "SELECT " + classColumns + " FROM class WHERE coach_id = ? ORDER BY name ASC"
	rows, err := s.db.QueryContext(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectClasses(rows)
}

// Count returns the total number of classes.
// PRE: none
// POST: Returns total class count
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM class").Scan(&count)
	return count, err
}

func collectClasses(rows *sql.Rows) ([]domain.Class, error) {
	var results []domain.Class
	for rows.Next() {
		entity, err := scanClass(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, nil
}

// scanClass extracts a Class from a row scanner function.
func scanClass(scan func(dest ...interface{}) error) (domain.Class, error) {
	var entity domain.Class
	var coachID sql.NullString
	err := scan(
		&entity.ID,
		&entity.Name,
		&coachID,
		&entity.Instructor,
		&entity.Schedule,
		&entity.Level,
		&entity.Capacity,
		&entity.Duration,
	)
	if err != nil {
		return domain.Class{}, err
	}
	if coachID.Valid {
		entity.CoachID = coachID.String
	}
	return entity, nil
}
