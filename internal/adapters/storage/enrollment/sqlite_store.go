package enrollment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"adjja/internal/adapters/storage"
	domain "adjja/internal/domain/enrollment"
)

const enrollmentColumns = "id, student_id, class_id, enrolled_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new EnrollmentStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Enrollment by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Enrollment, error) {
	query := "SELECT " + enrollmentColumns + " FROM enrollment WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanEnrollment(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Enrollment{}, fmt.Errorf("enrollment not found: %w", err)
	}
	return entity, err
}

// Save persists an Enrollment to the database.
// The (student_id, class_id) pair is unique, so saving the same pair
// twice under different IDs fails.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Enrollment) error {
	query := `INSERT INTO enrollment (id, student_id, class_id, enrolled_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET student_id=excluded.student_id, class_id=excluded.class_id, enrolled_at=excluded.enrolled_at`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.StudentID,
		entity.ClassID,
		entity.EnrolledAt.Format(time.RFC3339Nano),
	)
	return err
}

// Delete removes an Enrollment from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM enrollment WHERE id = ?", id)
	return err
}

// ListByStudent retrieves all enrollments for a student.
// PRE: studentID is non-empty
// POST: Returns matching entities ordered by enrollment time
func (s *SQLiteStore) ListByStudent(ctx context.Context, studentID string) ([]domain.Enrollment, error) {
	query := "SELECT " + enrollmentColumns + " FROM enrollment WHERE student_id = ? ORDER BY enrolled_at ASC"
	return s.listBy(ctx, query, studentID)
}

// ListByClass retrieves all enrollments for a class.
// PRE: classID is non-empty
// POST: Returns matching entities ordered by enrollment time
func (s *SQLiteStore) ListByClass(ctx context.Context, classID string) ([]domain.Enrollment, error) {
	query := "SELECT " + enrollmentColumns + " FROM enrollment WHERE class_id = ? ORDER BY enrolled_at ASC"
	return s.listBy(ctx, query, classID)
}

// CountByClass returns the number of students enrolled in a class.
// PRE: classID is non-empty
// POST: Returns count >= 0
func (s *SQLiteStore) CountByClass(ctx context.Context, classID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM enrollment WHERE class_id = ?", classID).Scan(&count)
	return count, err
}

func (s *SQLiteStore) listBy(ctx context.Context, query string, arg string) ([]domain.Enrollment, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Enrollment
	for rows.Next() {
		entity, err := scanEnrollment(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, nil
}

// scanEnrollment extracts an Enrollment from a row scanner function.
func scanEnrollment(scan func(dest ...interface{}) error) (domain.Enrollment, error) {
	var entity domain.Enrollment
	var enrolledAt string
	err := scan(
		&entity.ID,
		&entity.StudentID,
		&entity.ClassID,
		&enrolledAt,
	)
	if err != nil {
		return domain.Enrollment{}, err
	}
	entity.EnrolledAt, _ = parseTime(enrolledAt)
	return entity, nil
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
