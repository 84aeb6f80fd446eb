package course

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"adjja/internal/adapters/storage"
	domain "adjja/internal/domain/course"
)

const courseColumns = "id, title, description, belt, published, created_by, created_at"
const videoColumns = "id, course_id, title, youtube_url, youtube_id, position"

// SQLiteStore implements Store and VideoStore using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new CourseStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Course by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Course, error) {
	query := "SELECT " + courseColumns + " FROM course WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanCourse(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Course{}, fmt.Errorf("course not found: %w", err)
	}
	return entity, err
}

// Save persists a Course to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Course) error {
	query := `INSERT INTO course (id, title, description, belt, published, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title=excluded.title, description=excluded.description, belt=excluded.belt, published=excluded.published`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Title,
		entity.Description,
		entity.Belt,
		entity.Published,
		entity.CreatedBy,
		entity.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// Delete removes a Course and its videos from the database.
// PRE: id is non-empty
// POST: Entity and all its videos are removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM course_video WHERE course_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM course WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// List retrieves courses, optionally restricted to published ones.
// PRE: none
// POST: Returns matching entities newest first
func (s *SQLiteStore) List(ctx context.Context, publishedOnly bool) ([]domain.Course, error) {
	query := "SELECT " + courseColumns + " FROM course"
	if publishedOnly {
		query += " WHERE published = 1"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Course
	for rows.Next() {
		entity, err := scanCourse(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, nil
}

// Count returns the total number of courses.
// PRE: none
// POST: Returns total course count
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM course").Scan(&count)
	return count, err
}

// GetVideoByID retrieves a Video by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetVideoByID(ctx context.Context, id string) (domain.Video, error) {
	query := "SELECT " + videoColumns + " FROM course_video WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanVideo(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Video{}, fmt.Errorf("video not found: %w", err)
	}
	return entity, err
}

// SaveVideo persists a Video to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) SaveVideo(ctx context.Context, entity domain.Video) error {
	query := `INSERT INTO course_video (id, course_id, title, youtube_url, youtube_id, position)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title=excluded.title, youtube_url=excluded.youtube_url, youtube_id=excluded.youtube_id, position=excluded.position`
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.CourseID,
		entity.Title,
		entity.YouTubeURL,
		entity.YouTubeID,
		entity.Position,
	)
	return err
}

// DeleteVideo removes a Video from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) DeleteVideo(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM course_video WHERE id = ?", id)
	return err
}

// ListVideosByCourse retrieves all videos for a course in position order.
// PRE: courseID is non-empty
// POST: Returns matching entities ordered by position
func (s *SQLiteStore) ListVideosByCourse(ctx context.Context, courseID string) ([]domain.Video, error) {
	query := "SELECT " + videoColumns + " FROM course_video WHERE course_id = ? ORDER BY position ASC"
	rows, err := s.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Video
	for rows.Next() {
		entity, err := scanVideo(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, nil
}

// scanCourse extracts a Course from a row scanner function.
func scanCourse(scan func(dest ...interface{}) error) (domain.Course, error) {
	var entity domain.Course
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.Title,
		&entity.Description,
		&entity.Belt,
		&entity.Published,
		&entity.CreatedBy,
		&createdAt,
	)
	if err != nil {
		return domain.Course{}, err
	}
	entity.CreatedAt, _ = parseTime(createdAt)
	return entity, nil
}

// scanVideo extracts a Video from a row scanner function.
func scanVideo(scan func(dest ...interface{}) error) (domain.Video, error) {
	var entity domain.Video
	err := scan(
		&entity.ID,
		&entity.CourseID,
		&entity.Title,
		&entity.YouTubeURL,
		&entity.YouTubeID,
		&entity.Position,
	)
	if err != nil {
		return domain.Video{}, err
	}
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
