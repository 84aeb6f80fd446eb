package enrollment

import (
	"context"

	domain "adjja/internal/domain/enrollment"
)

// Store persists Enrollment state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Enrollment, error)
	Save(ctx context.Context, value domain.Enrollment) error
	Delete(ctx context.Context, id string) error
	ListByStudent(ctx context.Context, studentID string) ([]domain.Enrollment, error)
	ListByClass(ctx context.Context, classID string) ([]domain.Enrollment, error)
	CountByClass(ctx context.Context, classID string) (int, error)
}
