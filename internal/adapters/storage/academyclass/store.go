package academyclass

import (
	"context"

	domain "adjja/internal/domain/academyclass"
)

// Store persists Class state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Class, error)
	Save(ctx context.Context, value domain.Class) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Class, error)
	ListByCoach(ctx context.Context, coachID string) ([]domain.Class, error)
	Count(ctx context.Context) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Level  string
	Search string
	Limit  int
	Offset int
}
