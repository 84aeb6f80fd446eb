package coach

import (
	"context"

	domain "adjja/internal/domain/coach"
)

// Store persists Coach state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Coach, error)
	GetByEmail(ctx context.Context, email string) (domain.Coach, error)
	GetByAccountID(ctx context.Context, accountID string) (domain.Coach, error)
	Save(ctx context.Context, value domain.Coach) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Coach, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List/Count operations.
type ListFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}
