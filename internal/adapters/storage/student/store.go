package student

import (
	"context"

	domain "adjja/internal/domain/student"
)

// Store persists Student state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Student, error)
	GetByEmail(ctx context.Context, email string) (domain.Student, error)
	GetByAccountID(ctx context.Context, accountID string) (domain.Student, error)
	Save(ctx context.Context, value domain.Student) error
	Delete(ctx context.Context, id string) error
	SearchByName(ctx context.Context, query string, limit int) ([]domain.Student, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Student, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List/Count operations.
type ListFilter struct {
	Belt   string
	Status string
	Search string
	Sort   string
	Dir    string
	Limit  int
	Offset int
}
