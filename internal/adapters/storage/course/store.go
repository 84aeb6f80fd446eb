package course

import (
	"context"

	domain "adjja/internal/domain/course"
)

// Store persists Course state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Course, error)
	Save(ctx context.Context, value domain.Course) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, publishedOnly bool) ([]domain.Course, error)
	Count(ctx context.Context) (int, error)
}

// VideoStore persists the videos within a course.
type VideoStore interface {
	GetVideoByID(ctx context.Context, id string) (domain.Video, error)
	SaveVideo(ctx context.Context, value domain.Video) error
	DeleteVideo(ctx context.Context, id string) error
	ListVideosByCourse(ctx context.Context, courseID string) ([]domain.Video, error)
}
