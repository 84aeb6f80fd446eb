package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"adjja/internal/application/wizards"
	"adjja/internal/domain/academyclass"

	"github.com/google/uuid"
)

// ClassStoreForCreate defines the store interface needed by CreateClass.
type ClassStoreForCreate interface {
	Save(ctx context.Context, c academyclass.Class) error
}

// CreateClassDeps holds dependencies for CreateClass.
type CreateClassDeps struct {
	ClassStore ClassStoreForCreate
}

// ExecuteCreateClass coordinates the class wizard submission.
// PRE: sub was built by wizards.BuildClassSubmission, so Duration matches
// the parsed schedule
// POST: Class created with a generated ID
func ExecuteCreateClass(ctx context.Context, sub wizards.ClassSubmission, deps CreateClassDeps) (string, error) {
	c := academyclass.Class{
		ID:         uuid.New().String(),
		Name:       sub.Name,
		CoachID:    sub.CoachID,
		Instructor: sub.Instructor,
		Schedule:   sub.Schedule,
		Level:      sub.Level,
		Capacity:   sub.Capacity,
		Duration:   sub.Duration,
	}
	if err := c.Validate(); err != nil {
		return "", err
	}
	if err := deps.ClassStore.Save(ctx, c); err != nil {
		return "", fmt.Errorf("save class: %w", err)
	}

	slog.Info("wizard_event", "event", "class_created", "class_id", c.ID, "name", c.Name, "duration_minutes", c.Duration)

	return c.ID, nil
}
