// Package projections holds read-model queries composed from the narrow
// store interfaces they need. Projections never write.
package projections

import (
	"context"
	"time"

	classStore "adjja/internal/adapters/storage/academyclass"
	coachStore "adjja/internal/adapters/storage/coach"
	studentStore "adjja/internal/adapters/storage/student"
	"adjja/internal/domain/academyclass"
	"adjja/internal/domain/course"
	"adjja/internal/domain/enrollment"
	"adjja/internal/domain/student"
)

// DashboardStudentStore defines the student store interface needed by the
// dashboard projection.
type DashboardStudentStore interface {
	Count(ctx context.Context, filter studentStore.ListFilter) (int, error)
	GetByAccountID(ctx context.Context, accountID string) (student.Student, error)
}

// DashboardCoachStore defines the coach store interface needed by the
// dashboard projection.
type DashboardCoachStore interface {
	Count(ctx context.Context, filter coachStore.ListFilter) (int, error)
}

// DashboardClassStore defines the class store interface needed by the
// dashboard projection.
type DashboardClassStore interface {
	List(ctx context.Context, filter classStore.ListFilter) ([]academyclass.Class, error)
	Count(ctx context.Context) (int, error)
}

// DashboardCourseStore defines the course store interface needed by the
// dashboard projection.
type DashboardCourseStore interface {
	List(ctx context.Context, publishedOnly bool) ([]course.Course, error)
}

// DashboardEnrollmentStore defines the enrollment store interface needed by
// the dashboard projection.
type DashboardEnrollmentStore interface {
	ListByStudent(ctx context.Context, studentID string) ([]enrollment.Enrollment, error)
}

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	Role      string // admin, coach, student
	AccountID string // used to resolve the student's own record
	Now       time.Time
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	StudentStore    DashboardStudentStore
	CoachStore      DashboardCoachStore
	ClassStore      DashboardClassStore
	CourseStore     DashboardCourseStore
	EnrollmentStore DashboardEnrollmentStore
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	ActiveStudents   int
	ActiveCoaches    int
	Classes          int
	PublishedCourses int
	TodaysClasses    []academyclass.Class

	// Student role only: the viewer's own enrollments.
	MyEnrollments int
}

// GetDashboard assembles the portal landing page numbers for a role.
// PRE: query.Role is a valid account role
// POST: counts reflect the stores at call time; a student sees their own
// enrollment count in addition to the shared numbers
func GetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	var result DashboardResult

	n, err := deps.StudentStore.Count(ctx, studentStore.ListFilter{Status: student.StatusActive})
	if err != nil {
		return result, err
	}
	result.ActiveStudents = n

	n, err = deps.CoachStore.Count(ctx, coachStore.ListFilter{Status: "active"})
	if err != nil {
		return result, err
	}
	result.ActiveCoaches = n

	n, err = deps.ClassStore.Count(ctx)
	if err != nil {
		return result, err
	}
	result.Classes = n

	published, err := deps.CourseStore.List(ctx, true)
	if err != nil {
		return result, err
	}
	result.PublishedCourses = len(published)

	classes, err := deps.ClassStore.List(ctx, classStore.ListFilter{})
	if err != nil {
		return result, err
	}
	today := query.Now.Weekday().String()
	for _, c := range classes {
		slot, err := academyclass.ParseSchedule(c.Schedule)
		if err != nil {
			continue
		}
		if slot.Day == today {
			result.TodaysClasses = append(result.TodaysClasses, c)
		}
	}

	if query.Role == "student" && query.AccountID != "" {
		if st, err := deps.StudentStore.GetByAccountID(ctx, query.AccountID); err == nil {
			enrollments, err := deps.EnrollmentStore.ListByStudent(ctx, st.ID)
			if err == nil {
				result.MyEnrollments = len(enrollments)
			}
		}
	}

	return result, nil
}
