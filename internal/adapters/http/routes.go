package web

import "net/http"

// registerRoutes wires every handler onto the mux. Authentication and
// role checks happen inside the handlers; the Auth middleware only
// attaches the session to the request context.
func registerRoutes(mux *http.ServeMux) {
	// Auth and pages
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.HandleFunc("/change-password", handleChangePassword)
	mux.HandleFunc("/activate", handleActivate)
	mux.HandleFunc("/dashboard", handleDashboard)
	mux.HandleFunc("/api/dashboard", handleDashboardData)

	// Step wizards (student enrollment, coach onboarding, class creation)
	mux.HandleFunc("/api/wizards", handleWizardStart)
	mux.HandleFunc("/api/wizards/state", handleWizardState)
	mux.HandleFunc("/api/wizards/fields", handleWizardFields)
	mux.HandleFunc("/api/wizards/next", handleWizardNext)
	mux.HandleFunc("/api/wizards/previous", handleWizardPrevious)
	mux.HandleFunc("/api/wizards/jump", handleWizardJump)
	mux.HandleFunc("/api/wizards/cancel", handleWizardCancel)
	mux.HandleFunc("/api/wizards/submit", handleWizardSubmit)
	mux.HandleFunc("/api/accounts/lookup", handleAccountLookup)
	mux.HandleFunc("/api/accounts/invite", handleAccountInvite)

	// Students
	mux.HandleFunc("/api/students", handleStudents)
	mux.HandleFunc("/api/students/profile", handleStudentProfile)
	mux.HandleFunc("/api/students/search", handleStudentSearch)
	mux.HandleFunc("/api/students/archive", handleStudentArchive)
	mux.HandleFunc("/api/students/restore", handleStudentRestore)

	// Coaches
	mux.HandleFunc("/api/coaches", handleCoaches)
	mux.HandleFunc("/api/coaches/profile", handleCoachProfile)
	mux.HandleFunc("/api/coaches/deactivate", handleCoachDeactivate)
	mux.HandleFunc("/api/coaches/activate", handleCoachActivate)

	// Classes
	mux.HandleFunc("/api/classes", handleClasses)
	mux.HandleFunc("/api/classes/detail", handleClassDetail)
	mux.HandleFunc("/api/classes/roster", handleClassRoster)
	mux.HandleFunc("/api/classes/delete", handleClassDelete)
	mux.HandleFunc("/api/classes/schedule-preview", handleSchedulePreview)

	// Plans
	mux.HandleFunc("/api/plans", handlePlans)
	mux.HandleFunc("/api/plans/retire", handlePlanRetire)

	// Courses
	mux.HandleFunc("/api/courses", handleCourses)
	mux.HandleFunc("/api/courses/detail", handleCourseDetail)
	mux.HandleFunc("/api/courses/publish", handleCoursePublish)
	mux.HandleFunc("/api/courses/unpublish", handleCourseUnpublish)
	mux.HandleFunc("/api/courses/delete", handleCourseDelete)
	mux.HandleFunc("/api/courses/videos", handleCourseVideos)
	mux.HandleFunc("/api/courses/videos/delete", handleCourseVideoDelete)
}
