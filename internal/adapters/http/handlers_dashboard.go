package web

import (
	"net/http"

	"adjja/internal/adapters/http/middleware"
	"adjja/internal/application/projections"
)

// handleDashboardData handles GET /api/dashboard
func handleDashboardData(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	result, err := projections.GetDashboard(r.Context(), projections.GetDashboardQuery{
		Role:      session.Role,
		AccountID: session.AccountID,
		Now:       timeNow(),
	}, projections.GetDashboardDeps{
		StudentStore:    stores.StudentStore,
		CoachStore:      stores.CoachStore,
		ClassStore:      stores.ClassStore,
		CourseStore:     stores.CourseStore,
		EnrollmentStore: stores.EnrollmentStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
