package web

import (
	"net/http"
	"strconv"
	"strings"

	classStore "adjja/internal/adapters/storage/academyclass"
	classDomain "adjja/internal/domain/academyclass"
)

// handleClasses handles GET (list) for /api/classes
func handleClasses(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	q := r.URL.Query()
	filter := classStore.ListFilter{
		Level:  q.Get("level"),
		Search: q.Get("q"),
		Limit:  100,
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	classes, err := stores.ClassStore.List(r.Context(), filter)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSONList(w, classes)
}

// handleClassDetail handles GET /api/classes/detail?id=<id>
// Returns the class, its parsed weekly slot, and current enrollment count.
func handleClassDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	class, err := stores.ClassStore.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "class not found", http.StatusNotFound)
		return
	}

	enrolled, err := stores.EnrollmentStore.CountByClass(r.Context(), id)
	if err != nil {
		internalError(w, err)
		return
	}

	resp := map[string]any{
		"Class":    class,
		"Enrolled": enrolled,
		"Spots":    class.Capacity - enrolled,
	}
	if slot, err := classDomain.ParseSchedule(class.Schedule); err == nil {
		resp["Slot"] = slot
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleClassRoster handles GET /api/classes/roster?id=<id>
// Returns the enrolled students for a class.
func handleClassRoster(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	enrollments, err := stores.EnrollmentStore.ListByClass(r.Context(), id)
	if err != nil {
		internalError(w, err)
		return
	}

	type rosterEntry struct {
		StudentID string
		Name      string
		Belt      string
		Stripes   int
		Email     string
	}
	roster := []rosterEntry{}
	for _, e := range enrollments {
		student, err := stores.StudentStore.GetByID(r.Context(), e.StudentID)
		if err != nil {
			continue // enrollment for a deleted student
		}
		roster = append(roster, rosterEntry{
			StudentID: student.ID,
			Name:      student.Name,
			Belt:      student.Belt,
			Stripes:   student.Stripes,
			Email:     student.Email,
		})
	}
	writeJSON(w, http.StatusOK, roster)
}

// handleClassDelete handles POST /api/classes/delete
func handleClassDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	var input struct {
		ClassID string `json:"ClassID"`
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		r.ParseForm()
		input.ClassID = r.FormValue("ClassID")
	} else {
		strictDecode(r, &input)
	}
	if input.ClassID == "" {
		http.Error(w, "ClassID is required", http.StatusBadRequest)
		return
	}

	if _, err := stores.ClassStore.GetByID(r.Context(), input.ClassID); err != nil {
		http.Error(w, "class not found", http.StatusNotFound)
		return
	}
	if err := stores.ClassStore.Delete(r.Context(), input.ClassID); err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSchedulePreview handles GET /api/classes/schedule-preview?schedule=<raw>
// Validates and parses a schedule string without persisting anything, so
// the class wizard can preview the derived duration as the user types.
func handleSchedulePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	raw := r.URL.Query().Get("schedule")
	slot, err := classDomain.ParseSchedule(raw)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"OK": false, "Error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"OK": true, "Slot": slot})
}
