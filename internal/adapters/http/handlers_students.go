package web

import (
	"net/http"
	"strconv"
	"strings"

	studentStore "adjja/internal/adapters/storage/student"
	studentDomain "adjja/internal/domain/student"
)

// handleStudents handles GET (list) for /api/students
func handleStudents(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	q := r.URL.Query()
	filter := studentStore.ListFilter{
		Belt:   q.Get("belt"),
		Status: q.Get("status"),
		Search: q.Get("q"),
		Sort:   q.Get("sort"),
		Dir:    q.Get("dir"),
		Limit:  100,
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	students, err := stores.StudentStore.List(r.Context(), filter)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSONList(w, students)
}

// handleStudentProfile handles GET /api/students/profile?id=<id>
// Returns the student together with their class enrollments.
func handleStudentProfile(w http.ResponseWriter, r *http.Request) {
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

	student, err := stores.StudentStore.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "student not found", http.StatusNotFound)
		return
	}

	enrollments, err := stores.EnrollmentStore.ListByStudent(r.Context(), id)
	if err != nil {
		internalError(w, err)
		return
	}

	type enrolledClass struct {
		ClassID  string
		Name     string
		Schedule string
	}
	var classes []enrolledClass
	for _, e := range enrollments {
		c, err := stores.ClassStore.GetByID(r.Context(), e.ClassID)
		if err != nil {
			continue
		}
		classes = append(classes, enrolledClass{ClassID: c.ID, Name: c.Name, Schedule: c.Schedule})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"Student": student,
		"Classes": classes,
	})
}

// handleStudentSearch handles GET /api/students/search?q=<name>
func handleStudentSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
		return
	}

	results, err := stores.StudentStore.SearchByName(r.Context(), query, 10)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSONList(w, results)
}

// handleStudentArchive handles POST /api/students/archive
func handleStudentArchive(w http.ResponseWriter, r *http.Request) {
	studentStatusChange(w, r, func(s *studentDomain.Student) error { return s.Archive() })
}

// handleStudentRestore handles POST /api/students/restore
func handleStudentRestore(w http.ResponseWriter, r *http.Request) {
	studentStatusChange(w, r, func(s *studentDomain.Student) error { return s.Restore() })
}

func studentStatusChange(w http.ResponseWriter, r *http.Request, change func(*studentDomain.Student) error) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	var input struct {
		StudentID string `json:"StudentID"`
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		r.ParseForm()
		input.StudentID = r.FormValue("StudentID")
	} else {
		strictDecode(r, &input)
	}
	if input.StudentID == "" {
		http.Error(w, "StudentID is required", http.StatusBadRequest)
		return
	}

	student, err := stores.StudentStore.GetByID(r.Context(), input.StudentID)
	if err != nil {
		http.Error(w, "student not found", http.StatusNotFound)
		return
	}
	if err := change(&student); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.StudentStore.Save(r.Context(), student); err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
