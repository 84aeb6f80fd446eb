package web

import (
	"net/http"
	"strconv"
	"strings"

	coachStore "adjja/internal/adapters/storage/coach"
	coachDomain "adjja/internal/domain/coach"
)

// handleCoaches handles GET (list) for /api/coaches
func handleCoaches(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	q := r.URL.Query()
	filter := coachStore.ListFilter{
		Status: q.Get("status"),
		Search: q.Get("q"),
		Limit:  100,
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	coaches, err := stores.CoachStore.List(r.Context(), filter)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSONList(w, coaches)
}

// handleCoachProfile handles GET /api/coaches/profile?id=<id>
// Returns the coach together with the classes they teach.
func handleCoachProfile(w http.ResponseWriter, r *http.Request) {
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

	coach, err := stores.CoachStore.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "coach not found", http.StatusNotFound)
		return
	}

	classes, err := stores.ClassStore.ListByCoach(r.Context(), id)
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"Coach":   coach,
		"Classes": classes,
	})
}

// handleCoachDeactivate handles POST /api/coaches/deactivate
func handleCoachDeactivate(w http.ResponseWriter, r *http.Request) {
	coachStatusChange(w, r, func(c *coachDomain.Coach) error { return c.Deactivate() })
}

// handleCoachActivate handles POST /api/coaches/activate
func handleCoachActivate(w http.ResponseWriter, r *http.Request) {
	coachStatusChange(w, r, func(c *coachDomain.Coach) error { return c.Activate() })
}

func coachStatusChange(w http.ResponseWriter, r *http.Request, change func(*coachDomain.Coach) error) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	var input struct {
		CoachID string `json:"CoachID"`
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		r.ParseForm()
		input.CoachID = r.FormValue("CoachID")
	} else {
		strictDecode(r, &input)
	}
	if input.CoachID == "" {
		http.Error(w, "CoachID is required", http.StatusBadRequest)
		return
	}

	coach, err := stores.CoachStore.GetByID(r.Context(), input.CoachID)
	if err != nil {
		http.Error(w, "coach not found", http.StatusNotFound)
		return
	}
	if err := change(&coach); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.CoachStore.Save(r.Context(), coach); err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
