package web

import (
	"net/http"
	"strconv"
	"strings"

	planDomain "adjja/internal/domain/plan"
)

// handlePlans handles GET (list) and POST (create) for /api/plans
func handlePlans(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		listPlans(w, r)
	case "POST":
		createPlan(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listPlans(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	activeOnly := r.URL.Query().Get("active") == "true"
	plans, err := stores.PlanStore.List(r.Context(), activeOnly)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSONList(w, plans)
}

func createPlan(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	var input struct {
		Name       string `json:"Name"`
		PriceCents int    `json:"PriceCents"`
		Currency   string `json:"Currency"`
		Interval   string `json:"Interval"`
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		r.ParseForm()
		input.Name = r.FormValue("Name")
		input.PriceCents, _ = strconv.Atoi(r.FormValue("PriceCents"))
		input.Currency = r.FormValue("Currency")
		input.Interval = r.FormValue("Interval")
	} else if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	plan := planDomain.Plan{
		ID:         generateID(),
		Name:       strings.TrimSpace(input.Name),
		PriceCents: input.PriceCents,
		Currency:   strings.ToUpper(strings.TrimSpace(input.Currency)),
		Interval:   input.Interval,
		Active:     true,
	}
	if err := plan.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.PlanStore.Save(r.Context(), plan); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// handlePlanRetire handles POST /api/plans/retire
// Retired plans stay attached to existing students but are hidden from
// the enrollment wizard's plan picker.
func handlePlanRetire(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	var input struct {
		PlanID string `json:"PlanID"`
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		r.ParseForm()
		input.PlanID = r.FormValue("PlanID")
	} else {
		strictDecode(r, &input)
	}
	if input.PlanID == "" {
		http.Error(w, "PlanID is required", http.StatusBadRequest)
		return
	}

	plan, err := stores.PlanStore.GetByID(r.Context(), input.PlanID)
	if err != nil {
		http.Error(w, "plan not found", http.StatusNotFound)
		return
	}
	if err := plan.Retire(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.PlanStore.Save(r.Context(), plan); err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
