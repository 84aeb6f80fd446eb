package web

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"adjja/internal/application/linkage"
	"adjja/internal/application/orchestrators"
	"adjja/internal/application/wizards"
	"adjja/internal/domain/wizard"
)

// Wizard kinds exposed over HTTP.
const (
	wizardKindStudent = "student"
	wizardKindCoach   = "coach"
	wizardKindClass   = "class"
)

// wizardEntry is one live wizard session plus the per-session linkage
// state. The resolver carries the session's generation counter so that
// out-of-order linkage checks cannot clobber a newer result.
type wizardEntry struct {
	mu       sync.Mutex
	session  *wizard.Session
	kind     string
	resolver *linkage.Resolver
	linkage  linkage.Status
	phase    linkage.Phase
	lastSeen time.Time
}

// wizardSessions is an in-memory registry of live wizard sessions.
// Abandoned sessions are dropped after an hour of inactivity.
type wizardSessions struct {
	mu      sync.Mutex
	entries map[string]*wizardEntry
}

const wizardSessionTTL = time.Hour

func newWizardSessions() *wizardSessions {
	return &wizardSessions{entries: make(map[string]*wizardEntry)}
}

// create registers a new wizard session and returns its ID.
func (ws *wizardSessions) create(kind string, s *wizard.Session) string {
	id := generateID()
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.entries[id] = &wizardEntry{
		session:  s,
		kind:     kind,
		resolver: linkage.NewResolver(stores.AccountStore),
		phase:    linkage.PhaseUnknown(),
		lastSeen: timeNow(),
	}
	return id
}

// get returns the entry for an ID, refreshing its TTL.
func (ws *wizardSessions) get(id string) (*wizardEntry, bool) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	entry, ok := ws.entries[id]
	if !ok {
		return nil, false
	}
	if time.Since(entry.lastSeen) > wizardSessionTTL {
		delete(ws.entries, id)
		return nil, false
	}
	entry.lastSeen = timeNow()
	return entry, true
}

// remove drops an entry from the registry.
func (ws *wizardSessions) remove(id string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	delete(ws.entries, id)
}

// wizardState is the JSON snapshot returned by every wizard endpoint.
type wizardState struct {
	WizardID        string         `json:"WizardID"`
	Kind            string         `json:"Kind"`
	Mode            string         `json:"Mode"`
	State           string         `json:"State"`
	Step            int            `json:"Step"`
	StepCount       int            `json:"StepCount"`
	StepID          string         `json:"StepID"`
	StepTitle       string         `json:"StepTitle"`
	Form            map[string]any `json:"Form"`
	LinkagePhase    string         `json:"LinkagePhase"`
	AccountExists   bool           `json:"AccountExists"`
	LinkageMethod   string         `json:"LinkageMethod,omitempty"`
	LinkageDegraded bool           `json:"LinkageDegraded,omitempty"`
	Validation      *wizard.ValidationResult `json:"Validation,omitempty"`
}

// snapshotLocked builds the wire state for an entry.
// PRE: entry.mu is held
func snapshotLocked(id string, e *wizardEntry, v *wizard.ValidationResult) wizardState {
	s := e.session
	step := s.CurrentStep()
	form := s.Form()
	// Never echo the password back to the client.
	delete(form, wizards.FieldPassword)
	return wizardState{
		WizardID:        id,
		Kind:            e.kind,
		Mode:            s.Mode(),
		State:           s.State(),
		Step:            s.StepIndex(),
		StepCount:       s.StepCount(),
		StepID:          step.ID,
		StepTitle:       step.Title,
		Form:            form,
		LinkagePhase:    e.phase.String(),
		AccountExists:   e.linkage.Exists,
		LinkageMethod:   e.linkage.Method,
		LinkageDegraded: e.linkage.Degraded,
		Validation:      v,
	}
}

// normalizeField converts JSON-decoded values to the form's native types:
// numbers arrive as float64 and string lists as []any.
func normalizeField(v any) any {
	switch t := v.(type) {
	case float64:
		if t == float64(int(t)) {
			return int(t)
		}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return v
}

func stepsForKind(kind string) ([]wizard.Step, bool) {
	switch kind {
	case wizardKindStudent:
		return wizards.StudentSteps(), true
	case wizardKindCoach:
		return wizards.CoachSteps(), true
	case wizardKindClass:
		return wizards.ClassSteps(), true
	}
	return nil, false
}

// handleWizardStart handles POST /api/wizards
func handleWizardStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	var input struct {
		Kind    string         `json:"Kind"`
		Mode    string         `json:"Mode"`
		Initial map[string]any `json:"Initial"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	steps, ok := stepsForKind(input.Kind)
	if !ok {
		http.Error(w, "unknown wizard kind", http.StatusBadRequest)
		return
	}
	mode := input.Mode
	if mode == "" {
		mode = wizard.ModeCreate
	}

	initial := make(wizard.Form, len(input.Initial))
	for key, value := range input.Initial {
		initial[key] = normalizeField(value)
	}
	session, err := wizard.NewSession(steps, mode, initial)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := wizardRegistry.create(input.Kind, session)
	entry, _ := wizardRegistry.get(id)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	writeJSON(w, http.StatusCreated, snapshotLocked(id, entry, nil))
}

// lookupEntry resolves the wizard ID from the query or body field and
// fetches its registry entry, writing the error response on failure.
func lookupEntry(w http.ResponseWriter, id string) (*wizardEntry, bool) {
	if id == "" {
		http.Error(w, "WizardID is required", http.StatusBadRequest)
		return nil, false
	}
	entry, ok := wizardRegistry.get(id)
	if !ok {
		http.Error(w, "wizard session not found", http.StatusNotFound)
		return nil, false
	}
	return entry, true
}

// handleWizardState handles GET /api/wizards/state?id=<wizard-id>
func handleWizardState(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}
	id := r.URL.Query().Get("id")
	entry, ok := lookupEntry(w, id)
	if !ok {
		return
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	v := entry.session.ValidateCurrent()
	writeJSON(w, http.StatusOK, snapshotLocked(id, entry, &v))
}

// handleWizardFields handles POST /api/wizards/fields
// Records field values on the session. Setting the email field kicks off a
// fresh account linkage check; a stale in-flight check never overwrites a
// newer one.
func handleWizardFields(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	var input struct {
		WizardID string         `json:"WizardID"`
		Fields   map[string]any `json:"Fields"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	entry, ok := lookupEntry(w, input.WizardID)
	if !ok {
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	for key, value := range input.Fields {
		if err := entry.session.Set(key, normalizeField(value)); err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
	}

	// An email change restarts the linkage check for account-bearing wizards.
	if raw, changed := input.Fields[wizards.FieldEmail]; changed && entry.kind != wizardKindClass {
		email, _ := raw.(string)
		if email != "" {
			entry.phase = linkage.PhaseChecking()
			resolveLinkageLocked(r.Context(), entry)
		}
	}

	v := entry.session.ValidateCurrent()
	writeJSON(w, http.StatusOK, snapshotLocked(input.WizardID, entry, &v))
}

// resolveLinkageLocked runs the account linkage check for the entry's
// current email and applies the result to the session. The resolver's
// generation counter discards stale results when checks overlap.
// PRE: entry.mu is held
func resolveLinkageLocked(ctx context.Context, entry *wizardEntry) {
	form := entry.session.Form()
	email := form.String(wizards.FieldEmail)
	hint := form.String(wizards.FieldAccountID)

	entry.resolver.ResolveLatest(ctx, email, hint, func(status linkage.Status) {
		entry.linkage = status
		entry.phase = linkage.PhaseFor(status)
		_ = wizards.ApplyLinkage(entry.session, status)
	})
}

// handleWizardNext handles POST /api/wizards/next
func handleWizardNext(w http.ResponseWriter, r *http.Request) {
	wizardNavigate(w, r, func(e *wizardEntry) (wizard.ValidationResult, error) {
		return e.session.Next()
	})
}

// handleWizardPrevious handles POST /api/wizards/previous
func handleWizardPrevious(w http.ResponseWriter, r *http.Request) {
	wizardNavigate(w, r, func(e *wizardEntry) (wizard.ValidationResult, error) {
		err := e.session.Previous()
		return wizard.Valid(), err
	})
}

// wizardNavigate runs a navigation op and writes the resulting snapshot.
// Validation failures are a 200 with the reasons in the body: the wizard
// stays where it is and the client renders the messages inline.
func wizardNavigate(w http.ResponseWriter, r *http.Request, op func(*wizardEntry) (wizard.ValidationResult, error)) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	var input struct {
		WizardID string `json:"WizardID"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	entry, ok := lookupEntry(w, input.WizardID)
	if !ok {
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	res, err := op(entry)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, snapshotLocked(input.WizardID, entry, &res))
}

// handleWizardJump handles POST /api/wizards/jump
func handleWizardJump(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	var input struct {
		WizardID string `json:"WizardID"`
		Step     int    `json:"Step"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	entry, ok := lookupEntry(w, input.WizardID)
	if !ok {
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	res, err := entry.session.JumpTo(input.Step)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, snapshotLocked(input.WizardID, entry, &res))
}

// handleWizardCancel handles POST /api/wizards/cancel
func handleWizardCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	var input struct {
		WizardID string `json:"WizardID"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	entry, ok := lookupEntry(w, input.WizardID)
	if !ok {
		return
	}

	entry.mu.Lock()
	entry.session.Cancel()
	entry.mu.Unlock()

	wizardRegistry.remove(input.WizardID)
	w.WriteHeader(http.StatusNoContent)
}

// handleWizardSubmit handles POST /api/wizards/submit
// Builds the normalized submission for the wizard's kind and runs the
// matching orchestrator. Submission failures keep the session alive so the
// user can retry.
func handleWizardSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	var input struct {
		WizardID string `json:"WizardID"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	entry, ok := lookupEntry(w, input.WizardID)
	if !ok {
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	var response map[string]any
	res, err := entry.session.Submit(r.Context(), func(ctx context.Context, form wizard.Form) error {
		var submitErr error
		response, submitErr = submitWizard(ctx, entry.kind, form, entry.linkage)
		return submitErr
	})
	if err != nil {
		if errors.Is(err, wizard.ErrNotLastStep) || errors.Is(err, wizard.ErrSessionDone) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !res.OK {
		writeJSON(w, http.StatusOK, snapshotLocked(input.WizardID, entry, &res))
		return
	}

	wizardRegistry.remove(input.WizardID)
	writeJSON(w, http.StatusCreated, response)
}

// submitWizard dispatches a validated form to the orchestrator for its kind.
func submitWizard(ctx context.Context, kind string, form wizard.Form, status linkage.Status) (map[string]any, error) {
	switch kind {
	case wizardKindStudent:
		sub := wizards.BuildStudentSubmission(form, status)
		result, err := orchestrators.ExecuteEnrollStudent(ctx, sub, orchestrators.EnrollStudentDeps{
			StudentStore:    stores.StudentStore,
			EnrollmentStore: stores.EnrollmentStore,
			AccountStore:    stores.AccountStore,
		})
		if err != nil {
			return nil, err
		}
		if result.AccountCreated {
			sendWelcomeEmail(sub.Email, sub.Name)
		}
		var failed []string
		for _, f := range result.Failed {
			failed = append(failed, f.ClassID)
		}
		return map[string]any{
			"StudentID":      result.StudentID,
			"AccountID":      result.AccountID,
			"AccountCreated": result.AccountCreated,
			"Enrolled":       result.Enrolled,
			"FailedClasses":  failed,
			"Summary":        result.Summary(),
		}, nil

	case wizardKindCoach:
		sub := wizards.BuildCoachSubmission(form, status)
		result, err := orchestrators.ExecuteOnboardCoach(ctx, sub, orchestrators.OnboardCoachDeps{
			CoachStore:   stores.CoachStore,
			AccountStore: stores.AccountStore,
		})
		if err != nil {
			return nil, err
		}
		if result.AccountCreated {
			sendWelcomeEmail(sub.Email, sub.Name)
		}
		return map[string]any{
			"CoachID":        result.CoachID,
			"AccountID":      result.AccountID,
			"AccountCreated": result.AccountCreated,
		}, nil

	case wizardKindClass:
		sub, err := wizards.BuildClassSubmission(form)
		if err != nil {
			return nil, err
		}
		classID, err := orchestrators.ExecuteCreateClass(ctx, sub, orchestrators.CreateClassDeps{
			ClassStore: stores.ClassStore,
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{"ClassID": classID}, nil
	}
	return nil, errors.New("unknown wizard kind")
}

// sendWelcomeEmail fires the portal welcome email for a freshly created
// account. Best effort: the submission already succeeded.
func sendWelcomeEmail(to, name string) {
	if emailSender == nil {
		return
	}
	go func() {
		_ = orchestrators.ExecuteSendWelcomeEmail(context.Background(), orchestrators.WelcomeEmailInput{
			To:          to,
			DisplayName: name,
			From:        emailFromAddress,
			ReplyTo:     emailReplyTo,
			PortalURL:   portalURL,
		}, orchestrators.WelcomeEmailDeps{Sender: emailSender})
	}()
}

// handleAccountLookup handles GET /api/accounts/lookup?email=<addr>&hint=<account-id>
// A read-only account linkage probe. Lookup failures fail open: Exists is
// false with Degraded set, and the unique email constraint at account
// creation remains the real gate.
func handleAccountLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}
	hint := r.URL.Query().Get("hint")

	resolver := linkage.NewResolver(stores.AccountStore)
	status := resolver.Resolve(r.Context(), email, hint)

	writeJSON(w, http.StatusOK, map[string]any{
		"Exists":   status.Exists,
		"Method":   status.Method,
		"Degraded": status.Degraded,
	})
}
