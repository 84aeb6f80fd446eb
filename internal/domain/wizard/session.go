package wizard

import (
	"context"
	"errors"
	"fmt"
)

// Mode selects between creating a new entity and editing an existing one.
// Edit pre-populates the form from the entity and defaults credential
// creation to off.
const (
	ModeCreate = "create"
	ModeEdit   = "edit"
)

// Session states. A session is Active until it reaches a terminal state.
const (
	StateActive    = "active"
	StateCompleted = "completed"
	StateCancelled = "cancelled"
)

// Domain errors
var (
	ErrNoSteps      = errors.New("wizard needs at least one step")
	ErrSessionDone  = errors.New("wizard session is already completed or cancelled")
	ErrAtLastStep   = errors.New("already at the last step")
	ErrAtFirstStep  = errors.New("already at the first step")
	ErrNotLastStep  = errors.New("submit is only allowed from the last step")
	ErrStepOutOfRange = errors.New("step index out of range")
)

// Step is one page of a wizard. Validate must be a pure function of the
// form data: no side effects, no dependence on the current step index.
type Step struct {
	ID       string
	Title    string
	Validate func(Form) ValidationResult
}

// SubmitFunc persists the finished wizard. It receives a snapshot of the
// form; errors keep the session on the last step with the form intact.
type SubmitFunc func(ctx context.Context, form Form) error

// Session drives a multi-step form: ordered steps, a current position, and
// form data accumulated across all steps. Form data is owned exclusively by
// the session; all mutation goes through Set.
type Session struct {
	steps   []Step
	current int
	form    Form
	mode    string
	state   string
}

// NewSession creates a wizard session at step 0.
// PRE: steps is non-empty; every step has a Validate func
// POST: Session is Active at step 0 with a copy of initial (nil means empty)
func NewSession(steps []Step, mode string, initial Form) (*Session, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	for _, st := range steps {
		if st.Validate == nil {
			return nil, fmt.Errorf("step %q has no validator", st.ID)
		}
	}
	if mode != ModeCreate && mode != ModeEdit {
		return nil, fmt.Errorf("unknown wizard mode %q", mode)
	}
	form := Form{}
	if initial != nil {
		form = initial.clone()
	}
	return &Session{
		steps: steps,
		form:  form,
		mode:  mode,
		state: StateActive,
	}, nil
}

// Mode returns the session mode (create or edit).
func (s *Session) Mode() string { return s.mode }

// State returns the session state.
func (s *Session) State() string { return s.state }

// StepIndex returns the current 0-based step index.
// INVARIANT: 0 <= StepIndex() < len(steps)
func (s *Session) StepIndex() int { return s.current }

// StepCount returns the number of steps.
func (s *Session) StepCount() int { return len(s.steps) }

// CurrentStep returns the step at the current position.
func (s *Session) CurrentStep() Step { return s.steps[s.current] }

// OnLastStep returns true if the session is on its final step.
func (s *Session) OnLastStep() bool { return s.current == len(s.steps)-1 }

// Form returns a snapshot of the accumulated form data. Mutating the
// returned map does not affect the session.
func (s *Session) Form() Form { return s.form.clone() }

// Set records a field value.
// PRE: session is Active
// POST: form[key] = value; navigation position is unchanged
func (s *Session) Set(key string, value any) error {
	if s.state != StateActive {
		return ErrSessionDone
	}
	s.form[key] = value
	return nil
}

// ValidateCurrent runs the current step's validator against the form.
// Safe to call on every render; validators are pure.
func (s *Session) ValidateCurrent() ValidationResult {
	return s.steps[s.current].Validate(s.form)
}

// Next advances to the following step when the current step validates.
// PRE: session is Active and not on the last step
// POST: on a passing result the index advances by one; on a failing result
// the index and form are unchanged and the reasons are returned
func (s *Session) Next() (ValidationResult, error) {
	if s.state != StateActive {
		return ValidationResult{}, ErrSessionDone
	}
	if s.OnLastStep() {
		return ValidationResult{}, ErrAtLastStep
	}
	res := s.steps[s.current].Validate(s.form)
	if !res.OK {
		return res, nil
	}
	s.current++
	return res, nil
}

// Previous moves back one step. Never discards form data.
// PRE: session is Active and not on the first step
// POST: index decreases by one; form is unchanged
func (s *Session) Previous() error {
	if s.state != StateActive {
		return ErrSessionDone
	}
	if s.current == 0 {
		return ErrAtFirstStep
	}
	s.current--
	return nil
}

// JumpTo moves directly to step n. Backward jumps are always permitted.
// Forward jumps defensively re-validate every step between the current
// position and the target; callers are not trusted to have validated them.
// PRE: session is Active, 0 <= n < StepCount()
// POST: on success the index is n; on a failing result the index stops at
// the first step that failed validation
func (s *Session) JumpTo(n int) (ValidationResult, error) {
	if s.state != StateActive {
		return ValidationResult{}, ErrSessionDone
	}
	if n < 0 || n >= len(s.steps) {
		return ValidationResult{}, ErrStepOutOfRange
	}
	if n <= s.current {
		s.current = n
		return Valid(), nil
	}
	for i := s.current; i < n; i++ {
		res := s.steps[i].Validate(s.form)
		if !res.OK {
			s.current = i
			return res, nil
		}
	}
	s.current = n
	return Valid(), nil
}

// Submit finishes the wizard from the last step.
// PRE: session is Active and on the last step
// POST: on success the session is Completed; on validation failure or a
// submit error the session stays Active on the last step with the form
// intact so the user can retry without re-entering data
func (s *Session) Submit(ctx context.Context, fn SubmitFunc) (ValidationResult, error) {
	if s.state != StateActive {
		return ValidationResult{}, ErrSessionDone
	}
	if !s.OnLastStep() {
		return ValidationResult{}, ErrNotLastStep
	}
	res := s.steps[s.current].Validate(s.form)
	if !res.OK {
		return res, nil
	}
	if err := fn(ctx, s.form.clone()); err != nil {
		return res, err
	}
	s.state = StateCompleted
	return res, nil
}

// Cancel abandons the session.
// POST: session is Cancelled; further operations fail with ErrSessionDone
func (s *Session) Cancel() {
	if s.state == StateActive {
		s.state = StateCancelled
	}
}
