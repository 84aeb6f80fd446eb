package linkage

// Phase kinds for the credentials step of a wizard.
const (
	phaseUnknown   = "unknown"
	phaseChecking  = "checking"
	phaseLinked    = "linked"
	phaseNotLinked = "not_linked"
)

// Phase is the UI-facing state of an account linkage check, consumed
// uniformly by every wizard with a credentials step. It replaces the
// scattered "has account / creating account / needs credentials" branches
// with one tagged value.
type Phase struct {
	kind   string
	method string
}

// PhaseUnknown is the initial phase before any check has been issued.
func PhaseUnknown() Phase { return Phase{kind: phaseUnknown} }

// PhaseChecking marks a lookup in flight.
func PhaseChecking() Phase { return Phase{kind: phaseChecking} }

// PhaseLinked marks a confirmed existing account found by the given method.
func PhaseLinked(method string) Phase { return Phase{kind: phaseLinked, method: method} }

// PhaseNotLinked marks a confirmed absence of an account.
func PhaseNotLinked() Phase { return Phase{kind: phaseNotLinked} }

// PhaseFor converts a resolved Status into its Phase.
func PhaseFor(s Status) Phase {
	if s.Exists {
		return PhaseLinked(s.Method)
	}
	return PhaseNotLinked()
}

// IsLinked returns true and the lookup method when an account exists.
func (p Phase) IsLinked() (string, bool) {
	if p.kind == phaseLinked {
		return p.method, true
	}
	return "", false
}

// IsSettled returns true when the check has produced an answer.
func (p Phase) IsSettled() bool {
	return p.kind == phaseLinked || p.kind == phaseNotLinked
}

// String returns the phase kind for logging.
func (p Phase) String() string { return p.kind }
