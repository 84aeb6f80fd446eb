package wizard

// ValidationResult is the outcome of running a step validator.
// Reasons is empty exactly when OK is true.
type ValidationResult struct {
	OK      bool
	Reasons []string
}

// Valid returns a passing result.
func Valid() ValidationResult {
	return ValidationResult{OK: true}
}

// Invalid returns a failing result with the given user-facing reasons.
// PRE: at least one reason is provided
func Invalid(reasons ...string) ValidationResult {
	return ValidationResult{OK: false, Reasons: reasons}
}

// Form is the accumulated field data of a wizard session.
// Values are set through Session.Set; validators read but never write.
type Form map[string]any

// String returns the string value for key, or "" if absent or not a string.
func (f Form) String(key string) string {
	if v, ok := f[key].(string); ok {
		return v
	}
	return ""
}

// Bool returns the bool value for key, or false if absent or not a bool.
func (f Form) Bool(key string) bool {
	if v, ok := f[key].(bool); ok {
		return v
	}
	return false
}

// Int returns the int value for key, or 0 if absent or not an int.
func (f Form) Int(key string) int {
	if v, ok := f[key].(int); ok {
		return v
	}
	return 0
}

// Strings returns the []string value for key, or nil if absent or mistyped.
func (f Form) Strings(key string) []string {
	if v, ok := f[key].([]string); ok {
		return v
	}
	return nil
}

// clone returns a shallow copy. Slices are copied so callers cannot alias
// the session's backing data.
func (f Form) clone() Form {
	out := make(Form, len(f))
	for k, v := range f {
		if s, ok := v.([]string); ok {
			cp := make([]string, len(s))
			copy(cp, s)
			out[k] = cp
			continue
		}
		out[k] = v
	}
	return out
}
