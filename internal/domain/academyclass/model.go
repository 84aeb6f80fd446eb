package academyclass

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Capacity bounds (inclusive). Out-of-range input is clamped at the input
// layer via ClampCapacity.
const (
	MinCapacity     = 1
	MaxCapacity     = 100
	DefaultCapacity = 30
)

// Level constants
const (
	LevelAll          = "all"
	LevelFundamentals = "fundamentals"
	LevelAdvanced     = "advanced"
	LevelKids         = "kids"
)

// ValidLevels contains all valid level values.
var ValidLevels = []string{LevelAll, LevelFundamentals, LevelAdvanced, LevelKids}

// Domain errors
var (
	ErrEmptySchedule   = errors.New("schedule cannot be empty")
	ErrInvalidSchedule = errors.New("schedule must look like 'Mon 6:00 AM - 7:00 AM'")
)

// shortDays maps schedule day abbreviations to full day names.
var shortDays = map[string]string{
	"Mon": "Monday", "Tue": "Tuesday", "Wed": "Wednesday",
	"Thu": "Thursday", "Fri": "Friday", "Sat": "Saturday", "Sun": "Sunday",
}

// Class represents a recurring weekly class on the academy timetable.
type Class struct {
	ID         string
	Name       string
	CoachID    string
	Instructor string
	Schedule   string // e.g. "Mon 6:00 AM - 7:00 AM"
	Level      string
	Capacity   int
	Duration   int // minutes, derived from Schedule
}

// ScheduleSlot is the parsed form of a Class schedule string.
type ScheduleSlot struct {
	Day     string // full day name, e.g. "Monday"
	Start   string // "6:00 AM"
	End     string // "7:00 AM"
	Minutes int
}

// Validate checks if the Class has valid data.
// PRE: Class struct is populated
// POST: Returns nil if valid, error otherwise
// INVARIANT: Capacity in [1,100], Schedule parses, Duration matches Schedule
func (c *Class) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("class name cannot be empty")
	}
	if len(c.Name) > MaxNameLength {
		return errors.New("class name cannot exceed 100 characters")
	}
	if strings.TrimSpace(c.Instructor) == "" {
		return errors.New("instructor cannot be empty")
	}
	if !isValidLevel(c.Level) {
		return errors.New("level must be one of: all, fundamentals, advanced, kids")
	}
	if c.Capacity < MinCapacity || c.Capacity > MaxCapacity {
		return errors.New("capacity must be between 1 and 100")
	}
	slot, err := ParseSchedule(c.Schedule)
	if err != nil {
		return err
	}
	if c.Duration != slot.Minutes {
		return fmt.Errorf("duration %d does not match schedule (%d minutes)", c.Duration, slot.Minutes)
	}
	return nil
}

// ParseSchedule parses a weekly slot like "Mon 6:00 AM - 7:00 AM".
// PRE: raw is a non-empty schedule string
// POST: Returns the parsed slot with duration in minutes
// INVARIANT: End before start is treated as crossing midnight
func ParseSchedule(raw string) (ScheduleSlot, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ScheduleSlot{}, ErrEmptySchedule
	}

	day, rest, found := strings.Cut(raw, " ")
	if !found {
		return ScheduleSlot{}, ErrInvalidSchedule
	}
	fullDay, ok := shortDays[day]
	if !ok {
		return ScheduleSlot{}, fmt.Errorf("unknown day %q: %w", day, ErrInvalidSchedule)
	}

	startRaw, endRaw, found := strings.Cut(rest, " - ")
	if !found {
		return ScheduleSlot{}, ErrInvalidSchedule
	}
	startRaw = strings.TrimSpace(startRaw)
	endRaw = strings.TrimSpace(endRaw)

	start, err := time.Parse("3:04 PM", startRaw)
	if err != nil {
		return ScheduleSlot{}, fmt.Errorf("invalid start time %q: %w", startRaw, ErrInvalidSchedule)
	}
	end, err := time.Parse("3:04 PM", endRaw)
	if err != nil {
		return ScheduleSlot{}, fmt.Errorf("invalid end time %q: %w", endRaw, ErrInvalidSchedule)
	}

	dur := end.Sub(start)
	if dur <= 0 {
		dur += 24 * time.Hour // overnight slot
	}

	return ScheduleSlot{
		Day:     fullDay,
		Start:   startRaw,
		End:     endRaw,
		Minutes: int(dur.Minutes()),
	}, nil
}

// ClampCapacity clamps a capacity to the inclusive [1,100] range, with 0
// (unset) mapped to the default.
// POST: Returned value is within [MinCapacity, MaxCapacity]
func ClampCapacity(n int) int {
	if n == 0 {
		return DefaultCapacity
	}
	if n < MinCapacity {
		return MinCapacity
	}
	if n > MaxCapacity {
		return MaxCapacity
	}
	return n
}

func isValidLevel(level string) bool {
	for _, l := range ValidLevels {
		if l == level {
			return true
		}
	}
	return false
}
