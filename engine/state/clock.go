package state

import "fmt"

// minutesPerDay is the clock modulus.
const minutesPerDay = 24 * 60

// ParseClock converts "HH:MM" into minutes since midnight. Malformed input
// is an error; time-range matching treats that as no match.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("malformed clock %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock %q out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AdvanceClock moves the session clock forward, rolling the day counter at
// midnight.
func AdvanceClock(s *State, minutes int) {
	s.Clock += minutes
	for s.Clock >= minutesPerDay {
		s.Clock -= minutesPerDay
		s.Day++
	}
}

// ClockInRange reports whether current (minutes since midnight) falls inside
// [from, to]. A from later than to wraps past midnight: the window matches
// current >= from or current <= to.
func ClockInRange(current, from, to int) bool {
	if from <= to {
		return current >= from && current <= to
	}
	return current >= from || current <= to
}
