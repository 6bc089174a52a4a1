package recurrence

import (
	"fmt"
	"strings"
)

// Frequency is the step between two occurrences of a recurring template.
type Frequency int8

const (
	Daily Frequency = iota
	Weekly
	Monthly
	Yearly
)

func (f Frequency) String() string {
	switch f {
	case Daily:
		return "DAILY"
	case Weekly:
		return "WEEKLY"
	case Monthly:
		return "MONTHLY"
	case Yearly:
		return "YEARLY"
	default:
		return fmt.Sprintf("Frequency(%d)", int8(f))
	}
}

// Valid reports whether f is one of the known frequencies.
func (f Frequency) Valid() bool {
	return f >= Daily && f <= Yearly
}

func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DAILY", "DAY":
		return Daily, nil
	case "WEEKLY", "WEEK":
		return Weekly, nil
	case "MONTHLY", "MONTH":
		return Monthly, nil
	case "YEARLY", "YEAR":
		return Yearly, nil
	default:
		return Daily, fmt.Errorf("unknown frequency %q", s)
	}
}
