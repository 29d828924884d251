package prompt

import (
	"fmt"
	"strings"
)

// Mode selects the length and structure of the generated report.
type Mode string

const (
	// Detailed asks for a long flowing report.
	Detailed Mode = "detailed"
	// Concise asks for a shorter report where every section carries a
	// bullet list and a closing key insight.
	Concise Mode = "concise"
)

// ParseMode accepts "detailed" or "concise" in any case. An empty string
// yields Detailed.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Detailed):
		return Detailed, nil
	case string(Concise):
		return Concise, nil
	default:
		return "", fmt.Errorf("unknown report mode %q, want detailed or concise", s)
	}
}

// WordBand is the approximate report length requested from the model.
func (m Mode) WordBand() string {
	if m == Concise {
		return "500-700"
	}
	return "800-1200"
}

func (m Mode) String() string { return string(m) }

// UnmarshalText lets Mode be used directly as an env or flag value.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
