package prompt

import "github.com/foreteller/foreteller/numerology"

// Strength levels of a psychomatrix digit.
const (
	Absent   = "absent"
	Weak     = "weak"
	Balanced = "balanced"
	Strong   = "strong"
	Dominant = "dominant"
)

var digitMeanings = [9]string{
	"Character/Will",
	"Energy",
	"Interest/Knowledge",
	"Health",
	"Logic/Intuition",
	"Physical Labor/Skills",
	"Luck/Talent",
	"Duty/Responsibility",
	"Memory/Intellect",
}

// DigitReading is the interpreted form of one psychomatrix cell.
type DigitReading struct {
	Digit   int
	Meaning string
	Level   string
}

// Strength maps an occurrence count onto a level.
func Strength(count int) string {
	switch {
	case count <= 0:
		return Absent
	case count == 1:
		return Weak
	case count == 2:
		return Balanced
	case count == 3:
		return Strong
	default:
		return Dominant
	}
}

// ReadDigits interprets every cell of sq in digit order.
func ReadDigits(sq numerology.Square) []DigitReading {
	out := make([]DigitReading, 0, 9)
	for digit := 1; digit <= 9; digit++ {
		out = append(out, DigitReading{
			Digit:   digit,
			Meaning: digitMeanings[digit-1],
			Level:   Strength(sq.Count(digit)),
		})
	}
	return out
}
