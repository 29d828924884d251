// Package facts assembles the deterministic facts of a birth date.
package facts

import (
	"github.com/foreteller/foreteller/astro"
	"github.com/foreteller/foreteller/calendar"
	"github.com/foreteller/foreteller/numerology"
)

// Outcome tells a correctly computed result apart from the sentinel defaults
// used when the input could not be parsed.
type Outcome int

const (
	Computed Outcome = iota
	Degraded
)

func (o Outcome) String() string {
	if o == Degraded {
		return "degraded"
	}
	return "computed"
}

func outcomeOf(ok bool) Outcome {
	if ok {
		return Computed
	}
	return Degraded
}

// Derived holds everything computed from a date and optional clock.
type Derived struct {
	Zodiac        string                  `json:"zodiac"`
	ChineseZodiac string                  `json:"chineseZodiac"`
	Pythagoras    numerology.Psychomatrix `json:"pythagoras"`
	Moon          astro.Phase             `json:"moon"`

	Outcomes Outcomes `json:"-"`
}

// Outcomes records how each part of Derived was obtained.
type Outcomes struct {
	Zodiac        Outcome
	ChineseZodiac Outcome
	Pythagoras    Outcome
	Moon          Outcome
}

// Degraded reports whether any part fell back to its sentinel.
func (d Derived) Degraded() bool {
	o := d.Outcomes
	return o.Zodiac == Degraded || o.ChineseZodiac == Degraded ||
		o.Pythagoras == Degraded || o.Moon == Degraded
}

// Derive computes all four facts. It never fails: unparseable input produces
// Unknown labels, a zero psychomatrix and Degraded outcomes.
func Derive(date, clock string) Derived {
	d := calendar.Parse(date)

	var c *calendar.Clock
	if parsed, ok := calendar.ParseClock(clock); ok {
		c = &parsed
	}

	zodiac, zodiacOK := astro.WesternSign(d.Day, d.Month)
	animal, animalOK := astro.ChineseAnimal(d)
	square, squareOK := numerology.Calculate(d)
	moon, moonOK := astro.MoonPhase(d, c)

	return Derived{
		Zodiac:        zodiac,
		ChineseZodiac: animal,
		Pythagoras:    square,
		Moon:          moon,
		Outcomes: Outcomes{
			Zodiac:        outcomeOf(zodiacOK),
			ChineseZodiac: outcomeOf(animalOK),
			Pythagoras:    outcomeOf(squareOK),
			Moon:          outcomeOf(moonOK),
		},
	}
}
