package astro

import (
	"math"
	"time"

	"github.com/foreteller/foreteller/calendar"
)

const (
	// synodicMonth is the mean length of a lunation in days.
	synodicMonth = 29.530588853
	// referenceNewMoon is the Julian date of the new moon of 2000-01-06 14:24 UTC.
	referenceNewMoon = 2451550.1
	// unixEpochJulian is the Julian date of 1970-01-01 00:00 UTC.
	unixEpochJulian = 2440587.5
)

// Phase is a named lunar phase with its glyph.
type Phase struct {
	Name   string `json:"phase"`
	Symbol string `json:"emoji"`
}

// phaseBuckets holds the upper bound of each phase, in days of lunar age.
var phaseBuckets = []struct {
	until float64
	phase Phase
}{
	{1.84566, Phase{"New Moon", "🌑"}},
	{5.53699, Phase{"Waxing Crescent", "🌒"}},
	{9.22831, Phase{"First Quarter", "🌓"}},
	{12.91963, Phase{"Waxing Gibbous", "🌔"}},
	{16.61096, Phase{"Full Moon", "🌕"}},
	{20.30228, Phase{"Waning Gibbous", "🌖"}},
	{23.99361, Phase{"Last Quarter", "🌗"}},
	{27.68493, Phase{"Waning Crescent", "🌘"}},
}

// UnknownPhase is the degenerate result for an unparseable date.
var UnknownPhase = Phase{Name: Unknown}

// LunarAge returns the age of the moon in days (0 to synodicMonth) at t.
func LunarAge(t time.Time) float64 {
	julian := float64(t.UnixMilli())/86400000.0 + unixEpochJulian
	fraction := (julian - referenceNewMoon) / synodicMonth
	fraction -= math.Floor(fraction)
	return fraction * synodicMonth
}

// PhaseAt buckets the lunar age at t into one of eight named phases.
func PhaseAt(t time.Time) Phase {
	age := LunarAge(t)
	for _, b := range phaseBuckets {
		if age < b.until {
			return b.phase
		}
	}
	return phaseBuckets[0].phase
}

// MoonPhase resolves the phase for a birth date and optional clock, read as
// UTC wall-clock time. An invalid date yields UnknownPhase with ok false.
func MoonPhase(d calendar.Date, clock *calendar.Clock) (Phase, bool) {
	if !d.Valid {
		return UnknownPhase, false
	}
	return PhaseAt(d.Instant(clock)), true
}
