// Package astro resolves the calendar-driven sky facts of a birth date: the
// western sun sign, the Chinese lunar-year animal and the phase of the moon.
package astro

// Unknown is returned by every resolver when its input cannot be resolved.
const Unknown = "Unknown"

type monthDay struct {
	month int
	day   int
}

// signRange is an inclusive range that may wrap the year end.
type signRange struct {
	sign  string
	start monthDay
	end   monthDay
}

// westernSigns is checked in order and the first match wins.
var westernSigns = []signRange{
	{"Capricorn", monthDay{12, 22}, monthDay{1, 19}},
	{"Aquarius", monthDay{1, 20}, monthDay{2, 18}},
	{"Pisces", monthDay{2, 19}, monthDay{3, 20}},
	{"Aries", monthDay{3, 21}, monthDay{4, 19}},
	{"Taurus", monthDay{4, 20}, monthDay{5, 20}},
	{"Gemini", monthDay{5, 21}, monthDay{6, 20}},
	{"Cancer", monthDay{6, 21}, monthDay{7, 22}},
	{"Leo", monthDay{7, 23}, monthDay{8, 22}},
	{"Virgo", monthDay{8, 23}, monthDay{9, 22}},
	{"Libra", monthDay{9, 23}, monthDay{10, 22}},
	{"Scorpio", monthDay{10, 23}, monthDay{11, 21}},
	{"Sagittarius", monthDay{11, 22}, monthDay{12, 21}},
}

// WesternSigns lists the twelve sun signs in table order.
func WesternSigns() []string {
	signs := make([]string, len(westernSigns))
	for i, r := range westernSigns {
		signs[i] = r.sign
	}
	return signs
}

// WesternSign maps a day and month to the sun sign whose range contains it.
// Boundary days belong to the range that lists them. The second return value
// is false (and the sign Unknown) when no range matches.
func WesternSign(day, month int) (string, bool) {
	for _, r := range westernSigns {
		if r.contains(month, day) {
			return r.sign, true
		}
	}
	return Unknown, false
}

func (r signRange) contains(month, day int) bool {
	if day < 1 || day > 31 {
		return false
	}
	if r.start.month == r.end.month {
		return month == r.start.month && day >= r.start.day && day <= r.end.day
	}
	return (month == r.start.month && day >= r.start.day) ||
		(month == r.end.month && day <= r.end.day)
}
