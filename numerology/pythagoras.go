// Package numerology computes the Pythagorean psychomatrix of a birth date.
package numerology

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/foreteller/foreteller/calendar"
)

// Square counts how often each digit 1..9 occurs in the number stream.
// Index 0 holds digit 1; use Count and Set to address it by digit.
type Square [9]int

// Count returns the occurrences of digit (1..9); other digits count zero.
func (s Square) Count(digit int) int {
	if digit < 1 || digit > 9 {
		return 0
	}
	return s[digit-1]
}

// Total sums all nine counts.
func (s Square) Total() int {
	total := 0
	for _, c := range s {
		total += c
	}
	return total
}

// Map returns the square keyed by digit, always with all nine keys.
func (s Square) Map() map[int]int {
	m := make(map[int]int, 9)
	for i, c := range s {
		m[i+1] = c
	}
	return m
}

// MarshalJSON renders the square as {"1": n, ..., "9": n}.
func (s Square) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

// UnmarshalJSON accepts the object form produced by MarshalJSON.
func (s *Square) UnmarshalJSON(data []byte) error {
	var m map[int]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = Square{}
	for digit, count := range m {
		if digit >= 1 && digit <= 9 {
			s[digit-1] = count
		}
	}
	return nil
}

// WorkingNumbers are the four intermediate sums of the calculation.
type WorkingNumbers struct {
	FirstNum  int `json:"firstNum"`
	SecondNum int `json:"secondNum"`
	ThirdNum  int `json:"thirdNum"`
	FourthNum int `json:"fourthNum"`
}

// Psychomatrix is the digit grid plus the working numbers it was built from.
type Psychomatrix struct {
	Square Square         `json:"square"`
	Meta   WorkingNumbers `json:"meta"`
}

// Layout is the conventional 3x3 arrangement of the square: columns hold
// 1-2-3, 4-5-6 and 7-8-9, so the first row reads 1, 4, 7.
var Layout = [3][3]int{
	{1, 4, 7},
	{2, 5, 8},
	{3, 6, 9},
}

// Cell renders one grid cell the way the square is drawn by hand: the digit
// repeated once per occurrence, or an em dash when it is absent.
func (s Square) Cell(digit int) string {
	n := s.Count(digit)
	if n == 0 {
		return "—"
	}
	return strings.Repeat(strconv.Itoa(digit), n)
}

// Calculate derives the psychomatrix from the raw date parts. A date that did
// not parse yields an all-zero result and ok false.
func Calculate(d calendar.Date) (p Psychomatrix, ok bool) {
	if !d.Valid {
		return Psychomatrix{}, false
	}

	day, month, year := d.RawDay, d.RawMonth, d.RawYear

	firstNum := digitSum(day + month + year)
	secondNum := digitSum(strconv.Itoa(firstNum))

	// A zero-padded day ("05") contributes its whole value rather than its
	// leading digit. This looks accidental but every published result depends
	// on it, so it stays.
	var firstDigitDay int
	if len(day) == 2 && strings.HasPrefix(day, "0") && day != "00" {
		firstDigitDay, _ = strconv.Atoi(day)
	} else {
		firstDigitDay = int(day[0] - '0')
	}

	thirdNum := firstNum - 2*firstDigitDay
	fourthNum := digitSum(strconv.Itoa(thirdNum))

	stream := day + month + year +
		strconv.Itoa(firstNum) +
		strconv.Itoa(secondNum) +
		strconv.Itoa(thirdNum) +
		strconv.Itoa(fourthNum)

	return Psychomatrix{
		Square: Tally(stream),
		Meta: WorkingNumbers{
			FirstNum:  firstNum,
			SecondNum: secondNum,
			ThirdNum:  thirdNum,
			FourthNum: fourthNum,
		},
	}, true
}

// Tally counts the digits 1..9 in s; zeros and any other character are
// dropped.
func Tally(s string) Square {
	var sq Square
	for _, r := range s {
		if r >= '1' && r <= '9' {
			sq[r-'1']++
		}
	}
	return sq
}

// digitSum adds up the decimal digits in s, skipping anything else
// (notably the sign of a negative number).
func digitSum(s string) int {
	sum := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sum += int(r - '0')
		}
	}
	return sum
}
