package numerology

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/foreteller/foreteller/calendar"
)

func TestCalculateKnownDates(t *testing.T) {
	testCases := []struct {
		date       string
		wantSquare Square
		wantMeta   WorkingNumbers
	}{
		{
			// stream 05031990 27 9 17 8
			date:       "1990-03-05",
			wantSquare: Square{2, 1, 1, 0, 1, 0, 2, 1, 3},
			wantMeta:   WorkingNumbers{FirstNum: 27, SecondNum: 9, ThirdNum: 17, FourthNum: 8},
		},
		{
			// stream 15051990 30 3 28 10
			date:       "1990-05-15",
			wantSquare: Square{3, 1, 2, 0, 2, 0, 0, 1, 2},
			wantMeta:   WorkingNumbers{FirstNum: 30, SecondNum: 3, ThirdNum: 28, FourthNum: 10},
		},
		{
			// stream 09012000 12 3 -6 6
			date:       "2000-01-09",
			wantSquare: Square{2, 2, 1, 0, 0, 2, 0, 0, 1},
			wantMeta:   WorkingNumbers{FirstNum: 12, SecondNum: 3, ThirdNum: -6, FourthNum: 6},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.date, func(t *testing.T) {
			got, ok := Calculate(calendar.Parse(tc.date))
			if !ok {
				t.Fatalf("Calculate(%s) reported degraded input", tc.date)
			}
			if diff := cmp.Diff(tc.wantSquare, got.Square); diff != "" {
				t.Errorf("square mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantMeta, got.Meta); diff != "" {
				t.Errorf("meta mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestLeadingZeroDayQuirk: "05" contributes 5, not its leading 0
func TestLeadingZeroDayQuirk(t *testing.T) {
	got, _ := Calculate(calendar.Parse("1990-03-05"))
	firstDigitDay := (got.Meta.FirstNum - got.Meta.ThirdNum) / 2
	if firstDigitDay != 5 {
		t.Errorf("firstDigitDay for day 05 = %d, want 5", firstDigitDay)
	}

	// An unpadded single digit day gives the same value.
	unpadded, _ := Calculate(calendar.Parse("1990-03-5"))
	if unpadded.Meta.ThirdNum != unpadded.Meta.FirstNum-10 {
		t.Errorf("day 5: thirdNum = %d, firstNum = %d", unpadded.Meta.ThirdNum, unpadded.Meta.FirstNum)
	}

	// Day "00" falls back to its first character.
	zero, _ := Calculate(calendar.Parse("1990-03-00"))
	if zero.Meta.ThirdNum != zero.Meta.FirstNum {
		t.Errorf("day 00: thirdNum = %d, want firstNum %d", zero.Meta.ThirdNum, zero.Meta.FirstNum)
	}

	// Two digit days use their leading digit.
	twoDigit, _ := Calculate(calendar.Parse("1990-03-25"))
	if twoDigit.Meta.ThirdNum != twoDigit.Meta.FirstNum-4 {
		t.Errorf("day 25: thirdNum = %d, firstNum = %d", twoDigit.Meta.ThirdNum, twoDigit.Meta.FirstNum)
	}
}

// TestNegativeThirdNum: the minus sign is neither summed nor tallied
func TestNegativeThirdNum(t *testing.T) {
	got, _ := Calculate(calendar.Parse("2000-01-09"))
	if got.Meta.ThirdNum >= 0 {
		t.Fatalf("expected a negative thirdNum, got %d", got.Meta.ThirdNum)
	}
	if got.Meta.FourthNum != 6 {
		t.Errorf("fourthNum = %d, want 6", got.Meta.FourthNum)
	}
}

// TestSquareInvariants walks a range of dates and checks the working number
// identities and the tally total against an independent recount.
func TestSquareInvariants(t *testing.T) {
	start := time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC)

	for d := start; !d.After(end); d = d.AddDate(0, 0, 7) {
		input := d.Format("2006-01-02")
		date := calendar.Parse(input)
		got, ok := Calculate(date)
		if !ok {
			t.Fatalf("Calculate(%s) degraded", input)
		}

		firstDigitDay := int(date.RawDay[0] - '0')
		if date.RawDay[0] == '0' && date.RawDay != "00" {
			firstDigitDay, _ = strconv.Atoi(date.RawDay)
		}
		if got.Meta.ThirdNum != got.Meta.FirstNum-2*firstDigitDay {
			t.Fatalf("%s: thirdNum %d != firstNum %d - 2*%d", input, got.Meta.ThirdNum, got.Meta.FirstNum, firstDigitDay)
		}

		stream := date.RawDay + date.RawMonth + date.RawYear +
			strconv.Itoa(got.Meta.FirstNum) + strconv.Itoa(got.Meta.SecondNum) +
			strconv.Itoa(got.Meta.ThirdNum) + strconv.Itoa(got.Meta.FourthNum)
		want := 0
		for _, r := range stream {
			if strings.ContainsRune("123456789", r) {
				want++
			}
		}
		if got.Square.Total() != want {
			t.Fatalf("%s: square total %d, want %d", input, got.Square.Total(), want)
		}
	}
}

func TestCalculateDegraded(t *testing.T) {
	for _, input := range []string{"", "1990-05", "1990/05/15", "abcd-ef-gh"} {
		got, ok := Calculate(calendar.Parse(input))
		if ok {
			t.Errorf("Calculate(%q) should report degraded input", input)
		}
		if diff := cmp.Diff(Psychomatrix{}, got); diff != "" {
			t.Errorf("Calculate(%q) should be all zero (-want +got):\n%s", input, diff)
		}
	}
}

func TestSquareJSON(t *testing.T) {
	var sq Square
	data, err := json.Marshal(sq)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var keyed map[string]int
	if err := json.Unmarshal(data, &keyed); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(keyed) != 9 {
		t.Errorf("expected 9 keys in %s", data)
	}
	for digit := 1; digit <= 9; digit++ {
		if _, ok := keyed[strconv.Itoa(digit)]; !ok {
			t.Errorf("key %d missing from %s", digit, data)
		}
	}

	var back Square
	if err := json.Unmarshal([]byte(`{"1":2,"9":3}`), &back); err != nil {
		t.Fatalf("Unmarshal into Square failed: %v", err)
	}
	if back.Count(1) != 2 || back.Count(9) != 3 || back.Count(5) != 0 {
		t.Errorf("unexpected square %v", back)
	}
}

func TestCell(t *testing.T) {
	sq := Square{3, 0, 1}
	if got := sq.Cell(1); got != "111" {
		t.Errorf("Cell(1) = %q, want 111", got)
	}
	if got := sq.Cell(2); got != "—" {
		t.Errorf("Cell(2) = %q, want em dash", got)
	}
	if got := sq.Count(10); got != 0 {
		t.Errorf("Count(10) = %d, want 0", got)
	}
}
