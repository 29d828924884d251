package astro

import (
	lunar "github.com/6tail/lunar-go/calendar"

	"github.com/foreteller/foreteller/calendar"
)

// animalLabels maps the lunar calendar's animal token to its English label.
var animalLabels = map[string]string{
	"鼠": "Rat",
	"牛": "Ox",
	"虎": "Tiger",
	"兔": "Rabbit",
	"龙": "Dragon",
	"蛇": "Snake",
	"马": "Horse",
	"羊": "Goat",
	"猴": "Monkey",
	"鸡": "Rooster",
	"狗": "Dog",
	"猪": "Pig",
}

// ChineseAnimal returns the zodiac animal of the traditional lunar year that
// contains the date. Dates before a lunar new year belong to the previous
// animal, so 1990-01-15 is a Snake while 1990-05-15 is a Horse.
// Invalid dates and conversion failures resolve to Unknown with ok false.
func ChineseAnimal(d calendar.Date) (animal string, ok bool) {
	if !d.IsGregorian() {
		return Unknown, false
	}

	defer func() {
		if r := recover(); r != nil {
			animal, ok = Unknown, false
		}
	}()

	token := lunar.NewSolarFromYmd(d.Year, d.Month, d.Day).GetLunar().GetYearShengXiao()
	label, found := animalLabels[token]
	if !found {
		return Unknown, false
	}
	return label, true
}
