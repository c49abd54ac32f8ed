package fold

import (
	"fmt"

	"github.com/nvkalinin/openhours/store"
	"golang.org/x/text/language"
)

// WeekdayFormat — форма названия дня недели.
const (
	FormatLong   = "long"   // "Friday", "Freitag", "пятница"
	FormatShort  = "short"  // "Fri", "Fr.", "пт"
	FormatNarrow = "narrow" // "F", "F", "П"
)

// Первый тег — запасной вариант при неизвестной локали.
var locales = []language.Tag{
	language.English,
	language.German,
	language.Russian,
}

var localeMatcher = language.NewMatcher(locales)

// Названия дней с понедельника по воскресенье, индекс соответствует locales.
var weekdayNames = map[string][][7]string{
	FormatLong: {
		{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
		{"Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag", "Sonntag"},
		{"понедельник", "вторник", "среда", "четверг", "пятница", "суббота", "воскресенье"},
	},
	FormatShort: {
		{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		{"Mo.", "Di.", "Mi.", "Do.", "Fr.", "Sa.", "So."},
		{"пн", "вт", "ср", "чт", "пт", "сб", "вс"},
	},
	FormatNarrow: {
		{"M", "T", "W", "T", "F", "S", "S"},
		{"M", "D", "M", "D", "F", "S", "S"},
		{"П", "В", "С", "Ч", "П", "С", "В"},
	},
}

// WeekdayName возвращает название дня недели (1 — понедельник, 7 — воскресенье)
// для указанной локали. Неизвестная локаль откатывается к английской.
func WeekdayName(locale string, iso int, format string) (string, error) {
	names, ok := weekdayNames[format]
	if !ok {
		return "", fmt.Errorf("fold: unknown weekday format '%s'", format)
	}

	if _, err := store.WeekDayByISO(iso); err != nil {
		return "", err
	}

	return names[localeIndex(locale)][iso-1], nil
}

func localeIndex(locale string) int {
	tag, err := language.Parse(locale)
	if err != nil {
		return 0
	}
	_, idx, _ := localeMatcher.Match(tag)
	return idx
}
