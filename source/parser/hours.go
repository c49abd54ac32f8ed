package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nvkalinin/openhours/store"
)

// Немецкие метки дней. Feiertags — расписание в праздники.
// @formatter:off
var dayLabels = map[string]string{
	"mo": "mon", "di": "tue", "mi": "wed", "do": "thu",
	"fr": "fri", "sa": "sat", "so": "sun",
	"feiertag": "hol", "feiertags": "hol",
}

// @formatter:on

// ParseHours разбирает строку расписания вида
//
//	"Mo: 07:15 - 19:30, Di: 07:15 - 19:30, Sa: 10:00 - 14:00, 20:00 - 01:00"
//
// в недельную таблицу для store.New. Регистр меток не важен, повторные пробелы
// схлопываются, клаузы разделяются запятой или переводом строки. Конец
// интервала, номинально не позже начала, трактуется как время следующего дня
// и записывается часом ≥ 24: "20:00 - 01:00" превращается в ["20:00", "25:00"].
//
// Любая ошибка прерывает разбор целиком: частичный результат не возвращается.
func ParseHours(text string) (map[string]store.TimeFrames, error) {
	res := make(map[string]store.TimeFrames)
	current := ""
	floor := 0 // Час конца последнего интервала текущей клаузы.

	for _, seg := range strings.Split(normalize(text), ",") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}

		if day, rest, ok := splitClause(seg); ok {
			if _, dup := res[day]; dup {
				return nil, fmt.Errorf("parser/hours: day '%s' is defined twice", day)
			}
			current = day
			floor = 0
			res[day] = store.TimeFrames{}
			seg = strings.TrimSpace(rest)
			if seg == "" {
				continue
			}
		}

		if current == "" {
			return nil, fmt.Errorf("parser/hours: time range '%s' comes before any day label", seg)
		}

		frame, newFloor, err := parseRange(seg, floor)
		if err != nil {
			return nil, err
		}
		floor = newFloor
		res[current] = append(res[current], frame...)
	}

	for day, frames := range res {
		if len(frames) == 0 {
			return nil, fmt.Errorf("parser/hours: day '%s' has no time ranges", day)
		}
	}
	return res, nil
}

func normalize(text string) string {
	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\n", ",")
	// Схлопывает повторные пробелы и табуляцию.
	return strings.Join(strings.Fields(text), " ")
}

// splitClause отделяет метку дня от остатка сегмента: "mo: 07:15 - 19:30" →
// ("mon", " 07:15 - 19:30"). Сегмент без известной метки — продолжение
// предыдущей клаузы.
func splitClause(seg string) (day, rest string, ok bool) {
	colon := strings.Index(seg, ":")
	if colon < 0 {
		return "", "", false
	}

	day, ok = dayLabels[strings.TrimSpace(seg[:colon])]
	if !ok {
		return "", "", false
	}
	return day, seg[colon+1:], true
}

// parseRange разбирает "H:MM - H:MM" в пару ["HH:MM", "HH:MM"].
// Конец с часом, номинально не позже часа начала, сдвигается на сутки вперед:
// так "22:00 - 10:00" кодируется как ["22:00", "34:00"]. floor — час конца
// предыдущего интервала того же дня: интервал, начинающийся раньше floor,
// относится уже к следующим суткам ("20:00 - 01:00, 02:00 - 04:00" дает
// ["20:00", "25:00", "26:00", "28:00"], второй интервал не сбрасывается к нулю).
func parseRange(seg string, floor int) (store.TimeFrames, int, error) {
	parts := strings.Split(seg, "-")
	if len(parts) != 2 {
		return nil, 0, fmt.Errorf("parser/hours: invalid time range '%s'", seg)
	}

	sh, sm, err := parseTime(parts[0])
	if err != nil {
		return nil, 0, err
	}
	eh, em, err := parseTime(parts[1])
	if err != nil {
		return nil, 0, err
	}

	if sh > 23 {
		return nil, 0, fmt.Errorf("parser/hours: invalid start hour in '%s'", seg)
	}
	for sh < floor {
		sh += 24
	}
	for eh <= sh {
		eh += 24
	}

	return store.TimeFrames{
		fmt.Sprintf("%02d:%02d", sh, sm),
		fmt.Sprintf("%02d:%02d", eh, em),
	}, eh, nil
}

// parseTime принимает час из одной-двух цифр и минуты ровно из двух.
func parseTime(s string) (h, m int, err error) {
	s = strings.TrimSpace(s)

	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) < 1 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("parser/hours: invalid time '%s'", s)
	}

	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 24 || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("parser/hours: invalid time '%s'", s)
	}
	return h, m, nil
}
