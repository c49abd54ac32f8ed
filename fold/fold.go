package fold

import (
	"fmt"
	"strings"
	"time"

	"github.com/nvkalinin/openhours/store"
)

type Kind string

const (
	Weekday Kind = "weekday"
	Holiday Kind = "holiday"
	Special Kind = "special"
)

// Range — одна строка свернутого расписания, например
// {weekday, "Mon – Fri", "09:00 to 18:00"}. Только для чтения.
type Range struct {
	Kind     Kind   `json:"kind"`
	Label    string `json:"label"`
	TimeSpan string `json:"timespan"`
}

// SpecialDates ограничивает и форматирует вывод особых дней.
type SpecialDates struct {
	Format string    // Формат даты в нотации пакета time, по умолчанию "02.01.2006".
	From   time.Time // Первая выводимая дата, по умолчанию — начало текущего дня.
	To     time.Time // Последняя выводимая дата, нулевое значение — без ограничения.
}

// Options — настройки вывода. Нулевые значения заменяются умолчаниями.
type Options struct {
	Hyphen             string // Разделитель диапазона, по умолчанию " – " (узкие пробелы).
	Delimiter          string // Разделитель перечисления дней, по умолчанию ", ".
	Locale             string // Локаль названий дней недели, по умолчанию "en".
	WeekdayFormat      string // long, short или narrow, по умолчанию short.
	HolidayPrefix      string // Метка праздничной строки, по умолчанию "Holidays".
	TimeFrameFormat    string // Шаблон интервала с {start} и {end}, по умолчанию "{start} to {end}".
	TimeFrameDelimiter string // Разделитель интервалов, по умолчанию " and ".
	ClosedPlaceholder  string // Текст для пустого списка интервалов, по умолчанию "Closed".
	SpecialDates       SpecialDates
}

const (
	defHyphen             = " – "
	defDelimiter          = ", "
	defLocale             = "en"
	defHolidayPrefix      = "Holidays"
	defTimeFrameFormat    = "{start} to {end}"
	defTimeFrameDelimiter = " and "
	defClosedPlaceholder  = "Closed"
	defSpecialDateFormat  = "02.01.2006"
)

func (o Options) withDefaults() (Options, error) {
	if o.Hyphen == "" {
		o.Hyphen = defHyphen
	}
	if o.Delimiter == "" {
		o.Delimiter = defDelimiter
	}
	if o.Locale == "" {
		o.Locale = defLocale
	}
	if o.WeekdayFormat == "" {
		o.WeekdayFormat = FormatShort
	}
	if o.HolidayPrefix == "" {
		o.HolidayPrefix = defHolidayPrefix
	}
	if o.TimeFrameFormat == "" {
		o.TimeFrameFormat = defTimeFrameFormat
	}
	if o.TimeFrameDelimiter == "" {
		o.TimeFrameDelimiter = defTimeFrameDelimiter
	}
	if o.ClosedPlaceholder == "" {
		o.ClosedPlaceholder = defClosedPlaceholder
	}
	if o.SpecialDates.Format == "" {
		o.SpecialDates.Format = defSpecialDateFormat
	}

	switch o.WeekdayFormat {
	case FormatLong, FormatShort, FormatNarrow:
	default:
		return o, fmt.Errorf("fold: unknown weekday format '%s'", o.WeekdayFormat)
	}
	if !strings.Contains(o.TimeFrameFormat, "{start}") || !strings.Contains(o.TimeFrameFormat, "{end}") {
		return o, fmt.Errorf("fold: time frame format '%s' must contain {start} and {end}", o.TimeFrameFormat)
	}

	return o, nil
}

// Reduce сворачивает расписание в минимальный набор читаемых диапазонов:
// сначала дни недели (одинаковые дни объединяются, закрытые и неизвестные
// опускаются), затем праздники, затем особые дни. Особые дни, в отличие от
// дней недели, выводятся и пустыми: явное «закрыто» — намеренная информация.
func Reduce(s *store.Schedule, opts Options) ([]Range, error) {
	o, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	week := s.Week()
	bags := rangeBags(eliminateEqualRanges(week))

	res := []Range{}
	for rep := 0; rep < 7; rep++ {
		bag, ok := bags[rep]
		if !ok {
			continue
		}

		frames := week[store.WeekDays[rep]]
		if len(frames) == 0 {
			// Закрытые и неизвестные дни недели не выводятся.
			continue
		}

		label, err := bagLabel(bag, o)
		if err != nil {
			return nil, err
		}
		res = append(res, Range{Kind: Weekday, Label: label, TimeSpan: formatFrames(frames, o)})
	}

	if hol, ok := week[store.Holiday]; ok {
		res = append(res, Range{Kind: Holiday, Label: o.HolidayPrefix, TimeSpan: formatFrames(hol, o)})
	}

	special, err := specialRanges(s, o)
	if err != nil {
		return nil, err
	}
	res = append(res, special...)

	return res, nil
}

// Fold выводит результат Reduce в одну строку: "{label}: {timespan}",
// строки соединяются sep (пустая строка — перевод строки).
func Fold(s *store.Schedule, opts Options, sep string) (string, error) {
	if sep == "" {
		sep = "\n"
	}

	ranges, err := Reduce(s, opts)
	if err != nil {
		return "", err
	}

	lines := make([]string, len(ranges))
	for i, r := range ranges {
		lines[i] = r.Label + ": " + r.TimeSpan
	}
	return strings.Join(lines, sep), nil
}

// eqFrames сравнивает списки интервалов поэлементно. Дни без данных (nil)
// не равны ничему, даже друг другу: их нельзя объединять в диапазон.
func eqFrames(a, b store.TimeFrames) bool {
	if a == nil || b == nil || len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// eliminateEqualRanges сопоставляет каждому дню недели индекс представителя —
// наименьший индекс дня с таким же расписанием. Сначала соседние равные дни
// получают общего представителя, затем обратным проходом каждый день
// притягивается к самому раннему равному дню всей недели, не только соседнему.
func eliminateEqualRanges(week map[store.WeekDay]store.TimeFrames) [7]int {
	var simple [7]int
	for i := 1; i < 7; i++ {
		prev := week[store.WeekDays[i-1]]
		curr := week[store.WeekDays[i]]

		if eqFrames(prev, curr) {
			simple[i] = simple[i-1]
		} else {
			simple[i] = i
		}
	}

	deduped := simple
	for i := 6; i >= 0; i-- {
		for u := 0; u < i; u++ {
			if eqFrames(week[store.WeekDays[u]], week[store.WeekDays[i]]) {
				deduped[i] = u
				break
			}
		}
	}
	return deduped
}

// rangeBags группирует позиции дней по индексу представителя.
func rangeBags(reps [7]int) map[int][]int {
	bags := make(map[int][]int, 7)
	for day, rep := range reps {
		bags[rep] = append(bags[rep], day)
	}
	return bags
}

func contiguous(bag []int) bool {
	for i := 1; i < len(bag); i++ {
		if bag[i] != bag[i-1]+1 {
			return false
		}
	}
	return true
}

// bagLabel выводит метку группы дней: "Пн – Пт" для непрерывного диапазона,
// иначе перечисление через Delimiter.
func bagLabel(bag []int, o Options) (string, error) {
	names := make([]string, len(bag))
	for i, day := range bag {
		name, err := WeekdayName(o.Locale, day+1, o.WeekdayFormat)
		if err != nil {
			return "", err
		}
		names[i] = name
	}

	if len(bag) > 1 && contiguous(bag) {
		return names[0] + o.Hyphen + names[len(names)-1], nil
	}
	return strings.Join(names, o.Delimiter), nil
}

// formatFrames выводит интервалы по шаблону TimeFrameFormat. Час конца ≥ 24
// приводится к обычному времени суток: хранится "26:00", выводится "02:00".
func formatFrames(frames store.TimeFrames, o Options) string {
	if len(frames) == 0 {
		return o.ClosedPlaceholder
	}

	segs := make([]string, 0, len(frames)/2)
	for i := 0; i+1 < len(frames); i += 2 {
		seg := strings.ReplaceAll(o.TimeFrameFormat, "{start}", frames[i])
		seg = strings.ReplaceAll(seg, "{end}", normalizeEnd(frames[i+1]))
		segs = append(segs, seg)
	}
	return strings.Join(segs, o.TimeFrameDelimiter)
}

func normalizeEnd(end string) string {
	h, m, err := store.ParseClock(end)
	if err != nil {
		return end
	}

	// Ровно "24:00" выводится как есть — это привычная запись конца суток.
	if h > 24 || (h == 24 && m > 0) {
		h -= 24
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}
