package fold

import (
	"sort"
	"time"

	"github.com/nvkalinin/openhours/store"
)

type specialDay struct {
	date   time.Time
	frames store.TimeFrames
}

// specialRanges выводит особые дни в окне [From, To] по возрастанию дат.
// Подряд идущие даты с одинаковыми интервалами сворачиваются в один диапазон
// "первая – последняя". Пустые интервалы выводятся плейсхолдером: особый день
// «закрыто» — намеренная информация, опускать его нельзя.
func specialRanges(s *store.Schedule, o Options) ([]Range, error) {
	from := o.SpecialDates.From
	if from.IsZero() {
		from = time.Now()
	}
	from = startOfDay(from, s.Location())

	to := o.SpecialDates.To
	if !to.IsZero() {
		to = startOfDay(to, s.Location())
	}

	days := make([]specialDay, 0, len(s.SpecialDays()))
	for date, frames := range s.SpecialDays() {
		dt, err := time.ParseInLocation(store.DateLayout, date, s.Location())
		if err != nil {
			// Даты проверены при создании Schedule.
			return nil, err
		}

		if dt.Before(from) || (!to.IsZero() && dt.After(to)) {
			continue
		}
		days = append(days, specialDay{date: dt, frames: frames})
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].date.Before(days[j].date)
	})

	res := make([]Range, 0, len(days))
	for start := 0; start < len(days); {
		end := start
		for end+1 < len(days) &&
			eqFrames(days[end+1].frames, days[end].frames) &&
			days[end+1].date.Equal(days[end].date.AddDate(0, 0, 1)) {
			end++
		}

		label := days[start].date.Format(o.SpecialDates.Format)
		if end > start {
			label += o.Hyphen + days[end].date.Format(o.SpecialDates.Format)
		}

		res = append(res, Range{
			Kind:     Special,
			Label:    label,
			TimeSpan: formatFrames(days[start].frames, o),
		})
		start = end + 1
	}

	return res, nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	y, m, d := lt.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
