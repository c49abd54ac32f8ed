package store

import "time"

// dayKey возвращает слот недельной таблицы для даты: Holiday, если дата
// праздничная, иначе — обычный день недели.
func (s *Schedule) dayKey(t time.Time) WeekDay {
	if s.IsHoliday(t.Format(DateLayout)) {
		return Holiday
	}
	day, _ := NewWeekDay(t.Weekday())
	return day
}

// OverlongPrecedingKey проверяет, переходит ли расписание предыдущего дня через
// полночь, и возвращает ключ этого дня. Предыдущий день сначала разрешается
// через праздники: если вчера был праздник, проверяется слот Holiday.
func (s *Schedule) OverlongPrecedingKey(t time.Time) (WeekDay, bool) {
	yesterday := t.In(s.loc).AddDate(0, 0, -1)
	key := s.dayKey(yesterday)

	if !s.week[key].Overlong() {
		return "", false
	}
	return key, true
}

// IsOpenAt отвечает, открыта ли организация в момент t.
//
// Интервалы на сегодня берутся из особого дня, если он задан, иначе из недельной
// таблицы (в праздник — слот Holiday). К ним добавляется «хвост» вчерашнего дня,
// перешедший через полночь. Если вчера — особый день, хвост берется только из
// него, даже когда список пуст: явное «закрыто» отменяет перенос из недельной
// таблицы.
func (s *Schedule) IsOpenAt(t time.Time) bool {
	lt := t.In(s.loc)
	today := lt.Format(DateLayout)
	yesterday := lt.AddDate(0, 0, -1).Format(DateLayout)

	var frames TimeFrames
	if s.IsSpecialDay(today) {
		frames = s.special[today].Copy()
	} else {
		frames = s.week[s.dayKey(lt)].Copy()
	}

	if s.IsSpecialDay(yesterday) {
		frames = append(frames, s.special[yesterday].overflow()...)
	} else if key, ok := s.OverlongPrecedingKey(lt); ok {
		frames = append(frames, s.week[key].overflow()...)
	}

	for i := 0; i+1 < len(frames); i += 2 {
		if inFrame(lt, frames[i], frames[i+1]) {
			return true
		}
	}
	return false
}
