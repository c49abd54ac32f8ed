package store

import (
	"fmt"
	"sort"
	"time"
)

const DateLayout = "2006-01-02"

// Schedule — расписание работы одной организации. После создания не меняется,
// все методы только читают данные, поэтому Schedule можно использовать из
// нескольких горутин без синхронизации.
//
// Недельная таблица и особые дни различаются семантикой отсутствующего ключа:
// нет ключа — нет данных, пустой список — явно закрыто.
type Schedule struct {
	week     map[WeekDay]TimeFrames
	special  map[string]TimeFrames // Ключ — дата YYYY-MM-DD, заменяет день недели целиком.
	holidays map[string]bool       // Даты, в которые действует расписание Holiday.
	zone     string
	loc      *time.Location
}

// New проверяет входные данные и собирает Schedule.
//
// Ключ week — либо один из восьми символов дня (mon..sun, hol), либо дата
// YYYY-MM-DD: такие записи переносятся в таблицу особых дней (так исторически
// выглядят выгрузки, где особые дни лежат вперемешку с днями недели).
// Несуществующие даты (2020-02-30) отклоняются, а не округляются.
func New(week map[string]TimeFrames, zone string, holidays []string, special map[string]TimeFrames) (*Schedule, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("store: %w: '%s'", ErrInvalidZone, zone)
	}

	s := &Schedule{
		week:     make(map[WeekDay]TimeFrames, len(week)),
		special:  make(map[string]TimeFrames, len(special)),
		holidays: make(map[string]bool, len(holidays)),
		zone:     zone,
		loc:      loc,
	}

	for key, frames := range week {
		if err := checkFrames(frames); err != nil {
			return nil, fmt.Errorf("store: week '%s': %w", key, err)
		}

		switch {
		case validKey(key):
			s.week[WeekDay(key)] = frames.Copy()
		case validDate(key):
			s.special[key] = frames.Copy()
		default:
			return nil, fmt.Errorf("store: %w: '%s'", ErrInvalidKey, key)
		}
	}

	for date, frames := range special {
		if !validDate(date) {
			return nil, fmt.Errorf("store: special day: %w: '%s'", ErrInvalidDate, date)
		}
		if err := checkFrames(frames); err != nil {
			return nil, fmt.Errorf("store: special day '%s': %w", date, err)
		}
		s.special[date] = frames.Copy()
	}

	for _, date := range holidays {
		if !validDate(date) {
			return nil, fmt.Errorf("store: holiday: %w: '%s'", ErrInvalidDate, date)
		}
		s.holidays[date] = true
	}

	return s, nil
}

func validDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func checkFrames(f TimeFrames) error {
	if len(f)%2 != 0 {
		return fmt.Errorf("%w: odd number of entries (%d)", ErrInvalidFrame, len(f))
	}
	for _, entry := range f {
		if _, _, err := ParseClock(entry); err != nil {
			return err
		}
	}
	return nil
}

// IsHoliday — точное совпадение строки даты со списком праздников.
func (s *Schedule) IsHoliday(date string) bool {
	return s.holidays[date]
}

// IsSpecialDay — есть ли на эту дату особое расписание.
func (s *Schedule) IsSpecialDay(date string) bool {
	_, ok := s.special[date]
	return ok
}

// IsUnknown — о расписании нет вообще никаких данных.
func (s *Schedule) IsUnknown() bool {
	return len(s.week) == 0 && len(s.special) == 0
}

func (s *Schedule) Timezone() string {
	return s.zone
}

func (s *Schedule) Location() *time.Location {
	return s.loc
}

// Week возвращает копию недельной таблицы: изменение результата не влияет на Schedule.
func (s *Schedule) Week() map[WeekDay]TimeFrames {
	week := make(map[WeekDay]TimeFrames, len(s.week))
	for day, frames := range s.week {
		week[day] = frames.Copy()
	}
	return week
}

// SpecialDays возвращает копию таблицы особых дней.
func (s *Schedule) SpecialDays() map[string]TimeFrames {
	special := make(map[string]TimeFrames, len(s.special))
	for date, frames := range s.special {
		special[date] = frames.Copy()
	}
	return special
}

// Holidays возвращает отсортированный список праздничных дат.
func (s *Schedule) Holidays() []string {
	dates := make([]string, 0, len(s.holidays))
	for date := range s.holidays {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}
