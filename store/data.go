package store

import (
	"fmt"
	"time"
)

type WeekDay string

const (
	Monday    WeekDay = "mon"
	Tuesday   WeekDay = "tue"
	Wednesday WeekDay = "wed"
	Thursday  WeekDay = "thu"
	Friday    WeekDay = "fri"
	Saturday  WeekDay = "sat"
	Sunday    WeekDay = "sun"
	Holiday   WeekDay = "hol" // Псевдо-день: расписание, действующее в праздники.
)

// WeekDays — неделя по порядку ISO 8601, начинается с понедельника.
var WeekDays = [7]WeekDay{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func NewWeekDay(wd time.Weekday) (WeekDay, bool) {
	// @formatter:off
	switch wd {
	case time.Monday:    return Monday,    true
	case time.Tuesday:   return Tuesday,   true
	case time.Wednesday: return Wednesday, true
	case time.Thursday:  return Thursday,  true
	case time.Friday:    return Friday,    true
	case time.Saturday:  return Saturday,  true
	case time.Sunday:    return Sunday,    true
	default:             return "",        false
	}
	// @formatter:on
}

// WeekDayByISO переводит номер дня по ISO 8601 (1 — понедельник, 7 — воскресенье)
// в трехбуквенный ключ. Номер вне 1-7 — ошибка в коде вызывающей стороны, не во входных данных.
func WeekDayByISO(i int) (WeekDay, error) {
	if i < 1 || i > 7 {
		return "", fmt.Errorf("store: %w: %d", ErrInvalidWeekDay, i)
	}
	return WeekDays[i-1], nil
}

func validKey(k string) bool {
	switch WeekDay(k) {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday, Holiday:
		return true
	}
	return false
}

// TimeFrames — список "HH:MM" четной длины: пары (начало, конец) интервалов работы.
// Час конца ≥ 24 означает время следующего календарного дня: ["20:00", "26:00"] —
// с восьми вечера до двух ночи. Пустой список — закрыто, nil — нет данных.
type TimeFrames []string

func (f TimeFrames) Copy() TimeFrames {
	if f == nil {
		return nil
	}
	fCopy := make(TimeFrames, len(f))
	copy(fCopy, f)
	return fCopy
}
