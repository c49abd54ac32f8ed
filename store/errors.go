package store

import "errors"

var (
	// ErrInvalidKey — ключ недельной таблицы не является ни днем недели, ни датой.
	ErrInvalidKey = errors.New("invalid schedule key")

	// ErrInvalidDate — строка не является существующей датой вида YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidZone — неизвестный идентификатор часового пояса.
	ErrInvalidZone = errors.New("invalid time zone")

	// ErrInvalidFrame — список интервалов нечетной длины или время не разбирается.
	ErrInvalidFrame = errors.New("invalid time frame")

	// ErrInvalidWeekDay — номер дня недели вне диапазона 1-7.
	ErrInvalidWeekDay = errors.New("invalid weekday index")
)
