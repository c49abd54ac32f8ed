package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseClock разбирает "H:MM" или "HH:MM". Час может быть ≥ 24 —
// так кодируется конец интервала, переходящий через полночь.
func ParseClock(s string) (h, m int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("store: %w: '%s'", ErrInvalidFrame, s)
	}

	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 47 || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("store: %w: '%s'", ErrInvalidFrame, s)
	}
	return h, m, nil
}

// inFrame проверяет, попадает ли t в интервал [start, end) своего календарного дня.
// Интервал полуоткрытый: момент, точно равный концу, считается закрытым.
// Час ≥ 24 нормализуется time.Date в следующий день, поэтому интервал
// "20:00"-"26:00" покрывает и поздний вечер самого дня.
func inFrame(t time.Time, start, end string) bool {
	sh, sm, err1 := ParseClock(start)
	eh, em, err2 := ParseClock(end)
	if err1 != nil || err2 != nil {
		return false
	}

	y, mon, d := t.Date()
	from := time.Date(y, mon, d, sh, sm, 0, 0, t.Location())
	to := time.Date(y, mon, d, eh, em, 0, 0, t.Location())

	return !t.Before(from) && t.Before(to)
}

// Overlong сообщает, переходит ли последний интервал через полночь
// (час конца ≥ 24, например "26:00" — два часа ночи следующего дня).
func (f TimeFrames) Overlong() bool {
	if len(f) == 0 {
		return false
	}
	h, _, err := ParseClock(f[len(f)-1])
	return err == nil && h >= 24
}

// overflow возвращает синтетическую пару ["00:00", "HH:MM"] — часть последнего
// интервала, попадающую на следующий день. Конец ровно "24:00" ни на что
// не влияет, поэтому для него (и для пустого списка) возвращается nil.
func (f TimeFrames) overflow() TimeFrames {
	if len(f) == 0 {
		return nil
	}

	h, m, err := ParseClock(f[len(f)-1])
	if err != nil || h < 24 || (h == 24 && m == 0) {
		return nil
	}

	return TimeFrames{"00:00", fmt.Sprintf("%02d:%02d", h-24, m)}
}
