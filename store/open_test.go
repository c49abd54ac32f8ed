package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2016-09-09 — пятница.
func utc(d, h, m, s, ms int) time.Time {
	return time.Date(2016, 9, d, h, m, s, ms*int(time.Millisecond), time.UTC)
}

func mustNew(t *testing.T, week map[string]TimeFrames, zone string, holidays []string, special map[string]TimeFrames) *Schedule {
	s, err := New(week, zone, holidays, special)
	require.NoError(t, err)
	return s
}

func TestSchedule_IsOpenAt_Simple(t *testing.T) {
	s := mustNew(t, map[string]TimeFrames{"fri": {"10:00", "20:00"}}, "UTC", nil, nil)

	assert.False(t, s.IsOpenAt(utc(9, 9, 59, 59, 999)))
	assert.True(t, s.IsOpenAt(utc(9, 10, 0, 0, 0)))
	assert.True(t, s.IsOpenAt(utc(9, 15, 30, 0, 0)))
	assert.True(t, s.IsOpenAt(utc(9, 19, 59, 59, 999)))
	assert.False(t, s.IsOpenAt(utc(9, 20, 0, 0, 0)))
	assert.False(t, s.IsOpenAt(utc(9, 20, 0, 0, 1)))

	// В другие дни данных нет — закрыто.
	assert.False(t, s.IsOpenAt(utc(8, 12, 0, 0, 0)))
	assert.False(t, s.IsOpenAt(utc(10, 12, 0, 0, 0)))
}

func TestSchedule_IsOpenAt_OverlongBleedOver(t *testing.T) {
	s := mustNew(t, map[string]TimeFrames{
		"thu": {"20:00", "25:00"},
		"fri": {"10:00", "20:00"},
	}, "UTC", nil, nil)

	// Четверг работает и после полуночи.
	assert.True(t, s.IsOpenAt(utc(8, 23, 59, 59, 0)))
	assert.True(t, s.IsOpenAt(utc(9, 0, 0, 0, 0)))
	assert.True(t, s.IsOpenAt(utc(9, 0, 59, 59, 999)))

	// С часу ночи до десяти утра пятницы — закрыто.
	assert.False(t, s.IsOpenAt(utc(9, 1, 0, 0, 0)))
	assert.False(t, s.IsOpenAt(utc(9, 9, 0, 0, 0)))
	assert.True(t, s.IsOpenAt(utc(9, 10, 0, 0, 0)))
}

func TestSchedule_IsOpenAt_MidnightBoundary(t *testing.T) {
	// "24:00" заканчивается ровно в полночь, переноса на пятницу нет.
	s := mustNew(t, map[string]TimeFrames{
		"thu": {"20:00", "24:00"},
		"fri": {"10:00", "20:00"},
	}, "UTC", nil, nil)

	assert.True(t, s.IsOpenAt(utc(8, 23, 59, 59, 999)))
	assert.False(t, s.IsOpenAt(utc(9, 0, 0, 0, 0)))
}

func TestSchedule_IsOpenAt_SpecialDay(t *testing.T) {
	s := mustNew(t, map[string]TimeFrames{"fri": {"10:00", "20:00"}}, "UTC", nil,
		map[string]TimeFrames{"2016-09-09": {"12:00", "14:00"}})

	// Особый день заменяет недельное расписание целиком.
	assert.False(t, s.IsOpenAt(utc(9, 10, 0, 0, 0)))
	assert.True(t, s.IsOpenAt(utc(9, 12, 0, 0, 0)))
	assert.False(t, s.IsOpenAt(utc(9, 14, 0, 0, 0)))
}

func TestSchedule_IsOpenAt_SpecialDayClosed(t *testing.T) {
	// Пустой особый день — явно закрыто.
	s := mustNew(t, map[string]TimeFrames{"fri": {"10:00", "20:00"}}, "UTC", nil,
		map[string]TimeFrames{"2016-09-09": {}})

	assert.False(t, s.IsOpenAt(utc(9, 12, 0, 0, 0)))
}

func TestSchedule_IsOpenAt_SpecialSpilloverWins(t *testing.T) {
	// Четверг 2016-09-08 — особый день с переносом через полночь.
	// Перенос на пятницу берется из особого дня, а не из недельного четверга.
	s := mustNew(t, map[string]TimeFrames{
		"thu": {"20:00", "27:00"},
		"fri": {"10:00", "20:00"},
	}, "UTC", nil, map[string]TimeFrames{"2016-09-08": {"14:00", "26:00"}})

	assert.True(t, s.IsOpenAt(utc(9, 0, 0, 0, 0)))
	assert.True(t, s.IsOpenAt(utc(9, 1, 59, 59, 999)))
	// Хвост недельного четверга (до 03:00) игнорируется.
	assert.False(t, s.IsOpenAt(utc(9, 2, 0, 0, 0)))
	assert.False(t, s.IsOpenAt(utc(9, 2, 30, 0, 0)))
}

func TestSchedule_IsOpenAt_SpecialClosedBlocksSpillover(t *testing.T) {
	// Вчерашний особый день «закрыто» отменяет перенос из недельной таблицы.
	s := mustNew(t, map[string]TimeFrames{
		"thu": {"20:00", "27:00"},
		"fri": {"10:00", "20:00"},
	}, "UTC", nil, map[string]TimeFrames{"2016-09-08": {}})

	assert.False(t, s.IsOpenAt(utc(9, 0, 30, 0, 0)))
	assert.True(t, s.IsOpenAt(utc(9, 10, 0, 0, 0)))
}

func TestSchedule_IsOpenAt_HolidayRedirect(t *testing.T) {
	s := mustNew(t, map[string]TimeFrames{
		"fri": {"10:00", "20:00"},
		"hol": {"12:00", "13:00"},
	}, "UTC", []string{"2016-09-09"}, nil)

	// В праздник действует слот hol, а не день недели.
	assert.False(t, s.IsOpenAt(utc(9, 10, 30, 0, 0)))
	assert.True(t, s.IsOpenAt(utc(9, 12, 30, 0, 0)))
}

func TestSchedule_OverlongPrecedingKey(t *testing.T) {
	s := mustNew(t, map[string]TimeFrames{"fri": {"10:00", "28:00"}}, "UTC", nil, nil)

	_, ok := s.OverlongPrecedingKey(utc(9, 0, 0, 0, 0))
	assert.False(t, ok)

	key, ok := s.OverlongPrecedingKey(utc(10, 0, 0, 0, 0))
	assert.True(t, ok)
	assert.Equal(t, Friday, key)

	_, ok = s.OverlongPrecedingKey(utc(11, 0, 0, 0, 0))
	assert.False(t, ok)

	// Несколько интервалов: важен только последний.
	s = mustNew(t, map[string]TimeFrames{"fri": {"10:00", "12:00", "14:00", "28:00"}}, "UTC", nil, nil)
	key, ok = s.OverlongPrecedingKey(utc(10, 0, 0, 0, 0))
	assert.True(t, ok)
	assert.Equal(t, Friday, key)

	// "24:00" считается переходом для поиска ключа, но без фактического хвоста.
	s = mustNew(t, map[string]TimeFrames{"fri": {"00:00", "24:00"}}, "UTC", nil, nil)
	key, ok = s.OverlongPrecedingKey(utc(10, 0, 0, 0, 0))
	assert.True(t, ok)
	assert.Equal(t, Friday, key)

	// Вчера — праздник: проверяется слот hol.
	s = mustNew(t, map[string]TimeFrames{
		"fri": {"10:00", "18:00"},
		"hol": {"10:00", "26:00"},
	}, "UTC", []string{"2016-09-09"}, nil)
	key, ok = s.OverlongPrecedingKey(utc(10, 0, 0, 0, 0))
	assert.True(t, ok)
	assert.Equal(t, Holiday, key)

	// Закрытые и неизвестные дни перехода не дают.
	s = mustNew(t, map[string]TimeFrames{"thu": {}, "fri": {}, "sat": {}}, "UTC", nil, nil)
	_, ok = s.OverlongPrecedingKey(utc(10, 0, 0, 0, 0))
	assert.False(t, ok)

	s = mustNew(t, nil, "UTC", nil, nil)
	_, ok = s.OverlongPrecedingKey(utc(10, 0, 0, 0, 0))
	assert.False(t, ok)
}

func TestSchedule_IsOpenAt_Timezone(t *testing.T) {
	// Пятница 12:00-01:00 по венскому времени (лето, UTC+2).
	s := mustNew(t, map[string]TimeFrames{"fri": {"12:00", "25:00"}}, "Europe/Vienna", nil, nil)

	// Пятница 11:59 в Вене = 09:59 UTC.
	assert.False(t, s.IsOpenAt(time.Date(2016, 9, 9, 9, 59, 0, 0, time.UTC)))
	// Пятница 12:00 в Вене.
	assert.True(t, s.IsOpenAt(time.Date(2016, 9, 9, 10, 0, 0, 0, time.UTC)))
	// Суббота 00:30 в Вене = пятница 22:30 UTC — хвост пятницы.
	assert.True(t, s.IsOpenAt(time.Date(2016, 9, 9, 22, 30, 0, 0, time.UTC)))
	// Суббота 01:00 в Вене — уже закрыто.
	assert.False(t, s.IsOpenAt(time.Date(2016, 9, 9, 23, 0, 0, 0, time.UTC)))
}
