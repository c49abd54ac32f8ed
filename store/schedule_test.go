package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	// Пустое расписание корректно.
	_, err := New(nil, "Europe/Vienna", nil, nil)
	assert.NoError(t, err)

	// Недопустимые ключи недельной таблицы.
	for _, key := range []string{"foo", "", "12345", "20200202", "YYYY-XX-XX"} {
		_, err := New(map[string]TimeFrames{key: {}}, "Europe/Vienna", nil, nil)
		assert.ErrorIs(t, err, ErrInvalidKey, "ключ: %s", key)
	}

	// Несуществующая дата как ключ недельной таблицы.
	_, err = New(map[string]TimeFrames{"2020-02-30": {"10:00", "20:00"}}, "Europe/Vienna", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidKey)

	// Некорректные праздники.
	for _, date := range []string{"2020-02-30", "", "2020-XX-30", "2020-00-00"} {
		_, err := New(nil, "Europe/Vienna", []string{date}, nil)
		assert.ErrorIs(t, err, ErrInvalidDate, "дата: %s", date)
	}

	// Некорректные особые дни.
	_, err = New(nil, "Europe/Vienna", nil, map[string]TimeFrames{"2020-02-30": {}})
	assert.ErrorIs(t, err, ErrInvalidDate)

	// Неизвестный часовой пояс.
	_, err = New(nil, "Mars/Olympus", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidZone)

	// Нечетное число интервалов.
	_, err = New(map[string]TimeFrames{"mon": {"10:00"}}, "UTC", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidFrame)

	// Непарсящееся время.
	_, err = New(map[string]TimeFrames{"mon": {"10:00", "20-00"}}, "UTC", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidFrame)
}

func TestNew_SplitsDateKeys(t *testing.T) {
	// Даты вперемешку с днями недели переносятся в особые дни.
	s, err := New(map[string]TimeFrames{
		"fri":        {"10:00", "20:00"},
		"2020-06-29": {},
	}, "UTC", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, map[WeekDay]TimeFrames{Friday: {"10:00", "20:00"}}, s.Week())
	assert.Equal(t, map[string]TimeFrames{"2020-06-29": {}}, s.SpecialDays())
	assert.True(t, s.IsSpecialDay("2020-06-29"))
}

func TestSchedule_IsHoliday(t *testing.T) {
	s, err := New(map[string]TimeFrames{"fri": {"10:00", "20:00"}}, "UTC",
		[]string{"2000-10-10", "2016-09-09", "2020-11-11"}, nil)
	require.NoError(t, err)

	assert.True(t, s.IsHoliday("2016-09-09"))
	assert.False(t, s.IsHoliday("2016-09-10"))
	assert.False(t, s.IsHoliday(""))
}

func TestSchedule_IsUnknown(t *testing.T) {
	s, err := New(nil, "UTC", nil, nil)
	require.NoError(t, err)
	assert.True(t, s.IsUnknown())

	// Праздники без расписания — данных все равно нет.
	s, err = New(nil, "UTC", []string{"2016-09-09"}, nil)
	require.NoError(t, err)
	assert.True(t, s.IsUnknown())

	s, err = New(map[string]TimeFrames{"fri": {"10:00", "20:00"}}, "UTC", nil, nil)
	require.NoError(t, err)
	assert.False(t, s.IsUnknown())

	s, err = New(nil, "UTC", nil, map[string]TimeFrames{"2020-05-05": {"10:00", "20:00"}})
	require.NoError(t, err)
	assert.False(t, s.IsUnknown())
}

func TestSchedule_CopiesData(t *testing.T) {
	week := map[string]TimeFrames{"fri": {"10:00", "20:00"}}
	s, err := New(week, "UTC", nil, nil)
	require.NoError(t, err)

	// Изменение исходной карты не влияет на Schedule.
	week["fri"][0] = "11:00"
	assert.Equal(t, TimeFrames{"10:00", "20:00"}, s.Week()[Friday])

	// Изменение результата аксессора тоже.
	w := s.Week()
	w[Friday][0] = "12:00"
	assert.Equal(t, TimeFrames{"10:00", "20:00"}, s.Week()[Friday])
}

func TestWeekDayByISO(t *testing.T) {
	day, err := WeekDayByISO(1)
	assert.NoError(t, err)
	assert.Equal(t, Monday, day)

	day, err = WeekDayByISO(7)
	assert.NoError(t, err)
	assert.Equal(t, Sunday, day)

	for _, i := range []int{0, 8, -1} {
		_, err := WeekDayByISO(i)
		assert.ErrorIs(t, err, ErrInvalidWeekDay, "индекс: %d", i)
	}
}
