package store

import "encoding/json"

// scheduleJson — формат обмена для REST API и хранилища bolt.
type scheduleJson struct {
	Week     map[WeekDay]TimeFrames `json:"week"`
	Timezone string                 `json:"timezone"`
	Holidays []string               `json:"holidays,omitempty"`
	Special  map[string]TimeFrames  `json:"special,omitempty"`
}

func (s *Schedule) MarshalJSON() ([]byte, error) {
	doc := scheduleJson{
		Week:     s.Week(),
		Timezone: s.zone,
		Holidays: s.Holidays(),
		Special:  s.SpecialDays(),
	}
	return json.Marshal(doc)
}

// UnmarshalJSON прогоняет данные через New: расписание из недоверенного
// источника проходит ту же валидацию, что и собранное вручную.
func (s *Schedule) UnmarshalJSON(b []byte) error {
	doc := scheduleJson{}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}

	week := make(map[string]TimeFrames, len(doc.Week))
	for day, frames := range doc.Week {
		week[string(day)] = frames
	}

	parsed, err := New(week, doc.Timezone, doc.Holidays, doc.Special)
	if err != nil {
		return err
	}

	*s = *parsed
	return nil
}
