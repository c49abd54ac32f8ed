package source

import (
	"fmt"

	"github.com/nvkalinin/openhours/store"
)

// HoursParser возвращает недельную таблицу, извлеченную из внешнего ресурса.
type HoursParser interface {
	Fetch(url string) (map[string]store.TimeFrames, error)
}

// Web - источник с сайта организации: парсер достает таблицу со страницы,
// остальные поля расписания задаются конфигурацией.
type Web struct {
	Name     string // Имя расписания в хранилище.
	URL      string
	Timezone string // По умолчанию UTC.
	Parser   HoursParser
}

func (w *Web) Load() (map[string]*store.Schedule, error) {
	week, err := w.Parser.Fetch(w.URL)
	if err != nil {
		return nil, fmt.Errorf("source/web '%s': %w", w.Name, err)
	}

	zone := w.Timezone
	if zone == "" {
		zone = "UTC"
	}

	s, err := store.New(week, zone, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("source/web '%s' produced invalid schedule: %w", w.Name, err)
	}
	return map[string]*store.Schedule{w.Name: s}, nil
}
