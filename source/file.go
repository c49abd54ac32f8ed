package source

import (
	"fmt"
	"os"

	"github.com/nvkalinin/openhours/store"
	"gopkg.in/yaml.v3"
)

// File - источник, который берет расписания из YAML-файла.
// Формат: имя расписания -> недельная таблица, зона, праздники, особые дни.
type File struct {
	Path string
}

type fileSchedule struct {
	Week     map[string]store.TimeFrames `yaml:"week"`
	Timezone string                      `yaml:"timezone"`
	Holidays []string                    `yaml:"holidays"`
	Special  map[string]store.TimeFrames `yaml:"special"`
}

func (f *File) Load() (map[string]*store.Schedule, error) {
	// Админ может менять файл, поэтому читаем его при каждом вызове.
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("source/file cannot read yaml: %w", err)
	}

	raw := map[string]fileSchedule{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("source/file cannot parse yaml: %w", err)
	}

	res := make(map[string]*store.Schedule, len(raw))
	for name, fs := range raw {
		zone := fs.Timezone
		if zone == "" {
			zone = "UTC"
		}

		s, err := store.New(fs.Week, zone, fs.Holidays, fs.Special)
		if err != nil {
			return nil, fmt.Errorf("source/file invalid schedule '%s': %w", name, err)
		}
		res[name] = s
	}
	return res, nil
}
