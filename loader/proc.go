package loader

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/nvkalinin/openhours/store"
)

type Source interface {
	// Load возвращает расписания по именам. Не обязан знать обо всех
	// расписаниях: каждый источник отдает только свои.
	Load() (map[string]*store.Schedule, error)
}

type Store interface {
	Put(name string, s *store.Schedule) error
}

type ProcOpts struct {
	Src      []Source  // Упорядоченный список источников расписаний.
	Store    Store     // Куда сохранять расписания (необязательно, если нужен только метод MakeSet).
	UpdateAt time.Time // Используется только время, остальное игнорируется.
}

type Processor struct {
	ProcOpts
	stopCh  chan struct{}
	stopped bool
}

func NewProcessor(opts ProcOpts) *Processor {
	return &Processor{
		ProcOpts: opts,
		stopCh:   make(chan struct{}),
	}
}

// RunUpdates раз в сутки (UpdateAt) перечитывает расписания из источников.
func (p *Processor) RunUpdates() {
	t := time.NewTimer(p.untilNextRun())
	for {
		select {
		case <-t.C:
			if err := p.UpdateAll(); err != nil {
				log.Printf("[WARN] loader/proc cannot update schedules: %+v", err)
			}
			t.Reset(p.untilNextRun())

		case <-p.stopCh:
			p.stopped = true
			return
		}
	}
}

func (p *Processor) Shutdown(ctx context.Context) error {
	close(p.stopCh)

	for {
		select {
		case <-time.After(10 * time.Millisecond):
			if p.stopped {
				return nil
			}
		case <-ctx.Done():
			log.Printf("[WARN] loader.Proc shutdown timeout")
			return ctx.Err()
		}
	}
}

func (p *Processor) untilNextRun() time.Duration {
	now := time.Now()

	nextRun := time.Date(
		now.Year(), now.Month(), now.Day(),
		p.UpdateAt.Hour(), p.UpdateAt.Minute(), p.UpdateAt.Second(), p.UpdateAt.Nanosecond(),
		time.Local,
	)

	d := time.Until(nextRun)
	if d < 0 {
		d += 24 * time.Hour
	}
	return d
}

// UpdateAll собирает расписания из всех источников и кладет их в хранилище.
func (p *Processor) UpdateAll() error {
	for name, s := range p.MakeSet() {
		if err := p.Store.Put(name, s); err != nil {
			return fmt.Errorf("loader/proc cannot store schedule '%s': %w", name, err)
		}
	}
	return nil
}

// MakeSet собирает расписания из источников Src.
// Если два источника возвращают расписание с одним именем, последнее заменяет
// первое. Источник, вернувший ошибку, пропускается. Если все источники вернут
// ошибку или Src пуст, возвращается пустая таблица (len=0).
func (p *Processor) MakeSet() map[string]*store.Schedule {
	set := make(map[string]*store.Schedule, 8)

	for i, src := range p.Src {
		schedules, err := src.Load()
		if err != nil {
			log.Printf("[WARN] loader/proc skipping source %d (%T), error: %+v", i, src, err)
			continue
		}

		for name, s := range schedules {
			set[name] = s
		}
	}

	return set
}
