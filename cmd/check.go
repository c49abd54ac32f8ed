package cmd

import (
	"fmt"
	"time"

	"github.com/nvkalinin/openhours/fold"
	"github.com/nvkalinin/openhours/source"
	"github.com/nvkalinin/openhours/source/parser"
	"github.com/nvkalinin/openhours/store"
)

// Check - офлайн-проверка расписания: без сервера и хранилища разобрать
// расписание, вывести его в свернутом виде и ответить, открыто ли в указанный
// момент.
type Check struct {
	Text     string `long:"text" short:"x" env:"TEXT" value-name:"str" description:"Текст расписания, например 'Mo: 07:15 - 19:30, Sa: 10:00 - 14:00'."`
	File     string `long:"file" short:"f" env:"FILE" value-name:"path" description:"Путь к YAML файлу с расписаниями. Используется, если не указан --text."`
	Name     string `long:"name" short:"n" env:"NAME" value-name:"str" description:"Имя расписания в YAML файле."`
	Timezone string `long:"timezone" env:"TIMEZONE" value-name:"zone" default:"UTC" description:"Часовой пояс для расписания из --text."`
	At       string `long:"at" env:"AT" value-name:"RFC 3339" description:"Момент времени для проверки. По умолчанию - сейчас."`
	Locale   string `long:"locale" env:"LOCALE" value-name:"str" default:"en" description:"Локаль названий дней недели."`
}

func (c *Check) Execute(args []string) error {
	sched, err := c.makeSchedule()
	if err != nil {
		return err
	}

	at := time.Now()
	if c.At != "" {
		at, err = time.Parse(time.RFC3339, c.At)
		if err != nil {
			return fmt.Errorf("invalid --at, must be RFC 3339: %w", err)
		}
	}

	out, err := fold.Fold(sched, fold.Options{Locale: c.Locale}, "\n")
	if err != nil {
		return err
	}
	fmt.Println(out)

	if sched.IsOpenAt(at) {
		fmt.Printf("open at %s\n", at.In(sched.Location()).Format(time.RFC3339))
	} else {
		fmt.Printf("closed at %s\n", at.In(sched.Location()).Format(time.RFC3339))
	}
	return nil
}

func (c *Check) makeSchedule() (*store.Schedule, error) {
	if c.Text != "" {
		week, err := parser.ParseHours(c.Text)
		if err != nil {
			return nil, err
		}
		return store.New(week, c.Timezone, nil, nil)
	}

	if c.File == "" {
		return nil, fmt.Errorf("either --text or --file is required")
	}

	f := &source.File{Path: c.File}
	set, err := f.Load()
	if err != nil {
		return nil, err
	}

	name := c.Name
	if name == "" && len(set) == 1 {
		for n := range set {
			name = n
		}
	}

	sched, ok := set[name]
	if !ok {
		return nil, fmt.Errorf("schedule '%s' not found in %s", name, c.File)
	}
	return sched, nil
}
