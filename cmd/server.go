package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nvkalinin/openhours/loader"
	"github.com/nvkalinin/openhours/rest"
	"github.com/nvkalinin/openhours/source"
	"github.com/nvkalinin/openhours/source/parser"
	"github.com/nvkalinin/openhours/store"
	"github.com/nvkalinin/openhours/store/engine"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/errgroup"
)

type EngineType string

var (
	EngineMemory EngineType = "memory"
	EngineBolt   EngineType = "bolt"
)

type Server struct {
	SyncAt      string `long:"sync-at" env:"SYNC_AT" value-name:"hh:mm[:ss]" description:"В какое время перечитывать расписания из всех источников. Обновление происходит один раз в сутки. Если не указано, то автоматическое обновление отключено."`
	SyncOnStart bool   `long:"sync-on-start" env:"SYNC_ON_START" description:"Загрузить расписания из источников при запуске программы."`

	Web struct {
		Listen      string `long:"listen" env:"LISTEN" value-name:"addr" default:"0.0.0.0:80" description:"Сетевой адрес для веб-сервера."`
		AccessLog   bool   `long:"access-log" env:"ACCESS_LOG" description:"Логировать все HTTP-запросы."`
		AdminPasswd string `long:"admin-passwd" env:"ADMIN_PASSWD" description:"Пароль пользователя admin для вызова /api/admin/*."`

		ReadTimeout       time.Duration `long:"read-timeout" env:"READ_TIMEOUT" value-name:"duration" default:"5s" description:"http.Server ReadTimeout"`
		ReadHeaderTimeout time.Duration `long:"read-header-timeout" env:"READ_HEADER_TIMEOUT" value-name:"duration" default:"5s" description:"http.Server ReadHeaderTimeout"`
		IdleTimeout       time.Duration `long:"idle-timeout" env:"IDLE_TIMEOUT" value-name:"duration" default:"30s" description:"http.Server IdleTimeout"`

		// Запросы к /admin могут выполняться долго, поэтому WriteTimout должен быть достаточно большим.
		WriteTimeout time.Duration `long:"write-timeout" env:"WRITE_TIMEOUT" value-name:"duration" default:"60s" description:"http.Server WriteTimeout"`

		RateLimiter struct {
			ReqLimit    int           `long:"reqs" env:"REQS" value-name:"num" default:"100" description:"Количество запросов с одного IP. Если 0 — rate limiter отключен."`
			LimitWindow time.Duration `long:"window" env:"WINDOW" value-name:"duration" default:"1s" description:"Интервал времени, за который разрешено указанное кол-во запросов."`
		} `group:"Rate Limiter" namespace:"ratelim" env-namespace:"RATE_LIM"`
	} `group:"Web" namespace:"web" env-namespace:"WEB"`

	Store struct {
		Engine EngineType `long:"engine" env:"ENGINE" value-name:"type" choice:"memory" choice:"bolt" default:"bolt" description:"Тип хранилища расписаний."`

		Bolt struct {
			File string `long:"file" env:"FILE" value-name:"path" default:"openhours.bolt" description:"Путь к файлу БД."`
		} `group:"Настройки хранилища bolt" namespace:"bolt" env-namespace:"BOLT"`
	} `group:"Хранилище" namespace:"store" env-namespace:"STORE"`

	Source struct {
		File string `long:"file" env:"FILE" value-name:"path" description:"Путь к YAML файлу с расписаниями."`

		Web struct {
			Name      string        `long:"name" env:"NAME" value-name:"str" description:"Имя расписания, которое нужно забирать с сайта. Если не указано, источник отключен."`
			URL       string        `long:"url" env:"URL" value-name:"url" description:"Адрес страницы с расписанием."`
			Selector  string        `long:"selector" env:"SELECTOR" value-name:"css" description:"CSS-селектор узла с расписанием. По умолчанию '.opening-hours'."`
			Timezone  string        `long:"timezone" env:"TIMEZONE" value-name:"zone" default:"UTC" description:"Часовой пояс организации (IANA)."`
			Timeout   time.Duration `long:"timeout" env:"TIMEOUT" value-name:"duration" default:"30s" description:"Максимальное время выполнения запроса к сайту."`
			UserAgent string        `long:"user-agent" env:"USER_AGENT" description:"Значение заголовка User-Agent во всех запросах к сайту."`
		} `group:"Сайт организации" namespace:"web" env-namespace:"WEB"`
	} `group:"Источник данных" namespace:"source" env-namespace:"SOURCE"`
}

func (s *Server) Execute(args []string) error {
	a, err := s.makeApp()
	if err != nil {
		return err
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		a.shutdown()
	}()

	a.run()
	a.wait()
	return nil
}

type app struct {
	srv           *rest.Server
	proc          *loader.Processor
	autoSync      bool
	syncOnStart   bool
	syncStartDone chan struct{}
	stopped       bool
}

func (s *Server) makeApp() (*app, error) {
	a := &app{
		syncOnStart:   s.SyncOnStart,
		syncStartDone: make(chan struct{}),
	}

	store, backup, err := s.makeStore()
	if err != nil {
		return nil, err
	}

	src, err := s.makeSources()
	if err != nil {
		return nil, err
	}

	var syncAt time.Time
	if s.SyncAt != "" {
		syncAt, err = parseSyncAt(s.SyncAt)
		if err != nil {
			return nil, fmt.Errorf("sync at: %w", err)
		}
		a.autoSync = true
	}

	a.proc = loader.NewProcessor(loader.ProcOpts{
		Src:      src,
		Store:    loader.Store(store),
		UpdateAt: syncAt,
	})

	a.srv = &rest.Server{
		Store:   store,
		Updater: a.proc,
		Backup:  backup,
		Opts: rest.Opts{
			Listen:      s.Web.Listen,
			LogRequests: s.Web.AccessLog,
			AdminPasswd: s.Web.AdminPasswd,

			ReadTimeout:       s.Web.ReadTimeout,
			ReadHeaderTimeout: s.Web.ReadHeaderTimeout,
			WriteTimeout:      s.Web.WriteTimeout,
			IdleTimeout:       s.Web.IdleTimeout,

			RateLimiter: s.Web.RateLimiter.ReqLimit > 0,
			ReqLimit:    s.Web.RateLimiter.ReqLimit,
			LimitWindow: s.Web.RateLimiter.LimitWindow,
		},
	}

	return a, nil
}

type Store interface {
	Find(name string) (*store.Schedule, bool)
	Put(name string, s *store.Schedule) error
	Names() ([]string, error)
}

func (s *Server) makeStore() (Store, rest.Backuper, error) {
	switch s.Store.Engine {
	case EngineMemory:
		return engine.NewMemory(), nil, nil
	case EngineBolt:
		b, err := engine.NewBolt(s.Store.Bolt.File)
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil
	default:
		return nil, nil, fmt.Errorf("unknown store engine %s", s.Store.Engine)
	}
}

func (s *Server) makeSources() ([]loader.Source, error) {
	src := make([]loader.Source, 0, 2)

	if s.Source.Web.Name != "" {
		if s.Source.Web.URL == "" {
			return nil, fmt.Errorf("web source: url is required")
		}

		ua := s.Source.Web.UserAgent
		if ua == "" {
			ua = "Go-http-client"
		}

		jar, err := cookiejar.New(&cookiejar.Options{
			PublicSuffixList: publicsuffix.List,
		})
		if err != nil {
			return nil, fmt.Errorf("cannot create cookie jar: %w", err)
		}

		src = append(src, &source.Web{
			Name:     s.Source.Web.Name,
			URL:      s.Source.Web.URL,
			Timezone: s.Source.Web.Timezone,
			Parser: &parser.Website{
				Client: &http.Client{
					Timeout: s.Source.Web.Timeout,
					Jar:     jar,
				},
				UserAgent: ua,
				Selector:  s.Source.Web.Selector,
			},
		})
	}

	// Файл перекрывает сайт: локальные правки главнее.
	if s.Source.File != "" {
		src = append(src, &source.File{
			Path: s.Source.File,
		})
	}

	return src, nil
}

func parseSyncAt(val string) (time.Time, error) {
	if t, err := time.Parse("15:04", val); err == nil {
		return t, nil
	}

	t, err := time.Parse("15:04:05", val)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time '%s', it must match pattern hh:mm[:ss]", val)
	}
	return t, nil
}

func (a *app) run() {
	g, _ := errgroup.WithContext(context.Background())

	if a.autoSync {
		g.Go(func() error {
			a.proc.RunUpdates()
			return nil
		})
	}

	g.Go(func() error {
		syncOnRun(a.proc, a.syncOnStart, a.syncStartDone)
		return nil
	})

	g.Go(func() error {
		if err := a.srv.Run(); err != nil && err != http.ErrServerClosed {
			log.Printf("[ERROR] startup: %v", err)
			return err
		}
		return nil
	})

	if g.Wait() != nil {
		a.shutdown()
	}
}

func (a *app) shutdown() {
	if a.stopped {
		return
	}

	log.Printf("[INFO] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	g, _ := errgroup.WithContext(ctx)

	if a.autoSync {
		g.Go(func() error {
			return a.proc.Shutdown(ctx)
		})
	}
	g.Go(func() error {
		return a.srv.Shutdown(ctx)
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			return fmt.Errorf("sync on run: %w", ctx.Err())
		case <-a.syncStartDone:
			return nil
		}
	})

	if err := g.Wait(); err != nil {
		log.Printf("[ERROR] app shutdown: %v", err)
	}
	a.stopped = true
}

func (a *app) wait() {
	for !a.stopped {
		time.Sleep(10 * time.Millisecond)
	}
}

func syncOnRun(proc *loader.Processor, sync bool, finished chan<- struct{}) {
	if sync {
		if err := proc.UpdateAll(); err != nil {
			log.Printf("[WARN] sync on run: %+v", err)
		}
	}
	close(finished)
}
