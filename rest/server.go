package rest

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/nvkalinin/openhours/fold"
	"github.com/nvkalinin/openhours/log"
	"github.com/nvkalinin/openhours/store"
)

type Store interface {
	Find(name string) (*store.Schedule, bool)
	Put(name string, s *store.Schedule) error
	Names() ([]string, error)
}

type Updater interface {
	UpdateAll() error
}

// Backuper реализуется хранилищем bolt. Для хранилища memory поле
// Server.Backup остается nil и /api/admin/backup отвечает 501.
type Backuper interface {
	Backup(w io.Writer) error
}

type Server struct {
	Store   Store
	Updater Updater
	Backup  Backuper
	Opts    Opts

	srv *http.Server
}

type Opts struct {
	Listen      string
	LogRequests bool
	AdminPasswd string

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	RateLimiter bool
	ReqLimit    int
	LimitWindow time.Duration
}

func (s *Server) Run() error {
	s.srv = &http.Server{
		Addr:              s.Opts.Listen,
		Handler:           s.routes(),
		ReadTimeout:       s.Opts.ReadTimeout,
		ReadHeaderTimeout: s.Opts.ReadHeaderTimeout,
		WriteTimeout:      s.Opts.WriteTimeout,
		IdleTimeout:       s.Opts.IdleTimeout,
	}
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()

	if s.Opts.LogRequests {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		if s.Opts.RateLimiter {
			r.Use(httprate.LimitByIP(s.Opts.ReqLimit, s.Opts.LimitWindow))
		}

		r.Get("/schedule", s.listCtrl)
		r.Get("/schedule/{name}", s.scheduleCtrl)
		r.Get("/schedule/{name}/open", s.openCtrl)
		r.Get("/schedule/{name}/fold", s.foldCtrl)

		r.Route("/admin", func(r chi.Router) {
			// Без пароля админский API недоступен, а не открыт всем.
			r.Use(requirePasswd(s.Opts.AdminPasswd))
			r.Use(middleware.BasicAuth("openhours", map[string]string{
				"admin": s.Opts.AdminPasswd,
			}))

			r.Post("/schedule/{name}", s.putCtrl)
			r.Post("/sync", s.syncCtrl)
			r.Get("/backup", s.backupCtrl)
		})
	})

	return r
}

func (s *Server) listCtrl(w http.ResponseWriter, r *http.Request) {
	names, err := s.Store.Names()
	if err != nil {
		log.Printf("[WARN] rest cannot list schedules: %+v", err)
		sendErrorJson(w, 500, "cannot list schedules")
		return
	}

	sendJsonResponse(w, names)
}

func (s *Server) scheduleCtrl(w http.ResponseWriter, r *http.Request) {
	sched, found := s.Store.Find(chi.URLParam(r, "name"))
	if !found {
		sendErrorJson(w, 404, "schedule not found")
		return
	}

	sendJsonResponse(w, sched)
}

func (s *Server) openCtrl(w http.ResponseWriter, r *http.Request) {
	sched, found := s.Store.Find(chi.URLParam(r, "name"))
	if !found {
		sendErrorJson(w, 404, "schedule not found")
		return
	}

	at := time.Now()
	if param := r.URL.Query().Get("at"); param != "" {
		var err error
		at, err = time.Parse(time.RFC3339, param)
		if err != nil {
			sendErrorJson(w, 400, "invalid 'at', must be RFC 3339")
			return
		}
	}

	resp := struct {
		Open bool      `json:"open"`
		At   time.Time `json:"at"`
	}{
		Open: sched.IsOpenAt(at),
		At:   at.In(sched.Location()),
	}
	sendJsonResponse(w, resp)
}

func (s *Server) foldCtrl(w http.ResponseWriter, r *http.Request) {
	sched, found := s.Store.Find(chi.URLParam(r, "name"))
	if !found {
		sendErrorJson(w, 404, "schedule not found")
		return
	}

	opts, err := foldParams(r)
	if err != nil {
		sendErrorJson(w, 400, err.Error())
		return
	}

	ranges, err := fold.Reduce(sched, opts)
	if err != nil {
		sendErrorJson(w, 400, err.Error())
		return
	}

	sendJsonResponse(w, ranges)
}

func foldParams(r *http.Request) (fold.Options, error) {
	q := r.URL.Query()

	opts := fold.Options{
		Locale:        q.Get("locale"),
		WeekdayFormat: q.Get("weekdayFormat"),
	}

	if from := q.Get("from"); from != "" {
		t, err := time.Parse(store.DateLayout, from)
		if err != nil {
			return opts, fmt.Errorf("invalid 'from', must be YYYY-MM-DD")
		}
		opts.SpecialDates.From = t
	}
	if to := q.Get("to"); to != "" {
		t, err := time.Parse(store.DateLayout, to)
		if err != nil {
			return opts, fmt.Errorf("invalid 'to', must be YYYY-MM-DD")
		}
		opts.SpecialDates.To = t
	}

	return opts, nil
}

func (s *Server) putCtrl(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		sendErrorJson(w, 400, "cannot read request body")
		return
	}

	sched := &store.Schedule{}
	if err := json.Unmarshal(body, sched); err != nil {
		sendErrorJson(w, 400, fmt.Sprintf("invalid schedule: %v", err))
		return
	}

	if err := s.Store.Put(name, sched); err != nil {
		log.Printf("[WARN] rest cannot store schedule '%s': %+v", name, err)
		sendErrorJson(w, 500, "cannot store schedule")
		return
	}

	sendJsonResponse(w, map[string]string{"status": "ok"})
}

func (s *Server) syncCtrl(w http.ResponseWriter, r *http.Request) {
	if s.Updater == nil {
		sendErrorJson(w, 501, "updater is not configured")
		return
	}

	if err := s.Updater.UpdateAll(); err != nil {
		log.Printf("[WARN] rest sync failed: %+v", err)
		sendErrorJson(w, 500, err.Error())
		return
	}

	sendJsonResponse(w, map[string]string{"status": "ok"})
}

func (s *Server) backupCtrl(w http.ResponseWriter, r *http.Request) {
	if s.Backup == nil {
		sendErrorJson(w, 501, "backup is not supported by this store engine")
		return
	}

	fname := fmt.Sprintf("schedules_%s.bolt.gz", time.Now().Format(store.DateLayout))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fname))
	w.WriteHeader(200)

	gz := gzip.NewWriter(w)
	if err := s.Backup.Backup(gz); err != nil {
		// Заголовки уже отправлены, остается только прервать ответ.
		log.Printf("[ERROR] rest cannot write backup: %+v", err)
		return
	}
	if err := gz.Close(); err != nil {
		log.Printf("[WARN] rest cannot finish backup stream: %+v", err)
	}
}

func requirePasswd(passwd string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if passwd == "" {
				sendErrorJson(w, 403, "admin api is disabled: no admin password configured")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sendJsonResponse(w http.ResponseWriter, data interface{}) {
	respJson, err := json.Marshal(data)
	if err != nil {
		log.Printf("[WARN] cannot marshal response data: %+v", err)
		sendErrorJson(w, 500, "cannot marshal response data")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	if _, err = w.Write(respJson); err != nil {
		log.Printf("[WARN] cannot write response data: %+v", err)
	}
}

func sendErrorJson(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	restErr := &struct {
		Msg string `json:"msg"`
	}{msg}

	errJson, err := json.Marshal(restErr)
	if err != nil {
		log.Printf("[WARN] cannot marshal rest error: %+v", err)
		return
	}

	if _, err = w.Write(errJson); err != nil {
		log.Printf("[WARN] cannot write rest error: %+v", err)
	}
}
