package cmd

import (
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"os"
	"time"
)

type Backup struct {
	ServerUrl   string        `long:"server-url" short:"s" env:"SERVER_URL" default:"http://localhost" description:"URL сервера с REST API расписаний."`
	AdminPasswd string        `long:"passwd" short:"p" env:"WEB_ADMIN_PASSWD" description:"Пароль пользователя admin."`
	OutFile     string        `long:"out" short:"o" env:"OUT" description:"Путь к файлу, куда сохранить бекап. По умолчанию: schedules_YYYY-MM-DD.bolt.gz"`
	Timeout     time.Duration `long:"timeout" short:"t" env:"TIMEOUT" default:"600s" description:"Макс. время выполнения запроса."`
}

func (b *Backup) Execute(args []string) error {
	resp, err := b.download()
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("[WARN] cannot close resp body: %v", err)
		}
	}()

	fname := b.filename(resp)
	if err := saveTo(fname, resp.Body); err != nil {
		return err
	}

	log.Printf("[INFO] backup saved to %s", fname)
	return nil
}

func (b *Backup) download() (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, makeUrl(b.ServerUrl, "/api/admin/backup"), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("cannot create request: %w", err)
	}
	req.SetBasicAuth("admin", b.AdminPasswd)

	client := &http.Client{Timeout: b.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot make request: %w", err)
	}

	if resp.StatusCode != 200 {
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("cannot read err response (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("backup error (status %d): %w", resp.StatusCode, readJsonError(respBody))
	}

	return resp, nil
}

func saveTo(fname string, data io.Reader) error {
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", fname, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("[WARN] cannot close %s: %v", fname, err)
		}
	}()

	if _, err := io.Copy(f, data); err != nil {
		return fmt.Errorf("cannot save backup to %s: %w", fname, err)
	}
	return nil
}

// filename берет имя файла из Content-Disposition, если сервер его прислал.
func (b *Backup) filename(resp *http.Response) string {
	if len(b.OutFile) > 0 {
		return b.OutFile
	}

	defName := fmt.Sprintf("schedules_%s.bolt.gz", time.Now().Format("2006-01-02"))

	vals, ok := resp.Header["Content-Disposition"]
	if !ok || len(vals) == 0 {
		return defName
	}

	_, params, err := mime.ParseMediaType(vals[0])
	if err != nil {
		return defName
	}

	name, ok := params["filename"]
	if !ok || len(name) == 0 {
		return defName
	}

	return name
}
