package parser

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nvkalinin/openhours/store"
	"golang.org/x/text/unicode/norm"
)

const defaultSelector = ".opening-hours"

// Website вытаскивает расписание со страницы организации: текст узла,
// найденного по CSS-селектору, скармливается ParseHours.
type Website struct {
	Client    *http.Client
	UserAgent string
	Selector  string // По умолчанию ".opening-hours".
}

func (w *Website) Fetch(url string) (map[string]store.TimeFrames, error) {
	dom, err := w.getPage(url)
	if err != nil {
		return nil, err
	}

	sel := w.Selector
	if sel == "" {
		sel = defaultSelector
	}

	node := dom.Find(sel)
	if node.Length() == 0 {
		return nil, fmt.Errorf("parser/website no node matches '%s' on %s", sel, url)
	}
	if node.Length() > 1 {
		log.Printf("[WARN] parser/website %d nodes match '%s' on %s, using the first one", node.Length(), sel, url)
		node = node.First()
	}

	week, err := ParseHours(normalizeHtmlText(node.Text()))
	if err != nil {
		return nil, fmt.Errorf("parser/website cannot parse hours on %s: %w", url, err)
	}
	return week, nil
}

func (w *Website) getPage(url string) (*goquery.Document, error) {
	req, _ := http.NewRequest("GET", url, nil)

	if w.UserAgent != "" {
		req.Header.Set("User-Agent", w.UserAgent)
	}

	resp, err := w.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("parser/website cannot GET page: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("[WARN] parser/website cannot close response: %+v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("parser/website unexpected status %d for %s", resp.StatusCode, url)
	}

	dom, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parser/website cannot parse html: %w", err)
	}
	return dom, nil
}

// normalizeHtmlText приводит типографику веб-страниц к виду, понятному
// ParseHours: NFKC превращает неразрывные пробелы в обычные, длинные тире
// заменяются дефисом.
func normalizeHtmlText(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ReplaceAll(text, "–", "-")
	text = strings.ReplaceAll(text, "—", "-")
	return text
}
