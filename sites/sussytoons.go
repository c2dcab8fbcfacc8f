package sites

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"ryujin/downloader"
	"ryujin/errs"
	"ryujin/models"
	"ryujin/parser"
	"ryujin/providers"
)

const (
	sussyBase   = "https://www.sussytoons.wtf"
	sussyDomain = "sussytoons.wtf"
)

// SussyToons is a client-rendered SPA; a plain GET returns an empty shell,
// so every lookup goes through a headless browser. The site also sits behind
// a challenge wall, which is why it is the one built-in with a login flow.
type SussyToons struct {
	*providers.Base
}

func NewSussyToons() *SussyToons {
	base := providers.NewBase(providers.Info{
		Name:     "sussytoons",
		Lang:     "pt_BR",
		Domains:  []string{sussyDomain},
		HasLogin: true,
	})
	base.Headers = map[string]string{"Referer": sussyBase + "/"}
	return &SussyToons{Base: base}
}

// Login drives the browser through the challenge wall and caches the
// resulting cookies for both the browser and the HTTP client.
func (s *SussyToons) Login(ctx context.Context) error {
	browser, err := downloader.NewBrowser(ctx, sussyDomain)
	if err != nil {
		return err
	}
	defer browser.Close()

	if _, err := browser.FetchHTML(sussyBase, "body", 90*time.Second); err != nil {
		return fmt.Errorf("login navigation failed: %v: %w", err, errs.ErrAuthRequired)
	}

	cookies, err := browser.CollectCookies()
	if err != nil {
		return err
	}
	return s.SaveSession(nil, cookies)
}

func (s *SussyToons) seriesURL(id string) string {
	if strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://") {
		return id
	}
	return sussyBase + "/obra/" + strings.Trim(id, "/")
}

// GetManga reads the rendered page title.
func (s *SussyToons) GetManga(ctx context.Context, id string) (models.Manga, error) {
	url := s.seriesURL(id)

	browser, err := downloader.NewBrowser(ctx, sussyDomain)
	if err != nil {
		return models.Manga{}, err
	}
	defer browser.Close()

	var title string
	if err := browser.Evaluate(url, "h1", "document.querySelector('h1').textContent", &title, 60*time.Second); err != nil {
		return models.Manga{}, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return models.Manga{}, fmt.Errorf("no title found on %s: %w", url, errs.ErrParse)
	}
	return models.Manga{ID: url, Name: title}, nil
}

// GetChapters collects the chapter links from the rendered series page.
func (s *SussyToons) GetChapters(ctx context.Context, manga models.Manga) ([]models.Chapter, error) {
	browser, err := downloader.NewBrowser(ctx, sussyDomain)
	if err != nil {
		return nil, err
	}
	defer browser.Close()

	var hrefs []string
	script := `Array.from(document.querySelectorAll("a[href*='/capitulo/']")).map(a => a.href)`
	if err := browser.Evaluate(manga.ID, "a[href*='/capitulo/']", script, &hrefs, 60*time.Second); err != nil {
		return nil, err
	}

	type entry struct {
		url    string
		number float64
	}
	var entries []entry
	seen := map[string]bool{}

	for _, href := range hrefs {
		if href == "" || seen[href] {
			continue
		}
		seen[href] = true

		number, ok := parser.ExtractNumber(href[strings.LastIndex(href, "/capitulo/"):])
		if !ok {
			continue
		}
		entries = append(entries, entry{url: href, number: number})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no chapters found on %s: %w", manga.ID, errs.ErrParse)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].number > entries[j].number })

	chapters := make([]models.Chapter, 0, len(entries))
	for _, e := range entries {
		chapters = append(chapters, models.Chapter{ID: e.url, Number: formatNumber(e.number), Name: manga.Name})
	}
	return chapters, nil
}

// GetPages collects the rendered chapter images in document order.
func (s *SussyToons) GetPages(ctx context.Context, ch models.Chapter) (models.PageSet, error) {
	browser, err := downloader.NewBrowser(ctx, sussyDomain)
	if err != nil {
		return models.PageSet{}, err
	}
	defer browser.Close()

	var pages []string
	script := `Array.from(document.querySelectorAll("img[src*='/scans/']")).map(i => i.src)`
	if err := browser.Evaluate(ch.ID, "img", script, &pages, 90*time.Second); err != nil {
		return models.PageSet{}, err
	}

	return models.PageSet{ID: ch.ID, Number: ch.Number, Name: ch.Name, Pages: pages}, nil
}
