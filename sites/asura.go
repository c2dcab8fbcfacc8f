package sites

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly"

	"ryujin/errs"
	"ryujin/models"
	"ryujin/parser"
	"ryujin/providers"
)

const asuraBase = "https://asuracomic.net"

// Image URL regex patterns, ordered by priority. Pattern 1 matches older
// chapters with numeric prefixes ("00-optimized.webp"); pattern 2 matches
// newer chapters that ship order+url pairs inside an escaped JSON blob.
var asuraImagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`https://gg\.asuracomic\.net/storage/media/[0-9]+/conversions/(\d{1,3})-optimized\.(webp|jpg|png)`),
	regexp.MustCompile(`\\"order\\":\s*(\d+),\\"url\\":\\"(https://gg\.asuracomic\.net/storage/media/[0-9]+/conversions/[0-9A-Z]+-optimized\.(?:webp|jpg|png))`),
}

var asuraScriptPattern = regexp.MustCompile(`(?s)<script[^>]*>(.*?)</script>`)

type asuraImage struct {
	Order int
	URL   string
}

// Asura scrapes asuracomic.net. Chapter listings come from the series page;
// page URLs hide in the Next.js script payload and need regex extraction.
type Asura struct {
	*providers.Base
}

func NewAsura() *Asura {
	base := providers.NewBase(providers.Info{
		Name:    "asura",
		Lang:    "en",
		Domains: []string{"asuracomic.net"},
	})
	base.Headers = map[string]string{"Referer": asuraBase + "/"}
	return &Asura{Base: base}
}

func (a *Asura) seriesURL(id string) string {
	if strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://") {
		return id
	}
	return asuraBase + "/series/" + strings.Trim(id, "/")
}

func (a *Asura) collector() *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"),
	)
	c.SetRequestTimeout(30 * time.Second)
	return c
}

// GetManga scrapes the series page title.
func (a *Asura) GetManga(ctx context.Context, id string) (models.Manga, error) {
	if err := ctx.Err(); err != nil {
		return models.Manga{}, err
	}
	url := a.seriesURL(id)

	var title string
	c := a.collector()
	c.OnHTML("head meta[property='og:title']", func(e *colly.HTMLElement) {
		if title == "" {
			title = strings.TrimSpace(e.Attr("content"))
		}
	})
	c.OnHTML("title", func(e *colly.HTMLElement) {
		if title == "" {
			title = strings.TrimSpace(e.Text)
		}
	})

	if err := c.Visit(url); err != nil {
		return models.Manga{}, fmt.Errorf("failed to fetch %s: %v: %w", url, err, errs.ErrNetwork)
	}
	if title == "" {
		return models.Manga{}, fmt.Errorf("no title found on %s: %w", url, errs.ErrParse)
	}

	title = strings.TrimSuffix(title, " - Asura Scans")
	return models.Manga{ID: url, Name: title}, nil
}

// GetChapters scrapes the chapter links off the series page.
func (a *Asura) GetChapters(ctx context.Context, manga models.Manga) ([]models.Chapter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type entry struct {
		url    string
		number float64
		label  string
	}
	var entries []entry
	seen := map[string]bool{}

	c := a.collector()
	c.OnHTML("a[href*='/chapter/']", func(e *colly.HTMLElement) {
		href := e.Request.AbsoluteURL(e.Attr("href"))
		if href == "" || seen[href] {
			return
		}
		seen[href] = true

		number, ok := parser.ExtractNumber(href[strings.LastIndex(href, "/chapter/"):])
		if !ok {
			return
		}
		entries = append(entries, entry{url: href, number: number, label: formatNumber(number)})
	})
	c.OnError(func(_ *colly.Response, err error) {
		log.Printf("[Asura] Failed to fetch %s: %v", manga.ID, err)
	})

	if err := c.Visit(manga.ID); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %v: %w", manga.ID, err, errs.ErrNetwork)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no chapters found on %s: %w", manga.ID, errs.ErrParse)
	}

	// Newest first.
	sort.Slice(entries, func(i, j int) bool { return entries[i].number > entries[j].number })

	chapters := make([]models.Chapter, 0, len(entries))
	for _, e := range entries {
		chapters = append(chapters, models.Chapter{ID: e.url, Number: e.label, Name: manga.Name})
	}
	return chapters, nil
}

// GetPages pulls the script payloads from the chapter page and extracts the
// image URLs with whichever pattern matches.
func (a *Asura) GetPages(ctx context.Context, ch models.Chapter) (models.PageSet, error) {
	resp, err := a.Client().Get(ctx, ch.ID, nil)
	if err != nil {
		return models.PageSet{}, err
	}

	scripts := asuraScriptPattern.FindAllStringSubmatch(string(resp.Body), -1)

	var images []asuraImage
	for patternIdx, pattern := range asuraImagePatterns {
		for _, script := range scripts {
			candidates := asuraExtractImages(script[1], pattern, patternIdx)
			// The page embeds several script tags; the one with the most
			// matches is the chapter payload.
			if len(candidates) > len(images) {
				images = candidates
			}
		}
		if len(images) > 0 {
			break
		}
	}
	if len(images) == 0 {
		return models.PageSet{}, fmt.Errorf("no image URLs found on %s: %w", ch.ID, errs.ErrParse)
	}

	sort.Slice(images, func(i, j int) bool { return images[i].Order < images[j].Order })

	seen := map[string]bool{}
	pages := []string{}
	for _, img := range images {
		if !seen[img.URL] {
			seen[img.URL] = true
			pages = append(pages, img.URL)
		}
	}

	return models.PageSet{ID: ch.ID, Number: ch.Number, Name: ch.Name, Pages: pages}, nil
}

func asuraExtractImages(script string, pattern *regexp.Regexp, patternIdx int) []asuraImage {
	matches := pattern.FindAllStringSubmatch(script, -1)

	var images []asuraImage
	for _, match := range matches {
		if len(match) < 3 {
			continue
		}

		var orderStr, url string
		if patternIdx == 0 {
			url, orderStr = match[0], match[1]
		} else {
			orderStr, url = match[1], match[2]
		}

		order, err := strconv.Atoi(orderStr)
		if err != nil {
			continue
		}
		images = append(images, asuraImage{Order: order, URL: url})
	}
	return images
}

// formatNumber renders a chapter number without trailing zeros ("5", "5.5").
func formatNumber(number float64) string {
	label := strconv.FormatFloat(number, 'f', -1, 64)
	return label
}
