// Package madara implements the Madara WordPress theme that the bulk of
// scanlation sites run on. One JSON definition file describes one site; the
// selectors rarely deviate from the theme defaults.
package madara

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ryujin/errs"
	"ryujin/models"
	"ryujin/parser"
	"ryujin/providers"
)

const (
	defaultQueryChapters = "li.wp-manga-chapter > a"
	defaultQueryPages    = "div.page-break.no-gaps img"
	defaultQueryTitle    = "head meta[property='og:title']"
)

// Definition is the on-disk description of one Madara site.
type Definition struct {
	Name          string   `json:"name"`
	Lang          string   `json:"lang"`
	Domains       []string `json:"domain"`
	URL           string   `json:"url"`
	QueryChapters string   `json:"query_chapters,omitempty"`
	QueryPages    string   `json:"query_pages,omitempty"`
	QueryTitle    string   `json:"query_title,omitempty"`
}

func (d *Definition) validate() error {
	if d.Name == "" {
		return fmt.Errorf("definition missing name")
	}
	if d.URL == "" {
		return fmt.Errorf("definition %s missing url", d.Name)
	}
	if len(d.Domains) == 0 {
		return fmt.Errorf("definition %s missing domain list", d.Name)
	}
	if d.QueryChapters == "" {
		d.QueryChapters = defaultQueryChapters
	}
	if d.QueryPages == "" {
		d.QueryPages = defaultQueryPages
	}
	if d.QueryTitle == "" {
		d.QueryTitle = defaultQueryTitle
	}
	return nil
}

// Provider is a Madara site driven by its definition.
type Provider struct {
	*providers.Base
	def Definition
}

// New builds a provider from a validated definition.
func New(def Definition) (*Provider, error) {
	if err := def.validate(); err != nil {
		return nil, err
	}

	base := providers.NewBase(providers.Info{
		Name:    def.Name,
		Lang:    def.Lang,
		Domains: def.Domains,
	})
	base.Headers = map[string]string{"Referer": def.URL}

	return &Provider{Base: base, def: def}, nil
}

func (p *Provider) document(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := p.Client().Get(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, errs.ErrParse)
	}
	return doc, nil
}

// mangaURL accepts either a full URL or a manga slug.
func (p *Provider) mangaURL(id string) string {
	if strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://") {
		return id
	}
	return strings.TrimSuffix(p.def.URL, "/") + "/manga/" + strings.Trim(id, "/") + "/"
}

// GetManga resolves a manga URL or slug to its title.
func (p *Provider) GetManga(ctx context.Context, id string) (models.Manga, error) {
	url := p.mangaURL(id)

	doc, err := p.document(ctx, url)
	if err != nil {
		return models.Manga{}, err
	}

	title, _ := doc.Find(p.def.QueryTitle).First().Attr("content")
	title = strings.TrimSpace(title)
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		return models.Manga{}, fmt.Errorf("no title found on %s: %w", url, errs.ErrParse)
	}

	return models.Manga{ID: url, Name: title}, nil
}

// GetChapters lists the chapters linked from the manga page.
func (p *Provider) GetChapters(ctx context.Context, manga models.Manga) ([]models.Chapter, error) {
	doc, err := p.document(ctx, manga.ID)
	if err != nil {
		return nil, err
	}

	chapters := []models.Chapter{}
	doc.Find(p.def.QueryChapters).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		name := strings.TrimSpace(sel.Text())

		number := ""
		if value, ok := parser.ExtractNumber(name); ok {
			number = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", value), "0"), ".")
		}

		chapters = append(chapters, models.Chapter{
			ID:     href,
			Number: number,
			Name:   manga.Name,
		})
	})

	if len(chapters) == 0 {
		return nil, fmt.Errorf("no chapters found on %s: %w", manga.ID, errs.ErrParse)
	}
	return chapters, nil
}

// GetPages lists the page image URLs of one chapter in reading order.
func (p *Provider) GetPages(ctx context.Context, ch models.Chapter) (models.PageSet, error) {
	doc, err := p.document(ctx, ch.ID)
	if err != nil {
		return models.PageSet{}, err
	}

	pages := []string{}
	doc.Find(p.def.QueryPages).Each(func(_ int, sel *goquery.Selection) {
		// Lazy-loading themes keep the real URL in data-src.
		src, ok := sel.Attr("data-src")
		if !ok {
			src, ok = sel.Attr("src")
		}
		if !ok {
			return
		}
		src = strings.TrimSpace(src)
		if src != "" {
			pages = append(pages, src)
		}
	})

	return models.PageSet{ID: ch.ID, Number: ch.Number, Name: ch.Name, Pages: pages}, nil
}
