package sites

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"ryujin/errs"
	"ryujin/models"
	"ryujin/providers"
)

const mangadexAPI = "https://api.mangadex.org"

// Chapter feeds are paginated; 500 is the API maximum per request.
const mangadexFeedLimit = 500

var uuidPattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// MangaDex talks to the public MangaDex JSON API.
type MangaDex struct {
	*providers.Base
	api string
}

func NewMangaDex() *MangaDex {
	return &MangaDex{
		Base: providers.NewBase(providers.Info{
			Name:    "mangadex",
			Lang:    "en",
			Domains: []string{"mangadex.org"},
		}),
		api: mangadexAPI,
	}
}

type mangadexManga struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Title map[string]string `json:"title"`
		} `json:"attributes"`
	} `json:"data"`
}

type mangadexFeed struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			Chapter string `json:"chapter"`
			Title   string `json:"title"`
		} `json:"attributes"`
	} `json:"data"`
	Total int `json:"total"`
}

type mangadexAtHome struct {
	BaseURL string `json:"baseUrl"`
	Chapter struct {
		Hash string   `json:"hash"`
		Data []string `json:"data"`
	} `json:"chapter"`
}

// GetManga accepts a manga UUID or any mangadex.org URL containing one.
func (m *MangaDex) GetManga(ctx context.Context, id string) (models.Manga, error) {
	uuid := uuidPattern.FindString(id)
	if uuid == "" {
		return models.Manga{}, fmt.Errorf("no manga id in %q: %w", id, errs.ErrNotFound)
	}

	var payload mangadexManga
	if err := m.Client().GetJSON(ctx, m.api+"/manga/"+uuid, &payload); err != nil {
		return models.Manga{}, err
	}

	title := payload.Data.Attributes.Title["en"]
	if title == "" {
		for _, value := range payload.Data.Attributes.Title {
			title = value
			break
		}
	}
	if title == "" {
		return models.Manga{}, fmt.Errorf("manga %s has no title: %w", uuid, errs.ErrParse)
	}

	return models.Manga{ID: payload.Data.ID, Name: title}, nil
}

// GetChapters walks the paginated chapter feed.
func (m *MangaDex) GetChapters(ctx context.Context, manga models.Manga) ([]models.Chapter, error) {
	chapters := []models.Chapter{}

	for offset := 0; ; offset += mangadexFeedLimit {
		url := fmt.Sprintf(
			"%s/manga/%s/feed?limit=%d&offset=%d&translatedLanguage[]=%s&order[chapter]=desc",
			m.api, manga.ID, mangadexFeedLimit, offset, m.Meta.Lang,
		)

		var feed mangadexFeed
		if err := m.Client().GetJSON(ctx, url, &feed); err != nil {
			return nil, err
		}

		for _, entry := range feed.Data {
			number := entry.Attributes.Chapter
			if number == "" {
				// Oneshots carry no chapter number.
				number = "0"
			}
			chapters = append(chapters, models.Chapter{
				ID:     entry.ID,
				Number: number,
				Name:   manga.Name,
			})
		}

		if offset+mangadexFeedLimit >= feed.Total || len(feed.Data) == 0 {
			break
		}
	}

	return chapters, nil
}

// GetPages resolves the chapter through the at-home server endpoint.
func (m *MangaDex) GetPages(ctx context.Context, ch models.Chapter) (models.PageSet, error) {
	var payload mangadexAtHome
	if err := m.Client().GetJSON(ctx, m.api+"/at-home/server/"+ch.ID, &payload); err != nil {
		return models.PageSet{}, err
	}

	pages := make([]string, 0, len(payload.Chapter.Data))
	for _, file := range payload.Chapter.Data {
		pages = append(pages, strings.TrimSuffix(payload.BaseURL, "/")+"/data/"+payload.Chapter.Hash+"/"+file)
	}

	return models.PageSet{ID: ch.ID, Number: ch.Number, Name: ch.Name, Pages: pages}, nil
}
