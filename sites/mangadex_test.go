package sites

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ryujin/models"
)

const testUUID = "a1b2c3d4-1111-2222-3333-444455556666"

func mangaFixture() models.Manga {
	return models.Manga{ID: testUUID, Name: "Solo Camping"}
}

func chapterFixture() models.Chapter {
	return models.Chapter{ID: "ch-2", Number: "2", Name: "Solo Camping"}
}

func testMangaDex(t *testing.T, handler http.Handler) *MangaDex {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider := NewMangaDex()
	provider.api = server.URL
	return provider
}

func TestMangaDexGetManga(t *testing.T) {
	provider := testMangaDex(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/manga/"+testUUID, r.URL.Path)
		fmt.Fprintf(w, `{"data":{"id":"%s","attributes":{"title":{"en":"Solo Camping"}}}}`, testUUID)
	}))

	manga, err := provider.GetManga(context.Background(), "https://mangadex.org/title/"+testUUID+"/solo-camping")
	require.NoError(t, err)
	assert.Equal(t, testUUID, manga.ID)
	assert.Equal(t, "Solo Camping", manga.Name)
}

func TestMangaDexGetMangaNoUUID(t *testing.T) {
	provider := testMangaDex(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := provider.GetManga(context.Background(), "not-a-uuid")
	assert.Error(t, err)
}

func TestMangaDexGetChaptersPaginates(t *testing.T) {
	requests := 0
	provider := testMangaDex(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		offset := r.URL.Query().Get("offset")
		if offset == "0" {
			// Claim more than one page worth of chapters.
			fmt.Fprint(w, `{"data":[{"id":"ch-2","attributes":{"chapter":"2","title":""}}],"total":501}`)
			return
		}
		fmt.Fprint(w, `{"data":[{"id":"ch-1","attributes":{"chapter":"","title":"Oneshot"}}],"total":501}`)
	}))

	chapters, err := provider.GetChapters(context.Background(), mangaFixture())
	require.NoError(t, err)
	assert.Equal(t, 2, requests)

	require.Len(t, chapters, 2)
	assert.Equal(t, "ch-2", chapters[0].ID)
	assert.Equal(t, "2", chapters[0].Number)
	// Oneshots without a chapter number become chapter 0.
	assert.Equal(t, "0", chapters[1].Number)
	assert.Equal(t, "Solo Camping", chapters[0].Name)
}

func TestMangaDexGetPages(t *testing.T) {
	provider := testMangaDex(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/at-home/server/ch-2", r.URL.Path)
		fmt.Fprint(w, `{"baseUrl":"https://uploads.mangadex.org/","chapter":{"hash":"abc","data":["1.png","2.png"]}}`)
	}))

	pages, err := provider.GetPages(context.Background(), chapterFixture())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://uploads.mangadex.org/data/abc/1.png",
		"https://uploads.mangadex.org/data/abc/2.png",
	}, pages.Pages)
	assert.Equal(t, "2", pages.Number)
	assert.Equal(t, "Solo Camping", pages.Name)
}
