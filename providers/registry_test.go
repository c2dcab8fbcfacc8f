package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ryujin/models"
)

type stubProvider struct {
	info Info
}

func (s *stubProvider) Info() Info                          { return s.info }
func (s *stubProvider) Login(ctx context.Context) error     { return nil }
func (s *stubProvider) GetManga(ctx context.Context, id string) (models.Manga, error) {
	return models.Manga{}, nil
}
func (s *stubProvider) GetChapters(ctx context.Context, manga models.Manga) ([]models.Chapter, error) {
	return nil, nil
}
func (s *stubProvider) GetPages(ctx context.Context, ch models.Chapter) (models.PageSet, error) {
	return models.PageSet{}, nil
}
func (s *stubProvider) Download(ctx context.Context, pages models.PageSet, fn func(int)) (models.DownloadedChapter, error) {
	return models.DownloadedChapter{}, nil
}

func TestOverrideShadowsByDomain(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	builtin := &stubProvider{info: Info{Name: "builtin", Domains: []string{"shared.com"}}}
	other := &stubProvider{info: Info{Name: "other", Domains: []string{"other.com"}}}
	external := &stubProvider{info: Info{Name: "external", Domains: []string{"shared.com"}}}

	Register(builtin)
	Register(other)
	RegisterOverride(external)

	active := Active()
	names := []string{}
	for _, p := range active {
		names = append(names, p.Info().Name)
	}

	// The external provider replaces the built-in on the shared domain; the
	// unrelated built-in survives.
	assert.ElementsMatch(t, []string{"external", "other"}, names)
}

func TestFind(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register(&stubProvider{info: Info{Name: "one", Domains: []string{"one.com"}}})

	p, err := Find("one")
	require.NoError(t, err)
	assert.Equal(t, "one", p.Info().Name)

	_, err = Find("missing")
	assert.Error(t, err)
}

func TestPrimaryDomain(t *testing.T) {
	assert.Equal(t, "a.com", Info{Domains: []string{"a.com", "b.com"}}.PrimaryDomain())
	assert.Empty(t, Info{}.PrimaryDomain())
}
