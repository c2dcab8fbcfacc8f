package providers

import (
	"context"
	"log"
	"sync"
	"time"

	"ryujin/config"
	"ryujin/downloader"
	"ryujin/models"
	"ryujin/session"
)

// Info describes a provider to the UI and the registry. Domains drive the
// override arbitration: an external provider claiming a built-in provider's
// domain replaces it.
type Info struct {
	Name     string
	Lang     string
	Domains  []string
	HasLogin bool
}

// Provider is the full capability contract a manga source implements.
// Site-specific lookups (manga metadata, chapter list, page list) differ per
// site; Download usually comes from Base.
type Provider interface {
	// Info returns the static description of the provider.
	Info() Info
	// Login establishes a site session and caches it. Providers without a
	// login flow return nil immediately.
	Login(ctx context.Context) error
	// GetManga resolves a manga URL or identifier to its metadata.
	GetManga(ctx context.Context, id string) (models.Manga, error)
	// GetChapters lists every chapter of a manga, newest first.
	GetChapters(ctx context.Context, manga models.Manga) ([]models.Chapter, error)
	// GetPages resolves one chapter to its ordered page URLs.
	GetPages(ctx context.Context, ch models.Chapter) (models.PageSet, error)
	// Download fetches and persists every page, reporting progress 0-100
	// through fn.
	Download(ctx context.Context, pages models.PageSet, fn func(int)) (models.DownloadedChapter, error)
}

// Base carries the shared provider plumbing: an HTTP client with the cached
// session applied, and the default image pipeline. Site providers embed it
// and implement the lookups.
type Base struct {
	Meta Info

	mu     sync.Mutex
	client *downloader.Client
	// Headers are sent with every page request on top of the session
	// headers. Sites that require a Referer set it here.
	Headers map[string]string
}

// NewBase builds the shared plumbing for a provider and applies the cached
// session for its primary domain, if one exists.
func NewBase(meta Info) *Base {
	base := &Base{
		Meta:   meta,
		client: downloader.NewClient(30 * time.Second),
	}

	if domain := meta.PrimaryDomain(); domain != "" {
		if data, err := session.Load(domain); err == nil {
			base.client.ApplySession(data, domain)
			log.Printf("[Provider:%s] Applied cached session for %s", meta.Name, domain)
		}
	}

	return base
}

// PrimaryDomain returns the first registered domain, the one session data is
// keyed under.
func (i Info) PrimaryDomain() string {
	if len(i.Domains) == 0 {
		return ""
	}
	return i.Domains[0]
}

// Info implements Provider.
func (b *Base) Info() Info {
	return b.Meta
}

// Login implements Provider for sites without a login flow.
func (b *Base) Login(ctx context.Context) error {
	return nil
}

// Client returns the provider's HTTP client.
func (b *Base) Client() *downloader.Client {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.client
}

// SaveSession caches the given cookies for the provider's primary domain and
// applies them to the HTTP client.
func (b *Base) SaveSession(headers, cookies map[string]string) error {
	domain := b.Meta.PrimaryDomain()
	data := &session.Data{Headers: headers, Cookies: cookies}

	if err := session.Save(domain, data); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.client.ApplySession(data, domain)
	return nil
}

// Download implements Provider with the standard image pipeline, configured
// from the application settings.
func (b *Base) Download(ctx context.Context, pages models.PageSet, fn func(int)) (models.DownloadedChapter, error) {
	cfg := config.Get()

	pipeline := &downloader.Pipeline{
		Client:   b.Client(),
		SaveRoot: cfg.Save,
		Format:   cfg.Format,
		Interval: time.Duration(cfg.RateLimitMs) * time.Millisecond,
	}
	return pipeline.Run(ctx, pages, fn, b.Headers)
}
