package downloader

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ryujin/errs"
	"ryujin/models"
	"ryujin/parser"
)

// Extension lookup order mirrors how sources embed format hints in URLs:
// the URL substring wins over the Content-Type header, and .jpg is the
// fallback when neither gives an answer.
var knownExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".avif", ".gif", ".bmp"}

var contentTypeExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/avif": ".avif",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
}

// Pipeline turns a PageSet's remote URLs into locally stored, optionally
// transcoded files under SaveRoot/<title>/<number>/.
type Pipeline struct {
	Client   *Client
	SaveRoot string
	// Format is the target extension (".jpg", ".png", ".webp"). Pages whose
	// source format already matches are stored as-is; empty disables
	// transcoding entirely.
	Format string
	// Interval paces page fetches; zero disables rate limiting.
	Interval time.Duration
	// Retries is the number of fetch attempts per page before the chapter
	// is declared failed.
	Retries int
}

// Run downloads every page in order. File order in the result matches page
// order. A zero-page set completes at 100% with an empty file list. A page
// whose fetch fails after all retries aborts the whole chapter. fn receives
// progress from 0 to 100 and may be nil. extra headers are sent with every
// page request (CDN referer requirements and the like).
func (p *Pipeline) Run(ctx context.Context, pages models.PageSet, fn func(int), extra map[string]string) (models.DownloadedChapter, error) {
	title := parser.SanitizeName(pages.Name)
	number := parser.SanitizeName(pages.Number)

	dir := filepath.Join(p.SaveRoot, title, number)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return models.DownloadedChapter{}, fmt.Errorf("failed to create chapter directory: %w", err)
	}

	files := []string{}
	total := len(pages.Pages)

	if total == 0 {
		if fn != nil {
			fn(100)
		}
		return models.DownloadedChapter{Number: pages.Number, Files: files}, nil
	}

	var limiter *parser.RateLimiter
	if p.Interval > 0 {
		limiter = parser.NewRateLimiter(p.Interval)
		defer limiter.Stop()
	}

	for i, page := range pages.Pages {
		select {
		case <-ctx.Done():
			return models.DownloadedChapter{}, ctx.Err()
		default:
		}

		if limiter != nil {
			limiter.Wait()
		}

		resp, err := p.fetchWithRetry(ctx, page, extra)
		if err != nil {
			return models.DownloadedChapter{}, fmt.Errorf("page %d: %w", i+1, err)
		}

		ext := extensionFor(page, resp.ContentType)
		file, err := p.persist(resp.Body, dir, i+1, ext)
		if err != nil {
			return models.DownloadedChapter{}, fmt.Errorf("page %d: %w", i+1, err)
		}
		files = append(files, file)

		if fn != nil {
			fn(int(math.Ceil(float64(i+1) * 100 / float64(total))))
		}
	}

	if fn != nil {
		fn(100)
	}

	return models.DownloadedChapter{Number: pages.Number, Files: files}, nil
}

// persist writes one page to disk, transcoding to the configured target
// format when it differs from the source. A failed transcode keeps the
// original bytes instead - a page is never dropped over a codec problem.
func (p *Pipeline) persist(data []byte, dir string, index int, ext string) (string, error) {
	originalFile := filepath.Join(dir, parser.PageFileName(index, ext))

	if p.Format == "" || strings.EqualFold(ext, p.Format) {
		if err := parser.SaveRaw(data, originalFile); err != nil {
			return "", fmt.Errorf("failed to save image: %w", err)
		}
		return originalFile, nil
	}

	convertedFile := filepath.Join(dir, parser.PageFileName(index, p.Format))
	if err := parser.ConvertImage(data, convertedFile); err != nil {
		if !errs.Is(err, errs.ErrConversion) {
			return "", err
		}
		log.Printf("[Pipeline] Conversion to %s failed, keeping original %s: %v", p.Format, originalFile, err)
		if saveErr := parser.SaveRaw(data, originalFile); saveErr != nil {
			return "", fmt.Errorf("failed to save image: %w", saveErr)
		}
		return originalFile, nil
	}

	return convertedFile, nil
}

func (p *Pipeline) fetchWithRetry(ctx context.Context, pageURL string, extra map[string]string) (*Response, error) {
	attempts := p.Retries
	if attempts < 1 {
		attempts = 3
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt))) * time.Second
			log.Printf("[Pipeline] Retry %d/%d after %v for %s", attempt+1, attempts, backoff, pageURL)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := p.Client.Get(ctx, pageURL, extra)
		if err == nil {
			if len(resp.Body) == 0 {
				lastErr = fmt.Errorf("%s: empty response body: %w", pageURL, errs.ErrNetwork)
				continue
			}
			return resp, nil
		}
		lastErr = err

		// Challenge walls will not clear by retrying.
		if errs.IsAuthRequired(err) {
			return nil, err
		}
	}

	return nil, lastErr
}

func extensionFor(pageURL, contentType string) string {
	urlLower := strings.ToLower(pageURL)
	for _, ext := range knownExtensions {
		if strings.Contains(urlLower, ext) {
			return ext
		}
	}

	ct := strings.ToLower(contentType)
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	if ext, ok := contentTypeExtensions[ct]; ok {
		return ext
	}

	return ".jpg"
}
