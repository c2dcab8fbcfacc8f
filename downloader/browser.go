package downloader

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"

	"ryujin/session"
)

// Browser renders script-heavy sites that serve no usable HTML to a plain
// HTTP client. One instance holds one headless browser context; cached
// session cookies for the domain are injected before navigation.
type Browser struct {
	ctx    context.Context
	cancel context.CancelFunc
	domain string
	cached *session.Data
}

// NewBrowser starts a headless browser context for one domain.
func NewBrowser(ctx context.Context, domain string) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(defaultUserAgent),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-gpu", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	browser := &Browser{
		ctx:    browserCtx,
		cancel: func() { cancelBrowser(); cancelAlloc() },
		domain: domain,
	}

	if data, err := session.Load(domain); err == nil {
		browser.cached = data
		log.Printf("[Browser:%s] Loaded cached session (%d cookies)", domain, len(data.Cookies))
	}

	return browser, nil
}

// Close tears down the browser context.
func (b *Browser) Close() {
	b.cancel()
}

// Evaluate navigates to a URL, waits for waitSelector (empty waits for
// body) and evaluates javascript, decoding the result into result.
// Navigation, waiting and evaluation run in a single chromedp.Run -
// splitting them across runs loses page state.
func (b *Browser) Evaluate(rawURL, waitSelector, javascript string, result interface{}, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(b.ctx, timeout)
	defer cancel()

	if waitSelector == "" {
		waitSelector = "body"
	}

	tasks := []chromedp.Action{}
	if cookies := b.cookieParams(); len(cookies) > 0 {
		tasks = append(tasks, chromedp.ActionFunc(func(ctx context.Context) error {
			return network.SetCookies(cookies).Do(ctx)
		}))
	}

	tasks = append(tasks,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady(waitSelector),
		chromedp.Evaluate(javascript, result),
	)

	if err := chromedp.Run(ctx, tasks...); err != nil {
		return fmt.Errorf("browser evaluation on %s failed: %w", rawURL, err)
	}
	return nil
}

// FetchHTML navigates to a URL and returns the rendered document HTML.
func (b *Browser) FetchHTML(rawURL, waitSelector string, timeout time.Duration) (string, error) {
	var html string
	err := b.Evaluate(rawURL, waitSelector, "document.documentElement.outerHTML", &html, timeout)
	return html, err
}

// CollectCookies reads the browser's current cookies as a name/value map,
// ready for the session cache.
func (b *Browser) CollectCookies() (map[string]string, error) {
	ctx, cancel := context.WithTimeout(b.ctx, 10*time.Second)
	defer cancel()

	out := make(map[string]string)
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := storage.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		for _, ck := range cookies {
			out[ck.Name] = ck.Value
		}
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to collect cookies: %w", err)
	}
	return out, nil
}

func (b *Browser) cookieParams() []*network.CookieParam {
	if b.cached == nil || len(b.cached.Cookies) == 0 {
		return nil
	}
	params := make([]*network.CookieParam, 0, len(b.cached.Cookies))
	for name, value := range b.cached.Cookies {
		params = append(params, &network.CookieParam{
			Name:   name,
			Value:  value,
			Domain: "." + b.domain,
			Path:   "/",
		})
	}
	return params
}
