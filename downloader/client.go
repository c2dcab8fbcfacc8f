package downloader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	"ryujin/errs"
	"ryujin/session"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36"

// Response is the decoded result of one outbound request.
type Response struct {
	Status      int
	Header      http.Header
	Body        []byte
	ContentType string
}

// Client is the HTTP client shared by a provider instance. It owns the
// provider's session headers and cookie jar; header mutation is serialized
// so concurrent downloads of the same provider do not race a re-login.
type Client struct {
	http *http.Client

	mu      sync.RWMutex
	headers map[string]string
}

// NewClient creates a client with a publicsuffix-aware cookie jar and the
// given timeout applied to every request.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	return &Client{
		http: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		headers: make(map[string]string),
	}
}

// SetHeader sets a session header sent with every subsequent request.
func (c *Client) SetHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers[key] = value
}

// ApplySession installs cached session state: headers become session headers
// and cookies are planted in the jar for the given domain.
func (c *Client) ApplySession(data *session.Data, domain string) {
	if data == nil {
		return
	}

	c.mu.Lock()
	for k, v := range data.Headers {
		c.headers[k] = v
	}
	c.mu.Unlock()

	if len(data.Cookies) > 0 && c.http.Jar != nil {
		site := &url.URL{Scheme: "https", Host: domain}
		cookies := make([]*http.Cookie, 0, len(data.Cookies))
		for name, value := range data.Cookies {
			cookies = append(cookies, &http.Cookie{Name: name, Value: value, Path: "/"})
		}
		c.http.Jar.SetCookies(site, cookies)
	}
}

// Cookies returns the jar's cookies for a domain as a name/value map.
func (c *Client) Cookies(domain string) map[string]string {
	if c.http.Jar == nil {
		return nil
	}
	site := &url.URL{Scheme: "https", Host: domain}
	out := make(map[string]string)
	for _, ck := range c.http.Jar.Cookies(site) {
		out[ck.Name] = ck.Value
	}
	return out
}

// Get performs a GET request with the session headers plus any extra
// headers. The response body is decompressed and checked for challenge
// walls before being returned.
func (c *Client) Get(ctx context.Context, rawURL string, extra map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request for %s: %w", rawURL, err)
	}

	req.Header.Set("User-Agent", defaultUserAgent)

	c.mu.RLock()
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	c.mu.RUnlock()

	for k, v := range extra {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %v: %w", rawURL, err, errs.ErrNetwork)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %v: %w", rawURL, err, errs.ErrNetwork)
	}

	body, _, err := DecompressBody(rawBody, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress response from %s: %v: %w", rawURL, err, errs.ErrNetwork)
	}

	if challenged, reason := DetectChallenge(resp.StatusCode, resp.Header, body); challenged {
		return nil, fmt.Errorf("%s: %s: %w", rawURL, reason, errs.ErrAuthRequired)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", rawURL, errs.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: bad response status %s: %w", rawURL, resp.Status, errs.ErrNetwork)
	}

	return &Response{
		Status:      resp.StatusCode,
		Header:      resp.Header,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// GetJSON performs a GET request and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v interface{}) error {
	resp, err := c.Get(ctx, rawURL, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("failed to decode JSON from %s: %v: %w", rawURL, err, errs.ErrParse)
	}
	return nil
}
