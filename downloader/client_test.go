package downloader

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ryujin/errs"
	"ryujin/session"
)

func testClient() *Client {
	return NewClient(5 * time.Second)
}

func TestGetSendsHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := testClient()
	client.SetHeader("X-Session", "from-session")

	resp, err := client.Get(context.Background(), server.URL, map[string]string{"Referer": "https://example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(resp.Body))

	assert.NotEmpty(t, got.Get("User-Agent"))
	assert.Equal(t, "from-session", got.Get("X-Session"))
	assert.Equal(t, "https://example.com/", got.Get("Referer"))
}

func TestGetDecompressesGzip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte("compressed payload"))
		gz.Close()
	}))
	defer server.Close()

	// The transport must not decompress for us, or the header check is moot.
	resp, err := testClient().Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "compressed payload", string(resp.Body))
}

func TestGetNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := testClient().Get(context.Background(), server.URL, nil)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGetServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient().Get(context.Background(), server.URL, nil)
	assert.ErrorIs(t, err, errs.ErrNetwork)
}

func TestGetChallengeWall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("<title>Just a moment...</title>"))
	}))
	defer server.Close()

	_, err := testClient().Get(context.Background(), server.URL, nil)
	assert.ErrorIs(t, err, errs.ErrAuthRequired)
}

func TestApplySession(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := testClient()
	client.ApplySession(&session.Data{
		Headers: map[string]string{"X-Custom": "value"},
	}, "example.com")

	_, err := client.Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "value", got.Get("X-Custom"))
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"test","count":3}`))
	}))
	defer server.Close()

	var payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.NoError(t, testClient().GetJSON(context.Background(), server.URL, &payload))
	assert.Equal(t, "test", payload.Name)
	assert.Equal(t, 3, payload.Count)
}

func TestGetJSONParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	var payload map[string]interface{}
	err := testClient().GetJSON(context.Background(), server.URL, &payload)
	assert.ErrorIs(t, err, errs.ErrParse)
}
