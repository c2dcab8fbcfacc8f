package models

// Manga represents one catalog entry on a source site.
// The ID is opaque to the core - most providers store a URL or a composite
// key in it, and only the provider that produced it can interpret it.
type Manga struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Chapter is one orderable unit of content within a series.
// Number is human-readable and not guaranteed to be numeric ("10.5", "Extra").
type Chapter struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Name   string `json:"name"`
}

// PageSet resolves one chapter into remote image URLs.
// Page order is reading order and must be preserved end to end.
type PageSet struct {
	ID     string   `json:"id"`
	Number string   `json:"number"`
	Name   string   `json:"name"`
	Pages  []string `json:"pages"`
}

// DownloadedChapter is the terminal artifact of the download pipeline.
// Files[i] corresponds to Pages[i] of the PageSet that produced it.
type DownloadedChapter struct {
	Number string   `json:"number"`
	Files  []string `json:"files"`
}
