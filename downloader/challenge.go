package downloader

import (
	"net/http"
	"strings"
)

// Markers that on their own identify an anti-bot challenge page.
var strongChallengeMarkers = []string{
	"just a moment...",
	"checking your browser before accessing",
	"challenge-form",
	"cf-turnstile",
	"verify you are human",
}

// Markers that appear on normal pages of protected sites too; they only
// count when the status code already looks like a block.
var weakChallengeMarkers = []string{
	"/cdn-cgi/challenge-platform/",
	"cf_chl_opt",
}

// DetectChallenge inspects a response and reports whether the server is
// serving a challenge wall instead of content, plus a short reason.
func DetectChallenge(statusCode int, header http.Header, body []byte) (bool, string) {
	lower := strings.ToLower(string(body))

	for _, marker := range strongChallengeMarkers {
		if strings.Contains(lower, marker) {
			return true, "challenge page marker: " + marker
		}
	}

	if statusCode == http.StatusForbidden || statusCode == http.StatusServiceUnavailable {
		server := strings.ToLower(header.Get("Server"))
		if strings.Contains(server, "cloudflare") {
			return true, "blocked by protection layer"
		}
		for _, marker := range weakChallengeMarkers {
			if strings.Contains(lower, marker) {
				return true, "challenge script on blocked response"
			}
		}
	}

	return false, ""
}
