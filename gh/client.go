package gh

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// Error constants
var (
	ErrReleaseNotFound   = errors.New("release not found")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrInvalidToken      = errors.New("invalid token")
	ErrFetchError        = errors.New("could not obtain release data from the GitHub API")
)

const defaultAPIBaseURL = "https://api.github.com"

// The timeout covers the whole request, including streaming an asset body
// to the uploads host.
var httpClient = &http.Client{Timeout: 5 * time.Minute}

// Client talks to the GitHub releases API on behalf of a single run.
// Credentials are passed in explicitly; there is no ambient configuration.
type Client struct {
	apiBaseURL string
	token      string
	userAgent  string
}

// NewClient returns a Client authenticating with token. apiBaseURL overrides
// the public GitHub endpoint (GitHub Enterprise, tests); empty selects the
// default.
func NewClient(token, apiBaseURL string) *Client {
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}

	return &Client{
		apiBaseURL: strings.TrimRight(apiBaseURL, "/"),
		token:      token,
		userAgent:  "update-release/1.0",
	}
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
