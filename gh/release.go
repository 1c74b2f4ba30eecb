package gh

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"update-release/model"
)

// Release models only the fields of the
// GET /repos/{owner}/{repo}/releases/tags/{tag} response this tool consumes.
type Release struct {
	ID        int64   `json:"id"`
	TagName   string  `json:"tag_name"`
	Name      string  `json:"name"`
	UploadURL string  `json:"upload_url"`
	HTMLURL   string  `json:"html_url"`
	Assets    []Asset `json:"assets"`
}

// Asset is a named file attached to a release.
type Asset struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Size               int64  `json:"size"`
	State              string `json:"state"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// ReleaseByTag fetches the release whose tag equals tag. The release must
// already exist; a missing release is reported via ErrReleaseNotFound and is
// never created here.
func (c *Client) ReleaseByTag(ctx context.Context, repo model.Repo, tag string) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/tags/%s", c.apiBaseURL, repo.Owner, repo.Name, tag)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.decorate(req)

	resp, err := doRequestWithRetry(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetching release for tag %s: %w", tag, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: no release tagged %s in %s", ErrReleaseNotFound, tag, repo)
	case http.StatusUnauthorized:
		return nil, ErrInvalidToken
	case http.StatusForbidden:
		if resp.Header.Get("X-RateLimit-Remaining") == "0" {
			return nil, ErrRateLimitExceeded
		}
		return nil, fmt.Errorf("HTTP 403 Forbidden - check repository access and rate limits")
	case http.StatusOK:
		var rel Release
		if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
			return nil, fmt.Errorf("decoding release JSON: %w", err)
		}
		return &rel, nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrFetchError, resp.StatusCode, string(body))
	}
}
