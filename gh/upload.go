package gh

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// uploadEndpoint turns the hypermedia upload_url a release carries
// (https://uploads.github.com/.../assets{?name,label}) into a concrete
// endpoint for the named asset.
func uploadEndpoint(uploadURL, assetName string) (string, error) {
	base := strings.Split(uploadURL, "{")[0]
	if base == "" {
		return "", fmt.Errorf("release has no upload URL")
	}
	if _, err := url.Parse(base); err != nil {
		return "", fmt.Errorf("invalid upload URL: %w", err)
	}

	// Asset uploads only work against uploads.github.com even when the API
	// response carries the api.github.com host.
	if strings.Contains(base, "api.github.com") && !strings.Contains(base, "uploads.github.com") {
		base = strings.Replace(base, "api.github.com", "uploads.github.com", 1)
	}

	return fmt.Sprintf("%s?name=%s", base, url.QueryEscape(assetName)), nil
}

// UploadAsset attaches size bytes read from r to the release as a new asset
// named assetName. Uploads are single-attempt: the first failure is returned
// as-is and the caller aborts the run. A same-named existing asset is
// whatever the API makes of it; no idempotence handling happens here.
func (c *Client) UploadAsset(
	ctx context.Context,
	rel *Release,
	assetName, contentType string,
	r io.Reader,
	size int64,
) (*Asset, error) {
	endpoint, err := uploadEndpoint(rel.UploadURL, assetName)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, r)
	if err != nil {
		return nil, err
	}
	c.decorate(req)
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = size

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uploading asset %s: %w", assetName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, fmt.Errorf("uploading asset %s: HTTP %d: %s", assetName, resp.StatusCode, string(body))
	}

	var asset Asset
	if err := json.NewDecoder(resp.Body).Decode(&asset); err != nil {
		return nil, fmt.Errorf("decoding asset JSON: %w", err)
	}

	return &asset, nil
}
