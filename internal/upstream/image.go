package upstream

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// maxImageBytes caps icon downloads; boss sprites are tiny.
const maxImageBytes = 2 << 20

// FetchImage downloads and decodes a provider-hosted image, typically the
// boosted boss sprite. The image host is usually a static CDN, so no bearer
// token is attached.
func (c *Client) FetchImage(ctx context.Context, rawURL string) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}

	call := func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpc.Do(req)
		if err != nil {
			return nil, fmt.Errorf("GET %s: %w", rawURL, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil, fmt.Errorf("GET %s: unexpected status %d", rawURL, resp.StatusCode)
		}
		return io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	}

	var (
		v   any
		err error
	)
	if c.limiter != nil {
		v, err = c.limiter.Do(ctx, host, call)
	} else {
		v, err = call()
	}
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(v.([]byte)))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return img, nil
}
