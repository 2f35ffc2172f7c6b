// Package imagecheck verifies that an attachment URL actually serves an
// accepted image type. The check is a remote call with a short timeout
// and fails closed: any error counts as not an image.
package imagecheck

import (
	"context"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

var acceptedTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

type Checker struct {
	cli   *http.Client
	cache *xsync.MapOf[string, bool]
}

func New(timeout time.Duration) *Checker {
	return &Checker{
		cli:   &http.Client{Timeout: timeout},
		cache: xsync.NewMapOf[string, bool](),
	}
}

// IsValidImage reports whether url responds with an accepted image
// Content-Type. Results are cached per URL so repeated posts of the
// same attachment skip the round trip.
func (c *Checker) IsValidImage(ctx context.Context, url string) bool {
	if ok, hit := c.cache.Load(url); hit {
		return ok
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.cli.Do(req)
	if err != nil {
		return false
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	// Only a definitive answer is worth caching; a transient 5xx or
	// 404 should not condemn the URL for the process lifetime.
	if resp.StatusCode != http.StatusOK {
		return false
	}
	contentType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	ok := acceptedTypes[contentType]
	c.cache.Store(url, ok)
	return ok
}
