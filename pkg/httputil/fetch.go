package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/matzehuels/bikebuilder/pkg/buildinfo"
)

// MaxBodySize caps the number of bytes [Fetch] will read.
const MaxBodySize = 16 << 20

// Fetch performs a GET request and returns the response body.
// Network failures, 5xx and 429 responses are wrapped in [RetryableError].
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: fmt.Errorf("get %s: %w", url, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("get %s: %s", url, resp.Status)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, &RetryableError{Err: err}
		}
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("read %s: %w", url, err)}
	}
	if len(body) > MaxBodySize {
		return nil, fmt.Errorf("get %s: body exceeds %d bytes", url, MaxBodySize)
	}
	return body, nil
}
