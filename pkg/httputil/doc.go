// Package httputil provides HTTP helpers for fetching remote part images.
//
// # Overview
//
//   - [Fetch]: GET a URL and return the body, classifying failures
//   - [Retry]: automatic retry with exponential backoff
//
// Catalog entries may reference images by absolute URL. The PNG compositor
// pulls those through [Fetch] wrapped in [RetryWithBackoff]:
//
//	var body []byte
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    var err error
//	    body, err = httputil.Fetch(ctx, client, url)
//	    return err
//	})
//
// # Retry
//
// Only errors wrapped in [RetryableError] are retried:
//
//   - network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Everything else (404, malformed URL) fails on the first attempt.
package httputil
