package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/bikebuilder/pkg/cache"
	"github.com/matzehuels/bikebuilder/pkg/errors"
	"github.com/matzehuels/bikebuilder/pkg/httputil"
	"github.com/matzehuels/bikebuilder/pkg/observability"
)

// AssetLoader resolves a part image reference to a decoded image.
type AssetLoader interface {
	Load(ctx context.Context, ref string) (image.Image, error)
}

// DirLoader reads relative image references from a local directory.
type DirLoader struct {
	Root string
}

func (d DirLoader) Load(_ context.Context, ref string) (image.Image, error) {
	if errors.IsRemoteAsset(ref) {
		return nil, errors.New(errors.ErrCodeUnsupported, "remote asset %q needs an HTTP loader", ref)
	}
	if err := errors.ValidateAssetPath(ref); err != nil {
		return nil, err
	}
	img, err := imaging.Open(filepath.Join(d.Root, filepath.FromSlash(ref)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open asset %q", ref)
	}
	return img, nil
}

// HTTPLoader fetches absolute image URLs, retrying transient failures.
// Fetched bytes are kept in Cache when one is set.
type HTTPLoader struct {
	Client *http.Client
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
}

func (h HTTPLoader) Load(ctx context.Context, ref string) (image.Image, error) {
	if !errors.IsRemoteAsset(ref) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "asset %q is not a URL", ref)
	}
	c, keyer := h.Cache, h.Keyer
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	data, err := cache.GetOrCompute(ctx, c, keyer.AssetKey(ref), "asset", h.TTL, func() ([]byte, error) {
		var body []byte
		err := httputil.RetryWithBackoff(ctx, func() error {
			var err error
			body, err = httputil.Fetch(ctx, h.Client, ref)
			return err
		})
		return body, err
	})
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	return img, nil
}

// Loaders routes URLs to Remote and everything else to Local.
// A nil branch reports the reference as unsupported.
type Loaders struct {
	Local  AssetLoader
	Remote AssetLoader
}

func (l Loaders) Load(ctx context.Context, ref string) (image.Image, error) {
	remote := errors.IsRemoteAsset(ref)
	next := l.Local
	if remote {
		next = l.Remote
	}
	if next == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "no loader for asset %q", ref)
	}

	start := time.Now()
	img, err := next.Load(ctx, ref)
	observability.Render().OnAssetLoad(ctx, remote, time.Since(start), err)
	return img, err
}
