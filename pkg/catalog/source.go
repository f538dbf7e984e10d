package catalog

import (
	"context"
	"os"

	"github.com/matzehuels/bikebuilder/pkg/errors"
)

// Source supplies the raw part list a [Store] is loaded from.
type Source interface {
	// Parts fetches the catalog. Implementations decode but do not validate;
	// validation happens in [Store.Load].
	Parts(ctx context.Context) ([]Part, error)
	// Describe names the source for logs.
	Describe() string
}

// LoadFrom fetches the parts from src and loads them into s. Any failure is
// reported as a LOAD_ERROR and leaves s empty.
func (s *Store) LoadFrom(ctx context.Context, src Source) error {
	parts, err := src.Parts(ctx)
	if err != nil {
		if errors.Is(err, errors.ErrCodeLoad) {
			return err
		}
		return errors.Load(err, "read catalog from %s", src.Describe())
	}
	if err := s.Load(parts); err != nil {
		return err
	}
	s.logger.Debug("loaded catalog", "source", src.Describe(), "parts", s.Len())
	return nil
}

// FileSource reads a JSON, TOML or YAML catalog file. The format follows the
// file extension unless Format is set.
type FileSource struct {
	Path   string
	Format string
}

// Parts reads and decodes the file.
func (f FileSource) Parts(ctx context.Context) ([]Part, error) {
	format := f.Format
	if format == "" {
		var err error
		if format, err = FormatFromPath(f.Path); err != nil {
			return nil, err
		}
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, errors.Load(err, "open %s", f.Path)
	}
	return Decode(format, data)
}

// Describe returns the file path.
func (f FileSource) Describe() string { return f.Path }

// StaticSource serves a fixed part list, mostly for tests and embedding.
type StaticSource []Part

// Parts returns the list.
func (s StaticSource) Parts(context.Context) ([]Part, error) { return s, nil }

// Describe implements Source.
func (s StaticSource) Describe() string { return "static" }
