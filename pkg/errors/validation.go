package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// slugRegex matches frame slugs: lowercase words joined by dashes or underscores.
var slugRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateSlug validates a part slug. Slugs key per-frame position overrides,
// so they must be stable identifiers rather than display text.
func ValidateSlug(slug string) error {
	if slug == "" {
		return New(ErrCodeInvalidInput, "slug cannot be empty")
	}
	if len(slug) > 128 {
		return New(ErrCodeInvalidInput, "slug too long (max 128 characters)")
	}
	if !slugRegex.MatchString(slug) {
		return New(ErrCodeInvalidInput, "invalid slug: %q", slug)
	}
	return nil
}

// ValidateAssetPath validates an image reference that will be resolved against
// an asset root on disk.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateAssetPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "asset path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "asset path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "asset path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidInput, "asset path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "asset path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidInput, "asset path cannot contain backslashes")
	}

	return nil
}

// IsRemoteAsset reports whether an image reference points at a URL rather than
// a file below the asset root.
func IsRemoteAsset(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
