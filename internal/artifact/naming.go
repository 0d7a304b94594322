// Package artifact implements the file naming convention and the
// upload-and-register facade for generated content.
package artifact

import (
	"fmt"
	"strings"
)

// FileName builds an artifact file name following the convention
// <modelSlug>_<attemptNumber>_<documentKeyOrKind>.<ext>.
func FileName(modelSlug string, attempt int, kind, ext string) string {
	return fmt.Sprintf("%s_%d_%s.%s", modelSlug, attempt, kind, ext)
}

// ModelSlugFromFileName parses the leading model slug segment from an
// artifact file name. The file name encodes the model, so callers can
// avoid a second catalog lookup. Returns "" when the name does not follow
// the convention.
func ModelSlugFromFileName(name string) string {
	base := name
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	parts := strings.SplitN(base, "_", 3)
	if len(parts) < 3 {
		return ""
	}
	return parts[0]
}

// MatchesDocumentKey reports whether an artifact file name encodes the
// given document key, used as the filename-pattern fallback when a
// structured key match is unavailable.
func MatchesDocumentKey(name, documentKey string) bool {
	if documentKey == "" {
		return false
	}
	base := name
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}
	parts := strings.SplitN(base, "_", 3)
	if len(parts) < 3 {
		return false
	}
	return parts[2] == documentKey
}
