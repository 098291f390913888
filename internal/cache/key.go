// Package cache provides the search-result cache key derivation and the
// in-process memory tier. The durable tier lives in internal/repo; both
// tiers share the keys produced here.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"

	"ytbuzz/internal/models"
)

// Key derives the cache key for a (keyword, filter set) pair: the MD5 hex
// of the canonical JSON of both. Marshaling goes through a map so keys are
// emitted sorted, and the filter set is normalized first, so two
// semantically equal queries always hash identically.
func Key(keyword string, filters *models.SearchFilters) string {
	payload := map[string]any{
		"keyword": keyword,
		"filters": filters.Normalized(),
	}

	// Marshal cannot fail for this shape.
	b, _ := json.Marshal(payload)

	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}
