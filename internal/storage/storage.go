package storage

import (
	"context"
	"strings"
)

// Service resolves and removes the objects behind user profile images.
type Service interface {
	ObjectURL(ctx context.Context, key string) (string, error)
	DeleteObjects(ctx context.Context, keys ...string) error
}

// IsObjectKey reports whether ref points into the bucket rather than being
// an absolute URL (legacy rows) or empty.
func IsObjectKey(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	lower := strings.ToLower(ref)
	return !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://")
}
