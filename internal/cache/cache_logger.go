package cache

import (
	"context"
	"log/slog"
)

// SafeDelete deletes cache keys, logging failures instead of propagating
// them. Callers on the write path must not fail a committed mutation because
// the cache could not be invalidated.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if helper == nil {
		return
	}

	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Cache delete failed",
			"error", err,
			"keys", keys)
	}
}

// SafeInvalidatePattern invalidates keys matching a pattern, logging failures
// instead of propagating them.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if helper == nil {
		return
	}

	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Cache pattern invalidation failed",
			"error", err,
			"pattern", pattern)
	}
}
