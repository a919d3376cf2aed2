package repository

import (
	"context"
	"time"

	"sentitube/domain/model"
)

// IVideoCache caches metadata-lookup results in front of the YouTube API.
// A nil-backed implementation is a no-op; cache failures never fail a lookup.
type IVideoCache interface {
	// GetMetadata returns the cached metadata or nil on miss.
	GetMetadata(ctx context.Context, videoID string) (*model.VideoMetadata, error)
	// SetMetadata stores metadata with a TTL from now.
	SetMetadata(ctx context.Context, videoID string, meta *model.VideoMetadata, ttl time.Duration) error
}
