package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"sentitube/domain/model"
	"sentitube/domain/repository"
)

// VideoCache caches YouTube metadata lookups with a TTL. A nil redis client
// turns every operation into a no-op so the pipeline works without redis.
type VideoCache struct {
	client *redis.Client
}

func NewVideoCache(client *redis.Client) repository.IVideoCache {
	return &VideoCache{client: client}
}

func metadataKey(videoID string) string {
	return "video:meta:" + videoID
}

// GetMetadata returns the cached metadata or nil on miss.
func (c *VideoCache) GetMetadata(ctx context.Context, videoID string) (*model.VideoMetadata, error) {
	if c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, metadataKey(videoID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var meta model.VideoMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// SetMetadata stores metadata with a TTL from now.
func (c *VideoCache) SetMetadata(ctx context.Context, videoID string, meta *model.VideoMetadata, ttl time.Duration) error {
	if c.client == nil || meta == nil {
		return nil
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, metadataKey(videoID), raw, ttl).Err()
}
