package repository

import (
	"context"

	"sentitube/domain/model"
)

// IYouTube is the external video-platform API consumed by the core. Both
// operations carry a per-call timeout and may fail with the quota/permission
// error kinds defined in domain/model.
type IYouTube interface {
	// GetVideoMetadata resolves a YouTube video id to its current metadata.
	// Returns model.ErrVideoNotFound when the id does not exist or the video
	// is private/deleted.
	GetVideoMetadata(ctx context.Context, videoID string) (*model.VideoMetadata, error)

	// ListCommentPage fetches one page of the comment threads of a video,
	// including replies. Entries missing required fields are dropped and
	// reported in SkippedCount. pageToken is empty for the first page.
	ListCommentPage(ctx context.Context, videoID, pageToken string) (*model.CommentPage, error)
}
