package model

import (
	"time"

	"github.com/google/uuid"
)

// Sentiment is the classification label assigned to a comment.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Valid reports whether s is one of the three known labels.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// Video is the persisted metadata of a YouTube video. The YouTube video id is
// unique; metadata is refreshed on re-analysis, the row is never duplicated.
type Video struct {
	ID             uuid.UUID `json:"id"`
	YouTubeVideoID string    `json:"youtube_video_id"`
	Title          string    `json:"title"`
	ChannelName    string    `json:"channel_name"`
	ThumbnailURL   string    `json:"thumbnail_url"`
	LikeCount      int64     `json:"like_count"`
	CommentCount   int64     `json:"comment_count"`
	PublishedAt    time.Time `json:"published_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Analysis is one immutable snapshot of a sentiment run. Re-analysis inserts a
// new row; rows are never updated after creation.
type Analysis struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	VideoID       uuid.UUID `json:"video_id"`
	TotalComments int       `json:"total_comments"`
	PositiveCount int       `json:"positive_count"`
	NeutralCount  int       `json:"neutral_count"`
	NegativeCount int       `json:"negative_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Comment is a classified comment belonging to one analysis snapshot.
type Comment struct {
	ID          string    `json:"id"`
	VideoID     uuid.UUID `json:"video_id"`
	AnalysisID  uuid.UUID `json:"analysis_id"`
	Author      string    `json:"author"`
	Text        string    `json:"text"`
	Sentiment   Sentiment `json:"sentiment"`
	ParentID    string    `json:"parent_id,omitempty"`
	IsTopLevel  bool      `json:"is_top_level"`
	LikeCount   int64     `json:"like_count"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// RawComment is a comment as returned by the YouTube API, before
// sanitization and classification.
type RawComment struct {
	CommentID   string
	Author      string
	Text        string
	LikeCount   int64
	PublishedAt time.Time
	ParentID    string
	IsTopLevel  bool
}

// CommentPage is a single page of the comment-listing endpoint.
type CommentPage struct {
	Comments      []RawComment
	SkippedCount  int
	NextPageToken string
}

// VideoMetadata is the metadata-lookup result from the YouTube API.
type VideoMetadata struct {
	YouTubeVideoID string    `json:"youtube_video_id"`
	Title          string    `json:"title"`
	ChannelName    string    `json:"channel_name"`
	ThumbnailURL   string    `json:"thumbnail_url"`
	ViewCount      int64     `json:"view_count"`
	LikeCount      int64     `json:"like_count"`
	CommentCount   int64     `json:"comment_count"`
	PublishedAt    time.Time `json:"published_at"`
}

// SentimentResult is the classifier output for one comment.
type SentimentResult struct {
	Label Sentiment `json:"label"`
	Score float64   `json:"score"`
}

// AnalysisSummary is an analysis joined with its video, as listed in history.
type AnalysisSummary struct {
	Analysis Analysis `json:"analysis"`
	Video    Video    `json:"video"`
}

// AnalysisDetail is the full detail view of one analysis.
type AnalysisDetail struct {
	Analysis Analysis `json:"analysis"`
	Video    Video    `json:"video"`
}

// AnalysisCompletedEvent is published to the configured brokers after a
// snapshot has been committed.
type AnalysisCompletedEvent struct {
	AnalysisID     uuid.UUID `json:"analysis_id"`
	UserID         uuid.UUID `json:"user_id"`
	YouTubeVideoID string    `json:"youtube_video_id"`
	TotalComments  int       `json:"total_comments"`
	PositiveCount  int       `json:"positive_count"`
	NeutralCount   int       `json:"neutral_count"`
	NegativeCount  int       `json:"negative_count"`
	CreatedAt      time.Time `json:"created_at"`
}
