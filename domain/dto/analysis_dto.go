package dto

// Res is the generic response envelope for error replies.
type Res struct {
	ResponseCode    string `json:"response_code"`
	ResponseMessage string `json:"response_message"`
}

// AnalyzeRequest is the body of POST /api/analysis.
type AnalyzeRequest struct {
	YouTubeURL string `json:"youtube_url" binding:"required"`
}

// SentimentDistribution holds absolute counts per label.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// SentimentPercentages holds rounded percentage shares per label.
type SentimentPercentages struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// VideoSummary is the video block embedded in analysis responses. ID is the
// YouTube video id; VideoID is the internal identifier accepted by the
// per-video comments and delete endpoints.
type VideoSummary struct {
	ID           string `json:"id"`
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	Channel      string `json:"channel"`
	ThumbnailURL string `json:"thumbnail_url"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
	PublishedAt  string `json:"published_at,omitempty"`
}

// AnalysisResponse is returned by POST /api/analysis.
type AnalysisResponse struct {
	Video                 VideoSummary          `json:"video"`
	AnalysisID            string                `json:"analysis_id"`
	TotalComments         int                   `json:"total_comments"`
	SentimentDistribution SentimentDistribution `json:"sentiment_distribution"`
}

// HistoryItem is one row of the analysis history listing.
type HistoryItem struct {
	AnalysisID   string               `json:"analysis_id"`
	VideoID      string               `json:"video_id"`
	Title        string               `json:"title"`
	Channel      string               `json:"channel"`
	ThumbnailURL string               `json:"thumbnail_url"`
	Date         string               `json:"date"`
	Totals       int                  `json:"total_comments"`
	Percentages  SentimentPercentages `json:"percentages"`
}

// Pagination describes the page window of a listing response.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// HistoryResponse is returned by GET /api/analysis/history.
type HistoryResponse struct {
	Items      []HistoryItem `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

// AnalysisDetailResponse is returned by GET /api/analysis/:analysisId.
type AnalysisDetailResponse struct {
	Video       VideoSummary          `json:"video"`
	AnalysisID  string                `json:"analysis_id"`
	CreatedAt   string                `json:"created_at"`
	Totals      int                   `json:"total_comments"`
	Counts      SentimentDistribution `json:"counts"`
	Percentages SentimentPercentages  `json:"percentages"`
}

// CommentItem is one classified comment in the comments listing.
type CommentItem struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	Text        string `json:"text"`
	Sentiment   string `json:"sentiment"`
	LikeCount   int64  `json:"like_count"`
	PublishedAt string `json:"published_at,omitempty"`
	IsTopLevel  bool   `json:"is_top_level"`
}

// CommentsResponse is returned by GET /api/analysis/videos/:videoId/comments.
type CommentsResponse struct {
	Items      []CommentItem `json:"items"`
	Pagination Pagination    `json:"pagination"`
	Filter     string        `json:"filter"`
}

// DeleteResponse is returned by DELETE /api/analysis/videos/:videoId.
type DeleteResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deleted_count"`
}
