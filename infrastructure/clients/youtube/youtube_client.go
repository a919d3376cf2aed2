package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"sentitube/domain/model"
	"sentitube/domain/repository"
	"sentitube/infrastructure/logger"
)

// Client wraps the YouTube Data API v3 for metadata lookup and comment
// listing. API-key mode is the default; OAuth credentials switch the client
// to an authorized transport.
type Client struct {
	service        *youtube.Service
	requestTimeout time.Duration
}

// Config represents YouTube API configuration.
type Config struct {
	APIKey         string `json:"api_key"`
	ClientID       string `json:"client_id"`
	ClientSecret   string `json:"client_secret"`
	RedirectURL    string `json:"redirect_url"`
	AccessToken    string `json:"access_token"`
	RefreshToken   string `json:"refresh_token"`
	RequestTimeout time.Duration
}

// NewYouTubeClient creates a new YouTube API client.
func NewYouTubeClient(ctx context.Context, config *Config) (repository.IYouTube, error) {
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// Read-only API key mode unless full OAuth credentials are present.
	if config.AccessToken == "" || config.RefreshToken == "" {
		if config.APIKey == "" {
			return nil, fmt.Errorf("youtube client requires an API key or OAuth credentials")
		}
		service, err := youtube.NewService(ctx, option.WithAPIKey(config.APIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create YouTube service with API key: %w", err)
		}
		return &Client{service: service, requestTimeout: timeout}, nil
	}

	oauth2Config := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       []string{youtube.YoutubeReadonlyScope},
		Endpoint:     google.Endpoint,
	}
	token := &oauth2.Token{
		AccessToken:  config.AccessToken,
		RefreshToken: config.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(-1 * time.Minute), // Force refresh on first use
	}
	httpClient := oauth2Config.Client(ctx, token)
	service, err := youtube.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Client{service: service, requestTimeout: timeout}, nil
}

// GetVideoMetadata retrieves snippet and statistics for a single video.
func (c *Client) GetVideoMetadata(ctx context.Context, videoID string) (*model.VideoMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	response, err := c.service.Videos.
		List([]string{"snippet", "statistics"}).
		Id(videoID).
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, mapMetadataError(err, videoID)
	}
	if len(response.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrVideoNotFound, videoID)
	}

	item := response.Items[0]
	meta := &model.VideoMetadata{
		YouTubeVideoID: videoID,
		Title:          "Unknown Title",
		ChannelName:    "Unknown Channel",
	}
	if item.Snippet != nil {
		if item.Snippet.Title != "" {
			meta.Title = item.Snippet.Title
		}
		if item.Snippet.ChannelTitle != "" {
			meta.ChannelName = item.Snippet.ChannelTitle
		}
		meta.ThumbnailURL = pickThumbnail(item.Snippet.Thumbnails)
		if item.Snippet.PublishedAt != "" {
			if ts, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
				meta.PublishedAt = ts
			}
		}
	}
	if meta.PublishedAt.IsZero() {
		meta.PublishedAt = time.Now().UTC()
	}
	if item.Statistics != nil {
		meta.ViewCount = int64(item.Statistics.ViewCount)
		meta.LikeCount = int64(item.Statistics.LikeCount)
		meta.CommentCount = int64(item.Statistics.CommentCount)
	}
	return meta, nil
}

// ListCommentPage fetches one page of comment threads including replies.
// Entries missing required fields are skipped and counted, never fatal to
// the page.
func (c *Client) ListCommentPage(ctx context.Context, videoID, pageToken string) (*model.CommentPage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	call := c.service.CommentThreads.
		List([]string{"snippet", "replies"}).
		VideoId(videoID).
		MaxResults(100).
		TextFormat("plainText").
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	response, err := call.Do()
	if err != nil {
		return nil, mapCommentsError(err, videoID)
	}

	page := &model.CommentPage{NextPageToken: response.NextPageToken}
	for _, thread := range response.Items {
		if thread.Snippet == nil || thread.Snippet.TopLevelComment == nil {
			page.SkippedCount++
			continue
		}
		top, ok := convertComment(thread.Snippet.TopLevelComment, "", true)
		if !ok {
			page.SkippedCount++
		} else {
			page.Comments = append(page.Comments, top)
		}
		if thread.Replies == nil {
			continue
		}
		for _, reply := range thread.Replies.Comments {
			converted, ok := convertComment(reply, thread.Id, false)
			if !ok {
				page.SkippedCount++
				continue
			}
			page.Comments = append(page.Comments, converted)
		}
	}
	if page.SkippedCount > 0 {
		logger.GetLogger().WithFields(map[string]interface{}{
			"videoId": videoID,
			"skipped": page.SkippedCount,
		}).Warn("Skipped malformed comment entries")
	}
	return page, nil
}

func convertComment(comment *youtube.Comment, parentID string, topLevel bool) (model.RawComment, bool) {
	if comment == nil || comment.Id == "" || comment.Snippet == nil {
		return model.RawComment{}, false
	}
	snippet := comment.Snippet
	text := strings.TrimSpace(snippet.TextDisplay)
	if text == "" || snippet.AuthorDisplayName == "" {
		return model.RawComment{}, false
	}
	raw := model.RawComment{
		CommentID:  comment.Id,
		Author:     snippet.AuthorDisplayName,
		Text:       text,
		LikeCount:  snippet.LikeCount,
		ParentID:   parentID,
		IsTopLevel: topLevel,
	}
	if snippet.PublishedAt != "" {
		if ts, err := time.Parse(time.RFC3339, snippet.PublishedAt); err == nil {
			raw.PublishedAt = ts
		}
	}
	return raw, true
}

func pickThumbnail(thumbs *youtube.ThumbnailDetails) string {
	if thumbs == nil {
		return ""
	}
	for _, t := range []*youtube.Thumbnail{thumbs.High, thumbs.Medium, thumbs.Default} {
		if t != nil && t.Url != "" {
			return t.Url
		}
	}
	return ""
}

func mapMetadataError(err error, videoID string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 403:
			if hasReason(apiErr, "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded") {
				return fmt.Errorf("%w: %v", model.ErrQuotaExceeded, err)
			}
			return model.NewFetchError(apiErr.Code, err)
		case 404, 400:
			return fmt.Errorf("%w: %s", model.ErrVideoNotFound, videoID)
		default:
			return model.NewFetchError(apiErr.Code, err)
		}
	}
	return model.NewFetchError(0, err)
}

func mapCommentsError(err error, videoID string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 403:
			if hasReason(apiErr, "commentsDisabled") {
				return fmt.Errorf("%w: %s", model.ErrCommentsDisabled, videoID)
			}
			if hasReason(apiErr, "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded") {
				return fmt.Errorf("%w: %v", model.ErrQuotaExceeded, err)
			}
			return model.NewFetchError(apiErr.Code, err)
		case 404:
			return fmt.Errorf("%w: %s", model.ErrVideoNotFound, videoID)
		default:
			return model.NewFetchError(apiErr.Code, err)
		}
	}
	return model.NewFetchError(0, err)
}

func hasReason(apiErr *googleapi.Error, reasons ...string) bool {
	for _, item := range apiErr.Errors {
		for _, reason := range reasons {
			if item.Reason == reason {
				return true
			}
		}
	}
	// Some error payloads only carry the reason in the message body.
	for _, reason := range reasons {
		if strings.Contains(apiErr.Message, reason) {
			return true
		}
	}
	return false
}
