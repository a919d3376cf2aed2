package usecase

import (
	"context"
	"errors"
	"time"

	"sentitube/domain/model"
	"sentitube/domain/repository"
	"sentitube/infrastructure/logger"
)

// FetchResult is the bounded outcome of paginating a video's comments.
type FetchResult struct {
	Comments     []model.RawComment
	PagesFetched int
	SkippedCount int
	Truncated    bool
}

// CommentFetcher walks the comment-thread pages of a video under two
// independent hard limits. Hitting either limit ends pagination without
// error; a partial result is a valid result.
type CommentFetcher struct {
	youtube    repository.IYouTube
	maxPages   int
	maxRetries int
	backoff    time.Duration

	maxComments int
}

func NewCommentFetcher(youtube repository.IYouTube, maxPages, maxComments, maxRetries int) *CommentFetcher {
	return &CommentFetcher{
		youtube:     youtube,
		maxPages:    maxPages,
		maxComments: maxComments,
		maxRetries:  maxRetries,
		backoff:     500 * time.Millisecond,
	}
}

// WithBackoff overrides the retry backoff base delay.
func (f *CommentFetcher) WithBackoff(d time.Duration) *CommentFetcher {
	f.backoff = d
	return f
}

// Fetch collects up to maxComments raw comments across at most maxPages page
// requests. Quota and permission errors surface immediately; transient
// transport failures are retried with backoff before giving up.
func (f *CommentFetcher) Fetch(ctx context.Context, videoID string) (*FetchResult, error) {
	result := &FetchResult{}
	seen := make(map[string]struct{})
	pageToken := ""

	for result.PagesFetched < f.maxPages && len(result.Comments) < f.maxComments {
		page, err := f.fetchPage(ctx, videoID, pageToken)
		if err != nil {
			return nil, err
		}
		result.PagesFetched++
		result.SkippedCount += page.SkippedCount

		for _, c := range page.Comments {
			if _, dup := seen[c.CommentID]; dup {
				continue
			}
			seen[c.CommentID] = struct{}{}
			result.Comments = append(result.Comments, c)
			if len(result.Comments) >= f.maxComments {
				result.Truncated = true
				break
			}
		}

		if page.NextPageToken == "" || result.Truncated {
			break
		}
		if result.PagesFetched >= f.maxPages {
			result.Truncated = true
			break
		}
		pageToken = page.NextPageToken
	}

	logger.GetLogger().
		WithField("video_id", videoID).
		WithField("pages", result.PagesFetched).
		WithField("comments", len(result.Comments)).
		WithField("skipped", result.SkippedCount).
		Info("Comment fetch finished")
	return result, nil
}

// fetchPage requests one page, retrying transient transport failures up to
// maxRetries times. Quota, permission and not-found errors never retry.
func (f *CommentFetcher) fetchPage(ctx context.Context, videoID, pageToken string) (*model.CommentPage, error) {
	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, model.NewFetchError(0, ctx.Err())
			case <-time.After(f.backoff * time.Duration(attempt)):
			}
		}

		page, err := f.youtube.ListCommentPage(ctx, videoID, pageToken)
		if err == nil {
			return page, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
		logger.GetLogger().
			WithField("video_id", videoID).
			WithField("attempt", attempt+1).
			WithField("error", err).
			Warn("Transient failure fetching comment page")
	}
	return nil, lastErr
}

func isRetryable(err error) bool {
	if errors.Is(err, model.ErrCommentsDisabled) ||
		errors.Is(err, model.ErrQuotaExceeded) ||
		errors.Is(err, model.ErrVideoNotFound) {
		return false
	}
	var fe *model.FetchError
	return errors.As(err, &fe)
}
