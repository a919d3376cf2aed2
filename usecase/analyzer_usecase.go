package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sentitube/domain/dto"
	"sentitube/domain/model"
	"sentitube/domain/repository"
	"sentitube/infrastructure/logger"
	"sentitube/infrastructure/utils"
)

// metadataTTL bounds how long a cached metadata lookup is reused.
const metadataTTL = 10 * time.Minute

type IAnalyzerUsecase interface {
	Analyze(ctx context.Context, youtubeURL string, userID uuid.UUID) (*dto.AnalysisResponse, error)
}

// analyzerUsecase runs one analysis end to end: resolve, fetch metadata and
// comments, sanitize, classify, persist one atomic snapshot, then publish a
// best-effort completion event.
type analyzerUsecase struct {
	youtube    repository.IYouTube
	classifier repository.IClassifier
	store      repository.IAnalysisStore
	cache      repository.IVideoCache
	notifiers  []repository.IAnalysisNotifier
	fetcher    *CommentFetcher
}

func NewAnalyzerUsecase(
	youtube repository.IYouTube,
	classifier repository.IClassifier,
	store repository.IAnalysisStore,
	cache repository.IVideoCache,
	fetcher *CommentFetcher,
	notifiers ...repository.IAnalysisNotifier,
) IAnalyzerUsecase {
	return &analyzerUsecase{
		youtube:    youtube,
		classifier: classifier,
		store:      store,
		cache:      cache,
		fetcher:    fetcher,
		notifiers:  notifiers,
	}
}

func (u *analyzerUsecase) Analyze(ctx context.Context, youtubeURL string, userID uuid.UUID) (*dto.AnalysisResponse, error) {
	videoID, err := ExtractVideoID(youtubeURL)
	if err != nil {
		return nil, err
	}

	meta, err := u.lookupMetadata(ctx, videoID)
	if err != nil {
		return nil, err
	}

	fetched, err := u.fetcher.Fetch(ctx, videoID)
	if err != nil {
		return nil, err
	}

	now := utils.GetCurrentTime()
	analysis := &model.Analysis{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
	}

	comments := make([]model.Comment, 0, len(fetched.Comments))
	for _, raw := range fetched.Comments {
		text := utils.SanitizeComment(raw.Text)
		if text == "" {
			// Comments that sanitize away entirely carry no signal; they are
			// excluded from totals and never stored.
			continue
		}

		result, err := u.classifier.Classify(ctx, text)
		if err != nil {
			logger.GetLogger().
				WithField("video_id", videoID).
				WithField("comment_id", raw.CommentID).
				WithField("error", err).
				Error("Classifier failure aborts analysis")
			return nil, fmt.Errorf("%w: classification", model.ErrAnalysisFailed)
		}

		switch result.Label {
		case model.SentimentPositive:
			analysis.PositiveCount++
		case model.SentimentNeutral:
			analysis.NeutralCount++
		case model.SentimentNegative:
			analysis.NegativeCount++
		}

		comments = append(comments, model.Comment{
			ID:          raw.CommentID,
			Author:      utils.SanitizeComment(raw.Author),
			Text:        text,
			Sentiment:   result.Label,
			ParentID:    raw.ParentID,
			IsTopLevel:  raw.IsTopLevel,
			LikeCount:   raw.LikeCount,
			PublishedAt: raw.PublishedAt,
			CreatedAt:   now,
		})
	}
	analysis.TotalComments = len(comments)

	video := &model.Video{
		ID:             uuid.New(),
		YouTubeVideoID: meta.YouTubeVideoID,
		Title:          meta.Title,
		ChannelName:    meta.ChannelName,
		ThumbnailURL:   meta.ThumbnailURL,
		LikeCount:      meta.LikeCount,
		CommentCount:   meta.CommentCount,
		PublishedAt:    meta.PublishedAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := u.store.Save(ctx, video, analysis, comments); err != nil {
		logger.GetLogger().
			WithField("video_id", videoID).
			WithField("error", err).
			Error("Persisting analysis snapshot failed")
		return nil, fmt.Errorf("%w: persistence", model.ErrAnalysisFailed)
	}

	u.publishCompleted(ctx, video, analysis)

	return &dto.AnalysisResponse{
		Video: dto.VideoSummary{
			ID:           video.YouTubeVideoID,
			VideoID:      video.ID.String(),
			Title:        video.Title,
			Channel:      video.ChannelName,
			ThumbnailURL: video.ThumbnailURL,
			LikeCount:    video.LikeCount,
			CommentCount: video.CommentCount,
			PublishedAt:  formatTime(video.PublishedAt),
		},
		AnalysisID:    analysis.ID.String(),
		TotalComments: analysis.TotalComments,
		SentimentDistribution: dto.SentimentDistribution{
			Positive: analysis.PositiveCount,
			Neutral:  analysis.NeutralCount,
			Negative: analysis.NegativeCount,
		},
	}, nil
}

// lookupMetadata serves metadata from the cache when possible. Cache errors
// degrade to an API call, never to a failed analysis.
func (u *analyzerUsecase) lookupMetadata(ctx context.Context, videoID string) (*model.VideoMetadata, error) {
	if u.cache != nil {
		if meta, err := u.cache.GetMetadata(ctx, videoID); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Video metadata cache read failed")
		} else if meta != nil {
			return meta, nil
		}
	}

	meta, err := u.youtube.GetVideoMetadata(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if u.cache != nil {
		if err := u.cache.SetMetadata(ctx, videoID, meta, metadataTTL); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Video metadata cache write failed")
		}
	}
	return meta, nil
}

func (u *analyzerUsecase) publishCompleted(ctx context.Context, video *model.Video, analysis *model.Analysis) {
	if len(u.notifiers) == 0 {
		return
	}
	event := &model.AnalysisCompletedEvent{
		AnalysisID:     analysis.ID,
		UserID:         analysis.UserID,
		YouTubeVideoID: video.YouTubeVideoID,
		TotalComments:  analysis.TotalComments,
		PositiveCount:  analysis.PositiveCount,
		NeutralCount:   analysis.NeutralCount,
		NegativeCount:  analysis.NegativeCount,
		CreatedAt:      analysis.CreatedAt,
	}
	for _, n := range u.notifiers {
		if err := n.AnalysisCompleted(ctx, event); err != nil {
			logger.GetLogger().
				WithField("analysis_id", analysis.ID).
				WithField("error", err).
				Warn("Publishing analysis event failed")
		}
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
