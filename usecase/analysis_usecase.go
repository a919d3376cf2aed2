package usecase

import (
	"context"
	"math"

	"github.com/google/uuid"

	"sentitube/domain/dto"
	"sentitube/domain/model"
	"sentitube/domain/repository"
)

const (
	minPage  = 1
	minLimit = 1
	maxLimit = 100
)

type IAnalysisUsecase interface {
	GetHistory(ctx context.Context, userID uuid.UUID, page, limit int) (*dto.HistoryResponse, error)
	GetDetail(ctx context.Context, analysisID, userID uuid.UUID) (*dto.AnalysisDetailResponse, error)
	GetComments(ctx context.Context, videoID, userID uuid.UUID, page, limit int, sentimentFilter string) (*dto.CommentsResponse, error)
	GetExport(ctx context.Context, analysisID, userID uuid.UUID) (*dto.AnalysisDetailResponse, []model.Comment, error)
	Delete(ctx context.Context, videoID, userID uuid.UUID) (*dto.DeleteResponse, error)
}

// analysisUsecase is the read-side façade over the analysis store. It
// validates pagination and filters before delegating; ownership is enforced
// by the store itself.
type analysisUsecase struct {
	store repository.IAnalysisStore
}

func NewAnalysisUsecase(store repository.IAnalysisStore) IAnalysisUsecase {
	return &analysisUsecase{store: store}
}

func (u *analysisUsecase) GetHistory(ctx context.Context, userID uuid.UUID, page, limit int) (*dto.HistoryResponse, error) {
	if err := validatePagination(page, limit); err != nil {
		return nil, err
	}

	summaries, total, err := u.store.GetHistory(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.HistoryItem, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, dto.HistoryItem{
			AnalysisID:   s.Analysis.ID.String(),
			VideoID:      s.Video.ID.String(),
			Title:        s.Video.Title,
			Channel:      s.Video.ChannelName,
			ThumbnailURL: s.Video.ThumbnailURL,
			Date:         formatTime(s.Analysis.CreatedAt),
			Totals:       s.Analysis.TotalComments,
			Percentages:  percentagesOf(&s.Analysis),
		})
	}

	return &dto.HistoryResponse{
		Items:      items,
		Pagination: paginationOf(page, limit, total),
	}, nil
}

func (u *analysisUsecase) GetDetail(ctx context.Context, analysisID, userID uuid.UUID) (*dto.AnalysisDetailResponse, error) {
	detail, err := u.store.GetDetail(ctx, analysisID, userID)
	if err != nil {
		return nil, err
	}
	return detailResponse(detail), nil
}

// GetComments resolves the caller's most recent analysis of the video and
// pages through its comments.
func (u *analysisUsecase) GetComments(ctx context.Context, videoID, userID uuid.UUID, page, limit int, sentimentFilter string) (*dto.CommentsResponse, error) {
	if err := validatePagination(page, limit); err != nil {
		return nil, err
	}
	sentiment := model.Sentiment(sentimentFilter)
	if sentimentFilter != "" && !sentiment.Valid() {
		return nil, model.InvalidInput("sentiment must be one of positive, neutral, negative")
	}

	latest, err := u.store.GetLatestAnalysis(ctx, videoID, userID)
	if err != nil {
		return nil, err
	}

	comments, total, err := u.store.GetComments(ctx, latest.ID, page, limit, sentiment)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CommentItem, 0, len(comments))
	for _, c := range comments {
		items = append(items, dto.CommentItem{
			ID:          c.ID,
			Author:      c.Author,
			Text:        c.Text,
			Sentiment:   string(c.Sentiment),
			LikeCount:   c.LikeCount,
			PublishedAt: formatTime(c.PublishedAt),
			IsTopLevel:  c.IsTopLevel,
		})
	}

	return &dto.CommentsResponse{
		Items:      items,
		Pagination: paginationOf(page, limit, total),
		Filter:     sentimentFilter,
	}, nil
}

// GetExport returns the detail plus every comment of one analysis for the
// CSV download.
func (u *analysisUsecase) GetExport(ctx context.Context, analysisID, userID uuid.UUID) (*dto.AnalysisDetailResponse, []model.Comment, error) {
	detail, err := u.store.GetDetail(ctx, analysisID, userID)
	if err != nil {
		return nil, nil, err
	}
	comments, err := u.store.GetAllComments(ctx, analysisID, userID)
	if err != nil {
		return nil, nil, err
	}
	return detailResponse(detail), comments, nil
}

func (u *analysisUsecase) Delete(ctx context.Context, videoID, userID uuid.UUID) (*dto.DeleteResponse, error) {
	deleted, err := u.store.Delete(ctx, videoID, userID)
	if err != nil {
		return nil, err
	}
	return &dto.DeleteResponse{
		Message:      "analyses deleted",
		DeletedCount: deleted,
	}, nil
}

func validatePagination(page, limit int) error {
	if page < minPage {
		return model.InvalidInput("page must be >= %d", minPage)
	}
	if limit < minLimit || limit > maxLimit {
		return model.InvalidInput("limit must be between %d and %d", minLimit, maxLimit)
	}
	return nil
}

func paginationOf(page, limit int, total int64) dto.Pagination {
	totalPages := int64(0)
	if total > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return dto.Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

func percentagesOf(a *model.Analysis) dto.SentimentPercentages {
	if a.TotalComments == 0 {
		return dto.SentimentPercentages{}
	}
	share := func(count int) int {
		return int(math.Round(float64(count) / float64(a.TotalComments) * 100))
	}
	return dto.SentimentPercentages{
		Positive: share(a.PositiveCount),
		Neutral:  share(a.NeutralCount),
		Negative: share(a.NegativeCount),
	}
}

func detailResponse(d *model.AnalysisDetail) *dto.AnalysisDetailResponse {
	return &dto.AnalysisDetailResponse{
		Video: dto.VideoSummary{
			ID:           d.Video.YouTubeVideoID,
			VideoID:      d.Video.ID.String(),
			Title:        d.Video.Title,
			Channel:      d.Video.ChannelName,
			ThumbnailURL: d.Video.ThumbnailURL,
			LikeCount:    d.Video.LikeCount,
			CommentCount: d.Video.CommentCount,
			PublishedAt:  formatTime(d.Video.PublishedAt),
		},
		AnalysisID: d.Analysis.ID.String(),
		CreatedAt:  formatTime(d.Analysis.CreatedAt),
		Totals:     d.Analysis.TotalComments,
		Counts: dto.SentimentDistribution{
			Positive: d.Analysis.PositiveCount,
			Neutral:  d.Analysis.NeutralCount,
			Negative: d.Analysis.NegativeCount,
		},
		Percentages: percentagesOf(&d.Analysis),
	}
}
