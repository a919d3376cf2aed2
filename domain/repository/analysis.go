package repository

import (
	"context"

	"github.com/google/uuid"

	"sentitube/domain/model"
)

// IAnalysisStore owns persisted videos, analysis snapshots and classified
// comments. Reads and deletes are scoped by owner: a miss and a row owned by
// someone else both surface model.ErrNotFound.
type IAnalysisStore interface {
	// Save commits the video upsert, the analysis insert and the comment bulk
	// insert in a single transaction. Any failure rolls back all three.
	Save(ctx context.Context, video *model.Video, analysis *model.Analysis, comments []model.Comment) error

	// GetHistory lists the analyses owned by userID, newest first.
	GetHistory(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.AnalysisSummary, int64, error)

	// GetDetail returns one analysis with its video, owner-checked.
	GetDetail(ctx context.Context, analysisID, userID uuid.UUID) (*model.AnalysisDetail, error)

	// GetLatestAnalysis resolves the most recent analysis owned by userID for
	// the given video.
	GetLatestAnalysis(ctx context.Context, videoID, userID uuid.UUID) (*model.Analysis, error)

	// GetComments pages through the comments of one analysis, optionally
	// restricted to a sentiment label (empty string means all).
	GetComments(ctx context.Context, analysisID uuid.UUID, page, limit int, sentiment model.Sentiment) ([]model.Comment, int64, error)

	// GetAllComments returns every comment of one analysis, owner-checked,
	// ordered by publication time. Used by the CSV export.
	GetAllComments(ctx context.Context, analysisID, userID uuid.UUID) ([]model.Comment, error)

	// Delete removes all analyses (and cascaded comments) owned by userID for
	// the video and returns how many were removed.
	Delete(ctx context.Context, videoID, userID uuid.UUID) (int64, error)
}
