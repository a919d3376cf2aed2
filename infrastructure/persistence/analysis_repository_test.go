package persistence

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"sentitube/domain/model"
)

func fixtureSnapshot() (*model.Video, *model.Analysis, []model.Comment) {
	now := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	video := &model.Video{
		ID:             uuid.New(),
		YouTubeVideoID: "dQw4w9WgXcQ",
		Title:          "Title",
		ChannelName:    "Channel",
		PublishedAt:    now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	analysis := &model.Analysis{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		TotalComments: 1,
		PositiveCount: 1,
		CreatedAt:     now,
	}
	comments := []model.Comment{
		{ID: "c1", Author: "a", Text: "nice", Sentiment: model.SentimentPositive, IsTopLevel: true, PublishedAt: now, CreatedAt: now},
	}
	return video, analysis, comments
}

func TestAnalysisRepository_Save_CommitsAllRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewAnalysisRepository(db)
	video, analysis, comments := fixtureSnapshot()
	existingVideoID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO videos`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(existingVideoID))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO analyses`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO comments`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repository.Save(context.Background(), video, analysis, comments)
	require.NoError(t, err)

	// The upsert adopted the pre-existing video row id.
	require.Equal(t, existingVideoID, video.ID)
	require.Equal(t, existingVideoID, analysis.VideoID)
	require.Equal(t, analysis.ID, comments[0].AnalysisID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepository_Save_RollsBackOnCommentFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewAnalysisRepository(db)
	video, analysis, comments := fixtureSnapshot()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO videos`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(video.ID))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO analyses`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO comments`)).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err = repository.Save(context.Background(), video, analysis, comments)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepository_GetDetail_MissingRowIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewAnalysisRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM analyses a`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repository.GetDetail(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, model.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepository_GetHistory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewAnalysisRepository(db)
	userID := uuid.New()
	analysisID := uuid.New()
	videoID := uuid.New()
	created := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(1) FROM analyses WHERE user_id=$1`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM analyses a`)).
		WithArgs(userID, 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"a_id", "user_id", "video_id", "total", "pos", "neu", "neg", "a_created",
			"v_id", "youtube_video_id", "title", "channel_name", "thumbnail_url", "like_count", "comment_count", "published_at", "v_created", "v_updated",
		}).AddRow(
			analysisID, userID, videoID, 3, 1, 1, 1, created,
			videoID, "dQw4w9WgXcQ", "Title", "Channel", "", 10, 3, created, created, created,
		))

	summaries, total, err := repository.GetHistory(context.Background(), userID, 1, 20)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, summaries, 1)
	require.Equal(t, analysisID, summaries[0].Analysis.ID)
	require.Equal(t, "dQw4w9WgXcQ", summaries[0].Video.YouTubeVideoID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepository_GetComments_SentimentFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewAnalysisRepository(db)
	analysisID := uuid.New()
	created := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(1) FROM comments WHERE analysis_id=$1 AND sentiment=$2`)).
		WithArgs(analysisID, "negative").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM comments WHERE analysis_id=$1 AND sentiment=$2`)).
		WithArgs(analysisID, "negative", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "analysis_id", "video_id", "author", "text", "sentiment", "parent_id", "is_top_level", "like_count", "published_at", "created_at",
		}).AddRow("c1", analysisID, uuid.New(), "a", "bad", "negative", nil, true, 2, created, created))

	comments, total, err := repository.GetComments(context.Background(), analysisID, 1, 20, model.SentimentNegative)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, comments, 1)
	require.Equal(t, model.SentimentNegative, comments[0].Sentiment)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepository_Delete_NoRowsIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewAnalysisRepository(db)
	videoID := uuid.New()
	userID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM analyses WHERE video_id=$1 AND user_id=$2`)).
		WithArgs(videoID, userID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err = repository.Delete(context.Background(), videoID, userID)
	require.ErrorIs(t, err, model.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepository_Delete_ReturnsAffectedCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewAnalysisRepository(db)
	videoID := uuid.New()
	userID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM analyses WHERE video_id=$1 AND user_id=$2`)).
		WithArgs(videoID, userID).
		WillReturnResult(sqlmock.NewResult(0, 2))

	deleted, err := repository.Delete(context.Background(), videoID, userID)
	require.NoError(t, err)
	require.Equal(t, int64(2), deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}
