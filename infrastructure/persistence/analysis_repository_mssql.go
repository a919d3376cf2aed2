package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"sentitube/domain/model"
	"sentitube/domain/repository"
)

// AnalysisRepositoryMSSQL implements the analysis store for SQL Server /
// Azure SQL. Same contract as the PostgreSQL repository; the video upsert
// uses MERGE instead of ON CONFLICT.
type AnalysisRepositoryMSSQL struct {
	db *sql.DB
}

func NewAnalysisRepositoryMSSQL(db *sql.DB) repository.IAnalysisStore {
	return &AnalysisRepositoryMSSQL{db: db}
}

// EnsureAnalysisSchemaMSSQL creates the tables when missing.
func EnsureAnalysisSchemaMSSQL(db *sql.DB) error {
	ddls := []string{
		`IF OBJECT_ID('dbo.videos', 'U') IS NULL
		CREATE TABLE dbo.videos (
			id UNIQUEIDENTIFIER PRIMARY KEY,
			youtube_video_id NVARCHAR(50) NOT NULL UNIQUE,
			title NVARCHAR(MAX) NOT NULL DEFAULT '',
			channel_name NVARCHAR(MAX) NOT NULL DEFAULT '',
			thumbnail_url NVARCHAR(MAX) NOT NULL DEFAULT '',
			like_count BIGINT NOT NULL DEFAULT 0,
			comment_count BIGINT NOT NULL DEFAULT 0,
			published_at DATETIMEOFFSET NULL,
			created_at DATETIMEOFFSET NOT NULL DEFAULT SYSUTCDATETIME(),
			updated_at DATETIMEOFFSET NOT NULL DEFAULT SYSUTCDATETIME()
		)`,
		`IF OBJECT_ID('dbo.analyses', 'U') IS NULL
		CREATE TABLE dbo.analyses (
			id UNIQUEIDENTIFIER PRIMARY KEY,
			user_id UNIQUEIDENTIFIER NOT NULL,
			video_id UNIQUEIDENTIFIER NOT NULL REFERENCES dbo.videos(id) ON DELETE CASCADE,
			total_comments INT NOT NULL DEFAULT 0,
			positive_count INT NOT NULL DEFAULT 0,
			neutral_count INT NOT NULL DEFAULT 0,
			negative_count INT NOT NULL DEFAULT 0,
			created_at DATETIMEOFFSET NOT NULL DEFAULT SYSUTCDATETIME()
		)`,
		`IF OBJECT_ID('dbo.comments', 'U') IS NULL
		CREATE TABLE dbo.comments (
			id NVARCHAR(64) NOT NULL,
			analysis_id UNIQUEIDENTIFIER NOT NULL REFERENCES dbo.analyses(id) ON DELETE CASCADE,
			video_id UNIQUEIDENTIFIER NOT NULL,
			author NVARCHAR(MAX) NOT NULL DEFAULT '',
			text NVARCHAR(MAX) NOT NULL,
			sentiment NVARCHAR(10) NOT NULL,
			parent_id NVARCHAR(64) NULL,
			is_top_level BIT NOT NULL DEFAULT 1,
			like_count BIGINT NOT NULL DEFAULT 0,
			published_at DATETIMEOFFSET NULL,
			created_at DATETIMEOFFSET NOT NULL DEFAULT SYSUTCDATETIME(),
			PRIMARY KEY (analysis_id, id)
		)`,
	}
	for _, ddl := range ddls {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}

func (r *AnalysisRepositoryMSSQL) Save(ctx context.Context, video *model.Video, analysis *model.Analysis, comments []model.Comment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	row := tx.QueryRowContext(ctx, `MERGE dbo.videos AS target
		USING (VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8, @p9)) AS src(id, youtube_video_id, title, channel_name, thumbnail_url, like_count, comment_count, published_at, updated_at)
		ON target.youtube_video_id = src.youtube_video_id
		WHEN MATCHED THEN UPDATE SET
			title = src.title,
			channel_name = src.channel_name,
			thumbnail_url = src.thumbnail_url,
			like_count = src.like_count,
			comment_count = src.comment_count,
			published_at = src.published_at,
			updated_at = src.updated_at
		WHEN NOT MATCHED THEN INSERT (id, youtube_video_id, title, channel_name, thumbnail_url, like_count, comment_count, published_at, created_at, updated_at)
			VALUES (src.id, src.youtube_video_id, src.title, src.channel_name, src.thumbnail_url, src.like_count, src.comment_count, src.published_at, src.updated_at, src.updated_at)
		OUTPUT inserted.id;`,
		video.ID, video.YouTubeVideoID, video.Title, video.ChannelName, video.ThumbnailURL,
		video.LikeCount, video.CommentCount, nullTime(video.PublishedAt), now)
	if err = row.Scan(&video.ID); err != nil {
		return err
	}
	analysis.VideoID = video.ID

	if _, err = tx.ExecContext(ctx, `INSERT INTO dbo.analyses (id, user_id, video_id, total_comments, positive_count, neutral_count, negative_count, created_at)
		VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8)`,
		analysis.ID, analysis.UserID, analysis.VideoID, analysis.TotalComments,
		analysis.PositiveCount, analysis.NeutralCount, analysis.NegativeCount, analysis.CreatedAt); err != nil {
		return err
	}

	for i := range comments {
		c := &comments[i]
		c.VideoID = video.ID
		c.AnalysisID = analysis.ID
		if _, err = tx.ExecContext(ctx, `INSERT INTO dbo.comments (id, analysis_id, video_id, author, text, sentiment, parent_id, is_top_level, like_count, published_at, created_at)
			VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8, @p9, @p10, @p11)`,
			c.ID, c.AnalysisID, c.VideoID, c.Author, c.Text, string(c.Sentiment),
			nullString(c.ParentID), c.IsTopLevel, c.LikeCount, nullTime(c.PublishedAt), now); err != nil {
			return err
		}
	}

	err = tx.Commit()
	return err
}

func (r *AnalysisRepositoryMSSQL) GetHistory(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.AnalysisSummary, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM dbo.analyses WHERE user_id=@p1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	rows, err := r.db.QueryContext(ctx, `SELECT a.id, a.user_id, a.video_id, a.total_comments, a.positive_count, a.neutral_count, a.negative_count, a.created_at,
			v.id, v.youtube_video_id, v.title, v.channel_name, v.thumbnail_url, v.like_count, v.comment_count, v.published_at, v.created_at, v.updated_at
		FROM dbo.analyses a
		JOIN dbo.videos v ON v.id = a.video_id
		WHERE a.user_id=@p1
		ORDER BY a.created_at DESC
		OFFSET @p2 ROWS FETCH NEXT @p3 ROWS ONLY`, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	summaries := make([]model.AnalysisSummary, 0, limit)
	for rows.Next() {
		var s model.AnalysisSummary
		if err := scanAnalysisVideo(rows, &s.Analysis, &s.Video); err != nil {
			return nil, 0, err
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

func (r *AnalysisRepositoryMSSQL) GetDetail(ctx context.Context, analysisID, userID uuid.UUID) (*model.AnalysisDetail, error) {
	row := r.db.QueryRowContext(ctx, `SELECT a.id, a.user_id, a.video_id, a.total_comments, a.positive_count, a.neutral_count, a.negative_count, a.created_at,
			v.id, v.youtube_video_id, v.title, v.channel_name, v.thumbnail_url, v.like_count, v.comment_count, v.published_at, v.created_at, v.updated_at
		FROM dbo.analyses a
		JOIN dbo.videos v ON v.id = a.video_id
		WHERE a.id=@p1 AND a.user_id=@p2`, analysisID, userID)

	var d model.AnalysisDetail
	if err := scanAnalysisVideo(row, &d.Analysis, &d.Video); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *AnalysisRepositoryMSSQL) GetLatestAnalysis(ctx context.Context, videoID, userID uuid.UUID) (*model.Analysis, error) {
	row := r.db.QueryRowContext(ctx, `SELECT TOP 1 id, user_id, video_id, total_comments, positive_count, neutral_count, negative_count, created_at
		FROM dbo.analyses
		WHERE video_id=@p1 AND user_id=@p2
		ORDER BY created_at DESC`, videoID, userID)

	var a model.Analysis
	if err := row.Scan(&a.ID, &a.UserID, &a.VideoID, &a.TotalComments, &a.PositiveCount, &a.NeutralCount, &a.NegativeCount, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AnalysisRepositoryMSSQL) GetComments(ctx context.Context, analysisID uuid.UUID, page, limit int, sentiment model.Sentiment) ([]model.Comment, int64, error) {
	var (
		total  int64
		rows   *sql.Rows
		err    error
		offset = (page - 1) * limit
		cols   = `id, analysis_id, video_id, author, text, sentiment, parent_id, is_top_level, like_count, published_at, created_at`
	)

	if sentiment != "" {
		if err = r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM dbo.comments WHERE analysis_id=@p1 AND sentiment=@p2`, analysisID, string(sentiment)).Scan(&total); err != nil {
			return nil, 0, err
		}
		rows, err = r.db.QueryContext(ctx, `SELECT `+cols+` FROM dbo.comments WHERE analysis_id=@p1 AND sentiment=@p2 ORDER BY published_at DESC, id OFFSET @p3 ROWS FETCH NEXT @p4 ROWS ONLY`,
			analysisID, string(sentiment), offset, limit)
	} else {
		if err = r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM dbo.comments WHERE analysis_id=@p1`, analysisID).Scan(&total); err != nil {
			return nil, 0, err
		}
		rows, err = r.db.QueryContext(ctx, `SELECT `+cols+` FROM dbo.comments WHERE analysis_id=@p1 ORDER BY published_at DESC, id OFFSET @p2 ROWS FETCH NEXT @p3 ROWS ONLY`,
			analysisID, offset, limit)
	}
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	comments := make([]model.Comment, 0, limit)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *AnalysisRepositoryMSSQL) GetAllComments(ctx context.Context, analysisID, userID uuid.UUID) ([]model.Comment, error) {
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM dbo.analyses WHERE id=@p1 AND user_id=@p2`, analysisID, userID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, analysis_id, video_id, author, text, sentiment, parent_id, is_top_level, like_count, published_at, created_at
		FROM dbo.comments WHERE analysis_id=@p1 ORDER BY published_at, id`, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *AnalysisRepositoryMSSQL) Delete(ctx context.Context, videoID, userID uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dbo.analyses WHERE video_id=@p1 AND user_id=@p2`, videoID, userID)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, model.ErrNotFound
	}
	return affected, nil
}
