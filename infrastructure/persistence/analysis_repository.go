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

// AnalysisRepository implements the analysis store on PostgreSQL using
// database/sql. Ownership checks are folded into the WHERE clauses so a
// missing row and a foreign row are indistinguishable to callers.
type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) repository.IAnalysisStore {
	return &AnalysisRepository{db: db}
}

// Save commits the video upsert, the analysis insert and the comment batch in
// one transaction. The upsert is keyed on the YouTube video id so concurrent
// analyses of the same video cannot create duplicate rows.
func (r *AnalysisRepository) Save(ctx context.Context, video *model.Video, analysis *model.Analysis, comments []model.Comment) error {
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
	row := tx.QueryRowContext(ctx, `INSERT INTO videos (id, youtube_video_id, title, channel_name, thumbnail_url, like_count, comment_count, published_at, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
		ON CONFLICT (youtube_video_id) DO UPDATE SET
			title = EXCLUDED.title,
			channel_name = EXCLUDED.channel_name,
			thumbnail_url = EXCLUDED.thumbnail_url,
			like_count = EXCLUDED.like_count,
			comment_count = EXCLUDED.comment_count,
			published_at = EXCLUDED.published_at,
			updated_at = EXCLUDED.updated_at
		RETURNING id`,
		video.ID, video.YouTubeVideoID, video.Title, video.ChannelName, video.ThumbnailURL,
		video.LikeCount, video.CommentCount, nullTime(video.PublishedAt), now)

	// The upsert may resolve to a pre-existing row; adopt its id.
	if err = row.Scan(&video.ID); err != nil {
		return err
	}
	analysis.VideoID = video.ID

	if _, err = tx.ExecContext(ctx, `INSERT INTO analyses (id, user_id, video_id, total_comments, positive_count, neutral_count, negative_count, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		analysis.ID, analysis.UserID, analysis.VideoID, analysis.TotalComments,
		analysis.PositiveCount, analysis.NeutralCount, analysis.NegativeCount, analysis.CreatedAt); err != nil {
		return err
	}

	for i := range comments {
		c := &comments[i]
		c.VideoID = video.ID
		c.AnalysisID = analysis.ID
		if _, err = tx.ExecContext(ctx, `INSERT INTO comments (id, analysis_id, video_id, author, text, sentiment, parent_id, is_top_level, like_count, published_at, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			c.ID, c.AnalysisID, c.VideoID, c.Author, c.Text, string(c.Sentiment),
			nullString(c.ParentID), c.IsTopLevel, c.LikeCount, nullTime(c.PublishedAt), now); err != nil {
			return err
		}
	}

	err = tx.Commit()
	return err
}

// GetHistory lists the analyses owned by userID, newest first.
func (r *AnalysisRepository) GetHistory(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.AnalysisSummary, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM analyses WHERE user_id=$1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	rows, err := r.db.QueryContext(ctx, `SELECT a.id, a.user_id, a.video_id, a.total_comments, a.positive_count, a.neutral_count, a.negative_count, a.created_at,
			v.id, v.youtube_video_id, v.title, v.channel_name, v.thumbnail_url, v.like_count, v.comment_count, v.published_at, v.created_at, v.updated_at
		FROM analyses a
		JOIN videos v ON v.id = a.video_id
		WHERE a.user_id=$1
		ORDER BY a.created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
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

// GetDetail returns one analysis with its video, owner-checked.
func (r *AnalysisRepository) GetDetail(ctx context.Context, analysisID, userID uuid.UUID) (*model.AnalysisDetail, error) {
	row := r.db.QueryRowContext(ctx, `SELECT a.id, a.user_id, a.video_id, a.total_comments, a.positive_count, a.neutral_count, a.negative_count, a.created_at,
			v.id, v.youtube_video_id, v.title, v.channel_name, v.thumbnail_url, v.like_count, v.comment_count, v.published_at, v.created_at, v.updated_at
		FROM analyses a
		JOIN videos v ON v.id = a.video_id
		WHERE a.id=$1 AND a.user_id=$2`, analysisID, userID)

	var d model.AnalysisDetail
	if err := scanAnalysisVideo(row, &d.Analysis, &d.Video); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// GetLatestAnalysis resolves the most recent analysis owned by userID for the
// given video.
func (r *AnalysisRepository) GetLatestAnalysis(ctx context.Context, videoID, userID uuid.UUID) (*model.Analysis, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, user_id, video_id, total_comments, positive_count, neutral_count, negative_count, created_at
		FROM analyses
		WHERE video_id=$1 AND user_id=$2
		ORDER BY created_at DESC
		LIMIT 1`, videoID, userID)

	var a model.Analysis
	if err := row.Scan(&a.ID, &a.UserID, &a.VideoID, &a.TotalComments, &a.PositiveCount, &a.NeutralCount, &a.NegativeCount, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetComments pages through the comments of one analysis, optionally
// restricted to a sentiment label.
func (r *AnalysisRepository) GetComments(ctx context.Context, analysisID uuid.UUID, page, limit int, sentiment model.Sentiment) ([]model.Comment, int64, error) {
	var (
		total    int64
		rows     *sql.Rows
		err      error
		offset   = (page - 1) * limit
		baseCols = `id, analysis_id, video_id, author, text, sentiment, parent_id, is_top_level, like_count, published_at, created_at`
	)

	if sentiment != "" {
		if err = r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM comments WHERE analysis_id=$1 AND sentiment=$2`, analysisID, string(sentiment)).Scan(&total); err != nil {
			return nil, 0, err
		}
		rows, err = r.db.QueryContext(ctx, `SELECT `+baseCols+` FROM comments WHERE analysis_id=$1 AND sentiment=$2 ORDER BY published_at DESC NULLS LAST, id LIMIT $3 OFFSET $4`,
			analysisID, string(sentiment), limit, offset)
	} else {
		if err = r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM comments WHERE analysis_id=$1`, analysisID).Scan(&total); err != nil {
			return nil, 0, err
		}
		rows, err = r.db.QueryContext(ctx, `SELECT `+baseCols+` FROM comments WHERE analysis_id=$1 ORDER BY published_at DESC NULLS LAST, id LIMIT $2 OFFSET $3`,
			analysisID, limit, offset)
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

// GetAllComments returns every comment of one analysis, owner-checked,
// ordered by publication time.
func (r *AnalysisRepository) GetAllComments(ctx context.Context, analysisID, userID uuid.UUID) ([]model.Comment, error) {
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM analyses WHERE id=$1 AND user_id=$2`, analysisID, userID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, analysis_id, video_id, author, text, sentiment, parent_id, is_top_level, like_count, published_at, created_at
		FROM comments WHERE analysis_id=$1 ORDER BY published_at NULLS LAST, id`, analysisID)
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

// Delete removes all analyses owned by userID for the video; comments cascade.
func (r *AnalysisRepository) Delete(ctx context.Context, videoID, userID uuid.UUID) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE video_id=$1 AND user_id=$2`, videoID, userID)
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

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAnalysisVideo(row rowScanner, a *model.Analysis, v *model.Video) error {
	var (
		videoPublished sql.NullTime
	)
	if err := row.Scan(
		&a.ID, &a.UserID, &a.VideoID, &a.TotalComments, &a.PositiveCount, &a.NeutralCount, &a.NegativeCount, &a.CreatedAt,
		&v.ID, &v.YouTubeVideoID, &v.Title, &v.ChannelName, &v.ThumbnailURL, &v.LikeCount, &v.CommentCount, &videoPublished, &v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		return err
	}
	if videoPublished.Valid {
		v.PublishedAt = videoPublished.Time
	}
	return nil
}

func scanComment(row rowScanner) (model.Comment, error) {
	var (
		c           model.Comment
		sentiment   string
		parentID    sql.NullString
		publishedAt sql.NullTime
	)
	if err := row.Scan(&c.ID, &c.AnalysisID, &c.VideoID, &c.Author, &c.Text, &sentiment,
		&parentID, &c.IsTopLevel, &c.LikeCount, &publishedAt, &c.CreatedAt); err != nil {
		return model.Comment{}, err
	}
	c.Sentiment = model.Sentiment(sentiment)
	if parentID.Valid {
		c.ParentID = parentID.String
	}
	if publishedAt.Valid {
		c.PublishedAt = publishedAt.Time
	}
	return c, nil
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
