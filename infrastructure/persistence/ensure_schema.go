package persistence

import (
	"database/sql"
	"fmt"

	"sentitube/infrastructure/logger"
)

// EnsureAnalysisSchema creates the videos/analyses/comments tables if they do
// not exist. Comments use a composite key so a YouTube comment id can appear
// in more than one snapshot.
func EnsureAnalysisSchema(db *sql.DB) error {
	ddls := []string{
		`CREATE TABLE IF NOT EXISTS videos (
			id UUID PRIMARY KEY,
			youtube_video_id VARCHAR(50) NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			channel_name TEXT NOT NULL DEFAULT '',
			thumbnail_url TEXT NOT NULL DEFAULT '',
			like_count BIGINT NOT NULL DEFAULT 0,
			comment_count BIGINT NOT NULL DEFAULT 0,
			published_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS analyses (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			video_id UUID NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
			total_comments INTEGER NOT NULL DEFAULT 0,
			positive_count INTEGER NOT NULL DEFAULT 0,
			neutral_count INTEGER NOT NULL DEFAULT 0,
			negative_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id VARCHAR(64) NOT NULL,
			analysis_id UUID NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
			video_id UUID NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
			author TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL,
			sentiment VARCHAR(10) NOT NULL CHECK (sentiment IN ('positive', 'neutral', 'negative')),
			parent_id VARCHAR(64),
			is_top_level BOOLEAN NOT NULL DEFAULT TRUE,
			like_count BIGINT NOT NULL DEFAULT 0,
			published_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (analysis_id, id)
		)`,
	}
	for _, ddl := range ddls {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("ensure analysis schema: %w", err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_analyses_user_created ON analyses (user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_video ON analyses (video_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_analysis_sentiment ON comments (analysis_id, sentiment)`,
	}
	for _, ddl := range indexes {
		if _, err := db.Exec(ddl); err != nil {
			logger.GetLogger().WithField("error", err).Warn("failed creating index")
		}
	}
	return nil
}
