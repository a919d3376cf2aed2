package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"sentitube/domain/model"
)

var commentHeader = []string{"comment_id", "author", "text", "sentiment", "is_top_level", "like_count", "published_at"}

// WriteCommentsCSV streams the comments of one analysis as CSV rows.
func WriteCommentsCSV(w io.Writer, comments []model.Comment) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(commentHeader); err != nil {
		return err
	}

	for _, c := range comments {
		published := ""
		if !c.PublishedAt.IsZero() {
			published = c.PublishedAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			c.ID,
			c.Author,
			c.Text,
			string(c.Sentiment),
			strconv.FormatBool(c.IsTopLevel),
			strconv.FormatInt(c.LikeCount, 10),
			published,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
