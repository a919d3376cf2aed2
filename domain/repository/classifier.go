package repository

import (
	"context"

	"sentitube/domain/model"
)

// IClassifier is the external sentiment inference component. Any failure is
// fatal to the enclosing analysis; no partial classification is kept.
type IClassifier interface {
	Classify(ctx context.Context, text string) (model.SentimentResult, error)
}
