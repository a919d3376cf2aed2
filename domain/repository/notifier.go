package repository

import (
	"context"

	"sentitube/domain/model"
)

// IAnalysisNotifier publishes completed-analysis events to a broker.
// Publishing is best-effort: the aggregator logs failures and moves on.
type IAnalysisNotifier interface {
	AnalysisCompleted(ctx context.Context, event *model.AnalysisCompletedEvent) error
}
