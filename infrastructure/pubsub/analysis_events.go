package pubsub

import (
	"context"
	"encoding/json"

	"cloud.google.com/go/pubsub"

	"sentitube/domain/model"
	"sentitube/domain/repository"
	"sentitube/infrastructure/logger"
)

// AnalysisPublisher pushes completed-analysis events to a Google Pub/Sub
// topic. A nil client turns the publisher into a no-op so deployments without
// Pub/Sub credentials still work.
type AnalysisPublisher struct {
	client    *pubsub.Client
	topicName string
}

func NewAnalysisPublisher(client *pubsub.Client, topicName string) repository.IAnalysisNotifier {
	return &AnalysisPublisher{client: client, topicName: topicName}
}

func (p *AnalysisPublisher) AnalysisCompleted(ctx context.Context, event *model.AnalysisCompletedEvent) error {
	if p.client == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	topic := p.client.Topic(p.topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		logger.GetLogger().WithField("topic", p.topicName).Info("Topic doesn't exist - creating it")
		if _, err := p.client.CreateTopic(ctx, p.topicName); err != nil {
			return err
		}
	}

	serverID, err := topic.Publish(ctx, &pubsub.Message{Data: payload}).Get(ctx)
	if err != nil {
		return err
	}

	logger.GetLogger().
		WithField("server ID", serverID).
		WithField("analysis_id", event.AnalysisID).
		Info("Analysis event published")
	return nil
}
