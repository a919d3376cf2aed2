package servicebus

import (
	"context"
	"encoding/json"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"

	"sentitube/domain/model"
	"sentitube/domain/repository"
	"sentitube/infrastructure/logger"
)

// AnalysisSender forwards completed-analysis events to an Azure Service Bus
// queue. A nil client turns the sender into a no-op.
type AnalysisSender struct {
	client *azservicebus.Client
	queue  string
}

func NewAnalysisSender(client *azservicebus.Client, queue string) repository.IAnalysisNotifier {
	return &AnalysisSender{client: client, queue: queue}
}

func (s *AnalysisSender) AnalysisCompleted(ctx context.Context, event *model.AnalysisCompletedEvent) error {
	if s.client == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	sender, err := s.client.NewSender(s.queue, nil)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return err
	}
	defer func(sender *azservicebus.Sender, ctx context.Context) {
		if err := sender.Close(ctx); err != nil {
			logger.GetLogger().
				WithField("error", err).
				Error("Error while closing sender.")
		}
	}(sender, ctx)

	if err := sender.SendMessage(ctx, &azservicebus.Message{Body: payload}, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return err
	}
	return nil
}
