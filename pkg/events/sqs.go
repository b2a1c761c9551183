package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"
)

type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type SQSPublisher struct {
	client   sqsAPI
	queueURL string
	log      *zap.Logger
}

func NewSQSPublisher(cfg aws.Config, queueURL string, log *zap.Logger) *SQSPublisher {
	return newSQSPublisher(sqs.NewFromConfig(cfg), queueURL, log)
}

func newSQSPublisher(client sqsAPI, queueURL string, log *zap.Logger) *SQSPublisher {
	return &SQSPublisher{
		client:   client,
		queueURL: queueURL,
		log:      log.With(zap.String("publisher", "sqs")),
	}
}

func (p *SQSPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("sqs send message: %w", err)
	}

	p.log.Debug("Event published", zap.String("type", event.Type))
	return nil
}

func (p *SQSPublisher) Close() error { return nil }
