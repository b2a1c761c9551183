package events

import (
	"fmt"

	"heartcoach/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"go.uber.org/zap"
)

func NewFromConfig(config utils.EventsConfig, awsCfg aws.Config, log *zap.Logger) (Publisher, error) {
	switch config.Driver {
	case "", "none":
		return NopPublisher{}, nil
	case "sqs":
		if config.SQSQueueURL == "" {
			return nil, fmt.Errorf("SQS_QUEUE_URL is required for the sqs driver")
		}
		return NewSQSPublisher(awsCfg, config.SQSQueueURL, log), nil
	case "kafka":
		if len(config.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("KAFKA_BROKERS is required for the kafka driver")
		}
		return NewKafkaPublisher(config.KafkaBrokers, config.KafkaTopic, log), nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", config.Driver)
	}
}
