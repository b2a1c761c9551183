package sender

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"
)

type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSSender struct {
	client   snsAPI
	senderID string
	log      *zap.Logger
}

func NewSNSSender(cfg aws.Config, senderID string, log *zap.Logger) *SNSSender {
	return newSNSSender(sns.NewFromConfig(cfg), senderID, log)
}

func newSNSSender(client snsAPI, senderID string, log *zap.Logger) *SNSSender {
	return &SNSSender{
		client:   client,
		senderID: senderID,
		log:      log.With(zap.String("sender", "sns")),
	}
}

func (s *SNSSender) SendSMS(ctx context.Context, to, body string) error {
	attrs := map[string]types.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    aws.String("String"),
			StringValue: aws.String("Transactional"),
		},
	}
	if s.senderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(s.senderID),
		}
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(to),
		Message:           aws.String(body),
		MessageAttributes: attrs,
	})
	if err != nil {
		s.log.Error("SNS publish failed", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("sns publish sms: %w", err)
	}

	s.log.Debug("SMS sent", zap.String("to", to), zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}
