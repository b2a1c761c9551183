package sender

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESSender struct {
	client sesAPI
	from   string
	log    *zap.Logger
}

func NewSESSender(cfg aws.Config, from string, log *zap.Logger) *SESSender {
	return newSESSender(ses.NewFromConfig(cfg), from, log)
}

func newSESSender(client sesAPI, from string, log *zap.Logger) *SESSender {
	return &SESSender{
		client: client,
		from:   from,
		log:    log.With(zap.String("sender", "ses")),
	}
}

func (s *SESSender) SendEmail(ctx context.Context, to, subject, body string) error {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(s.from),
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		s.log.Error("SES send failed", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("ses send email: %w", err)
	}

	s.log.Debug("Email sent", zap.String("to", to), zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}
