package sender

import (
	"fmt"

	"heartcoach/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"go.uber.org/zap"
)

// NewEmailFromConfig picks the email channel named by EMAIL_PROVIDER.
func NewEmailFromConfig(config utils.EmailConfig, awsCfg aws.Config, log *zap.Logger) (EmailSender, error) {
	switch config.Provider {
	case "", "log":
		return NewLogSender(log), nil
	case "ses":
		if config.From == "" {
			return nil, fmt.Errorf("EMAIL_FROM is required for the ses provider")
		}
		return NewSESSender(awsCfg, config.From, log), nil
	case "smtp":
		if config.Host == "" {
			return nil, fmt.Errorf("SMTP_HOST is required for the smtp provider")
		}
		return NewSMTPSender(config.Host, config.Port, config.User, config.Password, config.From, log), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", config.Provider)
	}
}

// NewSMSFromConfig picks the SMS channel named by SMS_PROVIDER.
func NewSMSFromConfig(config utils.SMSConfig, awsCfg aws.Config, log *zap.Logger) (SMSSender, error) {
	switch config.Provider {
	case "", "log":
		return NewLogSender(log), nil
	case "sns":
		return NewSNSSender(awsCfg, config.SenderID, log), nil
	default:
		return nil, fmt.Errorf("unknown sms provider %q", config.Provider)
	}
}
