package usecase

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"heartcoach/internal/metrics"
	"heartcoach/pkg/kvstore"
	"heartcoach/pkg/sender"
	"heartcoach/pkg/utils"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
)

const (
	otpKeyPrefix = "otp_secret:"

	channelEmail = "email"
	channelSMS   = "sms"
)

// OTPService issues and verifies one-time codes. Only the secret is stored; the code is
// derived from it and the current time bucket, so resend reproduces the same code.
type OTPService interface {
	RequestCode(ctx context.Context, contact string) (bool, error)
	ResendCode(ctx context.Context, contact string) (bool, error)
	VerifyCode(ctx context.Context, contact, code string) (bool, error)
}

type otpService struct {
	store   kvstore.Store
	email   sender.EmailSender
	sms     sender.SMSSender
	metrics metrics.Recorder
	config  utils.OTPConfig
	now     func() time.Time
	log     *zap.Logger
}

func NewOTPService(
	store kvstore.Store,
	email sender.EmailSender,
	sms sender.SMSSender,
	recorder metrics.Recorder,
	config utils.OTPConfig,
	now func() time.Time,
	log *zap.Logger,
) OTPService {
	if config.TTLSeconds <= 0 {
		config.TTLSeconds = 300
	}
	if config.Digits <= 0 {
		config.Digits = 6
	}
	return &otpService{
		store:   store,
		email:   email,
		sms:     sms,
		metrics: recorder,
		config:  config,
		now:     now,
		log:     log.With(zap.String("service", "otp")),
	}
}

func otpKey(contact string) string {
	return otpKeyPrefix + contact
}

// ChannelOf returns the dispatch channel for a contact.
func ChannelOf(contact string) string {
	if utils.IsEmail(contact) {
		return channelEmail
	}
	return channelSMS
}

func (s *otpService) validateOpts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    uint(s.config.TTLSeconds),
		Skew:      1,
		Digits:    otp.Digits(s.config.Digits),
		Algorithm: otp.AlgorithmSHA1,
	}
}

func (s *otpService) RequestCode(ctx context.Context, contact string) (bool, error) {
	// 1. Normalize
	contact = utils.NormalizeContact(contact)
	if contact == "" {
		return false, invalid("Contact is required")
	}

	// 2. Fresh secret, supersedes any live one
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.config.Issuer,
		AccountName: contact,
		Period:      uint(s.config.TTLSeconds),
		Digits:      otp.Digits(s.config.Digits),
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return false, fmt.Errorf("generate otp secret: %w", err)
	}
	secret := key.Secret()

	// 3. Persist before dispatch so a delivered code is always verifiable
	if err := s.store.Set(ctx, otpKey(contact), secret, s.config.TTL()); err != nil {
		s.log.Error("Failed to store otp secret", zap.Error(err))
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// 4. Dispatch
	return s.dispatch(ctx, contact, secret, metrics.OTPIssued)
}

func (s *otpService) ResendCode(ctx context.Context, contact string) (bool, error) {
	contact = utils.NormalizeContact(contact)
	if contact == "" {
		return false, invalid("Contact is required")
	}

	secret, found, err := s.store.Get(ctx, otpKey(contact))
	if err != nil {
		s.log.Error("Failed to read otp secret", zap.Error(err))
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !found {
		return s.RequestCode(ctx, contact)
	}

	return s.dispatch(ctx, contact, secret, metrics.OTPResent)
}

func (s *otpService) VerifyCode(ctx context.Context, contact, code string) (bool, error) {
	contact = utils.NormalizeContact(contact)
	if contact == "" || code == "" {
		return false, nil
	}
	channel := ChannelOf(contact)

	// 1. No secret means nothing to verify against
	secret, found, err := s.store.Get(ctx, otpKey(contact))
	if err != nil {
		s.log.Error("Failed to read otp secret", zap.Error(err))
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !found {
		s.metrics.RecordOTP(metrics.OTPRejected, channel)
		return false, nil
	}

	// 2. Compare against the current and previous bucket
	matched, err := s.matches(secret, code)
	if err != nil {
		return false, err
	}
	if !matched {
		s.metrics.RecordOTP(metrics.OTPRejected, channel)
		return false, nil
	}

	// 3. Single use: only the caller that removes the matched secret wins. A concurrent
	// verify or a newer secret from RequestCode makes this a rejection.
	consumed, err := s.store.DeleteIfEqual(ctx, otpKey(contact), secret)
	if err != nil {
		s.log.Error("Failed to consume otp secret", zap.Error(err))
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !consumed {
		s.metrics.RecordOTP(metrics.OTPRejected, channel)
		return false, nil
	}

	s.metrics.RecordOTP(metrics.OTPVerified, channel)
	return true, nil
}

// matches checks every accepted bucket without returning early.
func (s *otpService) matches(secret, code string) (bool, error) {
	opts := s.validateOpts()
	period := time.Duration(opts.Period) * time.Second
	now := s.now()

	matched := 0
	for i := 0; i <= int(opts.Skew); i++ {
		expected, err := totp.GenerateCodeCustom(secret, now.Add(-time.Duration(i)*period), opts)
		if err != nil {
			return false, fmt.Errorf("derive otp code: %w", err)
		}
		matched |= subtle.ConstantTimeCompare([]byte(expected), []byte(code))
	}
	return matched == 1, nil
}

func (s *otpService) dispatch(ctx context.Context, contact, secret, outcome string) (bool, error) {
	code, err := totp.GenerateCodeCustom(secret, s.now(), s.validateOpts())
	if err != nil {
		return false, fmt.Errorf("derive otp code: %w", err)
	}

	channel := ChannelOf(contact)
	minutes := (s.config.TTLSeconds + 59) / 60
	body := fmt.Sprintf("Your %s verification code is %s. It expires in %d minutes.", s.config.Issuer, code, minutes)

	if channel == channelEmail {
		err = s.email.SendEmail(ctx, contact, s.config.Issuer+" verification code", body)
	} else {
		err = s.sms.SendSMS(ctx, contact, body)
	}
	if err != nil {
		s.metrics.RecordOTP(metrics.OTPDeliveryFailure, channel)
		s.log.Warn("Failed to dispatch otp",
			zap.Error(err),
			zap.String("channel", channel),
		)
		return false, fmt.Errorf("%w: send code via %s: %v", ErrDeliveryFailure, channel, err)
	}

	s.metrics.RecordOTP(outcome, channel)
	s.log.Info("OTP dispatched", zap.String("channel", channel), zap.String("outcome", outcome))
	return true, nil
}
