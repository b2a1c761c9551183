package sender

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"heartcoach/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
)

type mockSES struct {
	input *ses.SendEmailInput
	err   error
}

func (m *mockSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

type mockSNS struct {
	input *sns.PublishInput
	err   error
}

func (m *mockSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.input = params
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESSender_SendEmail(t *testing.T) {
	client := &mockSES{}
	s := newSESSender(client, "noreply@heartcoach.app", zap.NewNop())

	if err := s.SendEmail(context.Background(), "a@b.c", "Your code", "123456"); err != nil {
		t.Fatalf("SendEmail error = %v", err)
	}

	if got := client.input.Destination.ToAddresses; len(got) != 1 || got[0] != "a@b.c" {
		t.Errorf("to = %v, want [a@b.c]", got)
	}
	if got := aws.ToString(client.input.Source); got != "noreply@heartcoach.app" {
		t.Errorf("source = %q, want %q", got, "noreply@heartcoach.app")
	}
	if got := aws.ToString(client.input.Message.Body.Text.Data); got != "123456" {
		t.Errorf("body = %q, want %q", got, "123456")
	}
}

func TestSESSender_Error(t *testing.T) {
	client := &mockSES{err: errors.New("throttled")}
	s := newSESSender(client, "noreply@heartcoach.app", zap.NewNop())

	if err := s.SendEmail(context.Background(), "a@b.c", "s", "b"); err == nil {
		t.Fatal("expected error")
	}
}

func TestSNSSender_SendSMS(t *testing.T) {
	client := &mockSNS{}
	s := newSNSSender(client, "HRTCCH", zap.NewNop())

	if err := s.SendSMS(context.Background(), "+919876543210", "code 123456"); err != nil {
		t.Fatalf("SendSMS error = %v", err)
	}

	if got := aws.ToString(client.input.PhoneNumber); got != "+919876543210" {
		t.Errorf("phone = %q, want %q", got, "+919876543210")
	}
	smsType := client.input.MessageAttributes["AWS.SNS.SMS.SMSType"]
	if got := aws.ToString(smsType.StringValue); got != "Transactional" {
		t.Errorf("sms type = %q, want Transactional", got)
	}
	if _, ok := client.input.MessageAttributes["AWS.SNS.SMS.SenderID"]; !ok {
		t.Error("sender id attribute missing")
	}
}

func TestSMTPSender_SendEmail(t *testing.T) {
	var gotAddr string
	var gotAuth smtp.Auth
	var gotMsg []byte

	s := NewSMTPSender("localhost", 1025, "", "", "noreply@heartcoach.app", zap.NewNop())
	s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotMsg = addr, a, msg
		return nil
	}

	if err := s.SendEmail(context.Background(), "a@b.c", "Your code", "123456"); err != nil {
		t.Fatalf("SendEmail error = %v", err)
	}

	if gotAddr != "localhost:1025" {
		t.Errorf("addr = %q, want %q", gotAddr, "localhost:1025")
	}
	if gotAuth != nil {
		t.Error("expected no auth without credentials")
	}
	if !strings.Contains(string(gotMsg), "Subject: Your code\r\n") {
		t.Errorf("message missing subject header: %q", gotMsg)
	}
	if !strings.HasSuffix(string(gotMsg), "\r\n\r\n123456") {
		t.Errorf("message body = %q", gotMsg)
	}
}

func TestNewEmailFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  utils.EmailConfig
		wantErr bool
	}{
		{"log", utils.EmailConfig{Provider: "log"}, false},
		{"smtp", utils.EmailConfig{Provider: "smtp", Host: "localhost", Port: 1025}, false},
		{"smtp without host", utils.EmailConfig{Provider: "smtp"}, true},
		{"ses without from", utils.EmailConfig{Provider: "ses"}, true},
		{"unknown", utils.EmailConfig{Provider: "pigeon"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEmailFromConfig(tt.config, aws.Config{}, zap.NewNop())
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
