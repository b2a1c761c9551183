package sender

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender talks plain SMTP. Local catchers like MailHog need no auth; any other
// host gets PLAIN auth, which net/smtp only sends over TLS.
type SMTPSender struct {
	addr     string
	host     string
	from     string
	user     string
	password string
	send     sendMailFunc
	log      *zap.Logger
}

func NewSMTPSender(host string, port int, user, password, from string, log *zap.Logger) *SMTPSender {
	return &SMTPSender{
		addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		host:     host,
		from:     from,
		user:     user,
		password: password,
		send:     smtp.SendMail,
		log:      log.With(zap.String("sender", "smtp")),
	}
}

func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.password, s.host)
	}

	if err := s.send(s.addr, auth, s.from, []string{to}, buildMessage(s.from, to, subject, body)); err != nil {
		s.log.Error("SMTP send failed", zap.String("to", to), zap.String("addr", s.addr), zap.Error(err))
		return fmt.Errorf("smtp send email: %w", err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
