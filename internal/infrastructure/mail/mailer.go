package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/zhravan/juztadrop-sub000/internal/config"
	domainerrors "github.com/zhravan/juztadrop-sub000/internal/domain/errors"
	"github.com/zhravan/juztadrop-sub000/pkg/logger"
	"go.uber.org/zap"
)

var sendMail = smtp.SendMail

const otpSubject = "Your JustADrop login code"

// ErrSMTPRequired is returned when production runs without an SMTP host.
var ErrSMTPRequired = errors.New("SMTP_HOST is required in production")

// Mailer sends one-time login codes.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string) error
}

// SMTPMailer delivers login codes over SMTP with optional PLAIN auth.
type SMTPMailer struct {
	addr     string
	host     string
	username string
	password string
	from     string
}

// NewMailer returns an SMTPMailer, or a LogMailer when no SMTP host is
// configured outside production. Production never falls back to the log.
func NewMailer(cfg config.MailConfig, production bool) (Mailer, error) {
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		if production {
			return nil, ErrSMTPRequired
		}
		return &LogMailer{}, nil
	}
	return &SMTPMailer{
		addr:     net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
		host:     cfg.SMTPHost,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.From,
	}, nil
}

func (m *SMTPMailer) SendOTP(ctx context.Context, to, code string) error {
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	msg := buildMessage(m.from, to, otpSubject, otpBody(code))
	if err := sendMail(m.addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		logger.Error(ctx, "otp mail delivery failed", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("%w: %v", domainerrors.ErrMailDelivery, err)
	}
	return nil
}

// LogMailer writes codes to the log instead of sending them. Development only.
type LogMailer struct{}

func (LogMailer) SendOTP(ctx context.Context, to, code string) error {
	logger.Info(ctx, "otp mail (log mailer)", zap.String("to", to), zap.String("code", code))
	return nil
}

func otpBody(code string) string {
	return fmt.Sprintf("Your login code is %s.\r\n\r\nIt expires in 10 minutes. If you did not request it, ignore this email.", code)
}

func buildMessage(from, to, subject, body string) string {
	return "From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Date: " + time.Now().UTC().Format(time.RFC1123Z) + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
		body + "\r\n"
}
