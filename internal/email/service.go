package email

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/mediflow/hms-gateway/internal/model"
	"github.com/mediflow/hms-gateway/pkg/logger"
)

// Service sends patient-facing notifications. Delivery failures never fail
// the triggering operation.
type Service interface {
	SendBookingConfirmation(ctx context.Context, to string, apt *model.Appointment) error
	SendCustom(ctx context.Context, to, subject, content string) error
}

type Config struct {
	Host     string `mapstructure:"host" envconfig:"SMTP_HOST"`
	Port     int    `mapstructure:"port" envconfig:"SMTP_PORT"`
	Username string `mapstructure:"username" envconfig:"SMTP_USERNAME"`
	Password string `mapstructure:"password" envconfig:"SMTP_PASSWORD"`
	From     string `mapstructure:"from" envconfig:"SMTP_FROM"`
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

func NewService(cfg Config, log *logger.Logger) Service {
	if cfg.Host == "" {
		return &noopService{logger: log}
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: log,
	}
}

func (s *smtpService) SendBookingConfirmation(ctx context.Context, to string, apt *model.Appointment) error {
	subject := "Your appointment request has been received"
	content := fmt.Sprintf(
		"Dear %s,\n\nYour appointment request for %s has been received and is pending review.\n"+
			"Our staff will assign a doctor and confirm your slot shortly.\n\nReference: #%d\n",
		apt.PatientName,
		apt.AppointmentDateTime.Format("Monday, 02 Jan 2006 15:04"),
		apt.ID,
	)
	return s.SendCustom(ctx, to, subject, content)
}

func (s *smtpService) SendCustom(ctx context.Context, to, subject, content string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", content)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// noopService stands in when SMTP is not configured.
type noopService struct {
	logger *logger.Logger
}

func (s *noopService) SendBookingConfirmation(ctx context.Context, to string, apt *model.Appointment) error {
	s.logger.Debug("email disabled, skipping booking confirmation", "to", to)
	return nil
}

func (s *noopService) SendCustom(ctx context.Context, to, subject, content string) error {
	s.logger.Debug("email disabled, skipping message", "to", to, "subject", subject)
	return nil
}
