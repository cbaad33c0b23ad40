package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/medibook/booking-api/internal/config"
	"github.com/medibook/booking-api/internal/model"
)

// Service sends booking notifications. Failures are surfaced to the caller
// but never fail the booking itself.
type Service interface {
	SendBookingConfirmation(ctx context.Context, to, doctorName string, appointment *model.Appointment) error
	SendCancellation(ctx context.Context, to, doctorName string, appointment *model.Appointment) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg config.EmailConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendBookingConfirmation(ctx context.Context, to, doctorName string, appointment *model.Appointment) error {
	subject := "Your appointment is booked"
	body := fmt.Sprintf(
		"Your appointment with Dr. %s on %s at %s has been booked and is awaiting confirmation.",
		doctorName,
		appointment.VisitDate.Format("Monday, 2 January 2006"),
		appointment.SlotStart.Format("15:04"),
	)
	return s.send(to, subject, body)
}

func (s *smtpService) SendCancellation(ctx context.Context, to, doctorName string, appointment *model.Appointment) error {
	subject := "Your appointment was cancelled"
	body := fmt.Sprintf(
		"Your appointment with Dr. %s on %s at %s has been cancelled.",
		doctorName,
		appointment.VisitDate.Format("Monday, 2 January 2006"),
		appointment.SlotStart.Format("15:04"),
	)
	return s.send(to, subject, body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
