// Package mail sends the registration confirmation through SMTP.
package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/isuci/isuci-backend/internal/config"
	"github.com/isuci/isuci-backend/internal/logger"
	"github.com/isuci/isuci-backend/internal/queue"
)

const (
	confirmationSubject = "Confirmación de Registro a ISUCI"
	confirmationBody    = "Hola %s,\n\n¡Tu registro ha sido exitoso! Bienvenido a nuestra plataforma; desde ahora puedes hacer uso de todas nuestras funcionalidades.\n"
)

// Mailer implements queue.Handler and service.Notifier by sending mail.
// A Mailer without sender credentials logs and drops every message.
type Mailer struct {
	from string
	send func(...*gomail.Message) error
}

// New builds a Mailer for cfg.  An empty cfg.User disables delivery.
func New(cfg config.SMTPConfig) *Mailer {
	if cfg.User == "" {
		return &Mailer{}
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	return &Mailer{from: cfg.User, send: d.DialAndSend}
}

// Enabled reports whether messages are actually delivered.
func (m *Mailer) Enabled() bool { return m.send != nil }

// UserRegistered sends the confirmation for ev.  It gives up when ctx is
// done; the SMTP exchange itself cannot be interrupted and finishes in the
// background.
func (m *Mailer) UserRegistered(ctx context.Context, ev queue.UserRegisteredEvent) error {
	log := logger.FromContext(ctx)
	if !m.Enabled() {
		log.Debug("mail disabled; confirmation dropped", "to", ev.Email)
		return nil
	}
	msg := m.confirmation(ev)

	done := make(chan error, 1)
	go func() { done <- m.send(msg) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send confirmation to %s: %w", ev.Email, err)
		}
		log.Info("confirmation mail sent", "to", ev.Email, "iddocumento", ev.DocumentID)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Mailer) confirmation(ev queue.UserRegisteredEvent) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", ev.Email)
	msg.SetHeader("Subject", confirmationSubject)
	msg.SetBody("text/plain", fmt.Sprintf(confirmationBody, ev.Name))
	return msg
}
