package mailer

import (
	"fmt"
	"log"

	"github.com/Biniljacobpro/nexcharge-sub001/config"

	"gopkg.in/gomail.v2"
)

// Mailer sends account-provisioning mails. Sending is best effort; a failed
// mail is logged and never fails the operation that created the account.
type Mailer struct {
	cfg config.SMTPConfig
}

func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendOnboarding mails the initial credentials to a newly provisioned
// corporate-admin or franchise-owner account.
func (m *Mailer) SendOnboarding(toEmail, name, role, tempPassword string) {
	if m.cfg.Host == "" {
		log.Printf("SMTP not configured, skipping onboarding mail to %s", toEmail)
		return
	}

	subject := "Your NexCharge account is ready"
	body := fmt.Sprintf(
		"Dear %s,\n\nAn account with the role %q has been created for you on NexCharge.\n\nLogin email: %s\nTemporary password: %s\n\nPlease sign in and change your password.\n\nNexCharge Team",
		name, role, toEmail, tempPassword)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		log.Printf("failed to send onboarding mail to %s: %v", toEmail, err)
	}
}
