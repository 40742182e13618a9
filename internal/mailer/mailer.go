// Package mailer defines the outbound mail collaborator. Delivery is
// fire and forget: callers log failures and continue.
package mailer

import "log"

// Mailer sends account-related mail to users. Implementations must
// not block the request path longer than a delivery attempt.
type Mailer interface {
	SendPasswordReset(to, name, newPassword string) error
	SendAccountConfirmation(to, name string) error
}

// LogMailer writes mail to the process log instead of delivering it.
// Used in development and as the default when no provider is wired.
type LogMailer struct{}

// SendPasswordReset logs the delivery only. The replacement password
// never reaches the log.
func (LogMailer) SendPasswordReset(to, name, newPassword string) error {
	log.Printf("mail: password reset to=%s name=%q", to, name)
	return nil
}

func (LogMailer) SendAccountConfirmation(to, name string) error {
	log.Printf("mail: account confirmation to=%s name=%q", to, name)
	return nil
}
