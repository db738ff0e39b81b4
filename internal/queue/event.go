// Package queue defines message payloads exchanged over the message broker.
package queue

// EmailRequestedEvent is published whenever a flow needs an email sent
// (verification link, password reset link). The consumer owns delivery;
// in this deployment that means appending a line to logs/email.log
// rather than talking to a mail provider.
type EmailRequestedEvent struct {
    Email       string `json:"email"`
    Purpose     string `json:"purpose"` // verify_email | reset_password
    Token       string `json:"token"`   // raw single-use token for the link
    RequestedAt string `json:"requested_at"`
}
