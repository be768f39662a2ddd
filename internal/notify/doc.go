// Package notify delivers complaint alerts to the spa operator.
//
// Two transports are available: SMTP submission through enmime (STARTTLS and
// PLAIN auth, the default) and the SendGrid v3 API. New picks one from
// config.AlertConfig and returns a Disabled sender when no credentials are
// configured, so complaints still classify on a bare install.
package notify
