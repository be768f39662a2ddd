package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/jhillyerd/enmime"

	"github.com/fyrsmithlabs/mailtriage/internal/triage"
)

const defaultSMTPTimeout = 15 * time.Second

// SMTPConfig configures SMTP submission.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
	CC       []string
	// Timeout bounds one delivery, dial to QUIT. Zero means 15s.
	Timeout time.Duration
}

type deliverFunc func(ctx context.Context, from string, recipients []string, msg []byte) error

// SMTPSender builds a plain-text MIME message with enmime and submits it
// over a connection bound to the caller's context. STARTTLS is negotiated
// when the server offers it.
type SMTPSender struct {
	cfg     SMTPConfig
	addr    string
	auth    smtp.Auth
	deliver deliverFunc
	now     func() time.Time
}

// NewSMTPSender validates cfg and returns a sender.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" || cfg.Port <= 0 {
		return nil, errors.New("smtp host and port are required")
	}
	if cfg.From == "" || cfg.To == "" {
		return nil, errors.New("smtp from and to addresses are required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSMTPTimeout
	}

	s := &SMTPSender{
		cfg:  cfg,
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		now:  time.Now,
	}
	if cfg.Username != "" {
		s.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	s.deliver = s.submit
	return s, nil
}

// SendAlert implements triage.AlertSender. The send is abandoned when ctx
// ends or the configured timeout passes, whichever is first.
func (s *SMTPSender) SendAlert(ctx context.Context, alert triage.Alert) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	b := enmime.Builder().
		From("", s.cfg.From).
		To("", s.cfg.To).
		Subject(alert.Subject).
		Date(s.now()).
		Text([]byte(alert.Body))
	for _, cc := range s.cfg.CC {
		b = b.CC("", cc)
	}

	if err := b.Send(ctxSender{ctx: ctx, deliver: s.deliver}); err != nil {
		return fmt.Errorf("smtp send to %s: %w", s.cfg.To, err)
	}
	return nil
}

// ctxSender carries one message's context through enmime.Sender.
type ctxSender struct {
	ctx     context.Context
	deliver deliverFunc
}

func (c ctxSender) Send(reversePath string, recipients []string, msg []byte) error {
	return c.deliver(c.ctx, reversePath, recipients, msg)
}

// submit runs one SMTP session. The connection deadline follows ctx and the
// connection is closed if ctx is cancelled mid-session.
func (s *SMTPSender) submit(ctx context.Context, from string, recipients []string, msg []byte) (err error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return fmt.Errorf("set deadline: %w", err)
		}
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	defer func() {
		if err != nil && ctx.Err() != nil {
			err = fmt.Errorf("%w: %w", ctx.Err(), err)
		}
	}()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp greeting: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if s.auth != nil {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errors.New("smtp server does not support AUTH")
		}
		if err := c.Auth(s.auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := c.Mail(from); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	for _, rcpt := range recipients {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp RCPT TO %s: %w", rcpt, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp end of data: %w", err)
	}
	return c.Quit()
}
