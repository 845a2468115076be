package notifier

import (
	"context"
	"course-monitor/internal/components/telemetry"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/jordan-wright/email"
)

const report_email_send = "email.send"

const DefaultSendTimeout = 30 * time.Second

type EmailOptions struct {
	Host string
	Port int
	// Username defaults to From.
	Username string
	Password string
	// From is the sender address, FromName is its display name.
	From     string
	FromName string
	To       []string
	// SendTimeout bounds a whole delivery, from dialing to QUIT.
	SendTimeout time.Duration
	// InsecureSkipVerify disables certificate checks during STARTTLS, it is
	// only meant for local test servers.
	InsecureSkipVerify bool
}

// EmailNotifier sends every notification over its own SMTP session, upgraded
// with STARTTLS whenever the server offers it. Sessions are never kept open
// between notifications since relays drop idle ones.
type EmailNotifier struct {
	tel       telemetry.API
	opts      EmailOptions
	addr      string
	auth      smtp.Auth
	tlsConfig *tls.Config
}

func NewEmailNotifier(opts EmailOptions, tel telemetry.API) (*EmailNotifier, error) {
	if opts.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if len(opts.To) == 0 {
		return nil, errors.New("at least one recipient is required")
	}
	if opts.Username == "" {
		opts.Username = opts.From
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = DefaultSendTimeout
	}

	var auth smtp.Auth
	if opts.Password != "" {
		auth = smtp.PlainAuth("", opts.Username, opts.Password, opts.Host)
	}

	return &EmailNotifier{
		tel:  telemetry.NewScopedAPI("notifier", tel),
		opts: opts,
		addr: net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
		auth: auth,
		tlsConfig: &tls.Config{
			ServerName:         opts.Host,
			InsecureSkipVerify: opts.InsecureSkipVerify,
		},
	}, nil
}

func (n *EmailNotifier) compose(msg Message) *email.Email {
	mail := email.NewEmail()
	mail.From = n.opts.From
	if n.opts.FromName != "" {
		mail.From = fmt.Sprintf("%s <%s>", n.opts.FromName, n.opts.From)
	}
	mail.To = n.opts.To
	mail.Subject = msg.Subject
	mail.Text = []byte(msg.Body)
	return mail
}

// send delivers `mail` or gives up once ctx is done. An abandoned delivery
// finishes in the background and its result is dropped.
func (n *EmailNotifier) send(ctx context.Context, mail *email.Email) error {
	done := make(chan error, 1)
	go func() {
		done <- mail.SendWithStartTLS(n.addr, n.auth, n.tlsConfig)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *EmailNotifier) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, n.opts.SendTimeout)
	defer cancel()

	err := n.send(sendCtx, n.compose(msg))
	if err != nil {
		if ctx.Err() == nil {
			n.tel.ReportBroken(report_email_send, err, msg.Subject)
		}
		return fmt.Errorf("send email: %w", err)
	}
	n.tel.ReportDebug("email sent", msg.Subject, n.opts.To)
	return nil
}
