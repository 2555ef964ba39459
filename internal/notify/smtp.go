package notify

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/pkg/errors"

	"cv-analyzer/internal/shared/telemetry"
	"cv-analyzer/internal/shared/util"
)

// SMTPConfig holds the relay settings.
type SMTPConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	From        string
	TLS         bool
	FrontendURL string
}

type sendFunc func(addr string, a sasl.Client, from string, to []string, r io.Reader) error

// SMTPNotifier sends completion emails through an SMTP relay.
type SMTPNotifier struct {
	cfg  SMTPConfig
	send sendFunc
	now  func() time.Time
}

// NewSMTP returns a notifier for cfg. TLS selects implicit TLS; otherwise
// STARTTLS is used when the server offers it.
func NewSMTP(cfg SMTPConfig) *SMTPNotifier {
	send := sendFunc(smtp.SendMail)
	if cfg.TLS {
		send = smtp.SendMailTLS
	}
	return &SMTPNotifier{cfg: cfg, send: send, now: time.Now}
}

func (n *SMTPNotifier) NotifyCompletion(ctx context.Context, c Completion) error {
	if strings.TrimSpace(c.To) == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := BuildMessage(c, n.cfg.FrontendURL)
	if err != nil {
		return err
	}

	var auth sasl.Client
	if n.cfg.User != "" {
		auth = sasl.NewPlainClient("", n.cfg.User, n.cfg.Password)
	}
	addr := net.JoinHostPort(n.cfg.Host, n.cfg.Port)
	raw := n.compose(c.To, msg)
	if err := n.send(addr, auth, n.cfg.From, []string{c.To}, strings.NewReader(raw)); err != nil {
		return errors.Wrapf(err, "send completion email via %s", addr)
	}
	telemetry.Info("notify.email_sent", map[string]any{
		"analysis_id": c.AnalysisID,
		"email_hash":  util.HashKey(c.To),
	})
	return nil
}

func (n *SMTPNotifier) compose(to string, msg Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", headerValue(n.cfg.From))
	fmt.Fprintf(&b, "To: %s\r\n", headerValue(to))
	fmt.Fprintf(&b, "Subject: %s\r\n", headerValue(msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", n.now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return b.String()
}
