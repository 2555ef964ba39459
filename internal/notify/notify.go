// Package notify tells applicants that their analysis is ready.
package notify

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"cv-analyzer/internal/shared/telemetry"
	"cv-analyzer/internal/shared/util"
)

// Completion describes a finished analysis.
type Completion struct {
	To           string
	Name         string
	AnalysisID   string
	Role         string
	OverallScore int
}

// Notifier delivers completion notices.
type Notifier interface {
	NotifyCompletion(ctx context.Context, c Completion) error
}

// Message is a rendered plain-text email.
type Message struct {
	Subject string
	Body    string
}

var (
	//go:embed templates/completion.txt
	completionText string

	completionTemplate = template.Must(template.New("completion").Parse(completionText))
)

// ErrNoRecipient is returned when the completion has no address.
var ErrNoRecipient = errors.New("notify: recipient is required")

// BuildMessage renders the completion email. frontendURL must not end in a slash.
func BuildMessage(c Completion, frontendURL string) (Message, error) {
	var buf bytes.Buffer
	err := completionTemplate.Execute(&buf, struct {
		Completion
		Link string
	}{c, fmt.Sprintf("%s/analysis/%s", frontendURL, c.AnalysisID)})
	if err != nil {
		return Message{}, errors.Wrap(err, "render completion email")
	}
	return Message{
		Subject: fmt.Sprintf("Your %s Resume Analysis is Complete", c.Role),
		Body:    buf.String(),
	}, nil
}

// LogNotifier only records that an email would have been sent.
type LogNotifier struct {
	FrontendURL string
}

func (n LogNotifier) NotifyCompletion(ctx context.Context, c Completion) error {
	msg, err := BuildMessage(c, n.FrontendURL)
	if err != nil {
		return err
	}
	telemetry.Info("notify.email_skipped", map[string]any{
		"analysis_id": c.AnalysisID,
		"email_hash":  util.HashKey(c.To),
		"subject":     msg.Subject,
	})
	return nil
}

func headerValue(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
