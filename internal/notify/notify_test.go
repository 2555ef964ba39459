package notify

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Completion {
	return Completion{
		To:           "jane@example.com",
		Name:         "Jane",
		AnalysisID:   "a1",
		Role:         "Backend Developer",
		OverallScore: 72,
	}
}

func TestBuildMessage(t *testing.T) {
	msg, err := BuildMessage(sample(), "https://cv.test")
	require.NoError(t, err)

	assert.Equal(t, "Your Backend Developer Resume Analysis is Complete", msg.Subject)
	assert.True(t, strings.HasPrefix(msg.Body, "Hello Jane,\n"))
	assert.Contains(t, msg.Body, "for the Backend Developer position")
	assert.Contains(t, msg.Body, "Overall Score: 72/100")
	assert.Contains(t, msg.Body, "https://cv.test/analysis/a1\n")
	assert.Contains(t, msg.Body, "The AI Resume Analyzer Team")
}

type captured struct {
	addr string
	auth sasl.Client
	from string
	to   []string
	body string
}

func TestSMTPNotifierSends(t *testing.T) {
	n := NewSMTP(SMTPConfig{Host: "smtp.test", Port: "587", User: "u", Password: "p", From: "noreply@cv.test", FrontendURL: "https://cv.test"})
	n.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	var got captured
	n.send = func(addr string, a sasl.Client, from string, to []string, r io.Reader) error {
		b, _ := io.ReadAll(r)
		got = captured{addr: addr, auth: a, from: from, to: to, body: string(b)}
		return nil
	}

	require.NoError(t, n.NotifyCompletion(context.Background(), sample()))

	assert.Equal(t, "smtp.test:587", got.addr)
	assert.NotNil(t, got.auth)
	assert.Equal(t, "noreply@cv.test", got.from)
	assert.Equal(t, []string{"jane@example.com"}, got.to)
	assert.Contains(t, got.body, "Subject: Your Backend Developer Resume Analysis is Complete\r\n")
	assert.Contains(t, got.body, "Date: Thu, 02 Jan 2025 03:04:05 +0000\r\n")
	assert.Contains(t, got.body, "\r\n\r\nHello Jane,\r\n")
}

func TestSMTPNotifierWithoutCredentialsSkipsAuth(t *testing.T) {
	n := NewSMTP(SMTPConfig{Host: "localhost", Port: "25", From: "a@b.c"})
	var auth sasl.Client = sasl.NewAnonymousClient("x")
	n.send = func(addr string, a sasl.Client, from string, to []string, r io.Reader) error {
		auth = a
		return nil
	}
	require.NoError(t, n.NotifyCompletion(context.Background(), sample()))
	assert.Nil(t, auth)
}

func TestSMTPNotifierErrors(t *testing.T) {
	n := NewSMTP(SMTPConfig{Host: "smtp.test", Port: "587"})
	n.send = func(string, sasl.Client, string, []string, io.Reader) error {
		return errors.New("550 mailbox unavailable")
	}

	err := n.NotifyCompletion(context.Background(), sample())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send completion email via smtp.test:587: 550 mailbox unavailable")

	noRecipient := sample()
	noRecipient.To = " "
	assert.ErrorIs(t, n.NotifyCompletion(context.Background(), noRecipient), ErrNoRecipient)
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, LogNotifier{FrontendURL: "http://localhost:3000"}.NotifyCompletion(context.Background(), sample()))
}

func TestHeaderValueStripsNewlines(t *testing.T) {
	assert.Equal(t, "a  Bcc: x", headerValue("a\r\nBcc: x"))
}
