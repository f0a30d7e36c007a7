package notify

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func TestEmailNotifier(t *testing.T) {
	s := &fakeSender{}
	n := &EmailNotifier{
		cfg:    EmailConfig{From: "hud@example.com", To: []string{"oncall@example.com"}},
		dialer: s,
	}

	require.NoError(t, n.Notify(context.TODO(), Message{Title: "fixed pytorch-master", Body: "pytorch_linux_build"}))
	require.Len(t, s.sent, 1)
	assert.Equal(t, []string{"fixed pytorch-master"}, s.sent[0].GetHeader("Subject"))
	assert.Equal(t, []string{"oncall@example.com"}, s.sent[0].GetHeader("To"))

	s.err = fmt.Errorf("connection refused")
	assert.Error(t, n.Notify(context.TODO(), Message{}))
}

func TestEmailNotifierWithoutRecipients(t *testing.T) {
	s := &fakeSender{}
	n := &EmailNotifier{dialer: s}
	assert.Error(t, n.Notify(context.TODO(), Message{Title: "t"}))
	assert.Empty(t, s.sent)
}

func TestNewEmailNotifier(t *testing.T) {
	n := NewEmailNotifier(EmailConfig{SMTPHost: "smtp.example.com", SMTPPort: 465, UseSSL: true})
	d, ok := n.dialer.(*gomail.Dialer)
	require.True(t, ok)
	assert.True(t, d.SSL)
	assert.Equal(t, "smtp.example.com", d.Host)
}
