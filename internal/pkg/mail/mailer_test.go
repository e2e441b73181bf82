package mail

import (
	"Inkwell/internal/api/config"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailer_NotConfigured(t *testing.T) {
	m := NewMailer(config.MailConfig{})
	assert.False(t, m.Enabled())

	err := m.Send(context.Background(), []string{"a@b.c"}, "s", "<p>x</p>")
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.NoError(t, m.Send(context.Background(), nil, "s", "x"))
}

func TestMailer_BuildMessage(t *testing.T) {
	m := NewMailer(config.MailConfig{Host: "smtp.example.com", From: "Inkwell <no-reply@example.com>"})
	msg := m.buildMessage([]string{"a@b.c"}, "审核结果", "<p>x</p>")

	assert.Equal(t, []string{"a@b.c"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"审核结果"}, msg.GetHeader("Subject"))
	assert.Equal(t, 587, m.dialer().Port)
}

func TestRenderNotice_Escapes(t *testing.T) {
	html, err := RenderNotice(&Notice{PenName: "<b>", Headline: "未通过", Title: "T", Note: "needs rework"})
	require.NoError(t, err)
	assert.Contains(t, html, "&lt;b&gt;")
	assert.Contains(t, html, "needs rework")
}
