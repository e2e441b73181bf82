package logger

import (
	"bytes"
	"context"
	log "log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextHandler_AddsTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&ContextHandler{log.NewJSONHandler(&buf, nil)})

	ctx := WithTraceID(context.Background(), "abc")
	l.InfoContext(ctx, "hello")

	assert.Contains(t, buf.String(), `"trace_id":"abc"`)
}

func TestNewTraceContext(t *testing.T) {
	ctx := NewTraceContext(context.Background(), "job")
	assert.True(t, strings.HasPrefix(TraceID(ctx), "job-"))
}

func TestDetach_KeepsTraceIDAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(WithTraceID(context.Background(), "t1"))
	detached := Detach(ctx)
	cancel()

	assert.NoError(t, detached.Err())
	assert.Equal(t, "t1", TraceID(detached))
}

func TestRemoteFilterHandler_DropsUntraced(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&ContextHandler{&RemoteFilterHandler{next: log.NewJSONHandler(&buf, nil)}})

	l.Info("no trace")
	assert.Empty(t, buf.String())

	l.InfoContext(WithTraceID(context.Background(), "x"), "traced")
	assert.Contains(t, buf.String(), "traced")
}
