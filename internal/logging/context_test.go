package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestContextHelpersAttachFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := WithContext(context.Background(), logger)
	ctx = WithComponent(ctx, "messaging")
	ctx = WithWindowID(ctx, 42)
	ctx = WithTabID(ctx, 7)
	ctx = WithRequestID(ctx, "req-1")

	FromContext(ctx).Info().Msg("fields")

	line := buf.String()
	assert.Contains(t, line, `"component":"messaging"`)
	assert.Contains(t, line, `"window_id":42`)
	assert.Contains(t, line, `"tab_id":7`)
	assert.Contains(t, line, `"request_id":"req-1"`)
}

func TestWithRequestID_EmptyLeavesContextUntouched(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, WithRequestID(ctx, ""))
}
