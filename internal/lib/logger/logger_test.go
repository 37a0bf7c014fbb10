package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetup(t *testing.T) {
	ctx := context.Background()

	assert.True(t, Setup("local").Enabled(ctx, slog.LevelDebug))
	assert.True(t, Setup("dev").Enabled(ctx, slog.LevelDebug))
	assert.False(t, Setup("prod").Enabled(ctx, slog.LevelDebug))
	assert.True(t, Setup("prod").Enabled(ctx, slog.LevelInfo))
	assert.True(t, Setup("staging").Enabled(ctx, slog.LevelDebug))
}
