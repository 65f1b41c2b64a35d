package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/mtss-api/pkg/config"
)

func TestServeReturnsFailureCodeAfterCleanup(t *testing.T) {
	t.Setenv("ENV", "test")

	var runCtx context.Context
	code := serve(func(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
		runCtx = ctx
		require.NoError(t, ctx.Err())
		return errors.New("connect postgres: connection refused")
	})

	assert.Equal(t, 1, code)
	require.NotNil(t, runCtx)
	assert.ErrorIs(t, runCtx.Err(), context.Canceled)
}

func TestServeReturnsZeroOnCleanShutdown(t *testing.T) {
	t.Setenv("ENV", "test")

	code := serve(func(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
		assert.NotNil(t, cfg)
		assert.NotNil(t, logr)
		return nil
	})

	assert.Equal(t, 0, code)
}
