package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithQueryTimeoutFollowsRequest(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := WithQueryTimeout(parent)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(QueryTimeout), deadline, time.Second)

	cancelParent()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestWithJobTimeout(t *testing.T) {
	ctx, cancel := WithJobTimeout(PurgeTimeout)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(PurgeTimeout), deadline, time.Second)
	assert.NoError(t, ctx.Err())
}
