package jobcontext

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBegin(t *testing.T) {
	runID := uuid.New()

	ctx, cancel := RunBegin(context.Background(), runID, "m-1", SourceCLI, time.Minute)
	defer cancel()

	md := GetRunMetadata(ctx)
	assert.Equal(t, runID, md.RunID)
	assert.Equal(t, "m-1", md.MeetingID)
	assert.Equal(t, SourceCLI, md.Source)
	assert.False(t, md.StartTime.IsZero())

	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
	assert.Len(t, LogFields(ctx), 4)
}

func TestRunBegin_NoTimeout(t *testing.T) {
	ctx, cancel := RunBegin(context.Background(), uuid.New(), "m-2", SourceAPI, 0)

	_, hasDeadline := ctx.Deadline()
	assert.False(t, hasDeadline)

	cancel()
	require.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestGetRunMetadata_Empty(t *testing.T) {
	md := GetRunMetadata(context.Background())

	assert.Equal(t, uuid.Nil, md.RunID)
	assert.Equal(t, "unknown", md.Source)
	assert.Len(t, LogFields(context.Background()), 1)
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{err: nil, want: false},
		{err: errors.New("dial tcp: connection refused"), want: true},
		{err: errors.New("ERROR: deadlock detected (SQLSTATE 40P01)"), want: true},
		{err: errors.New("503 Service Unavailable"), want: true},
		{err: errors.New("Please reduce your request rate: SlowDown"), want: true},
		{err: errors.New("access denied"), want: false},
		{err: errors.New("bucket name invalid"), want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRetryableError(tt.err), "%v", tt.err)
	}
}
