package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider emits the given fragments, then either closes or hangs until cancelled
type scriptedProvider struct {
	fragments []Fragment
	hang      bool
	startErr  error
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Generate(ctx context.Context, _ string) (<-chan Fragment, error) {
	if p.startErr != nil {
		return nil, p.startErr
	}
	out := make(chan Fragment)
	go func() {
		defer close(out)
		for _, f := range p.fragments {
			if !send(ctx, out, f) {
				return
			}
		}
		if p.hang {
			<-ctx.Done()
		}
	}()
	return out, nil
}

func TestCollect(t *testing.T) {
	t.Run("drains stream until closed", func(t *testing.T) {
		p := &scriptedProvider{fragments: []Fragment{{Text: `{"overview":`}, {Text: `"x"}`}}}

		got, err := Collect(context.Background(), p, "prompt", time.Second)

		require.NoError(t, err)
		assert.Equal(t, `{"overview":"x"}`, got.Text)
		assert.False(t, got.TimedOut)
	})

	t.Run("timeout keeps accumulated text", func(t *testing.T) {
		p := &scriptedProvider{fragments: []Fragment{{Text: "partial "}, {Text: "output"}}, hang: true}

		got, err := Collect(context.Background(), p, "prompt", 50*time.Millisecond)

		require.NoError(t, err)
		assert.True(t, got.TimedOut)
		assert.Equal(t, "partial output", got.Text)
	})

	t.Run("stream error is returned", func(t *testing.T) {
		boom := errors.New("boom")
		p := &scriptedProvider{fragments: []Fragment{{Text: "abc"}, {Err: boom}}}

		got, err := Collect(context.Background(), p, "prompt", time.Second)

		require.ErrorIs(t, err, boom)
		assert.Equal(t, "abc", got.Text)
	})

	t.Run("start error is returned", func(t *testing.T) {
		boom := errors.New("dial failed")
		p := &scriptedProvider{startErr: boom}

		_, err := Collect(context.Background(), p, "prompt", time.Second)

		require.ErrorIs(t, err, boom)
	})

	t.Run("cancelled context stops collection", func(t *testing.T) {
		p := &scriptedProvider{fragments: []Fragment{{Text: "abc"}}, hang: true}
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(20*time.Millisecond, cancel)

		got, err := Collect(ctx, p, "prompt", time.Minute)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, "abc", got.Text)
	})
}
