package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalTriggerFiresImmediately(t *testing.T) {
	fired := make(chan struct{}, 1)
	trigger := NewIntervalTrigger(time.Hour)

	require.NoError(t, trigger.Start(context.Background(), func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	}))
	t.Cleanup(func() { _ = trigger.Stop(context.Background()) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
}

func TestIntervalTriggerStartIsIdempotent(t *testing.T) {
	trigger := NewIntervalTrigger(time.Hour)

	require.NoError(t, trigger.Start(context.Background(), func() {}))
	assert.NoError(t, trigger.Start(context.Background(), func() {}))
	assert.NoError(t, trigger.Stop(context.Background()))
	assert.NoError(t, trigger.Stop(context.Background()))
}

func TestIntervalTriggerNilJob(t *testing.T) {
	trigger := NewIntervalTrigger(time.Hour)
	require.NoError(t, trigger.Start(context.Background(), nil))
	assert.NoError(t, trigger.Stop(context.Background()))
}
