package jobs

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/dojo_backoffice/internal/logging"
)

type fakePurger struct {
	calls atomic.Int32
	n     int64
	err   error
}

func (f *fakePurger) PurgeExpired(ctx context.Context) (int64, error) {
	f.calls.Add(1)
	if logging.FromContext(ctx) == nil {
		return 0, errors.New("no logger in context")
	}
	return f.n, f.err
}

func TestPurgeJob_Run(t *testing.T) {
	var buf bytes.Buffer
	p := &fakePurger{n: 4}
	NewPurgeJob(p, logging.NewWithWriter("info", &buf)).Run()

	assert.EqualValues(t, 1, p.calls.Load())
	assert.Contains(t, buf.String(), "session_purge_done")
	assert.Contains(t, buf.String(), `"deleted":4`)
}

func TestPurgeJob_RunLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	p := &fakePurger{err: errors.New("db gone")}
	NewPurgeJob(p, logging.NewWithWriter("info", &buf)).Run()

	assert.Contains(t, buf.String(), "session_purge_failed")
	assert.Contains(t, buf.String(), "db gone")
}

func TestStartPurge(t *testing.T) {
	job := NewPurgeJob(&fakePurger{}, nil)

	_, err := StartPurge("not a schedule", job)
	require.Error(t, err)

	c, err := StartPurge("@every 15m", job)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}
