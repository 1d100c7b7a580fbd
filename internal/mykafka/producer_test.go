package mykafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := NewProducer(nil)
	require.Error(t, err)

	p, err := NewProducer([]string{"localhost:9092"})
	require.NoError(t, err)
	require.NotNil(t, p)
}

func TestPublishEvent_EncodesJSON(t *testing.T) {
	fw := &fakeWriter{}
	p := &Producer{writer: fw}

	err := p.PublishEvent(context.Background(), "user_events", "acc-1", map[string]string{"type": "user_created"})
	require.NoError(t, err)

	require.Len(t, fw.msgs, 1)
	msg := fw.msgs[0]
	assert.Equal(t, "user_events", msg.Topic)
	assert.Equal(t, "acc-1", string(msg.Key))

	var got map[string]string
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "user_created", got["type"])

	require.NoError(t, p.Close())
	assert.True(t, fw.closed)
}

func TestPublishEvent_Errors(t *testing.T) {
	boom := errors.New("broker down")
	p := &Producer{writer: &fakeWriter{err: boom}}

	err := p.PublishEvent(context.Background(), "t", "k", struct{}{})
	assert.ErrorIs(t, err, boom)

	err = p.PublishEvent(context.Background(), "t", "k", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json.Marshal")
}

func TestNop(t *testing.T) {
	var n Nop
	assert.NoError(t, n.PublishEvent(context.Background(), "t", "k", nil))
	assert.NoError(t, n.Close())
}
