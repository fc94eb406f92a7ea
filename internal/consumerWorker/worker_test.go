package consumerWorker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IEC2025/UeabInnovationHub-sub000/internal/mailer"
)

// loopback feeds published bodies straight to the registered handler.
type loopback struct {
	mu      sync.Mutex
	handler func([]byte) error
	results []error
	err     error
}

func (l *loopback) Consume(handler func([]byte) error) error {
	if l.err != nil {
		return l.err
	}
	l.handler = handler
	return nil
}

func (l *loopback) Publish(_ context.Context, body []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, l.handler(body))
	return nil
}

type captureTransport struct {
	err  error
	sent []mailer.Message
}

func (c *captureTransport) Name() string { return "capture" }

func (c *captureTransport) Send(_ context.Context, msg mailer.Message) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

func newReader(t *testing.T, delivery mailer.Transport) (*Reader, *loopback) {
	t.Helper()
	logger := zerolog.Nop()
	bus := &loopback{}
	r := NewReader(bus, delivery, &logger)
	require.NoError(t, r.Start(context.Background()))
	t.Cleanup(r.Stop)
	return r, bus
}

func TestReader_DeliversQueuedMessage(t *testing.T) {
	delivery := &captureTransport{}
	_, bus := newReader(t, delivery)

	msg := mailer.Message{From: "noreply@iec.test", To: []string{"ops@iec.test"}, Subject: "New registration", Text: "body"}
	require.NoError(t, mailer.NewQueueTransport(bus).Send(context.Background(), msg))

	require.Len(t, delivery.sent, 1)
	assert.Equal(t, msg, delivery.sent[0])
	assert.Equal(t, []error{nil}, bus.results)
}

func TestReader_DropsMalformedPayload(t *testing.T) {
	delivery := &captureTransport{}
	_, bus := newReader(t, delivery)

	require.NoError(t, bus.Publish(context.Background(), []byte("{not json")))
	require.NoError(t, bus.Publish(context.Background(), []byte(`{"subject":"no recipients"}`)))

	assert.Empty(t, delivery.sent)
	assert.Equal(t, []error{nil, nil}, bus.results)
}

func TestReader_ReportsDeliveryFailure(t *testing.T) {
	boom := errors.New("relay down")
	_, bus := newReader(t, &captureTransport{err: boom})

	msg := mailer.Message{To: []string{"ops@iec.test"}, Subject: "s"}
	require.NoError(t, mailer.NewQueueTransport(bus).Send(context.Background(), msg))

	require.Len(t, bus.results, 1)
	assert.ErrorIs(t, bus.results[0], boom)
}

func TestReader_StartFails(t *testing.T) {
	logger := zerolog.Nop()
	r := NewReader(&loopback{err: errors.New("no channel")}, &captureTransport{}, &logger)

	require.Error(t, r.Start(context.Background()))
	r.Stop()
}

// blockingTransport waits for the context to end.
type blockingTransport struct{}

func (blockingTransport) Name() string { return "blocking" }

func (blockingTransport) Send(ctx context.Context, _ mailer.Message) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestReader_DeliveryIsBounded(t *testing.T) {
	logger := zerolog.Nop()
	bus := &loopback{}
	r := NewReader(bus, blockingTransport{}, &logger).WithTimeout(100 * time.Millisecond)
	require.NoError(t, r.Start(context.Background()))
	t.Cleanup(r.Stop)

	start := time.Now()
	msg := mailer.Message{To: []string{"ops@iec.test"}, Subject: "s"}
	require.NoError(t, mailer.NewQueueTransport(bus).Send(context.Background(), msg))

	require.Len(t, bus.results, 1)
	assert.ErrorIs(t, bus.results[0], context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}
