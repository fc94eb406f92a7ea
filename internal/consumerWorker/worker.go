// Package consumerWorker delivers queued notification emails.
package consumerWorker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/IEC2025/UeabInnovationHub-sub000/internal/mailer"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/metrics"
)

// Consumer is satisfied by *rabbit.Client.
type Consumer interface {
	Consume(handler func([]byte) error) error
}

type Reader struct {
	rmq      Consumer
	delivery mailer.Transport
	log      *zerolog.Logger
	timeout  time.Duration
	done     chan struct{}
	cancel   context.CancelFunc
}

func NewReader(rmq Consumer, delivery mailer.Transport, log *zerolog.Logger) *Reader {
	return &Reader{
		rmq:      rmq,
		delivery: delivery,
		log:      log,
		timeout:  mailer.DefaultTimeout,
		done:     make(chan struct{}),
	}
}

// WithTimeout bounds each delivery. Non-positive values keep the default.
func (r *Reader) WithTimeout(timeout time.Duration) *Reader {
	if timeout > 0 {
		r.timeout = timeout
	}
	return r
}

// Start begins consuming. It returns an error only if the subscription
// could not be established.
func (r *Reader) Start(ctx context.Context) error {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	if err := r.rmq.Consume(func(body []byte) error { return r.handle(cctx, body) }); err != nil {
		cancel()
		close(r.done)
		return err
	}
	r.log.Info().Str("transport", r.delivery.Name()).Msg("notification reader started")

	go func() {
		defer close(r.done)
		<-cctx.Done()
		r.log.Info().Msg("notification reader stopped")
	}()
	return nil
}

func (r *Reader) handle(ctx context.Context, body []byte) error {
	msg, err := mailer.DecodeMessage(body)
	if err != nil {
		r.log.Error().Err(err).Int("bytes", len(body)).Msg("discarding malformed notification")
		metrics.NotificationsTotal.WithLabelValues(r.delivery.Name(), "malformed").Inc()
		// Malformed payloads never become deliverable.
		return nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.delivery.Send(sendCtx, msg); err != nil {
		r.log.Warn().Err(err).Str("subject", msg.Subject).Strs("to", msg.To).Msg("queued notification delivery failed")
		metrics.NotificationsTotal.WithLabelValues(r.delivery.Name(), "failed").Inc()
		return err
	}

	r.log.Info().Str("subject", msg.Subject).Strs("to", msg.To).Msg("queued notification delivered")
	metrics.NotificationsTotal.WithLabelValues(r.delivery.Name(), "sent").Inc()
	return nil
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
