package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/IEC2025/UeabInnovationHub-sub000/internal/metrics"
)

// Message is one outbound email with alternative HTML and plain-text bodies.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"replyTo,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

// Transport delivers a message. Implementations report failures as errors;
// the Dispatcher decides what a failure means.
type Transport interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// NotificationError is a delivery failure caught at the dispatcher boundary.
type NotificationError struct {
	Transport string
	Subject   string
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification %q via %s failed: %v", e.Subject, e.Transport, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

var errNoRecipients = errors.New("no recipients")

// DefaultTimeout bounds a single send when no other timeout is configured.
const DefaultTimeout = 10 * time.Second

// Dispatcher sends best-effort notifications. A failed send is logged and
// reported as false; it never surfaces as an error or panic to the caller.
type Dispatcher struct {
	transport  Transport
	from       string
	recipients []string
	timeout    time.Duration
	log        *zerolog.Logger
}

// NewDispatcher builds a dispatcher around t. A nil transport falls back to
// logging messages to the console.
func NewDispatcher(t Transport, from string, recipients []string, log *zerolog.Logger) *Dispatcher {
	if t == nil {
		t = NewConsoleTransport(log)
	}
	return &Dispatcher{
		transport:  t,
		from:       from,
		recipients: recipients,
		timeout:    DefaultTimeout,
		log:        log,
	}
}

// WithTimeout sets the upper bound on a single send. Non-positive values keep
// the current bound.
func (d *Dispatcher) WithTimeout(timeout time.Duration) *Dispatcher {
	if timeout > 0 {
		d.timeout = timeout
	}
	return d
}

func (d *Dispatcher) TransportName() string {
	return d.transport.Name()
}

func (d *Dispatcher) Notify(ctx context.Context, msg Message) (ok bool) {
	if msg.From == "" {
		msg.From = d.from
	}
	if len(msg.To) == 0 {
		msg.To = d.recipients
	}

	defer func() {
		if p := recover(); p != nil {
			d.fail(&NotificationError{Transport: d.transport.Name(), Subject: msg.Subject, Err: fmt.Errorf("panic: %v", p)}, msg)
			ok = false
		}
	}()

	if len(msg.To) == 0 {
		d.fail(&NotificationError{Transport: d.transport.Name(), Subject: msg.Subject, Err: errNoRecipients}, msg)
		return false
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	if err := d.transport.Send(sendCtx, msg); err != nil {
		d.fail(&NotificationError{Transport: d.transport.Name(), Subject: msg.Subject, Err: err}, msg)
		return false
	}

	metrics.NotificationsTotal.WithLabelValues(d.transport.Name(), "sent").Inc()
	d.log.Info().
		Str("transport", d.transport.Name()).
		Str("subject", msg.Subject).
		Str("to", strings.Join(msg.To, ",")).
		Msg("notification sent")
	return true
}

func (d *Dispatcher) fail(err *NotificationError, msg Message) {
	metrics.NotificationsTotal.WithLabelValues(err.Transport, "failed").Inc()
	d.log.Warn().
		Err(err).
		Str("transport", err.Transport).
		Str("to", strings.Join(msg.To, ",")).
		Msg("notification failed")
}
