package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/dmitrijs2005/libris/internal/logging"
	"github.com/dmitrijs2005/libris/internal/server/metrics"
	"github.com/goccy/go-json"
	"github.com/thejerf/suture/v4"
)

// Topic is the watermill topic notifications travel on.
const Topic = "notifications"

// Dispatcher queues notifications in memory and delivers them from Serve,
// which runs under a suture supervisor. Enqueue never blocks on delivery.
type Dispatcher struct {
	pubsub      *gochannel.GoChannel
	sender      Sender
	log         logging.Logger
	sendTimeout time.Duration

	readyOnce sync.Once
	ready     chan struct{}
}

func NewDispatcher(sender Sender, buffer int64, log logging.Logger, wlog watermill.LoggerAdapter) *Dispatcher {
	if wlog == nil {
		wlog = watermill.NopLogger{}
	}
	return &Dispatcher{
		pubsub:      gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: buffer}, wlog),
		sender:      sender,
		log:         log,
		sendTimeout: 30 * time.Second,
		ready:       make(chan struct{}),
	}
}

// Enqueue publishes msg for delivery. Messages enqueued before the consumer
// has subscribed are dropped.
func (d *Dispatcher) Enqueue(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		metrics.NotificationsFailed.WithLabelValues("enqueue").Inc()
		return fmt.Errorf("encode notification: %w", err)
	}
	if err := d.pubsub.Publish(Topic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		metrics.NotificationsFailed.WithLabelValues("enqueue").Inc()
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// Ready is closed once the consumer has subscribed for the first time.
func (d *Dispatcher) Ready() <-chan struct{} {
	return d.ready
}

// Serve consumes the topic until ctx is cancelled.
func (d *Dispatcher) Serve(ctx context.Context) error {
	msgs, err := d.pubsub.Subscribe(ctx, Topic)
	if err != nil {
		// subscribing only fails once the channel is closed
		return fmt.Errorf("%w: %v", suture.ErrDoNotRestart, err)
	}
	d.readyOnce.Do(func() { close(d.ready) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return suture.ErrDoNotRestart
			}
			d.handle(ctx, msg)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var m Message
	if err := json.Unmarshal(msg.Payload, &m); err != nil {
		metrics.NotificationsFailed.WithLabelValues("deliver").Inc()
		d.log.Error(ctx, "dropping malformed notification", "uuid", msg.UUID, "error", err)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	if err := d.sender.Send(sendCtx, m); err != nil {
		metrics.NotificationsFailed.WithLabelValues("deliver").Inc()
		d.log.Warn(ctx, "notification delivery failed", "to", m.To, "subject", m.Subject, "error", err)
		return
	}
	metrics.NotificationsSent.Inc()
}

func (d *Dispatcher) Close() error {
	if err := d.pubsub.Close(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (d *Dispatcher) String() string { return "notification-dispatcher" }
