package notify

import (
	"context"
	"time"

	"github.com/dmitrijs2005/libris/internal/logging"
	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerSender stops calling a failing relay after a run of consecutive
// failures and fails fast with gobreaker.ErrOpenState until it recovers.
type BreakerSender struct {
	next Sender
	cb   *gobreaker.CircuitBreaker[struct{}]
}

func NewBreakerSender(next Sender, failures uint32, log logging.Logger) *BreakerSender {
	if failures == 0 {
		failures = 5
	}
	settings := gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn(context.Background(), "circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	}
	return &BreakerSender{next: next, cb: gobreaker.NewCircuitBreaker[struct{}](settings)}
}

func (b *BreakerSender) Send(ctx context.Context, msg Message) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.Send(ctx, msg)
	})
	return err
}

func (b *BreakerSender) State() gobreaker.State {
	return b.cb.State()
}
