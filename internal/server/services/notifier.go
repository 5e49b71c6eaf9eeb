package services

import (
	"context"

	"github.com/dmitrijs2005/libris/internal/server/notify"
)

// Notifier accepts notifications for asynchronous, best-effort delivery.
// Services call it only after their transaction has committed.
type Notifier interface {
	Enqueue(ctx context.Context, msg notify.Message) error
}

// NopNotifier drops every message.
type NopNotifier struct{}

func (NopNotifier) Enqueue(context.Context, notify.Message) error { return nil }
