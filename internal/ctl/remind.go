package ctl

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/libris/internal/server/notify"
	"github.com/dmitrijs2005/libris/internal/server/services"
	"github.com/spf13/cobra"
)

// directNotifier delivers synchronously; a one-shot command has no
// background consumer to hand messages to.
type directNotifier struct {
	sender notify.Sender
}

func (n directNotifier) Enqueue(ctx context.Context, msg notify.Message) error {
	return n.sender.Send(ctx, msg)
}

type overdueReminder interface {
	SendOverdueReminders(ctx context.Context) (int, error)
}

func (a *App) remindCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remind-overdue",
		Short: "Send reminder emails for every overdue loan now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.connect(ctx); err != nil {
				return err
			}
			circulation := services.NewCirculationService(a.db, a.rm, a.cfg, directNotifier{a.sender()}, a.logger)
			return a.remind(ctx, circulation)
		},
	}
}

func (a *App) sender() notify.Sender {
	n := a.cfg.Notify
	if !n.Enabled() {
		return notify.NewLogSender(a.logger)
	}
	return notify.NewSMTPSender(notify.SMTPConfig{
		Host:     n.SMTPHost,
		Port:     n.SMTPPort,
		Username: n.Username,
		Password: n.Password,
		From:     n.From,
	})
}

func (a *App) remind(ctx context.Context, r overdueReminder) error {
	n, err := r.SendOverdueReminders(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "sent %d reminders\n", n)
	return nil
}
