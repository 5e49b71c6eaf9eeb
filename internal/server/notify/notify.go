// Package notify delivers best-effort email notifications. Producers enqueue
// messages on an in-process watermill channel after their transaction commits;
// a supervised Dispatcher drains it through a Sender.
package notify

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/libris/internal/logging"
	"github.com/dmitrijs2005/libris/internal/server/models"
)

// Message is a single plain-text email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender logs messages instead of sending them. It is used when no SMTP
// relay is configured.
type LogSender struct {
	log logging.Logger
}

func NewLogSender(log logging.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.log.Info(ctx, "notification", "to", msg.To, "subject", msg.Subject)
	return nil
}

const ReminderSubject = "Library Due Date Reminder"

// Reminder builds the overdue reminder for one open loan.
func Reminder(o *models.OverdueIssue) Message {
	return Message{
		To:      o.MemberEmail,
		Subject: ReminderSubject,
		Body:    fmt.Sprintf("%s, please return '%s'.", o.MemberName, o.BookTitle),
	}
}

const ApprovalSubject = "Management Request Approved"

// Approval tells a user their role request went through.
func Approval(u *models.User, role models.Role) Message {
	return Message{
		To:      u.Email,
		Subject: ApprovalSubject,
		Body: fmt.Sprintf("Hello %s,\n\nYour request for the role '%s' has been approved.\n"+
			"You can now access management features.\n\nRegards,\nLibrary Admin", u.Name, role),
	}
}
