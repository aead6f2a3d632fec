// Package notify delivers reminder messages to users. Delivery is
// fire-and-forget from the scheduler's perspective: a failed send is logged,
// never retried.
package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Notifier sends a text message to a user identified by their external id.
type Notifier interface {
	Notify(ctx context.Context, ownerID int64, text string) error
}

// LogNotifier writes notifications to the log. Used in dev and when no bot
// token is configured.
type LogNotifier struct {
	log *logrus.Entry
}

// NewLogNotifier returns a new LogNotifier.
func NewLogNotifier(log *logrus.Entry) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, ownerID int64, text string) error {
	_ = ctx
	n.log.WithField("owner_id", ownerID).Infof("notification: %s", text)
	return nil
}
