package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// NoopNotifier logs instead of sending. Used in development.
type NoopNotifier struct {
	log *logrus.Logger
}

func NewNoopNotifier(log *logrus.Logger) *NoopNotifier {
	return &NoopNotifier{log: log}
}

func (n *NoopNotifier) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	n.log.WithFields(logrus.Fields{"type": msg.Type, "to": msg.To}).Info("Notification skipped (noop driver)")
	return nil
}
