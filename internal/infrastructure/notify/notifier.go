// Package notify delivers templated notifications. The relay transport
// forwards {type, to, data} to an edge endpoint that owns the templates;
// the mail transports render them locally.
package notify

import (
	"context"
	"errors"
	"fmt"

	"therapist-crm/config"

	"github.com/sirupsen/logrus"
)

var (
	ErrNoRecipient   = errors.New("notification has no recipient")
	ErrUnknownDriver = errors.New("unknown notification driver")
)

type Message struct {
	Type string                 `json:"type"`
	To   string                 `json:"to"`
	Data map[string]interface{} `json:"data"`
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the transport named by cfg.Driver.
func New(cfg config.NotifyConfig, log *logrus.Logger) (Notifier, error) {
	switch cfg.Driver {
	case "relay":
		if cfg.RelayURL == "" {
			return nil, fmt.Errorf("relay driver requires NOTIFY_RELAY_URL")
		}
		return NewRelayNotifier(cfg.RelayURL, cfg.RelayToken, nil), nil
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("resend driver requires RESEND_API_KEY")
		}
		return NewResendNotifier(cfg.ResendAPIKey, cfg.From, log), nil
	case "smtp":
		return NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.From), nil
	case "", "noop":
		return NewNoopNotifier(log), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
}
