package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
)

type ResendNotifier struct {
	client *resend.Client
	from   string
	log    *logrus.Logger
}

func NewResendNotifier(apiKey, from string, log *logrus.Logger) *ResendNotifier {
	return &ResendNotifier{
		client: resend.NewClient(apiKey),
		from:   from,
		log:    log,
	}
}

func (n *ResendNotifier) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	subject, html, err := Render(msg)
	if err != nil {
		return err
	}

	sent, err := n.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{msg.To},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	n.log.WithFields(logrus.Fields{"message_id": sent.Id, "type": msg.Type}).Info("Notification sent via Resend")
	return nil
}
