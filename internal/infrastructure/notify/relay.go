package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RelayNotifier posts messages to the send-email relay. Any non-success
// reply is returned as an error.
type RelayNotifier struct {
	url    string
	token  string
	client *http.Client
}

type relayReply struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func NewRelayNotifier(url, token string, client *http.Client) *RelayNotifier {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &RelayNotifier{url: url, token: token, client: client}
}

func (n *RelayNotifier) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode relay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("failed to read relay response: %w", err)
	}

	var reply relayReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return fmt.Errorf("relay returned %d with unreadable body: %w", resp.StatusCode, err)
	}
	if !reply.Success {
		if reply.Error == "" {
			reply.Error = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("relay rejected %s: %s", msg.Type, reply.Error)
	}
	return nil
}
