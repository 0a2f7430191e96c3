package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"therapist-crm/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutKeyIsDisabled(t *testing.T) {
	assert.Nil(t, New(config.AssistantConfig{}, nil))
}

func TestReplySendsConversation(t *testing.T) {
	var got messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"content":[{"type":"text","text":"עוגן הוא גירוי מותנה"}]}`))
	}))
	defer srv.Close()

	c := New(config.AssistantConfig{APIKey: "k", BaseURL: srv.URL + "/", Model: "m"}, srv.Client())
	reply, err := c.Reply(context.Background(), "sys", []Turn{{Role: "user", Content: "מה זה עוגן?"}})
	require.NoError(t, err)

	assert.Equal(t, "עוגן הוא גירוי מותנה", reply)
	assert.Equal(t, "m", got.Model)
	assert.Equal(t, 1024, got.MaxTokens)
	assert.Equal(t, "sys", got.System)
	assert.Len(t, got.Messages, 1)
}

func TestReplyReportsUpstreamErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	c := New(config.AssistantConfig{APIKey: "k", BaseURL: srv.URL}, srv.Client())
	_, err := c.Reply(context.Background(), "", []Turn{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slow down")
}

func TestReplyWithoutTextIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	c := New(config.AssistantConfig{APIKey: "k", BaseURL: srv.URL}, srv.Client())
	_, err := c.Reply(context.Background(), "", []Turn{{Role: "user", Content: "hi"}})
	assert.ErrorIs(t, err, ErrEmptyReply)
}
