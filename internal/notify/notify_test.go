package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhook_Publish(t *testing.T) {
	var got Event
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	NewWebhook(server.URL).Publish(context.Background(), "image.upload", "fedora-cloud-31-1", "eu-west-1", "completed", map[string]string{
		"id":   "ami-12345678",
		"virt": "hvm",
	})

	assert.Equal(t, "image.upload", got.Topic)
	assert.Equal(t, "fedora-cloud-31-1", got.Build)
	assert.Equal(t, "eu-west-1", got.Destination)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, "ami-12345678", got.Extra["id"])
}

func TestWebhook_Publish_NoExtra(t *testing.T) {
	var raw []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	NewWebhook(server.URL).Publish(context.Background(), "image.test", "fedora-cloud-31-1", "us-east-1", "started", nil)

	assert.NotContains(t, string(raw), "extra")
}

func TestWebhook_Publish_DeliveryFailureSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	server.Close() // connection refused from here on

	// Must not panic or block; failure is logged only.
	NewWebhook(server.URL).Publish(context.Background(), "image.upload", "fedora-cloud-31-1", "us-east-1", "failed", nil)
}

func TestWebhook_Publish_RejectionSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	NewWebhook(server.URL).Publish(context.Background(), "image.upload", "fedora-cloud-31-1", "us-east-1", "failed", nil)
}

func TestNew(t *testing.T) {
	assert.IsType(t, Nop{}, New(""))
	assert.IsType(t, &Webhook{}, New("http://localhost:9999/hook"))
}

func TestNop_Publish(t *testing.T) {
	// Must be safe with all-zero arguments.
	Nop{}.Publish(context.Background(), "", "", "", "", nil)
}
