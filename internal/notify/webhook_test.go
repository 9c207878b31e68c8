package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nameplate/internal/domain"
)

func sampleSummary() domain.Summary {
	return domain.Summary{
		RefID:          "ORD-42",
		ContactName:    "Dana",
		TotalLabels:    4,
		SpreadsheetURL: "https://files/x.xlsx",
		DocumentURL:    "https://files/x.pdf",
		Designs:        []domain.DesignSummary{{ID: 1, Quantity: 3, LabelColor: "Green", Lines: []string{"ACME"}}},
	}
}

func TestWebhook_PostsSummary(t *testing.T) {
	var got domain.Summary
	var token, ctype string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = r.Header.Get("X-Webhook-Token")
		ctype = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL, time.Second, "s3cret").Notify(context.Background(), sampleSummary())
	require.NoError(t, err)
	assert.Equal(t, "s3cret", token)
	assert.Equal(t, "application/json", ctype)
	assert.Equal(t, sampleSummary(), got)
}

func TestWebhook_NonSuccessIsNotificationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL, time.Second, "").Notify(context.Background(), sampleSummary())
	assert.ErrorIs(t, err, domain.ErrNotification)
	assert.Contains(t, err.Error(), "502")
}

func TestWebhook_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := NewWebhook(url, 200*time.Millisecond, "").Notify(context.Background(), sampleSummary())
	assert.ErrorIs(t, err, domain.ErrNotification)
}

func TestWebhook_DisabledWithoutURL(t *testing.T) {
	assert.NoError(t, NewWebhook("", 0, "").Notify(context.Background(), sampleSummary()))
	var nilHook *Webhook
	assert.NoError(t, nilHook.Notify(context.Background(), sampleSummary()))
}

func TestWebhook_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewWebhook("http://127.0.0.1:1", time.Second, "").Notify(ctx, sampleSummary())
	assert.ErrorIs(t, err, domain.ErrNotification)
}
