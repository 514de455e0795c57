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
)

func TestSend(t *testing.T) {
	var got sendRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/messages", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key123", time.Second)
	err := c.Send(context.Background(), "ada@example.com", "orders@example.com", "Your order", "thanks")
	require.NoError(t, err)
	assert.Equal(t, "Bearer key123", auth)
	assert.Equal(t, "ada@example.com", got.To)
	assert.Equal(t, "orders@example.com", got.From)
	assert.Equal(t, "Your order", got.Subject)
	assert.Equal(t, "thanks", got.Body)
}

func TestSendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	err := c.Send(context.Background(), "ada@example.com", "orders@example.com", "Your order", "thanks")
	assert.Error(t, err)
}
