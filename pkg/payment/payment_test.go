package payment

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

func TestChargeSuccess(t *testing.T) {
	var got chargeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/charges", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(chargeResponse{Reference: "ch_42"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	ref, err := c.Charge(context.Background(), 1000, "USD", "tok_visa")
	require.NoError(t, err)
	assert.Equal(t, "ch_42", ref)
	assert.Equal(t, int64(1000), got.Amount)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "tok_visa", got.Token)
}

func TestChargeDeclined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Charge(context.Background(), 1000, "USD", "tok_bad")
	assert.ErrorIs(t, err, ErrDeclined)
}

func TestChargeGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Charge(context.Background(), 1000, "USD", "tok_visa")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDeclined, "transport errors are not declines")
}

func TestChargeEmptyReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chargeResponse{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Charge(context.Background(), 1000, "USD", "tok_visa")
	assert.Error(t, err)
}
