package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func sampleEvent() PurchaseEvent {
	return PurchaseEvent{
		PurchaseID:  7,
		Reference:   "0b0a8c55-8d44-4c2c-9d2c-4ad1b55b2f11",
		UserID:      3,
		TotalAmount: decimal.RequireFromString("25.00"),
		PurchasedAt: time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC),
		Items: []LineItem{
			{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
			{ProductID: 2, Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
		},
	}
}

type stubNotifier struct {
	calls int
	err   error
}

func (s *stubNotifier) Notify(context.Context, PurchaseEvent) error {
	s.calls++
	return s.err
}

func TestMulti(t *testing.T) {
	ok, failing := &stubNotifier{}, &stubNotifier{err: errors.New("down")}

	err := Multi{ok, nil, failing}.Notify(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "down")
	assert.Equal(t, 1, ok.calls)
	assert.Equal(t, 1, failing.calls)

	assert.NoError(t, Multi{ok}.Notify(context.Background(), sampleEvent()))
}

func TestEncode(t *testing.T) {
	data, err := Encode(sampleEvent())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "25", decoded["total_amount"])
	assert.Equal(t, float64(7), decoded["purchase_id"])
	assert.Len(t, decoded["items"], 2)
}

func TestHubBroadcast(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(nil)
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Notify(context.Background(), sampleEvent()))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got PurchaseEvent
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, "0b0a8c55-8d44-4c2c-9d2c-4ad1b55b2f11", got.Reference)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(25)))

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHubCloseDisconnectsClients(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(nil)
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)
	hub.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.Zero(t, hub.Clients())
}

func TestHubWithoutClients(t *testing.T) {
	hub := NewHub(nil)
	assert.NoError(t, hub.Notify(context.Background(), sampleEvent()))
}

func TestRedisPublisherBadURL(t *testing.T) {
	_, err := NewRedisPublisher("not-a-url", "purchases")
	assert.Error(t, err)
}
