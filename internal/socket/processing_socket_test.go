package socket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"processingd/internal/models"
	"processingd/internal/structures"
	"processingd/internal/testutil"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

// frameServer sends frames to each connection it accepts and closes the
// connection after the last one when closeAfter is set.
func frameServer(t *testing.T, frames []string, closeAfter bool) (*httptest.Server, chan string) {
	t.Helper()
	auth := make(chan string, 8)
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth <- r.Header.Get("Authorization")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		if closeAfter {
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)
	return server, auth
}

func newTestSocket(url string) (*ProcessingSocket, *testutil.MockLogger, *testutil.MockMetrics) {
	conf := &structures.Config{
		Tracker: structures.TrackerConfig{SocketUrl: url, ApiToken: "secret"},
		Socket:  structures.SocketConfig{InitialBackoff: 10 * time.Millisecond, MaxBackoff: 20 * time.Millisecond},
	}
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	return NewProcessingSocket(conf, logger, metrics).(*ProcessingSocket), logger, metrics
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestProcessingSocket_DispatchesTypedEvents(t *testing.T) {
	server, auth := frameServer(t, []string{
		`{"type":"bogus","donation":{"id":1}}`,
		`{"type":"donation_received","donation":{"id":5,"commentstate":"PENDING","readstate":"PENDING"},"donation_count":10}`,
	}, false)
	s, logger, metrics := newTestSocket(wsURL(server))

	received := make(chan models.SocketEvent, 1)
	s.On(models.EventDonationReceived, func(e models.SocketEvent) { received <- e })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case e := <-received:
		event, ok := e.(models.DonationReceived)
		require.True(t, ok)
		assert.Equal(t, 5, event.Donation.ID)
		assert.Equal(t, 10, event.DonationCount)
	case <-time.After(waitTimeout):
		t.Fatal("donation_received not dispatched")
	}
	assert.Equal(t, "Token secret", <-auth)
	assert.Equal(t, models.Connected, s.State())
	assert.Equal(t, 1, metrics.Frames(invalidFrame))
	assert.Equal(t, 1, metrics.Frames(string(models.EventDonationReceived)))
	require.NotEmpty(t, logger.Entries("warn"))

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(waitTimeout):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, models.Disconnected, s.State())
}

func TestProcessingSocket_ReconnectsAndReportsTransitions(t *testing.T) {
	server, _ := frameServer(t, nil, true)
	s, _, _ := newTestSocket(wsURL(server))

	states := make(chan models.ConnectionState, 32)
	s.On(models.EventConnectionChanged, func(e models.SocketEvent) {
		states <- e.(models.ConnectionChanged).State
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	var seen []models.ConnectionState
	deadline := time.After(waitTimeout)
	for connects := 0; connects < 2; {
		select {
		case st := <-states:
			seen = append(seen, st)
			if st == models.Connected {
				connects++
			}
		case <-deadline:
			t.Fatalf("expected a reconnect, saw %v", seen)
		}
	}
	assert.Equal(t, []models.ConnectionState{
		models.Connecting, models.Connected, models.Disconnected,
		models.Connecting, models.Connected,
	}, seen)
}

func TestProcessingSocket_UnsubscribeStopsDelivery(t *testing.T) {
	s, _, _ := newTestSocket("ws://unused")

	var calls int
	unsubscribe := s.On(models.EventGroupCreated, func(models.SocketEvent) { calls++ })
	s.handleFrame([]byte(`{"type":"group_created","group":"foo"}`))
	unsubscribe()
	unsubscribe()
	s.handleFrame([]byte(`{"type":"group_created","group":"bar"}`))

	assert.Equal(t, 1, calls)
}

func TestProcessingSocket_DialFailureBacksOff(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(server)
	server.Close()
	s, logger, _ := newTestSocket(url)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, models.Disconnected, s.State())
	assert.NotEmpty(t, logger.Entries("warn"))
}
