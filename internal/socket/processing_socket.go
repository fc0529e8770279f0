package socket

import (
	"context"
	"fmt"
	"net/http"
	"processingd/internal/models"
	"processingd/internal/providers"
	"processingd/internal/structures"
	"sync"
	"time"

	"github.com/aquilax/truncate"
	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
)

const (
	frameLogLength = 64
	invalidFrame   = "invalid"
)

type Handler func(event models.SocketEvent)

type ProcessingSocketInterface interface {
	On(eventType models.SocketEventType, handler Handler) func()
	Run(ctx context.Context) error
	State() models.ConnectionState
}

// ProcessingSocket is the process-wide client of the tracker's processing
// channel. It reconnects with exponential backoff until its context ends and
// emits a ConnectionChanged event on every state transition.
type ProcessingSocket struct {
	url     string
	header  http.Header
	dialer  *websocket.Dialer
	logger  providers.Logger
	metrics providers.MetricsProviderInterface

	initialBackoff time.Duration
	maxBackoff     time.Duration

	state    atomic.String
	nextID   atomic.Uint64
	mu       sync.RWMutex
	handlers map[models.SocketEventType]map[uint64]Handler
}

func NewProcessingSocket(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) ProcessingSocketInterface {
	header := http.Header{}
	if conf.Tracker.ApiToken != "" {
		header.Set("Authorization", "Token "+conf.Tracker.ApiToken)
	}
	s := &ProcessingSocket{
		url:            conf.Tracker.SocketUrl,
		header:         header,
		dialer:         websocket.DefaultDialer,
		logger:         logger,
		metrics:        metrics,
		initialBackoff: conf.Socket.InitialBackoff,
		maxBackoff:     conf.Socket.MaxBackoff,
		handlers:       make(map[models.SocketEventType]map[uint64]Handler),
	}
	s.state.Store(string(models.Disconnected))
	return s
}

// On registers handler for eventType. The returned func removes it and is
// safe to call more than once.
func (s *ProcessingSocket) On(eventType models.SocketEventType, handler Handler) func() {
	id := s.nextID.Inc()

	s.mu.Lock()
	if s.handlers[eventType] == nil {
		s.handlers[eventType] = make(map[uint64]Handler)
	}
	s.handlers[eventType][id] = handler
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.handlers[eventType], id)
	}
}

func (s *ProcessingSocket) State() models.ConnectionState {
	return models.ConnectionState(s.state.Load())
}

func (s *ProcessingSocket) setState(state models.ConnectionState) {
	if s.state.Swap(string(state)) == string(state) {
		return
	}
	s.logger.Infof(providers.TypeSocket, "connection %s", state)
	s.emit(models.ConnectionChanged{State: state})
}

func (s *ProcessingSocket) emit(event models.SocketEvent) {
	s.mu.RLock()
	registered := s.handlers[event.EventType()]
	handlers := make([]Handler, 0, len(registered))
	for _, h := range registered {
		handlers = append(handlers, h)
	}
	s.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}

func (s *ProcessingSocket) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if s.initialBackoff > 0 {
		b.InitialInterval = s.initialBackoff
	}
	if s.maxBackoff > 0 {
		b.MaxInterval = s.maxBackoff
	}
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Run keeps the connection alive until ctx is done. A dropped connection is
// a status change, not an error; Run only returns ctx.Err().
func (s *ProcessingSocket) Run(ctx context.Context) error {
	b := s.newBackOff()
	defer s.setState(models.Disconnected)

	for {
		s.setState(models.Connecting)
		conn, _, err := s.dialer.DialContext(ctx, s.url, s.header)
		if err == nil {
			b.Reset()
			s.setState(models.Connected)
			err = s.readLoop(ctx, conn)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.setState(models.Disconnected)

		wait := b.NextBackOff()
		s.logger.Warnf(providers.TypeSocket, "socket error, reconnecting in %s: %v", wait, err)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (s *ProcessingSocket) readLoop(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			_ = conn.Close()
		case <-done:
			_ = conn.Close()
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read frame: %w", err)
		}
		if messageType != websocket.TextMessage {
			continue
		}
		s.handleFrame(data)
	}
}

// handleFrame decodes one frame. Frames that do not decode, unknown types
// included, are logged and dropped.
func (s *ProcessingSocket) handleFrame(data []byte) {
	event, err := models.DecodeSocketEvent(data)
	if err != nil {
		s.metrics.IncSocketFrames(invalidFrame)
		s.logger.Warnf(providers.TypeSocket, "dropping frame %s: %v",
			truncate.Truncate(fmt.Sprintf("%q", data), frameLogLength, "...", truncate.PositionMiddle), err)
		return
	}
	s.metrics.IncSocketFrames(string(event.EventType()))
	s.logger.Debugf(providers.TypeSocket, "received %s frame", event.EventType())
	s.emit(event)
}
