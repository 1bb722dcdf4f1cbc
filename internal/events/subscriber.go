// Package events subscribes to the notification service's push stream and dispatches named
// events to registered listeners.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/client"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
	"github.com/sagar-developer08/admin-ecom-sub000/internal/pkg/metrics"
)

// Event names published by the notification service
const (
	EventNotification = "notification"
	EventUnreadCount  = "unread_count"
	EventTicketReply  = "ticket_reply"
	EventVendorSignup = "vendor_signup"
	EventOrderPlaced  = "order_placed"
)

// AnyEvent receives every event, after the event's own listeners
const AnyEvent = "*"

var (
	// ErrAlreadyRunning is returned when Run is called on a subscriber that is already connected
	ErrAlreadyRunning = errors.New("subscriber already running")

	// ErrUnauthorized is returned when the stream rejects the session token. Not retried.
	ErrUnauthorized = errors.New("notification stream rejected credentials")
)

// Handler receives one stream event
type Handler func(event entities.StreamEvent)

// Subscriber holds a single push connection and fans events out to listeners
type Subscriber struct {
	url            string
	tokenManager   client.TokenManager
	dialer         *websocket.Dialer
	bus            evbus.Bus
	log            *slog.Logger
	reconnectDelay time.Duration
	maxDelay       time.Duration
	pingInterval   time.Duration

	running atomic.Bool
	mu      sync.Mutex
	conn    *websocket.Conn
}

// Option configures a Subscriber
type Option func(*Subscriber)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Subscriber) {
		if logger != nil {
			s.log = logger
		}
	}
}

// WithDialer sets the websocket dialer
func WithDialer(d *websocket.Dialer) Option {
	return func(s *Subscriber) {
		if d != nil {
			s.dialer = d
		}
	}
}

// WithReconnectDelay sets the initial and maximum delay between reconnect attempts
func WithReconnectDelay(initial, max time.Duration) Option {
	return func(s *Subscriber) {
		s.reconnectDelay = initial
		s.maxDelay = max
	}
}

// WithPingInterval sets how often keepalive pings are sent; 0 disables them
func WithPingInterval(d time.Duration) Option {
	return func(s *Subscriber) {
		s.pingInterval = d
	}
}

// NewSubscriber creates a subscriber for the stream at url. The token manager may be nil.
func NewSubscriber(url string, tokenManager client.TokenManager, opts ...Option) *Subscriber {
	s := &Subscriber{
		url:            url,
		tokenManager:   tokenManager,
		dialer:         &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		bus:            evbus.New(),
		log:            slog.Default(),
		reconnectDelay: time.Second,
		maxDelay:       30 * time.Second,
		pingInterval:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(slog.String("component", "event-subscriber"))
	return s
}

// On registers a listener for a named event (or AnyEvent)
func (s *Subscriber) On(event string, h Handler) error {
	if h == nil {
		return errors.New("handler is nil")
	}
	if err := s.bus.Subscribe(event, h); err != nil {
		return fmt.Errorf("failed to subscribe to %q: %w", event, err)
	}
	return nil
}

// Off removes a listener previously registered with On
func (s *Subscriber) Off(event string, h Handler) error {
	if err := s.bus.Unsubscribe(event, h); err != nil {
		return fmt.Errorf("failed to unsubscribe from %q: %w", event, err)
	}
	return nil
}

// Dispatch delivers an event to its listeners. Used by the read loop; exported for hosts that
// receive events another way.
func (s *Subscriber) Dispatch(ev entities.StreamEvent) {
	delivered := false
	if ev.Event != "" && ev.Event != AnyEvent && s.bus.HasCallback(ev.Event) {
		s.bus.Publish(ev.Event, ev)
		delivered = true
	}
	if s.bus.HasCallback(AnyEvent) {
		s.bus.Publish(AnyEvent, ev)
		delivered = true
	}
	metrics.RecordEvent(ev.Event, delivered)
	if !delivered {
		s.log.Debug("no listener for event", slog.String("event", ev.Event))
	}
}

// Run keeps the stream connected until ctx is done, reconnecting with exponential backoff.
// Returns nil on cancellation, ErrUnauthorized when the stream rejects the token.
func (s *Subscriber) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	delay := s.reconnectDelay
	for {
		connected, err := s.connectAndRead(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, ErrUnauthorized) {
			return err
		}
		if connected {
			delay = s.reconnectDelay
		}

		s.log.Warn("notification stream disconnected, reconnecting",
			slog.String("error", errString(err)),
			slog.Duration("delay", delay))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}

		delay *= 2
		if s.maxDelay > 0 && delay > s.maxDelay {
			delay = s.maxDelay
		}
	}
}

// Close drops the current connection. Run reconnects unless its context is done.
func (s *Subscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// connectAndRead dials once and reads until the connection fails.
// The bool reports whether the handshake succeeded.
func (s *Subscriber) connectAndRead(ctx context.Context) (bool, error) {
	connID := uuid.New().String()
	header := http.Header{}
	header.Set("X-Connection-ID", connID)
	if token := s.token(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := s.dialer.DialContext(ctx, s.url, header)
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return false, ErrUnauthorized
		}
		return false, fmt.Errorf("failed to connect to notification stream: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	metrics.StreamConnected.Set(1)
	defer func() {
		metrics.StreamConnected.Set(0)
		_ = s.Close()
	}()

	log := s.log.With(slog.String("connection_id", connID))
	log.Info("connected to notification stream", slog.String("url", s.url))

	// Unblock ReadMessage when the context ends
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	if s.pingInterval > 0 {
		go s.keepalive(conn, done, log)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return true, err
		}

		var ev entities.StreamEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			log.Warn("ignoring malformed stream message", slog.String("error", err.Error()))
			continue
		}
		s.Dispatch(ev)
	}
}

func (s *Subscriber) keepalive(conn *websocket.Conn, done <-chan struct{}, log *slog.Logger) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				log.Debug("keepalive ping failed", slog.String("error", err.Error()))
				return
			}
		}
	}
}

func (s *Subscriber) token() string {
	if s.tokenManager == nil {
		return ""
	}
	token, err := s.tokenManager.GetToken()
	if err != nil || token == nil {
		return ""
	}
	return token.AccessToken
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
