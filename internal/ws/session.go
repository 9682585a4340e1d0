// Package ws owns the lifecycle of a single WebSocket connection: a welcome
// frame, then a read loop that echoes text frames until the peer leaves.
package ws

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/iliyamo/colabri-doc/internal/logging"
	"github.com/iliyamo/colabri-doc/internal/metrics"
	"github.com/iliyamo/colabri-doc/internal/model"
)

// State is the position of a session in its Connecting → Open → Closed lifecycle.
type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

const closeWriteTimeout = time.Second

var (
	// ErrSessionStarted is returned when Run is called on a session that already left Connecting.
	ErrSessionStarted = errors.New("session already started")
	// ErrBinaryFrame is returned when the peer sent a binary frame; only text is echoed.
	ErrBinaryFrame = errors.New("binary frames are not supported")
)

// Conn is the part of *websocket.Conn a session needs.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Session is one upgraded connection. It holds no state beyond the
// connection itself and is discarded once Closed.
type Session struct {
	id      string
	conn    Conn
	state   atomic.Int32
	once    sync.Once
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewSession wraps an upgraded connection. m may be nil.
func NewSession(conn Conn, m *metrics.Metrics) *Session {
	id := uuid.NewString()
	return &Session{
		id:      id,
		conn:    conn,
		log:     logging.WithConnection(id),
		metrics: m,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State { return State(s.state.Load()) }

// Run sends the welcome frame and echoes text frames until the peer closes
// or the transport fails. It blocks the calling goroutine for the lifetime of
// the connection and always leaves the session Closed. A normal close by
// either side returns nil.
func (s *Session) Run() error {
	if !s.state.CompareAndSwap(int32(StateConnecting), int32(StateOpen)) {
		return ErrSessionStarted
	}
	s.metrics.SessionOpened()
	s.log.Info("WebSocket connection established")

	if err := s.conn.WriteMessage(websocket.TextMessage, []byte(model.WelcomeMessage)); err != nil {
		s.close(0, "")
		return fmt.Errorf("send welcome: %w", err)
	}

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			return s.finish(err)
		}

		switch messageType {
		case websocket.TextMessage:
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.close(0, "")
				return fmt.Errorf("echo: %w", err)
			}
			s.metrics.MessageEchoed()
		case websocket.BinaryMessage:
			s.log.Warn("Rejecting binary frame", "bytes", len(data))
			s.metrics.FrameRejected("binary")
			s.close(websocket.CloseUnsupportedData, ErrBinaryFrame.Error())
			return ErrBinaryFrame
		}
	}
}

// Close ends the session from the server side with a going-away close frame.
// It is safe to call concurrently with Run and more than once.
func (s *Session) Close() {
	s.close(websocket.CloseGoingAway, "server closing connection")
}

// finish maps the error that ended the read loop to Run's result.
func (s *Session) finish(err error) error {
	if s.State() == StateClosed {
		// closed locally; the read error is the consequence, not the cause
		return nil
	}

	switch {
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived):
		s.log.Info("Client closed WebSocket connection", "reason", err)
		s.close(0, "")
		return nil
	case errors.Is(err, websocket.ErrReadLimit):
		s.log.Warn("WebSocket frame exceeded read limit")
		s.metrics.FrameRejected("too_large")
		s.close(websocket.CloseMessageTooBig, "message too large")
		return fmt.Errorf("read: %w", err)
	default:
		s.log.Warn("WebSocket read failed", "error", err)
		s.close(0, "")
		return fmt.Errorf("read: %w", err)
	}
}

// close is the single terminal transition. A non-zero code sends a close
// frame first; the underlying connection is released either way.
func (s *Session) close(code int, reason string) {
	s.once.Do(func() {
		prev := State(s.state.Swap(int32(StateClosed)))
		if code != 0 && prev == StateOpen {
			msg := websocket.FormatCloseMessage(code, reason)
			if err := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWriteTimeout)); err != nil {
				s.log.Debug("Failed to send close frame", "error", err)
			}
		}
		if err := s.conn.Close(); err != nil {
			s.log.Debug("Failed to close connection", "error", err)
		}
		if prev == StateOpen {
			s.metrics.SessionClosed()
		}
		s.log.Info("WebSocket connection terminated")
	})
}
