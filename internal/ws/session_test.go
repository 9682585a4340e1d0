package ws

import (
	"encoding/binary"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/colabri-doc/internal/metrics"
	"github.com/iliyamo/colabri-doc/internal/model"
)

type frame struct {
	typ  int
	data []byte
	err  error
}

// fakeConn replays a scripted sequence of inbound frames. Once the script
// runs out it reports a normal close from the peer.
type fakeConn struct {
	mu       sync.Mutex
	in       []frame
	written  []frame
	controls []frame
	closed   int
	writeErr error
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.in) == 0 {
		return 0, nil, &websocket.CloseError{Code: websocket.CloseNormalClosure}
	}
	fr := f.in[0]
	f.in = f.in[1:]
	return fr.typ, fr.data, fr.err
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = append(f.written, frame{typ: messageType, data: append([]byte(nil), data...)})
	return nil
}

func (f *fakeConn) WriteControl(messageType int, data []byte, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.controls = append(f.controls, frame{typ: messageType, data: data})
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeConn) texts() []string {
	out := make([]string, 0, len(f.written))
	for _, w := range f.written {
		out = append(out, string(w.data))
	}
	return out
}

func closeCode(t *testing.T, fr frame) int {
	t.Helper()
	require.Equal(t, websocket.CloseMessage, fr.typ)
	require.GreaterOrEqual(t, len(fr.data), 2)
	return int(binary.BigEndian.Uint16(fr.data[:2]))
}

func text(s string) frame { return frame{typ: websocket.TextMessage, data: []byte(s)} }

func TestRun_WelcomeThenEchoInOrder(t *testing.T) {
	conn := &fakeConn{in: []frame{text("one"), text("two"), text(""), text("héllo ✓")}}
	m := metrics.New()
	s := NewSession(conn, m)
	assert.Equal(t, StateConnecting, s.State())

	err := s.Run()

	require.NoError(t, err)
	assert.Equal(t, []string{model.WelcomeMessage, "one", "two", "", "héllo ✓"}, conn.texts())
	for _, w := range conn.written {
		assert.Equal(t, websocket.TextMessage, w.typ)
	}
	assert.Equal(t, StateClosed, s.State())
	assert.Equal(t, 1, conn.closed)
	assert.Empty(t, conn.controls, "peer initiated close needs no extra frame")

	assert.InDelta(t, 1, testutil.ToFloat64(m.WebSocketSessions), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.WebSocketActive), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(m.WebSocketEchoed), 0)
}

func TestRun_WelcomeOnlyWhenPeerClosesImmediately(t *testing.T) {
	conn := &fakeConn{}
	s := NewSession(conn, nil)

	require.NoError(t, s.Run())
	assert.Equal(t, []string{model.WelcomeMessage}, conn.texts())
	assert.Equal(t, StateClosed, s.State())
}

func TestRun_PeerGoingAwayIsNormal(t *testing.T) {
	conn := &fakeConn{in: []frame{
		text("a"),
		{err: &websocket.CloseError{Code: websocket.CloseGoingAway}},
		text("never read"),
	}}
	s := NewSession(conn, nil)

	require.NoError(t, s.Run())
	assert.Equal(t, []string{model.WelcomeMessage, "a"}, conn.texts())
}

func TestRun_BinaryFrameRejected(t *testing.T) {
	conn := &fakeConn{in: []frame{
		text("before"),
		{typ: websocket.BinaryMessage, data: []byte{0x01, 0x02}},
		text("after"),
	}}
	m := metrics.New()
	s := NewSession(conn, m)

	err := s.Run()

	require.ErrorIs(t, err, ErrBinaryFrame)
	assert.Equal(t, []string{model.WelcomeMessage, "before"}, conn.texts())
	require.Len(t, conn.controls, 1)
	assert.Equal(t, websocket.CloseUnsupportedData, closeCode(t, conn.controls[0]))
	assert.Equal(t, StateClosed, s.State())
	assert.InDelta(t, 1, testutil.ToFloat64(m.WebSocketRejected.WithLabelValues("binary")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.WebSocketActive), 0)
}

func TestRun_ReadLimitClosesWithTooBig(t *testing.T) {
	conn := &fakeConn{in: []frame{{err: websocket.ErrReadLimit}}}
	s := NewSession(conn, nil)

	err := s.Run()

	require.ErrorIs(t, err, websocket.ErrReadLimit)
	require.Len(t, conn.controls, 1)
	assert.Equal(t, websocket.CloseMessageTooBig, closeCode(t, conn.controls[0]))
	assert.Equal(t, StateClosed, s.State())
}

func TestRun_TransportErrorTearsDown(t *testing.T) {
	conn := &fakeConn{in: []frame{text("x"), {err: io.ErrUnexpectedEOF}}}
	s := NewSession(conn, nil)

	err := s.Run()

	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, StateClosed, s.State())
	assert.Equal(t, 1, conn.closed)
	assert.Empty(t, conn.controls)
}

func TestRun_WelcomeWriteFailure(t *testing.T) {
	conn := &fakeConn{writeErr: errors.New("broken pipe")}
	s := NewSession(conn, nil)

	err := s.Run()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "send welcome")
	assert.Equal(t, StateClosed, s.State())
	assert.Equal(t, 1, conn.closed)
}

func TestRun_OnlyOnce(t *testing.T) {
	s := NewSession(&fakeConn{}, nil)
	require.NoError(t, s.Run())
	assert.ErrorIs(t, s.Run(), ErrSessionStarted)
}

func TestClose_BeforeRun(t *testing.T) {
	conn := &fakeConn{}
	m := metrics.New()
	s := NewSession(conn, m)

	s.Close()
	s.Close()

	assert.Equal(t, StateClosed, s.State())
	assert.Equal(t, 1, conn.closed)
	assert.Empty(t, conn.controls, "nothing to tell a peer that never opened")
	assert.ErrorIs(t, s.Run(), ErrSessionStarted)
	assert.InDelta(t, 0, testutil.ToFloat64(m.WebSocketSessions), 0)
}

func TestNewSession_UniqueIDs(t *testing.T) {
	a := NewSession(&fakeConn{}, nil)
	b := NewSession(&fakeConn{}, nil)
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "state(9)", State(9).String())
}
