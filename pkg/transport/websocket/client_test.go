package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{}

func newServer(t *testing.T, handler func(ws *websocket.Conn)) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer ws.Close()
		handler(ws)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func newDialer() *Dialer {
	return NewDialer(Config{
		HandshakeTimeout: time.Second,
		CloseGrace:       200 * time.Millisecond,
		Logger:           zerolog.Nop(),
	})
}

func TestConn_SubscribeAndReceive(t *testing.T) {
	url := newServer(t, func(ws *websocket.Conn) {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			return
		}
		_ = ws.WriteMessage(websocket.TextMessage, []byte("ack:"+string(msg)))
		_ = ws.WriteMessage(websocket.BinaryMessage, []byte{0x01})
		_ = ws.WriteMessage(websocket.TextMessage, []byte(`{"p":"1"}`))
		// Drain until the client closes
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := newDialer().Dial(ctx, url)
	require.NoError(t, err)
	require.NoError(t, conn.Send(ctx, `{"op":"subscribe"}`))

	var got []string
	for len(got) < 2 {
		select {
		case f := <-conn.Frames():
			got = append(got, f)
		case <-ctx.Done():
			t.Fatal("timed out waiting for frames")
		}
	}
	assert.Equal(t, []string{`ack:{"op":"subscribe"}`, `{"p":"1"}`}, got)

	require.NoError(t, conn.Close(ctx))
	assert.ErrorIs(t, conn.Send(ctx, "late"), ErrClosed)

	// Second close is a no-op
	assert.NoError(t, conn.Close(ctx))
}

func TestConn_CloseIsBoundedWhenPeerIgnoresIt(t *testing.T) {
	release := make(chan struct{})
	url := newServer(t, func(ws *websocket.Conn) {
		// Never read, so the close frame is never answered
		<-release
	})
	t.Cleanup(func() { close(release) })

	conn, err := newDialer().Dial(context.Background(), url)
	require.NoError(t, err)

	start := time.Now()
	_ = conn.Close(context.Background())
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 150*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)

	select {
	case _, ok := <-conn.Frames():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("frames channel not closed after forced close")
	}
}

func TestConn_CloseHonoursContextDeadline(t *testing.T) {
	release := make(chan struct{})
	url := newServer(t, func(ws *websocket.Conn) { <-release })
	t.Cleanup(func() { close(release) })

	d := NewDialer(Config{CloseGrace: time.Minute, Logger: zerolog.Nop()})
	conn, err := d.Dial(context.Background(), url)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_ = conn.Close(ctx)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestConn_FarEndClose(t *testing.T) {
	url := newServer(t, func(ws *websocket.Conn) {
		_ = ws.WriteMessage(websocket.TextMessage, []byte("last"))
		_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	})

	conn, err := newDialer().Dial(context.Background(), url)
	require.NoError(t, err)
	defer conn.Close(context.Background())

	var got []string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case f, ok := <-conn.Frames():
			if !ok {
				assert.Equal(t, []string{"last"}, got)
				return
			}
			got = append(got, f)
		case <-timeout:
			t.Fatal("frames channel not closed after far-end close")
		}
	}
}

func TestDial_Failure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := newDialer().Dial(context.Background(), "ws"+strings.TrimPrefix(srv.URL, "http"))
	assert.ErrorIs(t, err, ErrDial)

	_, err = newDialer().Dial(context.Background(), "ws://127.0.0.1:1/unreachable")
	assert.ErrorIs(t, err, ErrDial)
}
