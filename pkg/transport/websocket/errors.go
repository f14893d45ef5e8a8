// Package websocket implements the session transport over gorilla/websocket.
package websocket

import "errors"

var (
	// ErrClosed indicates a send on a connection that is already closing.
	ErrClosed = errors.New("connection closed")
	// ErrDial indicates that the websocket handshake failed.
	ErrDial = errors.New("websocket dial failed")
)
