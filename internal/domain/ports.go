package domain

import (
	"context"
	"errors"
)

// ErrConnClosed is returned by a Conn whose underlying transport has been
// closed, either locally or by the peer.
var ErrConnClosed = errors.New("connection closed")

// Publisher defines the interface for delivering a message to the broker.
// This abstracts away the specific transport (e.g. Kafka).
type Publisher interface {
	// Publish sends one key/value record and blocks until the broker has
	// confirmed delivery or an error occurs.
	Publish(ctx context.Context, key, value []byte) error
}

// Conn is a single persistent outbound connection to the ingestion endpoint.
// A Conn is owned by exactly one worker and is never shared.
type Conn interface {
	// Send transmits one text frame. A failed send leaves the connection
	// unusable; callers should close it and dial a new one.
	Send(ctx context.Context, payload []byte) error

	// Close tears the connection down. It is safe to call more than once.
	Close() error
}

// Dialer establishes outbound connections to the ingestion endpoint.
type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}
