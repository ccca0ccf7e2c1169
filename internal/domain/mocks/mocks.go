package mocks

import (
	"context"
	"sync"

	"github.com/user/stream-harness/internal/domain"
)

// PublishedRecord captures one call to MockPublisher.Publish.
type PublishedRecord struct {
	Key   []byte
	Value []byte
}

// MockPublisher is a mock implementation of domain.Publisher for testing.
type MockPublisher struct {
	mu         sync.Mutex
	Published  []PublishedRecord
	PublishErr error
}

func (m *MockPublisher) Publish(ctx context.Context, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PublishErr != nil {
		return m.PublishErr
	}
	k := append([]byte(nil), key...)
	v := append([]byte(nil), value...)
	m.Published = append(m.Published, PublishedRecord{Key: k, Value: v})
	return nil
}

// Records returns a copy of everything published so far.
func (m *MockPublisher) Records() []PublishedRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedRecord, len(m.Published))
	copy(out, m.Published)
	return out
}

// MockConn is a mock implementation of domain.Conn. SendErrs are consumed
// one per Send call; a nil entry means that send succeeds.
type MockConn struct {
	mu       sync.Mutex
	Sent     [][]byte
	Attempts [][]byte
	SendErrs []error
	Closed   bool
}

func (m *MockConn) Send(ctx context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := append([]byte(nil), payload...)
	m.Attempts = append(m.Attempts, p)
	if len(m.SendErrs) > 0 {
		err := m.SendErrs[0]
		m.SendErrs = m.SendErrs[1:]
		if err != nil {
			return err
		}
	}
	m.Sent = append(m.Sent, p)
	return nil
}

func (m *MockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// SentPayloads returns a copy of the successfully sent frames.
func (m *MockConn) SentPayloads() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.Sent))
	copy(out, m.Sent)
	return out
}

// MockDialer is a mock implementation of domain.Dialer. Each Dial returns
// the next conn from Conns; when Conns is exhausted it returns fresh empty
// MockConns. DialErrs are consumed one per call ahead of Conns.
type MockDialer struct {
	mu       sync.Mutex
	Conns    []*MockConn
	DialErrs []error
	Dialed   []*MockConn
}

func (m *MockDialer) Dial(ctx context.Context) (domain.Conn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.DialErrs) > 0 {
		err := m.DialErrs[0]
		m.DialErrs = m.DialErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	var conn *MockConn
	if len(m.Conns) > 0 {
		conn = m.Conns[0]
		m.Conns = m.Conns[1:]
	} else {
		conn = &MockConn{}
	}
	m.Dialed = append(m.Dialed, conn)
	return conn, nil
}

// DialedConns returns every conn handed out so far.
func (m *MockDialer) DialedConns() []*MockConn {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*MockConn, len(m.Dialed))
	copy(out, m.Dialed)
	return out
}
