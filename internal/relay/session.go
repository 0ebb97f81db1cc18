package relay

import (
	"sync"
	"sync/atomic"
	"time"
)

// readBufferSize is the fixed per-side read buffer, mirroring the
// original's fixed-size per-side buffer.
const readBufferSize = 64 * 1024

// Side is the minimal connection surface a Session splices. net.Conn
// satisfies it.
type Side interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// Delegate is notified once when a Session finishes, whether cleanly or on
// error.
type Delegate interface {
	OnSessionFinished(s *Session)
}

// Session splices two connected sides: bytes read from one are written to
// the other, in both directions concurrently, with cumulative byte and
// duration tracking.
type Session struct {
	sides [2]Side

	bytesTransferred int64 // atomic

	mu        sync.Mutex
	delegate  Delegate
	startTime time.Time

	stopOnce     sync.Once
	finishedOnce sync.Once

	metrics *Metrics
}

// New returns a Session ready to splice a and b. Call Start to begin.
func New(a, b Side) *Session {
	return &Session{sides: [2]Side{a, b}}
}

// NewWithMetrics is like New but publishes throughput to m.
func NewWithMetrics(a, b Side, m *Metrics) *Session {
	s := New(a, b)
	s.metrics = m
	return s
}

// Start records the start time and begins one outstanding read per side.
// Start does not block.
func (s *Session) Start(delegate Delegate) {
	s.mu.Lock()
	s.delegate = delegate
	s.startTime = time.Now()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.sessionsActive.Inc()
	}

	for i := range s.sides {
		go s.pump(i)
	}
}

// pump reads from sides[side] and writes each chunk to the opposite side,
// looping until Read or Write fails.
func (s *Session) pump(side int) {
	other := 1 - side
	buf := make([]byte, readBufferSize)

	for {
		n, readErr := s.sides[side].Read(buf)
		if n > 0 {
			atomic.AddInt64(&s.bytesTransferred, int64(n))
			if s.metrics != nil {
				s.metrics.bytesTransferred.Add(float64(n))
			}
			if _, err := s.sides[other].Write(buf[:n]); err != nil {
				s.fail(err)
				return
			}
		}
		if readErr != nil {
			s.fail(readErr)
			return
		}
	}
}

// fail reports err to the delegate at most once and stops the session. If
// the session was already stopped (delegate already cleared), fail is the
// "operation aborted" case and unwinds silently.
func (s *Session) fail(err error) {
	s.mu.Lock()
	delegate := s.delegate
	s.mu.Unlock()
	if delegate == nil {
		return
	}

	s.finishedOnce.Do(func() {
		delegate.OnSessionFinished(s)
	})
	s.Stop()
}

// Stop cancels both sides and drops the delegate. It is idempotent and safe
// to call concurrently with in-flight I/O.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.delegate = nil
		s.mu.Unlock()

		for _, side := range s.sides {
			_ = side.Close()
		}

		if s.metrics != nil {
			s.metrics.sessionsActive.Dec()
			s.metrics.sessionsFinished.Inc()
		}
	})
}

// Duration returns the time elapsed since Start. It returns 0 if Start has
// not been called.
func (s *Session) Duration() time.Duration {
	s.mu.Lock()
	start := s.startTime
	s.mu.Unlock()
	if start.IsZero() {
		return 0
	}
	return time.Since(start)
}

// BytesTransferred returns the cumulative bytes relayed, read-side
// accounting only so the same bytes are never counted twice.
func (s *Session) BytesTransferred() int64 {
	return atomic.LoadInt64(&s.bytesTransferred)
}
