package relay_test

import (
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"peerlink/internal/relay"
)

func newTestRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	return prometheus.NewRegistry()
}

type countingDelegate struct {
	mu       sync.Mutex
	finishes int
}

func (d *countingDelegate) OnSessionFinished(*relay.Session) {
	d.mu.Lock()
	d.finishes++
	d.mu.Unlock()
}

func (d *countingDelegate) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.finishes
}

// TestSessionRelaysBytesFaithfully sends distinct payload sizes in each
// direction and checks BytesTransferred accounts for both, read-side only.
func TestSessionRelaysBytesFaithfully(t *testing.T) {
	aLocal, aRemote := net.Pipe()
	bLocal, bRemote := net.Pipe()

	s := relay.New(aRemote, bRemote)
	delegate := &countingDelegate{}
	s.Start(delegate)

	const (
		toB = 10 * 1024 * 1024
		toA = 3 * 1024 * 1024
	)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		buf := make([]byte, toB)
		io.ReadFull(bLocal, buf)
	}()
	go func() {
		defer wg.Done()
		buf := make([]byte, toA)
		io.ReadFull(aLocal, buf)
	}()

	go func() {
		aLocal.Write(make([]byte, toB))
	}()
	go func() {
		bLocal.Write(make([]byte, toA))
	}()

	wg.Wait()

	if got, want := s.BytesTransferred(), int64(toA+toB); got != want {
		t.Fatalf("BytesTransferred() = %d, want %d", got, want)
	}
	if s.Duration() <= 0 {
		t.Fatalf("Duration() should be positive after Start")
	}

	s.Stop()
	aLocal.Close()
	bLocal.Close()
}

// TestSessionStopIsIdempotentAndFinishesOnce drives a real read error on one
// side and checks the delegate fires exactly once even though both pump
// goroutines may observe failures once the peer closes.
func TestSessionStopIsIdempotentAndFinishesOnce(t *testing.T) {
	aLocal, aRemote := net.Pipe()
	bLocal, bRemote := net.Pipe()
	defer bLocal.Close()

	s := relay.New(aRemote, bRemote)
	delegate := &countingDelegate{}
	s.Start(delegate)

	aLocal.Close()

	deadline := time.After(2 * time.Second)
	for delegate.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for OnSessionFinished")
		case <-time.After(time.Millisecond):
		}
	}

	// Concurrent, repeated Stop calls must not change the finish count or
	// panic on a double-close.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Stop()
		}()
	}
	wg.Wait()

	time.Sleep(10 * time.Millisecond)
	if got := delegate.count(); got != 1 {
		t.Fatalf("OnSessionFinished invoked %d times, want 1", got)
	}
}

// TestSessionStopBeforeAnyIOIsSilent checks that an explicit Stop with no
// traffic in flight never invokes the delegate ("operation aborted" is not
// a reportable failure).
func TestSessionStopBeforeAnyIOIsSilent(t *testing.T) {
	_, aRemote := net.Pipe()
	_, bRemote := net.Pipe()

	s := relay.New(aRemote, bRemote)
	delegate := &countingDelegate{}
	s.Start(delegate)

	s.Stop()
	time.Sleep(10 * time.Millisecond)

	if got := delegate.count(); got != 0 {
		t.Fatalf("OnSessionFinished invoked %d times, want 0 for a self-initiated stop", got)
	}
}

// TestSessionMetrics relays a transfer through a session built with
// NewWithMetrics and checks its BytesTransferred count; the Prometheus
// collectors themselves are not inspected.
func TestSessionMetrics(t *testing.T) {
	reg := newTestRegistry(t)
	m := relay.NewMetrics(reg)

	aLocal, aRemote := net.Pipe()
	bLocal, bRemote := net.Pipe()

	s := relay.NewWithMetrics(aRemote, bRemote, m)
	delegate := &countingDelegate{}
	s.Start(delegate)

	var sent int64 = 4096
	done := make(chan struct{})
	go func() {
		buf := make([]byte, sent)
		io.ReadFull(bLocal, buf)
		close(done)
	}()
	aLocal.Write(make([]byte, sent))
	<-done

	if got := s.BytesTransferred(); got != sent {
		t.Fatalf("BytesTransferred() = %d, want %d", got, sent)
	}

	s.Stop()
	aLocal.Close()
	bLocal.Close()
}
