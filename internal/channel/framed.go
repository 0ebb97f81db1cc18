package channel

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"peerlink/internal/domain"
)

// maxFrameSize bounds a single message so a malformed length prefix can't
// make the read loop allocate without limit.
const maxFrameSize = 1 << 24 // 16 MiB

// FramedChannel is a domain.MessageChannel over a net.Conn using a 4-byte
// big-endian length prefix per message.
type FramedChannel struct {
	conn net.Conn

	mu        sync.Mutex
	listener  domain.ChannelListener
	encryptor domain.Encryptor
	decryptor domain.Decryptor

	pauseMu sync.Mutex
	pauseCV *sync.Cond
	paused  bool

	writeMu sync.Mutex
	closeMu sync.Mutex
	closed  bool

	detachMu     sync.Mutex
	detached     bool
	readLoopDone chan struct{}
}

var _ domain.MessageChannel = (*FramedChannel)(nil)

// New wraps conn in a FramedChannel and starts its background read loop.
// conn must already be connected; New never blocks.
func New(conn net.Conn) *FramedChannel {
	c := &FramedChannel{conn: conn, readLoopDone: make(chan struct{})}
	c.pauseCV = sync.NewCond(&c.pauseMu)
	go c.readLoop()
	return c
}

// Detach stops the frame read loop and hands back the raw net.Conn, for
// callers that take ownership of the socket after a successful handshake
// (for example to splice it into a relay.Session). It blocks until the read
// loop has actually stopped so the caller never races it for the socket.
func (c *FramedChannel) Detach() net.Conn {
	c.detachMu.Lock()
	c.detached = true
	c.detachMu.Unlock()

	// Unblock whatever Read the loop is parked in; readLoop sees c.detached
	// and exits instead of treating the deadline error as a disconnect.
	_ = c.conn.SetReadDeadline(time.Now())
	<-c.readLoopDone
	_ = c.conn.SetReadDeadline(time.Time{})

	return c.conn
}

func (c *FramedChannel) SetListener(l domain.ChannelListener) {
	c.mu.Lock()
	c.listener = l
	c.mu.Unlock()
	if l != nil {
		l.OnConnected()
	}
}

func (c *FramedChannel) SetEncryptor(e domain.Encryptor) {
	c.mu.Lock()
	c.encryptor = e
	c.mu.Unlock()
}

func (c *FramedChannel) SetDecryptor(d domain.Decryptor) {
	c.mu.Lock()
	c.decryptor = d
	c.mu.Unlock()
}

// Pause stops messages from reaching the listener until Resume is called.
// The read loop finishes reading the frame in progress and then blocks
// before delivering it; no further frames are read while paused.
func (c *FramedChannel) Pause() {
	c.pauseMu.Lock()
	c.paused = true
	c.pauseMu.Unlock()
}

func (c *FramedChannel) Resume() {
	c.pauseMu.Lock()
	c.paused = false
	c.pauseMu.Unlock()
	c.pauseCV.Broadcast()
}

func (c *FramedChannel) waitWhilePaused() {
	c.pauseMu.Lock()
	for c.paused {
		c.pauseCV.Wait()
	}
	c.pauseMu.Unlock()
}

// Send seals data with the installed encryptor (if any) and writes one
// length-prefixed frame.
func (c *FramedChannel) Send(data []byte) error {
	c.mu.Lock()
	enc := c.encryptor
	c.mu.Unlock()

	if enc != nil {
		sealed, err := enc.Seal(data)
		if err != nil {
			return err
		}
		data = sealed
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(data)))
	if _, err := c.conn.Write(header[:]); err != nil {
		return err
	}
	if _, err := c.conn.Write(data); err != nil {
		return err
	}

	c.mu.Lock()
	l := c.listener
	c.mu.Unlock()
	if l != nil {
		l.OnMessageWritten(0)
	}
	return nil
}

// readLoop reads directly off c.conn rather than through a bufio.Reader: a
// buffered reader can read ahead past the final frame of the handshake,
// stranding bytes that belong to whatever Detach hands the connection to
// next (a relay.Session splice).
func (c *FramedChannel) readLoop() {
	defer close(c.readLoopDone)

	for {
		var header [4]byte
		if _, err := io.ReadFull(c.conn, header[:]); err != nil {
			if c.isDetached() {
				return
			}
			c.shutdown(err)
			return
		}
		n := binary.BigEndian.Uint32(header[:])
		if n > maxFrameSize {
			c.shutdown(errors.New("channel: frame exceeds maximum size"))
			return
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(c.conn, buf); err != nil {
			if c.isDetached() {
				return
			}
			c.shutdown(err)
			return
		}

		c.waitWhilePaused()

		c.mu.Lock()
		dec := c.decryptor
		l := c.listener
		c.mu.Unlock()

		if dec != nil {
			plain, err := dec.Open(buf)
			if err != nil {
				c.shutdown(err)
				return
			}
			buf = plain
		}
		if l != nil {
			l.OnMessageReceived(buf)
		}
	}
}

func (c *FramedChannel) isDetached() bool {
	c.detachMu.Lock()
	defer c.detachMu.Unlock()
	return c.detached
}

func (c *FramedChannel) shutdown(err error) {
	c.closeMu.Lock()
	already := c.closed
	c.closed = true
	c.closeMu.Unlock()
	if already {
		return
	}

	_ = c.conn.Close()
	c.mu.Lock()
	l := c.listener
	c.mu.Unlock()
	if l != nil {
		l.OnDisconnected(err)
	}
}
