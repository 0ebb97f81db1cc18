// Command relayd accepts pairs of already-authenticated TCP connections
// tagged with a shared session token and splices each pair together with
// internal/relay.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"peerlink/internal/app"
	"peerlink/internal/relay"
)

func main() {
	var (
		listenAddr  = flag.String("listen", ":9000", "address to accept relay connections on")
		metricsAddr = flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address")
		configPath  = flag.String("config", "", "optional TOML config file; flags override its values")
	)
	flag.Parse()

	cfg, err := app.LoadRelayConfigFile(*configPath)
	if err != nil {
		log.Fatalf("relayd: loading config: %v", err)
	}
	if isFlagSet("listen") || cfg.Listen == "" {
		cfg.Listen = *listenAddr
	}
	if isFlagSet("metrics-addr") || cfg.MetricsAddr == "" {
		cfg.MetricsAddr = *metricsAddr
	}

	logger := app.NewStdLogger("relayd")
	registry := prometheus.NewRegistry()
	wire := app.NewRelayWire(cfg, logger, registry)

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, registry, logger)
	}

	if err := serve(cfg.Listen, wire, logger); err != nil {
		log.Fatalf("relayd: %v", err)
	}
}

func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func serveMetrics(addr string, reg *prometheus.Registry, logger app.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	logger.Printf("metrics listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Printf("metrics server stopped: %v", err)
	}
}

// pairingDesk matches two inbound connections that present the same
// session token into one relay.Session. Each token is consumed on its
// second connection.
type pairingDesk struct {
	mu      sync.Mutex
	waiting map[string]net.Conn
}

func newPairingDesk() *pairingDesk {
	return &pairingDesk{waiting: make(map[string]net.Conn)}
}

// pair returns the other half of token's pairing, if one was already
// waiting, otherwise it registers conn as the one waiting and returns nil.
func (d *pairingDesk) pair(token string, conn net.Conn) net.Conn {
	d.mu.Lock()
	defer d.mu.Unlock()
	if other, ok := d.waiting[token]; ok {
		delete(d.waiting, token)
		return other
	}
	d.waiting[token] = conn
	return nil
}

func serve(addr string, wire *app.RelayWire, logger app.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	defer ln.Close()
	logger.Printf("listening on %s", addr)

	desk := newPairingDesk()
	for {
		conn, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("accept: %w", err)
		}
		go handleConn(conn, desk, wire, logger)
	}
}

// maxTokenLength bounds the session token line so a peer that never sends
// '\n' can't make readLine grow without limit.
const maxTokenLength = 256

// readLine reads a single newline-terminated line one byte at a time, so it
// never reads past the delimiter into bytes meant for the relay.Session.
func readLine(conn net.Conn) (string, error) {
	var line []byte
	var b [1]byte
	for len(line) < maxTokenLength {
		if _, err := conn.Read(b[:]); err != nil {
			return "", err
		}
		if b[0] == '\n' {
			return string(line), nil
		}
		line = append(line, b[0])
	}
	return "", fmt.Errorf("session token exceeds %d bytes", maxTokenLength)
}

// handleConn reads one newline-terminated session token from conn, then
// either starts a relay.Session with its pair or waits to be paired.
func handleConn(conn net.Conn, desk *pairingDesk, wire *app.RelayWire, logger app.Logger) {
	token, err := readLine(conn)
	if err != nil {
		logger.Printf("rejecting %s: reading session token: %v", conn.RemoteAddr(), err)
		_ = conn.Close()
		return
	}

	if other := desk.pair(token, conn); other != nil {
		logger.Printf("pairing session for token %q", token)
		session := wire.NewSession(other, conn)
		session.Start(&logDelegate{logger: logger})
	}
}

type logDelegate struct {
	logger app.Logger
}

func (d *logDelegate) OnSessionFinished(s *relay.Session) {
	d.logger.Printf("relay session finished: %d bytes over %s", s.BytesTransferred(), s.Duration())
}
