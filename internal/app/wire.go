package app

import (
	"github.com/prometheus/client_golang/prometheus"

	"peerlink/internal/domain"
	"peerlink/internal/protocol/handshake"
	"peerlink/internal/relay"
)

// ClientWire bundles what cmd/peerlink needs to drive one handshake.
type ClientWire struct {
	Config ClientConfig
	Logger Logger
}

// NewClientWire builds a ClientWire from cfg. A nil logger defaults to a
// plain stderr logger.
func NewClientWire(cfg ClientConfig, logger Logger) *ClientWire {
	if logger == nil {
		logger = NewStdLogger("peerlink")
	}
	return &ClientWire{Config: cfg, Logger: logger}
}

// NewAuthenticator returns an Authenticator configured from w.Config, ready
// for Start.
func (w *ClientWire) NewAuthenticator() *handshake.Authenticator {
	auth := handshake.New()
	auth.SetLogger(w.Logger)
	auth.SetIdentify(w.Config.Identify)
	if w.Config.HasPeerKey {
		auth.SetPeerPublicKey(w.Config.PeerPublicKey)
	}
	if w.Config.Identify == domain.IdentifySRP {
		auth.SetUsername(w.Config.Username)
		auth.SetPassword(w.Config.Password)
	}
	auth.SetSessionType(w.Config.SessionType)
	return auth
}

// RelayWire bundles what cmd/relayd needs to accept and splice sessions.
type RelayWire struct {
	Config  RelayConfig
	Logger  Logger
	Metrics *relay.Metrics
}

// NewRelayWire builds a RelayWire from cfg, registering metrics against reg
// (nil is fine; metrics are then collected but not exported).
func NewRelayWire(cfg RelayConfig, logger Logger, reg prometheus.Registerer) *RelayWire {
	if logger == nil {
		logger = NewStdLogger("relayd")
	}
	return &RelayWire{
		Config:  cfg,
		Logger:  logger,
		Metrics: relay.NewMetrics(reg),
	}
}

// NewSession splices a and b, instrumented with w.Metrics.
func (w *RelayWire) NewSession(a, b relay.Side) *relay.Session {
	return relay.NewWithMetrics(a, b, w.Metrics)
}
