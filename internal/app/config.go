package app

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"peerlink/internal/domain"
)

// ClientConfig holds cmd/peerlink's dial-time options, sourced from flags.
type ClientConfig struct {
	Addr          string
	Identify      domain.IdentifyMode
	PeerPublicKey domain.X25519Public
	HasPeerKey    bool
	Username      string
	Password      string
	SessionType   domain.SessionType
	RelayTo       string
}

// RelayConfig holds cmd/relayd's listen-time options. Flags always win over
// whatever a TOML file sets.
type RelayConfig struct {
	Listen      string `toml:"listen"`
	MetricsAddr string `toml:"metrics_addr"`
}

// LoadRelayConfigFile parses a TOML file into a RelayConfig. An empty path
// is not an error; it returns a zero-value RelayConfig.
func LoadRelayConfigFile(path string) (RelayConfig, error) {
	var cfg RelayConfig
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	md, err := toml.Decode(string(b), &cfg)
	if err != nil {
		return cfg, err
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return cfg, fmt.Errorf("app: undecoded keys in relay config: %v", undecoded)
	}
	return cfg, nil
}
