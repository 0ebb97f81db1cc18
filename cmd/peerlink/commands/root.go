package commands

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"peerlink/internal/app"
	"peerlink/internal/domain"
)

var (
	addr        string
	identifyStr string
	peerPubHex  string
	username    string
	password    string
	sessionStr  string
	relayTo     string

	clientWire *app.ClientWire
)

func Execute() error {
	root := &cobra.Command{
		Use:   "peerlink",
		Short: "Authenticate against a peer and optionally relay the resulting connection",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.ClientConfig{Addr: addr, Username: username, RelayTo: relayTo}

			switch strings.ToLower(identifyStr) {
			case "", "anonymous":
				cfg.Identify = domain.IdentifyAnonymous
			case "srp":
				cfg.Identify = domain.IdentifySRP
			default:
				return fmt.Errorf("--identify must be 'anonymous' or 'srp', got %q", identifyStr)
			}

			if peerPubHex != "" {
				raw, err := hex.DecodeString(peerPubHex)
				if err != nil {
					return fmt.Errorf("--peer-pubkey: %w", err)
				}
				if len(raw) != 32 {
					return fmt.Errorf("--peer-pubkey must decode to 32 bytes, got %d", len(raw))
				}
				copy(cfg.PeerPublicKey[:], raw)
				cfg.HasPeerKey = true
			}

			if cfg.Identify == domain.IdentifyAnonymous && !cfg.HasPeerKey {
				return fmt.Errorf("--identify=anonymous requires --peer-pubkey")
			}

			if cfg.Identify == domain.IdentifySRP {
				cfg.Password = password
				if cfg.Password == "" {
					cfg.Password = os.Getenv("PEERLINK_PASSWORD")
				}
				if cfg.Password == "" {
					return fmt.Errorf("--identify=srp requires --password or PEERLINK_PASSWORD")
				}
				if cfg.Username == "" {
					return fmt.Errorf("--identify=srp requires --username")
				}
			}

			st, err := parseSessionTypes(sessionStr)
			if err != nil {
				return err
			}
			cfg.SessionType = st

			clientWire = app.NewClientWire(cfg, nil)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&addr, "addr", "", "peer address, host:port")
	root.PersistentFlags().StringVar(&identifyStr, "identify", "anonymous", "identify mode: anonymous or srp")
	root.PersistentFlags().StringVar(&peerPubHex, "peer-pubkey", "", "peer's X25519 public key, hex-encoded (required for anonymous identify)")
	root.PersistentFlags().StringVar(&username, "username", "", "SRP username (identify=srp)")
	root.PersistentFlags().StringVar(&password, "password", "", "SRP password; prefer PEERLINK_PASSWORD so it never shows up in ps(1)")
	root.PersistentFlags().StringVar(&sessionStr, "session-type", "view", "comma-separated subset of view,manage,file")
	root.PersistentFlags().StringVar(&relayTo, "relay-to", "", "on success, dial this address and splice the encrypted channel into it")
	_ = root.MarkPersistentFlagRequired("addr")

	root.AddCommand(connectCmd())
	return root.Execute()
}

func parseSessionTypes(s string) (domain.SessionType, error) {
	var mask domain.SessionType
	for _, tok := range strings.Split(s, ",") {
		switch strings.TrimSpace(strings.ToLower(tok)) {
		case "view":
			mask |= domain.SessionDesktopView
		case "manage":
			mask |= domain.SessionDesktopManage
		case "file":
			mask |= domain.SessionFileTransfer
		case "":
		default:
			return 0, fmt.Errorf("unknown session type %q", tok)
		}
	}
	if mask == 0 {
		return 0, fmt.Errorf("--session-type must name at least one of view,manage,file")
	}
	return mask, nil
}
