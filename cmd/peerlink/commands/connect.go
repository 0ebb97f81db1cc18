package commands

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"peerlink/internal/channel"
	"peerlink/internal/domain"
	"peerlink/internal/relay"
)

func connectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Run the handshake against --addr and, on success, relay the channel if --relay-to is set",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := net.Dial("tcp", clientWire.Config.Addr)
			if err != nil {
				return fmt.Errorf("dial %s: %w", clientWire.Config.Addr, err)
			}

			ch := channel.New(conn)
			auth := clientWire.NewAuthenticator()

			done := make(chan domain.ErrorCode, 1)
			auth.Start(ch, func(code domain.ErrorCode) { done <- code })
			code := <-done

			if code != domain.Success {
				return fmt.Errorf("handshake failed: %s", code)
			}

			result, ok := auth.Result()
			if !ok {
				return fmt.Errorf("handshake reported success but produced no result")
			}
			clientWire.Logger.Printf("handshake succeeded with %s, peer version %d.%d.%d, suite %s",
				clientWire.Config.Addr, result.PeerVersion.Major, result.PeerVersion.Minor, result.PeerVersion.Patch, result.Suite)

			if clientWire.Config.RelayTo == "" {
				return nil
			}
			return relayThrough(ch)
		},
	}
}

// relayThrough dials --relay-to and splices it with the now-authenticated
// channel's raw connection.
func relayThrough(ch *channel.FramedChannel) error {
	relayConn, err := net.Dial("tcp", clientWire.Config.RelayTo)
	if err != nil {
		return fmt.Errorf("dial relay %s: %w", clientWire.Config.RelayTo, err)
	}

	raw := ch.Detach()
	session := relay.New(raw, relayConn)

	finished := make(chan struct{})
	session.Start(&cliDelegate{done: finished})
	<-finished

	clientWire.Logger.Printf("relay session finished: %d bytes over %s", session.BytesTransferred(), session.Duration())
	return nil
}

type cliDelegate struct {
	done chan struct{}
}

func (d *cliDelegate) OnSessionFinished(*relay.Session) {
	close(d.done)
}
