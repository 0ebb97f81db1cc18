package handshake

import "errors"

// ErrAccessDenied is the sentinel a MessageChannel implementation should
// wrap (via fmt.Errorf("...: %w", handshake.ErrAccessDenied)) when
// OnDisconnected reports a transport-level access-denied signal rather than
// an ordinary network failure. Authenticator maps it to domain.AccessDenied;
// any other disconnect error maps to domain.NetworkError.
var ErrAccessDenied = errors.New("handshake: access denied")

func isAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}
