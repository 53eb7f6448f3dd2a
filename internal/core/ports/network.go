package ports

import "context"

// PortProber reports whether a server already listens on a URL's port.
type PortProber interface {
	IsListening(rawURL string) (bool, error)
}

// TunnelService opens a public endpoint forwarding to a local URL.
type TunnelService interface {
	// Open returns the publicly reachable URL of the new tunnel.
	Open(ctx context.Context, localURL string) (string, error)
	// Close disconnects the active tunnel. It is a no-op when none is open.
	Close(ctx context.Context) error
}
