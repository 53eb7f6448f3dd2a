package tunnel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"

	"golang.ngrok.com/ngrok"
	"golang.ngrok.com/ngrok/config"

	"github.com/melih/lighthouse-expose/internal/core/domain"
)

// Fixed tunnel settings.
const (
	Protocol = "http"
	Region   = "us"
)

// ErrMissingAuthtoken is returned by Open when no auth token is configured.
var ErrMissingAuthtoken = errors.New("no ngrok auth token configured")

// Endpoint is a public listener with a reachable URL.
type Endpoint interface {
	net.Listener
	URL() string
}

// ListenFunc authenticates with the provider and opens a public endpoint.
type ListenFunc func(ctx context.Context, authtoken, region string) (Endpoint, error)

// Manager implements ports.TunnelService on ngrok. At most one tunnel is
// open at a time.
type Manager struct {
	authtoken string
	listen    ListenFunc
	log       *slog.Logger

	mu     sync.Mutex
	active *forwarding
}

type forwarding struct {
	endpoint Endpoint
	server   *http.Server
}

// NewManager creates a tunnel manager authenticating with authtoken.
func NewManager(authtoken string, log *slog.Logger) *Manager {
	return NewManagerWithListener(authtoken, listenNgrok, log)
}

// NewManagerWithListener creates a tunnel manager using a custom endpoint
// provider.
func NewManagerWithListener(authtoken string, listen ListenFunc, log *slog.Logger) *Manager {
	return &Manager{authtoken: authtoken, listen: listen, log: log}
}

func listenNgrok(ctx context.Context, authtoken, region string) (Endpoint, error) {
	tun, err := ngrok.Listen(ctx,
		config.HTTPEndpoint(),
		ngrok.WithAuthtoken(authtoken),
		ngrok.WithRegion(region),
	)
	if err != nil {
		return nil, err
	}
	return tun, nil
}

// Open connects a public endpoint and forwards it to localURL, rewriting
// the Host header. The forward target is the local URL as given.
func (m *Manager) Open(ctx context.Context, localURL string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return "", &domain.TunnelError{Err: errors.New("a tunnel is already open")}
	}
	if m.authtoken == "" {
		return "", &domain.TunnelError{Err: ErrMissingAuthtoken}
	}
	target, err := url.Parse(localURL)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return "", &domain.TunnelError{Err: &domain.InvalidURLError{URL: localURL, Err: errors.New("not an absolute URL")}}
	}

	endpoint, err := m.listen(ctx, m.authtoken, Region)
	if err != nil {
		return "", &domain.TunnelError{Err: fmt.Errorf("failed to connect: %w", err)}
	}

	server := newForwarder(target, m.log)
	go func() {
		if err := server.Serve(endpoint); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.log.Warn("tunnel forwarder stopped", "error", err)
		}
	}()

	m.active = &forwarding{endpoint: endpoint, server: server}
	m.log.Info("tunnel open", "public_url", endpoint.URL(), "target", localURL, "proto", Protocol, "region", Region)
	return endpoint.URL(), nil
}

// Close disconnects the active tunnel. It is safe to call repeatedly.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return nil
	}
	f := m.active
	m.active = nil

	err := f.server.Shutdown(ctx)
	// Shutdown closes the endpoint once serving started; this covers the
	// window before it did.
	_ = f.endpoint.Close()
	if err != nil {
		return fmt.Errorf("failed to disconnect tunnel: %w", err)
	}
	m.log.Info("tunnel closed", "public_url", f.endpoint.URL())
	return nil
}
