package probe

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/melih/lighthouse-expose/internal/core/domain"
)

// DefaultPort is used when the URL carries no explicit port.
const DefaultPort = 80

// Prober implements ports.PortProber by trying to claim the URL's port.
type Prober struct{}

// New creates a port prober.
func New() *Prober {
	return &Prober{}
}

// IsListening reports whether something already owns the port of rawURL.
// The port counts as owned when FreePort cannot hand back the requested
// port. Ports this process may not bind (e.g. 80 without privileges) are
// therefore reported as owned even when idle.
func (p *Prober) IsListening(rawURL string) (bool, error) {
	port, err := PortOf(rawURL)
	if err != nil {
		return false, err
	}
	free, err := FreePort(port)
	if err != nil {
		return false, fmt.Errorf("port check failed: %w", err)
	}
	return free != port, nil
}

// PortOf returns the port of an absolute URL, defaulting to 80.
func PortOf(rawURL string) (int, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, invalid(rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return 0, invalid(rawURL, errors.New("not an absolute URL"))
	}
	raw := u.Port()
	if raw == "" {
		return DefaultPort, nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return 0, invalid(rawURL, fmt.Errorf("port %q out of range", raw))
	}
	return port, nil
}

// FreePort returns port when it can be bound, otherwise an OS-assigned free
// port.
func FreePort(port int) (int, error) {
	if ln, err := net.Listen("tcp", ":"+strconv.Itoa(port)); err == nil {
		ln.Close()
		return port, nil
	}
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		return 0, err
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port, nil
}

func invalid(rawURL string, err error) error {
	return &domain.InvalidURLError{URL: rawURL, Err: err}
}
