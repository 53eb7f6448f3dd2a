package tunnel

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"
)

// newForwarder returns a server that relays every request arriving on the
// public endpoint to target. Requests are served by net/http directly so
// the proxied request context belongs to the connection, not to a pooled
// fasthttp context.
func newForwarder(target *url.URL, log *slog.Logger) *http.Server {
	return &http.Server{
		Handler:           proxyHandler(target, log),
		ReadHeaderTimeout: 30 * time.Second,
	}
}

func proxyHandler(target *url.URL, log *slog.Logger) http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(target)

	// Custom Director: Rewrite Host header to target
	// Dev servers commonly reject requests whose Host is the public tunnel
	// domain, so the origin sees its own host instead.
	originalDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		originalDirector(req)
		req.Host = target.Host
	}

	// Error Handler: Return standard BadGateway if connectivity fails
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Warn("tunnel upstream unreachable", "target", target.String(), "error", err)
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(fmt.Sprintf("Tunnel Info: target=%s error=%v", target.Host, err)))
	}

	return proxy
}
