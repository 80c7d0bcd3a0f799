package web

import (
	"net"
	"net/http"

	"github.com/JonMunkholm/contactdesk/internal/core"
)

// withRequestMeta attaches the client address and User-Agent to the request
// context so the service can log where a write came from.
func withRequestMeta(r *http.Request) *http.Request {
	ip := r.RemoteAddr // already rewritten by TrustedRealIP
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	ctx := core.ContextWithRequestMeta(r.Context(), core.RequestMeta{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	})
	return r.WithContext(ctx)
}
