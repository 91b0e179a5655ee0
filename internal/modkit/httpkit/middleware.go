package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	pnet "qbank/internal/platform/net"
	phttp "qbank/internal/platform/net/http"
	"qbank/internal/platform/net/middleware"
	"qbank/internal/platform/store"
)

// slowRequest is the elapsed time past which the access log flags a
// request at warn level
const slowRequest = 2 * time.Second

// CommonStack is the baseline middleware every mounted API shares.
// corsOrigins narrows cross-origin access; empty keeps the permissive
// default. Auth and other module concerns layer on top of this
func CommonStack(corsOrigins ...string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		// correlation
		middleware.RequestID(),
		tagStoreRequests,
		middleware.RealIP(),

		// panics become JSON 500s, not dropped conns
		middleware.RecoverJSON,

		middleware.NoCache(),

		// access logging with slow-request promotion
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: slowRequest}),

		middleware.CORS(middleware.CORSOptions{AllowedOrigins: corsOrigins}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.RedirectSlashes(),
		middleware.StripSlashes(),
		middleware.Timeout(30 * time.Second),
	}
}

// tagStoreRequests copies the request id into the storage context so
// the sql trace can name the request that ran a slow statement
func tagStoreRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := pnet.RequestID(r.Context()); id != "" {
			r = r.WithContext(store.WithRequestID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// Auth adapts the auth middleware onto the platform JSON writer, which
// matches its write func signature
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}
