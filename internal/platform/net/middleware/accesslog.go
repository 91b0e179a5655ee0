package middleware

import (
	"net/http"
	"time"

	"qbank/internal/platform/logger"
)

// AccessLogOptions configures AccessLogZerolog
type AccessLogOptions struct {
	// Slow promotes requests taking >= Slow to warn level. 0 disables the promotion
	Slow time.Duration
}

// tap records the status and byte count a handler wrote so the access
// log can report them after the fact
type tap struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (t *tap) WriteHeader(code int) {
	t.status = code
	t.ResponseWriter.WriteHeader(code)
}

func (t *tap) Write(b []byte) (int, error) {
	n, err := t.ResponseWriter.Write(b)
	t.bytes += n
	return n, err
}

// AccessLogZerolog emits one structured line per request through the
// request scoped logger: method, path, status, elapsed, and bytes written.
// Slow requests log at warn so they stand out without a separate alert path
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t := &tap{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(t, r)

			elapsed := time.Since(start)
			log := logger.C(r.Context())
			evt := log.Info()
			if opt.Slow > 0 && elapsed >= opt.Slow {
				evt = log.Warn()
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", t.status).
				Dur("elapsed", elapsed).
				Int("bytes", t.bytes).
				Msg("request done")
		})
	}
}
