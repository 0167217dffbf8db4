package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"folio/internal/httputil"
)

// Recovery middleware recovers from panics. A problem response is written
// only if the handler had not started its response yet; a stream that
// already began is simply cut off.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw, ok := w.(*statusWriter)
			if !ok {
				sw = &statusWriter{ResponseWriter: w, status: http.StatusOK}
			}

			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.Error("panic recovered",
						"error", err,
						"path", r.URL.Path,
						"method", r.Method,
						"headers_sent", sw.wroteHeader,
						"stack", string(debug.Stack()),
					)

					if !sw.wroteHeader {
						httputil.RespondError(sw, http.StatusInternalServerError, "internal server error")
					}
				}
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
