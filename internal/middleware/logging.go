package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/secretwall/secretwall/internal/handler"
	"github.com/secretwall/secretwall/internal/logger"
)

// Logging emits one structured log line per request with method, path,
// status, duration, and the request ID when present.
func Logging[C handler.Context](log *slog.Logger) handler.Middleware[C] {
	if log == nil {
		log = logger.Noop()
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			start := time.Now()
			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				var err error
				if resp != nil {
					err = resp(w, r)
				}

				status := http.StatusOK
				if sw, ok := w.(interface{ Status() int }); ok && sw.Status() != 0 {
					status = sw.Status()
				}

				attrs := []slog.Attr{
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.Status(status),
					logger.Duration(time.Since(start)),
				}
				if bw, ok := w.(interface{ BytesWritten() int64 }); ok {
					attrs = append(attrs, logger.Bytes(bw.BytesWritten()))
				}
				if id := GetRequestID(ctx); id != "" {
					attrs = append(attrs, logger.RequestID(id))
				}
				if err != nil {
					attrs = append(attrs, logger.Error(err))
					log.LogAttrs(ctx, slog.LevelError, "request failed", attrs...)
					return err
				}

				log.LogAttrs(ctx, slog.LevelInfo, "request completed", attrs...)
				return nil
			}
		}
	}
}
