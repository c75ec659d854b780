package router

import "net/http"

// responseWriter wraps http.ResponseWriter to record the status code and
// response size for the logging middleware, and to swallow duplicate
// WriteHeader calls from error paths that already rendered a page.
type responseWriter struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w}
}

func (w *responseWriter) WriteHeader(status int) {
	if w.status != 0 {
		return
	}
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	return n, err
}

// Written reports whether a status line has gone out. The recovery path
// checks this before attempting to render a 500 page.
func (w *responseWriter) Written() bool {
	return w.status != 0
}

// Status returns the status code sent to the client, or zero before the
// header is written.
func (w *responseWriter) Status() int {
	return w.status
}

// BytesWritten returns the number of body bytes sent so far.
func (w *responseWriter) BytesWritten() int64 {
	return w.bytes
}

// Unwrap exposes the underlying writer for http.ResponseController.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
