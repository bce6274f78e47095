package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/leave-approval/pkg/logger"
)

// maxLoggedBody caps how much of a body ends up in a log line.
const maxLoggedBody = 4 << 10

const redacted = "[FILTERED]"

// quietPaths are polled by infrastructure and not worth an access log.
var quietPaths = map[string]struct{}{
	"/metrics":       {},
	"/api/v1/ping":   {},
	"/api/v1/health": {},
}

// sensitiveKeys match header names and JSON keys by substring.
var sensitiveKeys = []string{
	"password",
	"token",
	"authorization",
	"secret",
	"api_key",
	"session",
	"credential",
	"cookie",
}

func isSensitive(name string) bool {
	name = strings.ToLower(name)
	for _, k := range sensitiveKeys {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}

// LoggingMiddleware writes one line for the request and one for the response,
// with credentials masked. It must run after RequestID so the trace id is set.
func LoggingMiddleware(lg *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, quiet := quietPaths[r.URL.Path]; quiet {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			traceID := logger.TraceID(r.Context())

			var reqBody []byte
			reqBody, r.Body = peekBody(r.Body)
			lg.Info("incoming request",
				"trace_id", traceID,
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"headers", redactHeaders(r.Header),
				"body", redactBody(reqBody, -1),
			)

			var respBody bytes.Buffer
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&limitedWriter{buf: &respBody, max: maxLoggedBody + 1})

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			lg.Log(r.Context(), levelFor(status), "response",
				"trace_id", traceID,
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", ww.BytesWritten(),
				"body", redactBody(respBody.Bytes(), ww.BytesWritten()),
			)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// peekBody reads at most maxLoggedBody+1 bytes and hands back a body that
// still yields the full original stream.
func peekBody(body io.ReadCloser) ([]byte, io.ReadCloser) {
	if body == nil || body == http.NoBody {
		return nil, body
	}
	head, _ := io.ReadAll(io.LimitReader(body, maxLoggedBody+1))
	return head, struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), body), body}
}

// limitedWriter keeps the first max bytes and silently drops the rest.
type limitedWriter struct {
	buf *bytes.Buffer
	max int
}

func (l *limitedWriter) Write(p []byte) (int, error) {
	if room := l.max - l.buf.Len(); room > 0 {
		if len(p) > room {
			l.buf.Write(p[:room])
		} else {
			l.buf.Write(p)
		}
	}
	return len(p), nil
}

func redactHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			out[name] = redacted
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// redactBody masks sensitive JSON keys. total is the full body size when
// known, otherwise -1.
func redactBody(body []byte, total int) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > maxLoggedBody {
		if total < 0 {
			return fmt.Sprintf("[TRUNCATED - more than %d bytes]", maxLoggedBody)
		}
		return fmt.Sprintf("[TRUNCATED - %d bytes]", total)
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		if isSensitive(string(body)) {
			return "[FILTERED - Contains sensitive data]"
		}
		return string(body)
	}

	out, err := json.Marshal(redactJSON(doc))
	if err != nil {
		return "[ERROR - Failed to marshal filtered JSON]"
	}
	return string(out)
}

func redactJSON(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			if isSensitive(k) {
				out[k] = redacted
				continue
			}
			out[k] = redactJSON(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = redactJSON(item)
		}
		return out
	}
	return v
}
