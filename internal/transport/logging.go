package transport

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the correlation id of an outbound request
const RequestIDHeader = "X-Request-ID"

type loggingRoundTripper struct {
	next   http.RoundTripper
	logger *zap.Logger
}

// Logging wraps next so every request and response is logged at debug
// level. Requests without a request id get a fresh one.
func Logging(next http.RoundTripper, logger *zap.Logger) http.RoundTripper {
	return &loggingRoundTripper{next: next, logger: logger}
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, requestID)
	}

	l.logger.Debug("Request started",
		zap.String("request_id", requestID),
		zap.String("method", req.Method),
		zap.String("host", req.URL.Host),
		zap.String("path", req.URL.Path),
		zap.String("query", req.URL.RawQuery),
	)

	resp, err := l.next.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		l.logger.Debug("Request failed",
			zap.String("request_id", requestID),
			zap.String("path", req.URL.Path),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	l.logger.Debug("Request completed",
		zap.String("request_id", requestID),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("proto", resp.Proto),
		zap.Duration("duration", duration),
	)
	return resp, nil
}
