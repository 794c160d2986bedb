package transport

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RoundTripper logs every outbound request with its status and latency.
type RoundTripper struct {
	Logger *zap.Logger
	Proxy  http.RoundTripper
}

func NewRoundTripper(logger *zap.Logger) *RoundTripper {
	return &RoundTripper{
		Logger: logger,
		Proxy:  http.DefaultTransport,
	}
}

func (l *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := l.Proxy.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		l.Logger.Error("HTTP request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	l.Logger.Info("HTTP request completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Int64("content_length", resp.ContentLength),
		zap.Duration("duration", duration),
	)
	return resp, nil
}

// NewClient returns an *http.Client that logs through logger and gives up
// after timeout.
func NewClient(timeout time.Duration, logger *zap.Logger) *http.Client {
	return &http.Client{
		Transport: NewRoundTripper(logger),
		Timeout:   timeout,
	}
}
