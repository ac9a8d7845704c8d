package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"courier-stats/internal/core/logger"
	"courier-stats/internal/core/proxy"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

// Options configures the outbound client.
type Options struct {
	// Timeout bounds each request, including reading the body.
	Timeout time.Duration
	// Proxy routes every request through an upstream proxy when enabled.
	Proxy proxy.Settings
	// Headers are set on every request that does not already carry them.
	Headers map[string]string
}

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
// Only scheme, host and path are logged: queries may carry customer phone numbers.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	target := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path

	logger.Get().Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", target),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		logger.Get().Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", target),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Get().Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", target),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// HeaderRoundTripper adds default headers to outgoing requests.
type HeaderRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
	// Headers are applied only when the request has no value for the key.
	Headers map[string]string
}

// RoundTrip clones the request, fills in missing headers and forwards it.
func (hrt *HeaderRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(hrt.Headers) == 0 {
		return hrt.Proxied.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	for k, v := range hrt.Headers {
		if clone.Header.Get(k) == "" {
			clone.Header.Set(k, v)
		}
	}
	return hrt.Proxied.RoundTrip(clone)
}

// New returns an http.Client with logging middleware, default headers and optional proxy.
func New(opts Options) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if u := opts.Proxy.URL(); u != nil {
		transport.Proxy = http.ProxyURL(u)
		logger.Get().Debug("Outbound proxy configured", zap.String("proxy", opts.Proxy.HostPort()))
	}

	var rt http.RoundTripper = &LoggingRoundTripper{Proxied: transport}
	if len(opts.Headers) > 0 {
		rt = &HeaderRoundTripper{Proxied: rt, Headers: opts.Headers}
	}

	return &http.Client{
		Transport: rt,
		Timeout:   opts.Timeout,
	}
}

// NewSession derives a client from base that keeps cookies in a fresh jar
// and does not follow redirects, so 3xx responses and their cookies are visible.
// The returned client shares base's transport and timeout.
func NewSession(base *http.Client) (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &http.Client{
		Transport: base.Transport,
		Timeout:   base.Timeout,
		Jar:       jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}, nil
}

// IsSuccess reports a 2xx status.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}

// IsRedirect reports a 3xx status.
func IsRedirect(status int) bool {
	return status >= 300 && status < 400
}

// IsTimeout reports whether err came from the client timeout or a deadline.
func IsTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
