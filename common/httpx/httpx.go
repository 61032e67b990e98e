package httpx

import (
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/healthdesk/medassist/common/logger"
	"github.com/healthdesk/medassist/metrics"
)

// Package httpx supplies the outbound HTTP client used for upstream LLM
// and embedding calls. It enforces a hard timeout and an optional host
// allowlist and records per-request latency. It deliberately performs no
// retries and no circuit breaking: upstream failures surface to the
// caller exactly once.

type Options struct {
	Timeout       time.Duration
	HostAllowlist []string
}

var ErrHostNotAllowed = errors.New("host not allowed")

// transport wraps the standard transport with allowlist checks and
// request accounting.
type transport struct {
	base  http.RoundTripper
	allow []string
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !hostAllowed(t.allow, req.URL) {
		logger.Warnf("httpx: blocked outbound host: %s", req.URL.Hostname())
		return nil, ErrHostNotAllowed
	}
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	metrics.ObserveOutbound(req.URL.Hostname(), status, time.Since(start).Seconds())
	if err != nil {
		logger.Warnf("httpx: request to %s failed: %v", req.URL.Hostname(), err)
	}
	return resp, err
}

// NewClient builds the instrumented client. A zero timeout defaults to 60s.
func NewClient(opt Options) *http.Client {
	to := opt.Timeout
	if to <= 0 {
		to = 60 * time.Second
	}
	base := &http.Transport{
		DialContext:     (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		MaxIdleConns:    100,
		IdleConnTimeout: 30 * time.Second,
	}
	return &http.Client{
		Timeout:   to,
		Transport: &transport{base: base, allow: opt.HostAllowlist},
	}
}

func hostAllowed(allow []string, u *url.URL) bool {
	if len(allow) == 0 {
		return true
	}
	host := u.Hostname()
	for _, pattern := range allow {
		if matchHost(pattern, host) {
			return true
		}
	}
	return false
}

func matchHost(pattern, host string) bool {
	if pattern == "*" {
		return true
	}
	if strings.EqualFold(pattern, host) {
		return true
	}
	if strings.HasPrefix(pattern, "*.") {
		suf := strings.TrimPrefix(pattern, "*.")
		return strings.HasSuffix(host, "."+suf) || strings.EqualFold(host, suf)
	}
	return false
}
