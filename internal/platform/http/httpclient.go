// Package http builds the outbound HTTP client used for external collaborators (the model server).
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient returns a client with explicit transport limits.
// http.DefaultClient has no timeout, so inference calls always go through this client.
//
//   - Dialer.Timeout: TCP connect timeout, shorter than the default
//   - MaxIdleConns / MaxIdleConnsPerHost: keep a small warm pool to the model server
//   - TLSHandshakeTimeout: upper bound for HTTPS handshakes
//   - Client.Timeout: whole-request budget supplied by the caller
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
