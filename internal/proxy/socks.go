package proxy

import (
	"context"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"
)

// DefaultTimeout bounds a whole planner request when the config does not
// set one.
const DefaultTimeout = 2 * time.Minute

// NewSocksClient builds an HTTP client that egresses through a SOCKS5
// proxy. Used by the planner clients on hosts where outbound traffic is
// tunneled. A timeout <= 0 falls back to DefaultTimeout.
func NewSocksClient(socksAddr string, timeout time.Duration) (*http.Client, error) {
	dialer, err := proxy.SOCKS5("tcp", socksAddr, nil, proxy.Direct)
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		},
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}
