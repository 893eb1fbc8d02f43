package proxylive

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/grishkovelli/proxylive/pkg/proxyaddr"
)

// Checker classifies a single proxy entry as live or dead
type Checker interface {
	Check(ctx context.Context, entry string) Result
}

// HTTPChecker requests an IP-echo endpoint through the proxy
type HTTPChecker struct {
	Endpoint string
	Timeout  time.Duration

	ua *userAgent
}

// NewHTTPChecker returns a checker configured from c
func NewHTTPChecker(c *Config) *HTTPChecker {
	return &HTTPChecker{
		Endpoint: c.Endpoint,
		Timeout:  c.timeout(),
		ua:       &userAgent{agents: c.UserAgents},
	}
}

// Check probes entry once. Every failure, including an entry that does not
// parse, yields a dead result with Err set.
func (c *HTTPChecker) Check(ctx context.Context, entry string) Result {
	r := Result{Entry: entry, Host: proxyaddr.HostOf(entry)}

	a, err := proxyaddr.Parse(entry)
	if err != nil {
		r.Err = err
		return r
	}

	startedAt := time.Now()
	body, err := doRequest(ctx, c.Endpoint, a, c.Timeout, c.agent())
	r.Latency = int(time.Since(startedAt).Milliseconds())
	if err != nil {
		r.Err = err
		return r
	}

	r.Live = true
	r.IP = strings.TrimSpace(string(body))
	return r
}

func (c *HTTPChecker) agent() string {
	if c.ua == nil {
		c.ua = &userAgent{}
	}
	return c.ua.get()
}

// matchEgress reports whether ip belongs to host. Host names are resolved.
func matchEgress(ctx context.Context, host, ip string) bool {
	if host == "" || ip == "" {
		return false
	}
	if net.ParseIP(host) != nil {
		return net.ParseIP(host).Equal(net.ParseIP(ip))
	}

	addrs, err := net.DefaultResolver.LookupHost(ctx, host)
	if err != nil {
		return false
	}
	for _, addr := range addrs {
		if net.ParseIP(addr).Equal(net.ParseIP(ip)) {
			return true
		}
	}
	return false
}
