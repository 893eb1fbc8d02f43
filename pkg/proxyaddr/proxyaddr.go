package proxyaddr

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalid is returned by Parse for entries that are not a usable proxy address
var ErrInvalid = errors.New("invalid proxy address")

var schemes = []string{"http", "https", "socks5", "socks5h"}

// Address is a validated proxy address
type Address struct {
	Scheme   string `json:"scheme"`
	Username string `json:"username,omitempty"`
	Password string `json:"-"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
}

// Parse validates raw and splits it into its parts
// Parameters:
//   - raw: Proxy entry in the form scheme://[user:pass@]host:port
//
// Returns:
//   - Address: Parsed address
//   - error: ErrInvalid wrapped with the reason
func Parse(raw string) (Address, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if !slices.Contains(schemes, scheme) {
		return Address{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalid, u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return Address{}, fmt.Errorf("%w: missing host", ErrInvalid)
	}

	port, err := strconv.Atoi(u.Port())
	if err != nil || port < 1 || port > 65535 {
		return Address{}, fmt.Errorf("%w: bad port %q", ErrInvalid, u.Port())
	}

	a := Address{Scheme: scheme, Host: host, Port: port}
	if u.User != nil {
		a.Username = u.User.Username()
		a.Password, _ = u.User.Password()
	}
	return a, nil
}

// IsSOCKS reports whether the address needs a SOCKS dialer instead of an HTTP proxy
func (a Address) IsSOCKS() bool {
	return strings.HasPrefix(a.Scheme, "socks")
}

// URL returns the address in the form expected by http.ProxyURL
func (a Address) URL() *url.URL {
	u := &url.URL{
		Scheme: a.Scheme,
		Host:   net.JoinHostPort(a.Host, strconv.Itoa(a.Port)),
	}
	switch {
	case a.Password != "":
		u.User = url.UserPassword(a.Username, a.Password)
	case a.Username != "":
		u.User = url.User(a.Username)
	}
	return u
}

func (a Address) String() string {
	return a.URL().Redacted()
}

// HostOf returns the host part of an entry. It never fails: entries that
// do not parse fall back to cutting after the last "@" (or after "://")
// and before the first ":".
func HostOf(raw string) string {
	if a, err := Parse(raw); err == nil {
		return a.Host
	}

	rest := raw
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		rest = rest[i+1:]
	} else if _, after, ok := strings.Cut(rest, "://"); ok {
		rest = after
	}

	if i := strings.IndexAny(rest, ":/"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// Display returns at most n runes of raw
func Display(raw string, n int) string {
	r := []rune(raw)
	if n < 0 || len(r) <= n {
		return raw
	}
	return string(r[:n])
}
