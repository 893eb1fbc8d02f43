package proxylive

import (
	"encoding/json"

	"github.com/grishkovelli/proxylive/pkg/proxyaddr"
)

// displayWidth is how much of an entry is shown in console lines
const displayWidth = 50

// Result represents the outcome of probing one entry
type Result struct {
	// Entry is the proxy string exactly as read from the document
	Entry string `json:"entry"`
	// Live is true when the probe returned a readable response
	Live bool `json:"live"`
	// IP is the trimmed body returned by the IP-echo endpoint
	IP string `json:"ip,omitempty"`
	// Host is the host advertised by the entry
	Host string `json:"host"`
	// Latency is the probe duration in milliseconds
	Latency int `json:"latency"`
	// Verified is set only when the echoed IP was compared with Host
	Verified *bool `json:"verified,omitempty"`
	// Err holds the probe failure, if any
	Err error `json:"-"`
}

// display returns the truncated entry used in console output
func (r Result) display() string {
	return proxyaddr.Display(r.Entry, displayWidth)
}

// MarshalJSON hides credentials embedded in the entry
func (r Result) MarshalJSON() ([]byte, error) {
	type Alias Result

	entry := r.Entry
	if a, err := proxyaddr.Parse(r.Entry); err == nil {
		entry = a.String()
	}

	var reason string
	if r.Err != nil {
		reason = r.Err.Error()
	}

	return json.Marshal(&struct {
		Entry string `json:"entry"`
		Error string `json:"error,omitempty"`
		Alias
	}{
		Entry: entry,
		Error: reason,
		Alias: Alias(r),
	})
}
