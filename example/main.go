package main

import (
	"context"
	"fmt"
	"os"

	"github.com/grishkovelli/proxylive"
)

// Checks the proxies of ./config.js against another IP-echo service and
// prints what would be kept, without rewriting the file
func main() {
	cfg := &proxylive.Config{
		Path:     "config.js",
		Endpoint: "https://api.ipify.org",
		Timeout:  5,
		Verify:   proxylive.VerifyWarn,
		DryRun:   true,
	}

	sum, err := proxylive.NewPruner(cfg, os.Stdout, nil).Run(context.Background())
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, r := range sum.Results {
		fmt.Printf("%s live=%t ip=%s latency=%dms\n", r.Host, r.Live, r.IP, r.Latency)
	}
}
