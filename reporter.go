package proxylive

import (
	"errors"
	"fmt"
	"io"

	"github.com/grishkovelli/proxylive/pkg/literal"
	"github.com/schollz/progressbar/v3"
)

// Printer receives the user-facing events of a run
type Printer interface {
	Start(path string)
	Found(n int)
	Checking(i, n int, entry string)
	Checked(r Result)
	Summary(s *Stat)
	Backup(path string)
	Written(n int, path string)
	Failed(err error)
}

// ConsoleReporter prints one line per event
type ConsoleReporter struct {
	W io.Writer
}

func (c *ConsoleReporter) Start(path string) {
	fmt.Fprintf(c.W, "Checking proxies in %s\n\n", path)
}

func (c *ConsoleReporter) Found(n int) {
	fmt.Fprintf(c.W, "Found %d proxies\n\n", n)
}

func (c *ConsoleReporter) Checking(i, n int, entry string) {
	fmt.Fprintf(c.W, "[%d/%d] Checking: %s... ", i, n, Result{Entry: entry}.display())
}

func (c *ConsoleReporter) Checked(r Result) {
	fmt.Fprintln(c.W, outcome(r))
}

func (c *ConsoleReporter) Summary(s *Stat) {
	live, dead := s.Counts()
	fmt.Fprintf(c.W, "\nResult:\n   Live: %d\n   Dead: %d\n", live, dead)
}

func (c *ConsoleReporter) Backup(path string) {
	fmt.Fprintf(c.W, "Backed up original to %s\n", path)
}

func (c *ConsoleReporter) Written(n int, path string) {
	fmt.Fprintf(c.W, "Done: wrote %d live proxies to %s\n", n, path)
}

func (c *ConsoleReporter) Failed(err error) {
	switch {
	case errors.Is(err, literal.ErrNotFound):
		fmt.Fprintln(c.W, "PROXY_LIST not found, nothing to check")
	case errors.Is(err, ErrEmpty):
		fmt.Fprintln(c.W, "PROXY_LIST is empty, nothing to check")
	case errors.Is(err, ErrNoLive):
		fmt.Fprintln(c.W, "\nNo live proxies, config left untouched")
	default:
		fmt.Fprintf(c.W, "Failed: %v\n", err)
	}
}

func outcome(r Result) string {
	if !r.Live {
		return "DEAD"
	}
	if r.Verified != nil && !*r.Verified {
		return fmt.Sprintf("LIVE → %s (egress differs from %s)", r.IP, r.Host)
	}
	return "LIVE → " + r.IP
}

// ProgressReporter draws a progress bar while checking and prints the
// remaining events like ConsoleReporter
type ProgressReporter struct {
	ConsoleReporter

	bar *progressbar.ProgressBar
}

func (p *ProgressReporter) Found(n int) {
	p.ConsoleReporter.Found(n)
	p.bar = progressbar.NewOptions(n,
		progressbar.OptionSetWriter(p.W),
		progressbar.OptionSetDescription("checking"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
	)
}

func (p *ProgressReporter) Checking(_, _ int, entry string) {
	if p.bar != nil {
		p.bar.Describe(Result{Entry: entry}.display())
	}
}

func (p *ProgressReporter) Checked(Result) {
	if p.bar != nil {
		p.bar.Add(1)
	}
}

func (p *ProgressReporter) Summary(s *Stat) {
	if p.bar != nil {
		p.bar.Finish()
		fmt.Fprintln(p.W)
	}
	p.ConsoleReporter.Summary(s)
}

// NewPrinter picks the printer for c
func NewPrinter(c *Config, w io.Writer) Printer {
	if c.Progress {
		return &ProgressReporter{ConsoleReporter: ConsoleReporter{W: w}}
	}
	return &ConsoleReporter{W: w}
}
