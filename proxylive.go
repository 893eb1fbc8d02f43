package proxylive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/grishkovelli/proxylive/pkg/literal"
	"github.com/sirupsen/logrus"
)

var (
	ErrConfig         = errors.New("invalid config")
	ErrEmpty          = errors.New("PROXY_LIST is empty")
	ErrNoLive         = errors.New("no live proxies")
	ErrBackup         = errors.New("backup write failed")
	ErrOverwrite      = errors.New("overwrite failed")
	ErrEgressMismatch = errors.New("egress IP does not match proxy host")
)

//  ██████╗ ██████╗ ██╗   ██╗███╗   ██╗███████╗██████╗
//  ██╔══██╗██╔══██╗██║   ██║████╗  ██║██╔════╝██╔══██╗
//  ██████╔╝██████╔╝██║   ██║██╔██╗ ██║█████╗  ██████╔╝
//  ██╔═══╝ ██╔══██╗██║   ██║██║╚██╗██║██╔══╝  ██╔══██╗
//  ██║     ██║  ██║╚██████╔╝██║ ╚████║███████╗██║  ██║
//  ╚═╝     ╚═╝  ╚═╝ ╚═════╝ ╚═╝  ╚═══╝╚══════╝╚═╝  ╚═╝
//

// Pruner checks every entry of the PROXY_LIST block and rewrites the
// document with the live ones
type Pruner struct {
	Config   *Config
	Checker  Checker
	Printer  Printer
	Feed     *Feed
	Log      logrus.FieldLogger
}

// Summary describes a finished run
type Summary struct {
	Results []Result `json:"results"`
	Live    []string `json:"-"`
	Backup  string   `json:"backup,omitempty"`
	Written bool     `json:"written"`
}

// NewPruner returns a pruner with an HTTPChecker and a console reporter
// writing to w
func NewPruner(c *Config, w io.Writer, log logrus.FieldLogger) *Pruner {
	return &Pruner{
		Config:   c,
		Checker:  NewHTTPChecker(c),
		Printer:  NewPrinter(c, w),
		Log:      log,
	}
}

// Run reads the document, checks each entry in order and writes back the
// live ones after backing up the original
// Parameters:
//   - ctx: Cancelling it stops the run before the next probe or the write
//
// Returns:
//   - *Summary: Results so far, nil when the document could not be read
//   - error: literal errors, ErrEmpty, ErrNoLive, ErrBackup, ErrOverwrite or ctx.Err()
func (p *Pruner) Run(ctx context.Context) (*Summary, error) {
	if err := p.Config.Prepare(); err != nil {
		return nil, err
	}
	log := p.log()

	p.Printer.Start(p.Config.Path)

	doc, block, err := literal.Load(p.Config.Path)
	if err != nil {
		p.Printer.Failed(err)
		return nil, err
	}

	entries := block.Entries
	if len(entries) == 0 {
		p.Printer.Failed(ErrEmpty)
		return &Summary{}, ErrEmpty
	}
	p.Printer.Found(len(entries))

	st := newStat(len(entries))
	sum := &Summary{Results: make([]Result, 0, len(entries))}

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		p.Printer.Checking(i+1, len(entries), entry)
		r := p.Checker.Check(ctx, entry)
		p.verify(ctx, &r)
		if r.Err != nil {
			log.WithField("proxy", r.display()).WithError(r.Err).Debug("probe failed")
		}
		p.Printer.Checked(r)

		st.add(r)
		sum.Results = append(sum.Results, r)
		if r.Live {
			sum.Live = append(sum.Live, entry)
		}
		p.publish("result", r)
		p.publish("stat", st)
	}

	p.Printer.Summary(st)
	defer p.publish("done", sum)

	if len(sum.Live) == 0 {
		p.Printer.Failed(ErrNoLive)
		return sum, ErrNoLive
	}
	if p.Config.DryRun {
		log.Info("dry run, document left untouched")
		return sum, nil
	}
	if err := ctx.Err(); err != nil {
		return sum, err
	}

	if err := p.write(doc, block, sum); err != nil {
		p.Printer.Failed(err)
		return sum, err
	}
	p.Printer.Written(len(sum.Live), p.Config.Path)

	return sum, nil
}

// write stores the original document next to it and only then replaces it
func (p *Pruner) write(doc string, b *literal.Block, sum *Summary) error {
	mode := fileMode(p.Config.Path)

	backup := p.Config.BackupPath()
	if err := os.WriteFile(backup, []byte(doc), mode); err != nil {
		return fmt.Errorf("%w: %w", ErrBackup, err)
	}
	sum.Backup = backup
	p.Printer.Backup(backup)

	if err := writeFileAtomic(p.Config.Path, []byte(literal.Replace(doc, b, sum.Live)), mode); err != nil {
		return fmt.Errorf("%w: %w", ErrOverwrite, err)
	}
	sum.Written = true

	p.log().WithField("path", p.Config.Path).Infof("kept %d of %d proxies", len(sum.Live), len(b.Entries))
	return nil
}

// verify compares the echoed IP with the proxy host according to Config.Verify
func (p *Pruner) verify(ctx context.Context, r *Result) {
	if p.Config.Verify == VerifyOff || !r.Live {
		return
	}

	ok := matchEgress(ctx, r.Host, r.IP)
	r.Verified = &ok

	if !ok && p.Config.Verify == VerifyStrict {
		r.Live = false
		r.Err = fmt.Errorf("%w: got %q, want %q", ErrEgressMismatch, r.IP, r.Host)
	}
}

func (p *Pruner) publish(kind string, body any) {
	if p.Feed != nil {
		p.Feed.Publish(kind, body)
	}
}

func (p *Pruner) log() logrus.FieldLogger {
	if p.Log == nil {
		return discardLogger()
	}
	return p.Log
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
