// Package runner ties generation, the output file and the diagnostic hook
// together for one CLI invocation.
package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"firestige.xyz/rtpfixture/internal/config"
	"firestige.xyz/rtpfixture/internal/core"
	"firestige.xyz/rtpfixture/internal/diag"
	"firestige.xyz/rtpfixture/internal/fixture"
	"firestige.xyz/rtpfixture/internal/log"
	"firestige.xyz/rtpfixture/internal/pcapfile"
)

// GenerateFile writes the capture to cfg.Output.Path. The file is closed on
// every path and removed if anything failed, so a truncated capture is never
// left behind.
func GenerateFile(ctx context.Context, cfg *config.Config, base time.Time, opts ...fixture.Option) (stats fixture.Stats, err error) {
	path := cfg.Output.Path
	f, err := os.Create(path)
	if err != nil {
		return stats, fmt.Errorf("%w: %v", core.ErrOutputOpen, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %v", core.ErrWriteRecord, path, cerr)
		}
		if err != nil {
			if rerr := os.Remove(path); rerr != nil {
				log.GetLogger().WithError(rerr).WithField("path", path).Warn("failed to remove partial capture")
			}
		}
	}()

	bw := bufio.NewWriter(f)
	w, err := pcapfile.NewWriter(cfg.Output.Writer, bw, cfg.Capture)
	if err != nil {
		return stats, err
	}

	stats, err = fixture.NewGenerator(cfg, opts...).Run(ctx, w, base)
	if err != nil {
		return stats, err
	}
	if err = bw.Flush(); err != nil {
		return stats, fmt.Errorf("%w: flush %s: %v", core.ErrWriteRecord, path, err)
	}
	return stats, nil
}

// Options controls the console side of Run.
type Options struct {
	// Base is the timestamp of the first record; zero means now.
	Base time.Time
	// Progress receives a progress bar when non-nil.
	Progress io.Writer
}

// Summary is what one Run produced.
type Summary struct {
	Path  string
	Stats fixture.Stats
	Diag  diag.Result
}

// Run prints a start notice to out, writes the capture, prints a completion
// notice with the packet count and relays the diagnostic hook. Only
// generation failures are returned; the diagnostic outcome is in Summary.
func Run(ctx context.Context, cfg *config.Config, out io.Writer, opts Options) (Summary, error) {
	logger := log.GetLogger()
	sum := Summary{Path: cfg.Output.Path}

	base := opts.Base
	if base.IsZero() {
		base = time.Now()
	}

	fmt.Fprintf(out, "Generating %d RTP packets (PT %d, %d ms) into %s\n",
		cfg.Stream.PacketCount, cfg.RTP.PayloadType, cfg.Stream.PacketDurationMs, sum.Path)

	var genOpts []fixture.Option
	if opts.Progress != nil {
		bar := progressbar.NewOptions(cfg.Stream.PacketCount,
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("records"),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Close()
		genOpts = append(genOpts, fixture.WithRecordHook(func(int, uint16) { _ = bar.Add(1) }))
	}

	stats, err := GenerateFile(ctx, cfg, base, genOpts...)
	sum.Stats = stats
	if err != nil {
		logger.WithError(err).WithField("path", sum.Path).Error("capture generation failed")
		return sum, err
	}

	logger.WithFields(map[string]interface{}{
		"path":    sum.Path,
		"packets": stats.Packets,
		"bytes":   stats.Bytes,
		"span":    stats.Span,
	}).Info("capture written")
	fmt.Fprintf(out, "Wrote %d packets (%d bytes, seq %d-%d, span %v) to %s\n",
		stats.Packets, stats.Bytes, stats.FirstSeq, stats.LastSeq, stats.Span, sum.Path)

	sum.Diag = diag.Run(ctx, cfg.Verify, sum.Path)
	relay(out, logger, sum.Diag)
	return sum, nil
}

func relay(out io.Writer, logger log.Logger, res diag.Result) {
	switch res.Status {
	case diag.StatusOK:
		fmt.Fprintf(out, "%s output:\n%s", res.Tool, res.Output)
	case diag.StatusNotFound:
		fmt.Fprintf(out, "Note: %s not found, skipping read-back\n", res.Tool)
		logger.WithError(res.Err).Debug("diagnostic tool not found")
	case diag.StatusFailed:
		fmt.Fprintf(out, "Note: %s could not read the capture: %v\n", res.Tool, res.Err)
		logger.WithError(res.Err).Warn("diagnostic tool failed")
	}
}
