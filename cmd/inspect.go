package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"firestige.xyz/rtpfixture/internal/config"
	"firestige.xyz/rtpfixture/internal/inspect"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Read a capture back and check it",
	Long: `Decode every record of a capture and check it against the configuration:
length fields, sequence and timestamp steps, record spacing and total span.
A BPF "udp dst port" filter is run over each frame as an extra check.

Exits non-zero when any check fails.

Examples:
  rtpfixture inspect g711a.pcap
  rtpfixture inspect -c fixture.yml media.pcap`,
	Args: cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		return runInspect(cfg, args[0], c.OutOrStdout())
	},
}

var errChecksFailed = errors.New("capture failed inspection")

func runInspect(cfg *config.Config, path string, out io.Writer) error {
	rep, err := inspect.File(path, cfg)
	if err != nil {
		return err
	}

	h := rep.Header
	fmt.Fprintf(out, "File:     %s\n", path)
	fmt.Fprintf(out, "Header:   magic 0x%08x v%d.%d snaplen %d linktype %d\n",
		h.Magic, h.VersionMajor, h.VersionMinor, h.SnapLen, h.LinkType)
	fmt.Fprintf(out, "Records:  %d\n", rep.Records)
	if !rep.FirstTime.IsZero() {
		fmt.Fprintf(out, "RTP:      PT %d SSRC 0x%08x seq %d-%d ts %d-%d\n",
			rep.PayloadType, rep.SSRC, rep.FirstSeq, rep.LastSeq, rep.FirstRTPTime, rep.LastRTPTime)
		fmt.Fprintf(out, "Time:     %s .. %s (span %v)\n",
			rep.FirstTime.UTC().Format(time.RFC3339Nano), rep.LastTime.UTC().Format(time.RFC3339Nano), rep.Span)
	}
	fmt.Fprintf(out, "Filter:   %q matched %d/%d\n", rep.Filter, rep.Matches, rep.Records)

	if rep.OK() {
		fmt.Fprintln(out, "Result:   OK")
		return nil
	}
	fmt.Fprintf(out, "Result:   %d violation(s)\n", len(rep.Violations))
	for _, v := range rep.Violations {
		fmt.Fprintf(out, "  - %s\n", v)
	}
	return fmt.Errorf("%w: %d violation(s)", errChecksFailed, len(rep.Violations))
}
