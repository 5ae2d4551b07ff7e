package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"firestige.xyz/rtpfixture/internal/config"
	"firestige.xyz/rtpfixture/internal/runner"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the RTP capture (default command)",
	Long: `Write the synthetic RTP capture, then run the configured read-back tool.

Examples:
  rtpfixture                                  # defaults, writes g711a.pcap
  rtpfixture generate -o /tmp/media.pcap      # custom output path
  rtpfixture generate -c fixture.yml --no-verify
  rtpfixture generate --writer pcapgo --progress`,
	Args: cobra.NoArgs,
	RunE: generate,
}

func init() {
	addGenerateFlags(generateCmd)
}

func generate(c *cobra.Command, _ []string) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var bar io.Writer
	if progress && stderrIsTerminal() {
		bar = c.ErrOrStderr()
	}
	_, err = runGenerate(ctx, cfg, c.OutOrStdout(), bar)
	return err
}

func runGenerate(ctx context.Context, cfg *config.Config, out, bar io.Writer) (runner.Summary, error) {
	return runner.Run(ctx, cfg, out, runner.Options{Progress: bar})
}
