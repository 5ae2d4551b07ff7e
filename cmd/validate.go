package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"firestige.xyz/rtpfixture/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validate a configuration file without writing a capture.

Environment overrides (RTPFIXTURE_*) are applied, as they would be for generate.

Examples:
  rtpfixture validate -f fixture.yml`,
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		return runValidate(validateConfigFile, c.OutOrStdout())
	},
}

var validateConfigFile string

func init() {
	validateCmd.Flags().StringVarP(&validateConfigFile, "file", "f", "",
		"configuration file to validate (required)")
	validateCmd.MarkFlagRequired("file")
}

func runValidate(path string, out io.Writer) error {
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("INVALID: %w", err)
	}

	fmt.Fprintf(out, "VALID: %d packet(s) of %d ms, PT %d, %s:%d -> %s:%d, writer %s -> %s\n",
		cfg.Stream.PacketCount,
		cfg.Stream.PacketDurationMs,
		cfg.RTP.PayloadType,
		cfg.IPv4.SrcIP, cfg.UDP.SrcPort,
		cfg.IPv4.DstIP, cfg.UDP.DstPort,
		cfg.Output.Writer,
		cfg.Output.Path,
	)
	return nil
}
