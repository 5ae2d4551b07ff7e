package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"firestige.xyz/rtpfixture/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration generate would use, after defaults, the config
file and RTPFIXTURE_* environment overrides are merged. The output is a valid
config file.

Examples:
  rtpfixture config > fixture.yml
  RTPFIXTURE_STREAM_PACKET_COUNT=100 rtpfixture config`,
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		return runConfig(cfg, c.OutOrStdout())
	},
}

func runConfig(cfg *config.Config, out io.Writer) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]*config.Config{"rtpfixture": cfg}); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
