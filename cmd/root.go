// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"firestige.xyz/rtpfixture/internal/config"
	"firestige.xyz/rtpfixture/internal/log"
)

var (
	// Global flags
	configFile string

	// Generate flags, shared by the root command and `generate`
	outputPath string
	writerKind string
	noVerify   bool
	progress   bool
)

// rootCmd generates the capture when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "rtpfixture",
	Short: "rtpfixture - synthetic G.711 A-law RTP capture generator",
	Long: `rtpfixture writes a libpcap capture holding a short RTP stream
(Ethernet / IPv4 / UDP / RTP, payload type 8) for pcap playback in SIP test tools.

Defaults: 50 packets of 20 ms at 8 kHz, 127.0.0.1:8000 -> 127.0.0.1:6000,
sequence from 1000, output g711a.pcap, followed by a tcpdump read-back
when tcpdump is installed.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          generate,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (defaults apply when empty)")

	addGenerateFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(configCmd)
}

func addGenerateFlags(c *cobra.Command) {
	c.Flags().StringVarP(&outputPath, "output", "o", "", "output capture path (overrides output.path)")
	c.Flags().StringVar(&writerKind, "writer", "", "capture writer: raw or pcapgo (overrides output.writer)")
	c.Flags().BoolVar(&noVerify, "no-verify", false, "skip the external read-back tool")
	c.Flags().BoolVar(&progress, "progress", false, "show a progress bar when stderr is a terminal")
}

// loadConfig loads configFile, applies flag overrides from c and initializes
// the global logger.
func loadConfig(c *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	flags := c.Flags()
	if flags.Lookup("output") != nil {
		if flags.Changed("output") {
			cfg.Output.Path = outputPath
		}
		if flags.Changed("writer") {
			cfg.Output.Writer = writerKind
		}
		if noVerify {
			cfg.Verify.Enabled = false
		}
		if err := cfg.ValidateAndApplyDefaults(); err != nil {
			return nil, err
		}
	}

	if err := log.Init(cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

func stderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
