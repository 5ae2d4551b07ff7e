package config

import (
	"errors"
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/rtpfixture/internal/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ValidateAndApplyDefaults())

	assert.Equal(t, 160, cfg.Stream.SamplesPerPacket())
	assert.Equal(t, 20*time.Millisecond, cfg.Stream.PacketDuration())
	assert.Equal(t, time.Second, cfg.Stream.Span())
	assert.Equal(t, uint16(1000), cfg.RTP.StartSequence)
	assert.Equal(t, "00:11:22:33:44:55", cfg.Ethernet.DstMAC.String())
	assert.Equal(t, netip.MustParseAddr("127.0.0.1"), cfg.IPv4.SrcIP)
}

func TestLoadWithoutFileMatchesDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	want := Default()
	require.NoError(t, want.ValidateAndApplyDefaults())
	assert.Equal(t, want, cfg)
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
rtpfixture:
  output:
    path: "/tmp/out.pcap"
    writer: "pcapgo"
  ethernet:
    dst_mac: "02:00:00:00:00:01"
  ipv4:
    src_ip: "10.0.0.1"
    ttl: 32
  udp:
    dst_port: 7078
  rtp:
    ssrc: 0xdeadbeef
    start_sequence: 1
  stream:
    packet_count: 10
  verify:
    enabled: false
    timeout: "3s"
  log:
    level: "DEBUG"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/out.pcap", cfg.Output.Path)
	assert.Equal(t, WriterPcapgo, cfg.Output.Writer)
	assert.Equal(t, "02:00:00:00:00:01", cfg.Ethernet.DstMAC.String())
	assert.Equal(t, "66:77:88:99:aa:bb", cfg.Ethernet.SrcMAC.String(), "unset keys keep defaults")
	assert.Equal(t, netip.MustParseAddr("10.0.0.1"), cfg.IPv4.SrcIP)
	assert.Equal(t, netip.MustParseAddr("127.0.0.1"), cfg.IPv4.DstIP)
	assert.Equal(t, uint8(32), cfg.IPv4.TTL)
	assert.Equal(t, uint16(7078), cfg.UDP.DstPort)
	assert.Equal(t, uint32(0xdeadbeef), cfg.RTP.SSRC)
	assert.Equal(t, uint16(1), cfg.RTP.StartSequence)
	assert.Equal(t, 10, cfg.Stream.PacketCount)
	assert.False(t, cfg.Verify.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Verify.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("RTPFIXTURE_OUTPUT_PATH", "env.pcap")
	t.Setenv("RTPFIXTURE_UDP_DST_PORT", "9000")
	t.Setenv("RTPFIXTURE_ETHERNET_SRC_MAC", "02:aa:bb:cc:dd:ee")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env.pcap", cfg.Output.Path)
	assert.Equal(t, uint16(9000), cfg.UDP.DstPort)
	assert.Equal(t, "02:aa:bb:cc:dd:ee", cfg.Ethernet.SrcMAC.String())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestLoadInvalidMAC(t *testing.T) {
	path := writeConfig(t, `
rtpfixture:
  ethernet:
    dst_mac: "not-a-mac"
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"log level", func(c *Config) { c.Log.Level = "trace" }},
		{"empty output", func(c *Config) { c.Output.Path = "" }},
		{"unknown writer", func(c *Config) { c.Output.Writer = "ngpcap" }},
		{"pcapgo custom magic", func(c *Config) { c.Output.Writer = WriterPcapgo; c.Capture.Magic = 0xa1b23c4d }},
		{"unknown magic", func(c *Config) { c.Capture.Magic = 0x0a0d0d0a }},
		{"zero packets", func(c *Config) { c.Stream.PacketCount = 0 }},
		{"zero duration", func(c *Config) { c.Stream.PacketDurationMs = 0 }},
		{"empty payload", func(c *Config) { c.Stream.SampleRate = 10 }},
		{"ipv6 source", func(c *Config) { c.IPv4.SrcIP = netip.MustParseAddr("::1") }},
		{"short mac", func(c *Config) { c.Ethernet.SrcMAC = HardwareAddr{1, 2} }},
		{"payload type", func(c *Config) { c.RTP.PayloadType = 200 }},
		{"tone mode", func(c *Config) { c.Tone.Mode = "ulaw" }},
		{"tone period", func(c *Config) { c.Tone.PeriodSamples = 1 }},
		{"alaw level", func(c *Config) { c.Tone.Mode = ToneALaw; c.Tone.Level = 0 }},
		{"snap len", func(c *Config) { c.Capture.SnapLen = 100 }},
		{"verify tool", func(c *Config) { c.Verify.Tool = "" }},
		{"log file path", func(c *Config) { c.Log.File.Enabled = true; c.Log.File.Path = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.ValidateAndApplyDefaults()
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrConfigInvalid), "want ErrConfigInvalid, got %v", err)
		})
	}
}

func TestValidateAcceptsNanosecondMagic(t *testing.T) {
	cfg := Default()
	cfg.Capture.Magic = core.MagicNanos
	assert.NoError(t, cfg.ValidateAndApplyDefaults())
}

func TestValidateAppliesDefaults(t *testing.T) {
	cfg := Default()
	cfg.Output.Writer = ""
	cfg.Tone.Mode = ""
	cfg.Verify.Limit = 0
	cfg.Verify.Timeout = 0

	require.NoError(t, cfg.ValidateAndApplyDefaults())
	assert.Equal(t, WriterRaw, cfg.Output.Writer)
	assert.Equal(t, ToneTriangle, cfg.Tone.Mode)
	assert.Equal(t, 5, cfg.Verify.Limit)
	assert.Equal(t, 10*time.Second, cfg.Verify.Timeout)
}

func TestHardwareAddrText(t *testing.T) {
	var a HardwareAddr
	require.NoError(t, a.UnmarshalText([]byte("AA-BB-CC-DD-EE-FF")))
	text, err := a.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", string(text))

	assert.Error(t, a.UnmarshalText([]byte("00:00:00:00:fe:80:00:00:00:00:00:00:02:00:5e:10:00:00:00:01")))
}
