// Package config handles fixture configuration loading using viper.
package config

import (
	"fmt"
	"net"
	"net/netip"
	"strings"
	"time"

	"firestige.xyz/rtpfixture/internal/core"
)

// Config is the complete generator configuration.
// Maps to the `rtpfixture:` root key in YAML.
type Config struct {
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Capture  CaptureConfig  `mapstructure:"capture" yaml:"capture"`
	Ethernet EthernetConfig `mapstructure:"ethernet" yaml:"ethernet"`
	IPv4     IPv4Config     `mapstructure:"ipv4" yaml:"ipv4"`
	UDP      UDPConfig      `mapstructure:"udp" yaml:"udp"`
	RTP      RTPConfig      `mapstructure:"rtp" yaml:"rtp"`
	Stream   StreamConfig   `mapstructure:"stream" yaml:"stream"`
	Tone     ToneConfig     `mapstructure:"tone" yaml:"tone"`
	Verify   VerifyConfig   `mapstructure:"verify" yaml:"verify"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// ─── Output ───

// Writer backends.
const (
	WriterRaw    = "raw"    // fixture builders, every capture header field honoured
	WriterPcapgo = "pcapgo" // gopacket/pcapgo, fixed microsecond 2.4 header
)

// OutputConfig selects where and how the capture is written.
type OutputConfig struct {
	Path   string `mapstructure:"path" yaml:"path"`
	Writer string `mapstructure:"writer" yaml:"writer"` // raw | pcapgo
}

// ─── Frame layers ───

// CaptureConfig holds the global capture-file header fields.
type CaptureConfig struct {
	Magic        uint32 `mapstructure:"magic" yaml:"magic"` // 0xa1b2c3d4 = microsecond timestamps
	VersionMajor uint16 `mapstructure:"version_major" yaml:"version_major"`
	VersionMinor uint16 `mapstructure:"version_minor" yaml:"version_minor"`
	ThisZone     int32  `mapstructure:"thiszone" yaml:"thiszone"`
	SigFigs      uint32 `mapstructure:"sigfigs" yaml:"sigfigs"`
	SnapLen      uint32 `mapstructure:"snap_len" yaml:"snap_len"`
	LinkType     uint32 `mapstructure:"link_type" yaml:"link_type"` // 1 = Ethernet
}

// EthernetConfig holds the simulated link-layer addresses.
type EthernetConfig struct {
	DstMAC HardwareAddr `mapstructure:"dst_mac" yaml:"dst_mac"`
	SrcMAC HardwareAddr `mapstructure:"src_mac" yaml:"src_mac"`
}

// IPv4Config holds the fixed IPv4 header fields.
type IPv4Config struct {
	SrcIP          netip.Addr `mapstructure:"src_ip" yaml:"src_ip"`
	DstIP          netip.Addr `mapstructure:"dst_ip" yaml:"dst_ip"`
	TOS            uint8      `mapstructure:"tos" yaml:"tos"`
	Identification uint16     `mapstructure:"identification" yaml:"identification"`
	FlagsFragment  uint16     `mapstructure:"flags_fragment" yaml:"flags_fragment"`
	TTL            uint8      `mapstructure:"ttl" yaml:"ttl"`
}

// UDPConfig holds the UDP ports.
type UDPConfig struct {
	SrcPort uint16 `mapstructure:"src_port" yaml:"src_port"`
	DstPort uint16 `mapstructure:"dst_port" yaml:"dst_port"` // SIPp media port
}

// RTPConfig holds the RTP stream identity.
type RTPConfig struct {
	PayloadType    uint8  `mapstructure:"payload_type" yaml:"payload_type"` // 8 = PCMA
	Marker         bool   `mapstructure:"marker" yaml:"marker"`
	SSRC           uint32 `mapstructure:"ssrc" yaml:"ssrc"`
	StartSequence  uint16 `mapstructure:"start_sequence" yaml:"start_sequence"`
	StartTimestamp uint32 `mapstructure:"start_timestamp" yaml:"start_timestamp"`
}

// StreamConfig holds the packetization parameters.
type StreamConfig struct {
	PacketCount      int `mapstructure:"packet_count" yaml:"packet_count"`
	PacketDurationMs int `mapstructure:"packet_duration_ms" yaml:"packet_duration_ms"`
	SampleRate       int `mapstructure:"sample_rate" yaml:"sample_rate"`
}

// SamplesPerPacket is the RTP timestamp advance per packet.
func (s StreamConfig) SamplesPerPacket() int {
	return s.SampleRate * s.PacketDurationMs / 1000
}

// PacketDuration is the wall-clock spacing of records.
func (s StreamConfig) PacketDuration() time.Duration {
	return time.Duration(s.PacketDurationMs) * time.Millisecond
}

// Span is the simulated elapsed time covered by the whole capture.
func (s StreamConfig) Span() time.Duration {
	return time.Duration(s.PacketCount) * s.PacketDuration()
}

// Tone modes.
const (
	ToneTriangle = "triangle" // placeholder byte ramp, not real companding
	ToneALaw     = "alaw"     // sine tone encoded with G.711 A-law
)

// ToneConfig controls the payload synthesizer.
type ToneConfig struct {
	Mode          string `mapstructure:"mode" yaml:"mode"`
	PeriodSamples int    `mapstructure:"period_samples" yaml:"period_samples"`
	Amplitude     int    `mapstructure:"amplitude" yaml:"amplitude"`
	Center        int    `mapstructure:"center" yaml:"center"`
	FrequencyHz   int    `mapstructure:"frequency_hz" yaml:"frequency_hz"` // alaw only
	Level         int    `mapstructure:"level" yaml:"level"`               // alaw only, 16-bit PCM peak
}

// ─── Diagnostic hook ───

// VerifyConfig configures the optional external read-back tool.
type VerifyConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	Tool    string        `mapstructure:"tool" yaml:"tool"`
	Args    []string      `mapstructure:"args" yaml:"args"` // {file} and {limit} are substituted
	Limit   int           `mapstructure:"limit" yaml:"limit"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// ─── Log ───

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string           `mapstructure:"level" yaml:"level"` // debug / info / warn / error
	Pattern string           `mapstructure:"pattern" yaml:"pattern"`
	Time    string           `mapstructure:"time" yaml:"time"`
	File    FileOutputConfig `mapstructure:"file" yaml:"file"`
}

// FileOutputConfig configures rotated file log output.
type FileOutputConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	Path       string `mapstructure:"path" yaml:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// HardwareAddr is a MAC address that round-trips through YAML and env vars as text.
type HardwareAddr net.HardwareAddr

// MarshalText implements encoding.TextMarshaler.
func (a HardwareAddr) MarshalText() ([]byte, error) {
	return []byte(net.HardwareAddr(a).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *HardwareAddr) UnmarshalText(text []byte) error {
	hw, err := net.ParseMAC(string(text))
	if err != nil {
		return err
	}
	if len(hw) != 6 {
		return fmt.Errorf("not an EUI-48 address: %s", text)
	}
	*a = HardwareAddr(hw)
	return nil
}

func (a HardwareAddr) String() string { return net.HardwareAddr(a).String() }

func mustMAC(s string) HardwareAddr {
	var a HardwareAddr
	if err := a.UnmarshalText([]byte(s)); err != nil {
		panic(err)
	}
	return a
}

// Default returns the documented defaults: 50 PCMA packets of 20 ms at 8 kHz,
// loopback addressing, UDP 8000 -> 6000, sequence starting at 1000.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Path:   "g711a.pcap",
			Writer: WriterRaw,
		},
		Capture: CaptureConfig{
			Magic:        0xa1b2c3d4,
			VersionMajor: 2,
			VersionMinor: 4,
			ThisZone:     0,
			SigFigs:      0,
			SnapLen:      65535,
			LinkType:     1,
		},
		Ethernet: EthernetConfig{
			DstMAC: mustMAC("00:11:22:33:44:55"),
			SrcMAC: mustMAC("66:77:88:99:aa:bb"),
		},
		IPv4: IPv4Config{
			SrcIP: netip.AddrFrom4([4]byte{127, 0, 0, 1}),
			DstIP: netip.AddrFrom4([4]byte{127, 0, 0, 1}),
			TTL:   64,
		},
		UDP: UDPConfig{
			SrcPort: 8000,
			DstPort: 6000,
		},
		RTP: RTPConfig{
			PayloadType:    8,
			SSRC:           0x12345678,
			StartSequence:  1000,
			StartTimestamp: 0,
		},
		Stream: StreamConfig{
			PacketCount:      50,
			PacketDurationMs: 20,
			SampleRate:       8000,
		},
		Tone: ToneConfig{
			Mode:          ToneTriangle,
			PeriodSamples: 20,
			Amplitude:     127,
			Center:        128,
			FrequencyHz:   400,
			Level:         8000,
		},
		Verify: VerifyConfig{
			Enabled: true,
			Tool:    "tcpdump",
			Args:    []string{"-nn", "-r", "{file}", "-c", "{limit}"},
			Limit:   5,
			Timeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:   "info",
			Pattern: "%time [%level] %msg %field%n",
			Time:    "2006-01-02 15:04:05",
			File: FileOutputConfig{
				Enabled:    false,
				Path:       "rtpfixture.log",
				MaxSizeMB:  10,
				MaxAgeDays: 7,
				MaxBackups: 3,
				Compress:   false,
			},
		},
	}
}

// ValidateAndApplyDefaults validates configuration and fills runtime defaults.
func (cfg *Config) ValidateAndApplyDefaults() error {
	// ── Log ──
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return invalid("invalid log level: %s (must be debug/info/warn/error)", cfg.Log.Level)
	}
	if cfg.Log.File.Enabled && cfg.Log.File.Path == "" {
		return invalid("log.file.path is required when log.file.enabled=true")
	}

	// ── Output ──
	if cfg.Output.Path == "" {
		return invalid("output.path is required")
	}
	switch cfg.Output.Writer {
	case "":
		cfg.Output.Writer = WriterRaw
	case WriterRaw:
	case WriterPcapgo:
		// pcapgo always writes a microsecond 2.4 header with zero zone/sigfigs.
		c := cfg.Capture
		if c.Magic != core.MagicMicros || c.VersionMajor != 2 || c.VersionMinor != 4 || c.ThisZone != 0 || c.SigFigs != 0 {
			return invalid("output.writer=pcapgo only supports the default capture header, use writer=raw")
		}
		if c.LinkType > 0xff {
			return invalid("output.writer=pcapgo cannot encode link_type %d", c.LinkType)
		}
	default:
		return invalid("unsupported output.writer: %s (must be raw/pcapgo)", cfg.Output.Writer)
	}

	switch cfg.Capture.Magic {
	case core.MagicMicros, core.MagicNanos:
	default:
		return invalid("unsupported capture.magic 0x%08x (must be 0xa1b2c3d4 or 0xa1b23c4d)", cfg.Capture.Magic)
	}

	// ── Frame layers ──
	if len(cfg.Ethernet.DstMAC) != 6 || len(cfg.Ethernet.SrcMAC) != 6 {
		return invalid("ethernet.src_mac and ethernet.dst_mac must be EUI-48 addresses")
	}
	if !cfg.IPv4.SrcIP.Is4() || !cfg.IPv4.DstIP.Is4() {
		return invalid("ipv4.src_ip and ipv4.dst_ip must be IPv4 addresses")
	}
	if cfg.RTP.PayloadType > 127 {
		return invalid("rtp.payload_type %d does not fit in 7 bits", cfg.RTP.PayloadType)
	}

	// ── Stream ──
	s := cfg.Stream
	if s.PacketCount <= 0 {
		return invalid("stream.packet_count must be positive, got %d", s.PacketCount)
	}
	if s.PacketDurationMs <= 0 || s.SampleRate <= 0 {
		return invalid("stream.packet_duration_ms and stream.sample_rate must be positive")
	}
	if s.SamplesPerPacket() == 0 {
		return invalid("stream produces empty payloads (%d Hz x %d ms)", s.SampleRate, s.PacketDurationMs)
	}
	frameLen := core.EthernetHeaderLen + core.IPv4HeaderLen + core.UDPHeaderLen + core.RTPHeaderLen + s.SamplesPerPacket()
	if frameLen-core.EthernetHeaderLen > 0xffff {
		return invalid("payload of %d bytes overflows the IPv4 total length field", s.SamplesPerPacket())
	}
	if uint32(frameLen) > cfg.Capture.SnapLen {
		return invalid("frame of %d bytes exceeds capture.snap_len %d", frameLen, cfg.Capture.SnapLen)
	}

	// ── Tone ──
	switch cfg.Tone.Mode {
	case "":
		cfg.Tone.Mode = ToneTriangle
	case ToneTriangle, ToneALaw:
	default:
		return invalid("unsupported tone.mode: %s (must be triangle/alaw)", cfg.Tone.Mode)
	}
	if cfg.Tone.Mode == ToneTriangle && cfg.Tone.PeriodSamples < 2 {
		return invalid("tone.period_samples must be at least 2, got %d", cfg.Tone.PeriodSamples)
	}
	if cfg.Tone.Mode == ToneALaw && (cfg.Tone.FrequencyHz <= 0 || cfg.Tone.Level <= 0 || cfg.Tone.Level > 32767) {
		return invalid("tone.frequency_hz must be positive and tone.level in (0, 32767]")
	}

	// ── Verify ──
	if cfg.Verify.Enabled {
		if cfg.Verify.Tool == "" {
			return invalid("verify.tool is required when verify.enabled=true")
		}
		if cfg.Verify.Limit <= 0 {
			cfg.Verify.Limit = 5
		}
		if cfg.Verify.Timeout <= 0 {
			cfg.Verify.Timeout = 10 * time.Second
		}
	}

	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", core.ErrConfigInvalid, fmt.Sprintf(format, args...))
}
