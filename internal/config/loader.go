package config

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const rootKey = "rtpfixture"

// configRoot is the top-level wrapper matching the YAML structure `rtpfixture: ...`.
type configRoot struct {
	Fixture Config `mapstructure:"rtpfixture"`
}

// Load loads configuration from file, layered over Default().
// An empty path skips the file and uses defaults plus environment overrides.
// Env vars use the RTPFIXTURE_ prefix (e.g. RTPFIXTURE_OUTPUT_PATH).
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	// The `rtpfixture.` key prefix maps to `RTPFIXTURE_` via the replacer.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	// Text unmarshalling runs first so MAC strings are not split as slices.
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&root, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Fixture

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key of Default() so env overrides resolve
// even when the file omits a section.
func setDefaults(v *viper.Viper) {
	d := Default()
	set := func(key string, value any) { v.SetDefault(rootKey+"."+key, value) }

	// Output
	set("output.path", d.Output.Path)
	set("output.writer", d.Output.Writer)

	// Capture header
	set("capture.magic", d.Capture.Magic)
	set("capture.version_major", d.Capture.VersionMajor)
	set("capture.version_minor", d.Capture.VersionMinor)
	set("capture.thiszone", d.Capture.ThisZone)
	set("capture.sigfigs", d.Capture.SigFigs)
	set("capture.snap_len", d.Capture.SnapLen)
	set("capture.link_type", d.Capture.LinkType)

	// Frame layers
	set("ethernet.dst_mac", d.Ethernet.DstMAC.String())
	set("ethernet.src_mac", d.Ethernet.SrcMAC.String())
	set("ipv4.src_ip", d.IPv4.SrcIP.String())
	set("ipv4.dst_ip", d.IPv4.DstIP.String())
	set("ipv4.tos", d.IPv4.TOS)
	set("ipv4.identification", d.IPv4.Identification)
	set("ipv4.flags_fragment", d.IPv4.FlagsFragment)
	set("ipv4.ttl", d.IPv4.TTL)
	set("udp.src_port", d.UDP.SrcPort)
	set("udp.dst_port", d.UDP.DstPort)
	set("rtp.payload_type", d.RTP.PayloadType)
	set("rtp.marker", d.RTP.Marker)
	set("rtp.ssrc", d.RTP.SSRC)
	set("rtp.start_sequence", d.RTP.StartSequence)
	set("rtp.start_timestamp", d.RTP.StartTimestamp)

	// Stream
	set("stream.packet_count", d.Stream.PacketCount)
	set("stream.packet_duration_ms", d.Stream.PacketDurationMs)
	set("stream.sample_rate", d.Stream.SampleRate)

	// Tone
	set("tone.mode", d.Tone.Mode)
	set("tone.period_samples", d.Tone.PeriodSamples)
	set("tone.amplitude", d.Tone.Amplitude)
	set("tone.center", d.Tone.Center)
	set("tone.frequency_hz", d.Tone.FrequencyHz)
	set("tone.level", d.Tone.Level)

	// Verify
	set("verify.enabled", d.Verify.Enabled)
	set("verify.tool", d.Verify.Tool)
	set("verify.args", d.Verify.Args)
	set("verify.limit", d.Verify.Limit)
	set("verify.timeout", d.Verify.Timeout.String())

	// Log
	set("log.level", d.Log.Level)
	set("log.pattern", d.Log.Pattern)
	set("log.time", d.Log.Time)
	set("log.file.enabled", d.Log.File.Enabled)
	set("log.file.path", d.Log.File.Path)
	set("log.file.max_size_mb", d.Log.File.MaxSizeMB)
	set("log.file.max_age_days", d.Log.File.MaxAgeDays)
	set("log.file.max_backups", d.Log.File.MaxBackups)
	set("log.file.compress", d.Log.File.Compress)
}
