package fixture

import (
	"context"
	"fmt"
	"time"

	"firestige.xyz/rtpfixture/internal/config"
	"firestige.xyz/rtpfixture/internal/core"
	"firestige.xyz/rtpfixture/internal/log"
)

// RecordWriter is the sink the Generator streams into.
type RecordWriter interface {
	WriteFileHeader() error
	WriteRecord(ts time.Time, frame []byte) error
}

// Stats summarizes one generator run.
type Stats struct {
	Packets      int
	Bytes        int64 // file header + record headers + frames
	FirstSeq     uint16
	LastSeq      uint16
	FirstRTPTime uint32
	LastRTPTime  uint32
	Span         time.Duration // simulated elapsed time, packets * packet duration
}

// Option customizes a Generator.
type Option func(*Generator)

// WithLogger overrides the global logger.
func WithLogger(l log.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithRecordHook registers fn to be called after each record is written.
func WithRecordHook(fn func(index int, seq uint16)) Option {
	return func(g *Generator) { g.onRecord = fn }
}

// Generator drives the fixed linear sequence: file header once, then one
// record per packet with sequence +1 and RTP timestamp +samples per packet.
type Generator struct {
	cfg      *config.Config
	log      log.Logger
	onRecord func(index int, seq uint16)
}

// NewGenerator creates a Generator for an already validated cfg.
func NewGenerator(cfg *config.Config, opts ...Option) *Generator {
	g := &Generator{
		cfg: cfg,
		log: log.GetLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run writes the whole capture to w. Record i is stamped base + i*duration.
// The context is checked between records.
func (g *Generator) Run(ctx context.Context, w RecordWriter, base time.Time) (Stats, error) {
	stream := g.cfg.Stream
	samples := stream.SamplesPerPacket()
	duration := stream.PacketDuration()

	stats := Stats{
		FirstSeq:     g.cfg.RTP.StartSequence,
		FirstRTPTime: g.cfg.RTP.StartTimestamp,
	}

	if err := w.WriteFileHeader(); err != nil {
		return stats, fmt.Errorf("%w: file header: %v", core.ErrWriteRecord, err)
	}
	stats.Bytes = core.FileHeaderLen

	seq := g.cfg.RTP.StartSequence
	ts := g.cfg.RTP.StartTimestamp
	for i := 0; i < stream.PacketCount; i++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		payload := SynthesizeToneAt(i*samples, stream.PacketDurationMs, stream.SampleRate, g.cfg.Tone)
		frame := BuildFrame(g.cfg, seq, ts, payload)
		at := base.Add(time.Duration(i) * duration)

		if err := w.WriteRecord(at, frame); err != nil {
			return stats, fmt.Errorf("%w: record %d (seq %d): %v", core.ErrWriteRecord, i, seq, err)
		}

		stats.Packets++
		stats.Bytes += int64(core.RecordHeaderLen + len(frame))
		stats.LastSeq = seq
		stats.LastRTPTime = ts

		if g.log.IsDebugEnabled() {
			g.log.WithFields(map[string]interface{}{
				"seq":   seq,
				"rtpts": ts,
				"len":   len(frame),
			}).Debug("record written")
		}
		if g.onRecord != nil {
			g.onRecord(i, seq)
		}

		seq++
		ts += uint32(samples)
	}

	stats.Span = time.Duration(stats.Packets) * duration
	return stats, nil
}
