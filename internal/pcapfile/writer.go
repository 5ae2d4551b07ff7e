// Package pcapfile writes and reads libpcap capture files.
package pcapfile

import (
	"fmt"
	"io"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"firestige.xyz/rtpfixture/internal/config"
	"firestige.xyz/rtpfixture/internal/core"
	"firestige.xyz/rtpfixture/internal/fixture"
)

// NewWriter returns the writer backend named by kind (config.WriterRaw or
// config.WriterPcapgo).
func NewWriter(kind string, w io.Writer, c config.CaptureConfig) (fixture.RecordWriter, error) {
	switch kind {
	case config.WriterRaw, "":
		return NewRawWriter(w, c), nil
	case config.WriterPcapgo:
		return NewGopacketWriter(w, c), nil
	default:
		return nil, fmt.Errorf("unsupported writer %q", kind)
	}
}

// RawWriter emits bytes produced by the fixture builders, so every header
// field in CaptureConfig is honoured verbatim.
type RawWriter struct {
	w   io.Writer
	cfg config.CaptureConfig
}

// NewRawWriter returns a RawWriter writing to w.
func NewRawWriter(w io.Writer, c config.CaptureConfig) *RawWriter {
	return &RawWriter{w: w, cfg: c}
}

// WriteFileHeader writes the 24-byte global header. Call exactly once.
func (r *RawWriter) WriteFileHeader() error {
	_, err := r.w.Write(fixture.BuildFileHeader(r.cfg))
	return err
}

// WriteRecord writes one record header followed by frame. The fractional
// timestamp field is in nanoseconds when the header carries the nanosecond magic.
func (r *RawWriter) WriteRecord(ts time.Time, frame []byte) error {
	sec, frac := fixture.SplitTimestamp(ts)
	if r.cfg.Magic == core.MagicNanos {
		frac = uint32(ts.Nanosecond())
	}
	_, err := r.w.Write(fixture.WrapRecord(frame, sec, frac))
	return err
}

// GopacketWriter delegates to pcapgo. It always writes the microsecond
// 2.4 header, so only SnapLen and LinkType are taken from CaptureConfig.
type GopacketWriter struct {
	w   *pcapgo.Writer
	cfg config.CaptureConfig
}

// NewGopacketWriter returns a GopacketWriter writing to w.
func NewGopacketWriter(w io.Writer, c config.CaptureConfig) *GopacketWriter {
	return &GopacketWriter{w: pcapgo.NewWriter(w), cfg: c}
}

// WriteFileHeader writes the global header with SnapLen and LinkType.
func (g *GopacketWriter) WriteFileHeader() error {
	return g.w.WriteFileHeader(g.cfg.SnapLen, layers.LinkType(g.cfg.LinkType))
}

// WriteRecord writes one record through pcapgo.
func (g *GopacketWriter) WriteRecord(ts time.Time, frame []byte) error {
	ci := gopacket.CaptureInfo{
		Timestamp:     ts,
		CaptureLength: len(frame),
		Length:        len(frame),
	}
	return g.w.WritePacket(ci, frame)
}
