// Package inspect reads a generated capture back and checks it against the
// configuration that produced it.
package inspect

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"firestige.xyz/rtpfixture/internal/config"
	"firestige.xyz/rtpfixture/internal/core"
	"firestige.xyz/rtpfixture/internal/core/decoder"
	"firestige.xyz/rtpfixture/internal/log"
	"firestige.xyz/rtpfixture/internal/pcapfile"
)

// Violation is one failed check. Record is -1 for file-level checks.
type Violation struct {
	Record int
	Msg    string
}

func (v Violation) String() string {
	if v.Record < 0 {
		return v.Msg
	}
	return fmt.Sprintf("record %d: %s", v.Record, v.Msg)
}

// Report summarizes a capture file.
type Report struct {
	Header  pcapfile.FileHeader
	Records int

	FirstSeq, LastSeq         uint16
	FirstRTPTime, LastRTPTime uint32
	FirstTime, LastTime       time.Time
	PayloadType               uint8
	SSRC                      uint32

	// Span is last - first + one packet duration.
	Span time.Duration

	// Filter is the BPF expression evaluated; Matches counts accepted records.
	Filter  string
	Matches int

	Violations []Violation
}

// OK reports whether every check passed.
func (r *Report) OK() bool { return len(r.Violations) == 0 }

func (r *Report) violate(record int, format string, args ...any) {
	r.Violations = append(r.Violations, Violation{Record: record, Msg: fmt.Sprintf(format, args...)})
}

// File inspects the capture at path.
func File(path string, cfg *config.Config) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture: %w", err)
	}
	defer f.Close()
	return Read(f, cfg)
}

// Read inspects a capture stream. Decode problems are reported as violations;
// only an unreadable header or a truncated record is returned as an error.
func Read(r io.Reader, cfg *config.Config) (*Report, error) {
	pr, err := pcapfile.NewReader(r)
	if err != nil {
		return nil, err
	}

	filter := fmt.Sprintf("udp dst port %d", cfg.UDP.DstPort)
	matcher, err := NewMatcher(filter)
	if err != nil {
		return nil, err
	}

	c := &checker{
		cfg:     cfg,
		dec:     decoder.NewStandardDecoder(),
		cross:   newCrossDecoder(),
		matcher: matcher,
		log:     log.GetLogger(),
		report:  &Report{Header: pr.Header(), Filter: filter},
	}
	c.checkHeader()

	for {
		raw, err := pr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return c.report, err
		}
		c.record(raw)
	}

	c.finish()
	return c.report, nil
}

type checker struct {
	cfg     *config.Config
	dec     decoder.Decoder
	cross   *crossDecoder
	matcher *Matcher
	log     log.Logger
	report  *Report

	prev    *core.DecodedPacket
	decoded int
}

func (c *checker) checkHeader() {
	h := c.report.Header
	if h.VersionMajor != 2 || h.VersionMinor != 4 {
		c.report.violate(-1, "capture version %d.%d, want 2.4", h.VersionMajor, h.VersionMinor)
	}
	if h.SnapLen != c.cfg.Capture.SnapLen {
		c.report.violate(-1, "snaplen %d, want %d", h.SnapLen, c.cfg.Capture.SnapLen)
	}
	if h.LinkType != uint32(layers.LinkTypeEthernet) {
		c.report.violate(-1, "link type %d, want %d (Ethernet)", h.LinkType, layers.LinkTypeEthernet)
	}
}

func (c *checker) record(raw core.RawPacket) {
	rep := c.report
	i := raw.Index
	rep.Records++

	if c.matcher.Match(raw.Data) {
		rep.Matches++
	}
	if raw.CaptureLen != raw.OrigLen || int(raw.CaptureLen) != len(raw.Data) {
		rep.violate(i, "caplen %d origlen %d frame %d differ", raw.CaptureLen, raw.OrigLen, len(raw.Data))
	}
	if err := c.cross.check(raw.Data, c.cfg.UDP.DstPort); err != nil {
		rep.violate(i, "gopacket: %v", err)
	}

	pkt, err := c.dec.Decode(raw)
	if err != nil {
		rep.violate(i, "decode: %v", err)
		c.log.WithError(err).WithField("record", i).Debug("record failed to decode")
		return
	}

	payloadLen := len(pkt.Payload)
	if want := core.IPv4HeaderLen + core.UDPHeaderLen + core.RTPHeaderLen + payloadLen; int(pkt.IP.TotalLen) != want {
		rep.violate(i, "ipv4 total length %d, want %d", pkt.IP.TotalLen, want)
	}
	if want := core.UDPHeaderLen + core.RTPHeaderLen + payloadLen; int(pkt.UDP.Length) != want {
		rep.violate(i, "udp length %d, want %d", pkt.UDP.Length, want)
	}
	if pkt.IP.IsFragment() {
		rep.violate(i, "ipv4 fragment (flags/offset 0x%04x)", pkt.IP.FlagsFrag)
	}
	if samples := c.cfg.Stream.SamplesPerPacket(); payloadLen != samples {
		rep.violate(i, "payload %d bytes, want %d", payloadLen, samples)
	}

	if c.decoded == 0 {
		rep.FirstSeq = pkt.RTP.Sequence
		rep.FirstRTPTime = pkt.RTP.Timestamp
		rep.FirstTime = pkt.Timestamp
		rep.PayloadType = pkt.RTP.PayloadType
		rep.SSRC = pkt.RTP.SSRC
	} else {
		c.checkStep(i, &pkt)
	}
	rep.LastSeq = pkt.RTP.Sequence
	rep.LastRTPTime = pkt.RTP.Timestamp
	rep.LastTime = pkt.Timestamp

	c.decoded++
	c.prev = &pkt
}

func (c *checker) checkStep(i int, pkt *core.DecodedPacket) {
	rep, prev := c.report, c.prev
	if pkt.RTP.Sequence != prev.RTP.Sequence+1 {
		rep.violate(i, "sequence %d follows %d", pkt.RTP.Sequence, prev.RTP.Sequence)
	}
	step := uint32(c.cfg.Stream.SamplesPerPacket())
	if pkt.RTP.Timestamp != prev.RTP.Timestamp+step {
		rep.violate(i, "rtp timestamp %d follows %d, want step %d", pkt.RTP.Timestamp, prev.RTP.Timestamp, step)
	}
	if pkt.RTP.SSRC != rep.SSRC {
		rep.violate(i, "ssrc 0x%08x, want 0x%08x", pkt.RTP.SSRC, rep.SSRC)
	}
	if d := pkt.Timestamp.Sub(prev.Timestamp); d != c.cfg.Stream.PacketDuration() {
		rep.violate(i, "record spacing %v, want %v", d, c.cfg.Stream.PacketDuration())
	}
}

func (c *checker) finish() {
	rep := c.report
	if c.decoded == 0 {
		if rep.Records == 0 {
			rep.violate(-1, "capture holds no records")
		}
		return
	}

	duration := c.cfg.Stream.PacketDuration()
	rep.Span = rep.LastTime.Sub(rep.FirstTime) + duration
	if want := time.Duration(rep.Records) * duration; rep.Span != want {
		rep.violate(-1, "span %v, want %v for %d records", rep.Span, want, rep.Records)
	}
	if rep.Matches != rep.Records {
		rep.violate(-1, "filter %q matched %d of %d records", rep.Filter, rep.Matches, rep.Records)
	}
}

// crossDecoder decodes frames with gopacket as an independent check of the
// hand-rolled decoder.
type crossDecoder struct {
	parser  *gopacket.DecodingLayerParser
	eth     layers.Ethernet
	ip4     layers.IPv4
	udp     layers.UDP
	payload gopacket.Payload
	decoded []gopacket.LayerType
}

func newCrossDecoder() *crossDecoder {
	d := &crossDecoder{}
	d.parser = gopacket.NewDecodingLayerParser(
		layers.LayerTypeEthernet,
		&d.eth,
		&d.ip4,
		&d.udp,
		&d.payload,
	)
	d.parser.IgnoreUnsupported = true
	return d
}

func (d *crossDecoder) check(frame []byte, dstPort uint16) error {
	d.decoded = d.decoded[:0]
	if err := d.parser.DecodeLayers(frame, &d.decoded); err != nil {
		return err
	}

	var sawUDP bool
	for _, lt := range d.decoded {
		if lt == layers.LayerTypeUDP {
			sawUDP = true
		}
	}
	if !sawUDP {
		return errors.New("no UDP layer")
	}
	if uint16(d.udp.DstPort) != dstPort {
		return fmt.Errorf("udp dst port %d, want %d", d.udp.DstPort, dstPort)
	}
	if d.ip4.Flags&layers.IPv4MoreFragments != 0 || d.ip4.FragOffset != 0 {
		return errors.New("fragmented")
	}
	return nil
}
