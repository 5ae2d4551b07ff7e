package fixture

import (
	"encoding/binary"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/rtpfixture/internal/config"
)

func TestBuildFileHeader(t *testing.T) {
	b := BuildFileHeader(config.Default().Capture)
	require.Len(t, b, 24)

	want := []byte{
		0xd4, 0xc3, 0xb2, 0xa1, // magic, little-endian
		0x02, 0x00, 0x04, 0x00, // version 2.4
		0x00, 0x00, 0x00, 0x00, // thiszone
		0x00, 0x00, 0x00, 0x00, // sigfigs
		0xff, 0xff, 0x00, 0x00, // snaplen 65535
		0x01, 0x00, 0x00, 0x00, // Ethernet
	}
	assert.Equal(t, want, b)
}

func TestBuildFileHeaderOverrides(t *testing.T) {
	c := config.Default().Capture
	c.Magic = 0xa1b23c4d
	c.ThisZone = -3600
	c.LinkType = 101

	b := BuildFileHeader(c)
	assert.Equal(t, uint32(0xa1b23c4d), binary.LittleEndian.Uint32(b[0:4]))
	assert.Equal(t, int32(-3600), int32(binary.LittleEndian.Uint32(b[8:12])))
	assert.Equal(t, uint32(101), binary.LittleEndian.Uint32(b[20:24]))
}

func TestBuildEthernetHeader(t *testing.T) {
	b := BuildEthernetHeader(config.Default().Ethernet)
	want := []byte{
		0x00, 0x11, 0x22, 0x33, 0x44, 0x55, // Dst MAC
		0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb, // Src MAC
		0x08, 0x00, // EtherType: IPv4
	}
	assert.Equal(t, want, b)
}

func TestBuildIPv4Header(t *testing.T) {
	b := BuildIPv4Header(config.Default().IPv4, 160)
	want := []byte{
		0x45, 0x00, // Version 4, IHL 5, TOS
		0x00, 0xc8, // Total Length: 200
		0x00, 0x00, // Identification
		0x00, 0x00, // Flags, Fragment Offset
		0x40, 0x11, // TTL 64, UDP
		0x00, 0x00, // Checksum (not calculated)
		127, 0, 0, 1,
		127, 0, 0, 1,
	}
	assert.Equal(t, want, b)
}

func TestBuildIPv4HeaderLengths(t *testing.T) {
	c := config.Default().IPv4
	c.SrcIP = netip.MustParseAddr("10.1.2.3")
	for _, n := range []int{0, 1, 160, 1400} {
		b := BuildIPv4Header(c, n)
		assert.Equal(t, uint16(20+8+12+n), binary.BigEndian.Uint16(b[2:4]), "payload %d", n)
		assert.Equal(t, []byte{10, 1, 2, 3}, b[12:16])
	}
}

func TestBuildUDPHeader(t *testing.T) {
	b := BuildUDPHeader(config.Default().UDP, 160)
	want := []byte{
		0x1f, 0x40, // Src Port: 8000
		0x17, 0x70, // Dst Port: 6000
		0x00, 0xb4, // Length: 180
		0x00, 0x00, // Checksum
	}
	assert.Equal(t, want, b)
}

func TestBuildRTPHeader(t *testing.T) {
	c := config.Default().RTP
	b := BuildRTPHeader(c, 1000, 160)
	want := []byte{
		0x80,       // V=2
		0x08,       // M=0, PT=8 (PCMA)
		0x03, 0xe8, // seq 1000
		0x00, 0x00, 0x00, 0xa0, // ts 160
		0x12, 0x34, 0x56, 0x78, // SSRC
	}
	assert.Equal(t, want, b)

	c.Marker = true
	b = BuildRTPHeader(c, 0xffff, 0)
	assert.Equal(t, byte(0x88), b[1])
	assert.Equal(t, uint16(0xffff), binary.BigEndian.Uint16(b[2:4]))
}

func TestBuildFrame(t *testing.T) {
	cfg := config.Default()
	payload := SynthesizeTone(20, 8000, cfg.Tone)
	frame := BuildFrame(cfg, 1000, 0, payload)

	require.Len(t, frame, 214)
	assert.Equal(t, FrameLen(160), len(frame))
	assert.Equal(t, payload, frame[54:])
	assert.Equal(t, byte(0x45), frame[14])
	assert.Equal(t, byte(0x80), frame[42])
}

func TestWrapRecord(t *testing.T) {
	frame := []byte{0xde, 0xad, 0xbe, 0xef}
	r := WrapRecord(frame, 1700000000, 999999)

	require.Len(t, r, 20)
	assert.Equal(t, uint32(1700000000), binary.LittleEndian.Uint32(r[0:4]))
	assert.Equal(t, uint32(999999), binary.LittleEndian.Uint32(r[4:8]))
	assert.Equal(t, uint32(4), binary.LittleEndian.Uint32(r[8:12]))
	assert.Equal(t, uint32(4), binary.LittleEndian.Uint32(r[12:16]))
	assert.Equal(t, frame, r[16:])
}

func TestSplitTimestamp(t *testing.T) {
	ts := time.Unix(1700000000, 20_123_456)
	sec, usec := SplitTimestamp(ts)
	assert.Equal(t, uint32(1700000000), sec)
	assert.Equal(t, uint32(20123), usec)
}
