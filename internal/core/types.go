// Package core defines core types with zero external dependencies.
package core

import "net/netip"

// Fixed header sizes of the simulated frame, in bytes.
const (
	EthernetHeaderLen = 14
	IPv4HeaderLen     = 20
	UDPHeaderLen      = 8
	RTPHeaderLen      = 12

	FileHeaderLen   = 24
	RecordHeaderLen = 16
)

// Capture-file magic numbers, as read in native byte order.
const (
	MagicMicros = 0xa1b2c3d4 // ts_usec holds microseconds
	MagicNanos  = 0xa1b23c4d // ts_usec holds nanoseconds
)

// Well-known field values.
const (
	EtherTypeIPv4 = 0x0800
	ProtocolUDP   = 17
	RTPVersion    = 2
)

// EthernetHeader represents L2 Ethernet frame header.
type EthernetHeader struct {
	DstMAC    [6]byte
	SrcMAC    [6]byte
	EtherType uint16 // 0x0800=IPv4
}

// IPHeader represents an IPv4 header without options.
type IPHeader struct {
	Version   uint8
	IHL       uint8 // in 32-bit words
	TOS       uint8
	TotalLen  uint16
	ID        uint16
	FlagsFrag uint16
	TTL       uint8
	Protocol  uint8 // UDP=17
	Checksum  uint16
	SrcIP     netip.Addr
	DstIP     netip.Addr
}

// HeaderLen returns the header length in bytes.
func (h IPHeader) HeaderLen() int { return int(h.IHL) * 4 }

// IsFragment reports whether the MF flag or a fragment offset is set.
func (h IPHeader) IsFragment() bool {
	moreFragments := (h.FlagsFrag & 0x2000) != 0
	fragmentOffset := h.FlagsFrag & 0x1FFF
	return moreFragments || fragmentOffset != 0
}

// UDPHeader represents L4 UDP header.
type UDPHeader struct {
	SrcPort  uint16
	DstPort  uint16
	Length   uint16 // header + data
	Checksum uint16
}

// RTPHeader represents the 12-byte fixed RTP header (RFC 3550 §5.1).
type RTPHeader struct {
	Version     uint8
	Padding     bool
	Extension   bool
	CSRCCount   uint8
	Marker      bool
	PayloadType uint8
	Sequence    uint16
	Timestamp   uint32
	SSRC        uint32
}
