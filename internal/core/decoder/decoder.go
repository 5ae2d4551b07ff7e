// Package decoder decodes simulated RTP frames (Ethernet/IPv4/UDP/RTP) read
// back from a capture file.
package decoder

import (
	"fmt"

	"firestige.xyz/rtpfixture/internal/core"
)

// Decoder decodes raw records into structured format.
type Decoder interface {
	Decode(raw core.RawPacket) (core.DecodedPacket, error)
}

// StandardDecoder decodes untagged Ethernet II frames carrying IPv4/UDP/RTP.
type StandardDecoder struct{}

func NewStandardDecoder() *StandardDecoder {
	return &StandardDecoder{}
}

// Decode walks the four headers. Length fields are reported as declared;
// checking them against the actual sizes is left to the caller.
func (d *StandardDecoder) Decode(raw core.RawPacket) (core.DecodedPacket, error) {
	pkt := core.DecodedPacket{
		Timestamp:  raw.Timestamp,
		CaptureLen: raw.CaptureLen,
		OrigLen:    raw.OrigLen,
		FrameLen:   len(raw.Data),
	}

	eth, rest, err := decodeEthernet(raw.Data)
	if err != nil {
		return pkt, fmt.Errorf("ethernet: %w", err)
	}
	pkt.Ethernet = eth

	ip, rest, err := decodeIPv4(rest)
	if err != nil {
		return pkt, fmt.Errorf("ipv4: %w", err)
	}
	pkt.IP = ip

	if ip.Protocol != core.ProtocolUDP {
		return pkt, fmt.Errorf("ipv4 protocol %d: %w", ip.Protocol, core.ErrUnsupportedProto)
	}
	udp, rest, err := decodeUDP(rest)
	if err != nil {
		return pkt, fmt.Errorf("udp: %w", err)
	}
	pkt.UDP = udp

	rtp, payload, err := decodeRTP(rest)
	if err != nil {
		return pkt, fmt.Errorf("rtp: %w", err)
	}
	pkt.RTP = rtp
	pkt.Payload = payload

	return pkt, nil
}
