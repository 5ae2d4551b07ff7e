package decoder

import (
	"encoding/binary"
	"net/netip"

	"firestige.xyz/rtpfixture/internal/core"
)

// decodeIPv4 decodes IPv4 header.
// Returns IPHeader and the bytes following the header (options skipped).
func decodeIPv4(data []byte) (core.IPHeader, []byte, error) {
	if len(data) < core.IPv4HeaderLen {
		return core.IPHeader{}, nil, core.ErrPacketTooShort
	}

	ip := core.IPHeader{
		Version: data[0] >> 4,
		IHL:     data[0] & 0x0F, // in 32-bit words
	}
	if ip.Version != 4 {
		return ip, nil, core.ErrUnsupportedProto
	}

	headerLen := ip.HeaderLen()
	if headerLen < core.IPv4HeaderLen || len(data) < headerLen {
		return ip, nil, core.ErrPacketTooShort
	}

	ip.TOS = data[1]
	ip.TotalLen = binary.BigEndian.Uint16(data[2:4])
	ip.ID = binary.BigEndian.Uint16(data[4:6])
	ip.FlagsFrag = binary.BigEndian.Uint16(data[6:8])
	ip.TTL = data[8]
	ip.Protocol = data[9]
	ip.Checksum = binary.BigEndian.Uint16(data[10:12])
	ip.SrcIP = netip.AddrFrom4([4]byte(data[12:16]))
	ip.DstIP = netip.AddrFrom4([4]byte(data[16:20]))

	return ip, data[headerLen:], nil
}
