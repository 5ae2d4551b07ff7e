package decoder

import (
	"encoding/binary"

	"firestige.xyz/rtpfixture/internal/core"
)

// decodeUDP decodes UDP header.
// Returns UDPHeader and the datagram payload.
func decodeUDP(data []byte) (core.UDPHeader, []byte, error) {
	if len(data) < core.UDPHeaderLen {
		return core.UDPHeader{}, nil, core.ErrPacketTooShort
	}

	udp := core.UDPHeader{
		SrcPort:  binary.BigEndian.Uint16(data[0:2]),
		DstPort:  binary.BigEndian.Uint16(data[2:4]),
		Length:   binary.BigEndian.Uint16(data[4:6]), // includes header and data
		Checksum: binary.BigEndian.Uint16(data[6:8]),
	}

	return udp, data[core.UDPHeaderLen:], nil
}
