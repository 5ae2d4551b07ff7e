package decoder

import (
	"encoding/binary"

	"firestige.xyz/rtpfixture/internal/core"
)

// decodeEthernet decodes an untagged Ethernet II header.
// Returns EthernetHeader and remaining payload.
func decodeEthernet(data []byte) (core.EthernetHeader, []byte, error) {
	if len(data) < core.EthernetHeaderLen {
		return core.EthernetHeader{}, nil, core.ErrPacketTooShort
	}

	eth := core.EthernetHeader{}

	// Destination MAC (6 bytes)
	copy(eth.DstMAC[:], data[0:6])

	// Source MAC (6 bytes)
	copy(eth.SrcMAC[:], data[6:12])

	// EtherType (2 bytes)
	eth.EtherType = binary.BigEndian.Uint16(data[12:14])
	if eth.EtherType != core.EtherTypeIPv4 {
		// VLAN tags, IPv6, ARP... never produced by the generator
		return eth, nil, core.ErrUnsupportedProto
	}

	return eth, data[core.EthernetHeaderLen:], nil
}
