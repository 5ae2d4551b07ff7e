package fixture

import (
	"encoding/binary"

	"firestige.xyz/rtpfixture/internal/config"
	"firestige.xyz/rtpfixture/internal/core"
)

// BuildIPv4Header returns the 20-byte IPv4 header for a media payload of
// payloadLen bytes. The checksum is left at zero; readers must not validate it.
func BuildIPv4Header(c config.IPv4Config, payloadLen int) []byte {
	totalLen := core.IPv4HeaderLen + core.UDPHeaderLen + core.RTPHeaderLen + payloadLen

	b := make([]byte, core.IPv4HeaderLen)
	b[0] = 4<<4 | core.IPv4HeaderLen/4
	b[1] = c.TOS
	binary.BigEndian.PutUint16(b[2:4], uint16(totalLen))
	binary.BigEndian.PutUint16(b[4:6], c.Identification)
	binary.BigEndian.PutUint16(b[6:8], c.FlagsFragment)
	b[8] = c.TTL
	b[9] = core.ProtocolUDP
	// b[10:12] checksum stays zero
	src := c.SrcIP.As4()
	dst := c.DstIP.As4()
	copy(b[12:16], src[:])
	copy(b[16:20], dst[:])
	return b
}
