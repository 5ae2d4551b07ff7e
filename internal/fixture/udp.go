package fixture

import (
	"encoding/binary"

	"firestige.xyz/rtpfixture/internal/config"
	"firestige.xyz/rtpfixture/internal/core"
)

// BuildUDPHeader returns the 8-byte UDP header for a media payload of
// payloadLen bytes. The checksum is zero (disabled for IPv4).
func BuildUDPHeader(c config.UDPConfig, payloadLen int) []byte {
	b := make([]byte, core.UDPHeaderLen)
	binary.BigEndian.PutUint16(b[0:2], c.SrcPort)
	binary.BigEndian.PutUint16(b[2:4], c.DstPort)
	binary.BigEndian.PutUint16(b[4:6], uint16(core.UDPHeaderLen+core.RTPHeaderLen+payloadLen))
	return b
}
