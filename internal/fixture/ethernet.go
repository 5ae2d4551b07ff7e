package fixture

import (
	"encoding/binary"

	"firestige.xyz/rtpfixture/internal/config"
	"firestige.xyz/rtpfixture/internal/core"
)

// BuildEthernetHeader returns the 14-byte link-layer header tagging the
// payload as IPv4.
func BuildEthernetHeader(c config.EthernetConfig) []byte {
	b := make([]byte, core.EthernetHeaderLen)
	copy(b[0:6], c.DstMAC)
	copy(b[6:12], c.SrcMAC)
	binary.BigEndian.PutUint16(b[12:14], core.EtherTypeIPv4)
	return b
}
