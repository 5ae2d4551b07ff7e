package fixture

import (
	"encoding/binary"

	"firestige.xyz/rtpfixture/internal/config"
	"firestige.xyz/rtpfixture/internal/core"
)

// BuildRTPHeader returns the 12-byte RTP header: V=2, no padding, extension
// or CSRCs. seq wraps at 16 bits without complaint.
func BuildRTPHeader(c config.RTPConfig, seq uint16, ts uint32) []byte {
	b := make([]byte, core.RTPHeaderLen)
	b[0] = core.RTPVersion << 6
	b[1] = c.PayloadType & 0x7F
	if c.Marker {
		b[1] |= 0x80
	}
	binary.BigEndian.PutUint16(b[2:4], seq)
	binary.BigEndian.PutUint32(b[4:8], ts)
	binary.BigEndian.PutUint32(b[8:12], c.SSRC)
	return b
}
