package decoder

import (
	"encoding/binary"

	"firestige.xyz/rtpfixture/internal/core"
)

// decodeRTP parses the 12-byte fixed RTP header and skips any CSRC list.
// Returns RTPHeader and the media payload.
func decodeRTP(data []byte) (core.RTPHeader, []byte, error) {
	if len(data) < core.RTPHeaderLen {
		return core.RTPHeader{}, nil, core.ErrPacketTooShort
	}

	b := data

	// Byte 0: V(7:6) P(5) X(4) CC(3:0)
	h := core.RTPHeader{
		Version:   (b[0] >> 6) & 0x3,
		Padding:   (b[0]>>5)&0x1 == 1,
		Extension: (b[0]>>4)&0x1 == 1,
		CSRCCount: b[0] & 0x0F,
	}
	if h.Version != core.RTPVersion {
		return h, nil, core.ErrNotRTP
	}

	// Byte 1: M(7) PT(6:0)
	h.Marker = (b[1]>>7)&0x1 == 1
	h.PayloadType = b[1] & 0x7F

	h.Sequence = binary.BigEndian.Uint16(b[2:4])
	h.Timestamp = binary.BigEndian.Uint32(b[4:8])
	h.SSRC = binary.BigEndian.Uint32(b[8:12])

	offset := core.RTPHeaderLen + 4*int(h.CSRCCount)
	if len(b) < offset {
		return h, nil, core.ErrPacketTooShort
	}
	return h, b[offset:], nil
}
