// Package fixture builds the simulated RTP capture: the capture-file header,
// the four stacked frame headers, the media payload and per-packet records.
//
// Capture-file fields are little-endian; fields inside the simulated frame are
// in network byte order. Every builder is pure and returns a fresh slice.
package fixture

import (
	"encoding/binary"

	"firestige.xyz/rtpfixture/internal/config"
	"firestige.xyz/rtpfixture/internal/core"
)

// BuildFileHeader returns the 24-byte global capture header.
func BuildFileHeader(c config.CaptureConfig) []byte {
	b := make([]byte, core.FileHeaderLen)
	binary.LittleEndian.PutUint32(b[0:4], c.Magic)
	binary.LittleEndian.PutUint16(b[4:6], c.VersionMajor)
	binary.LittleEndian.PutUint16(b[6:8], c.VersionMinor)
	binary.LittleEndian.PutUint32(b[8:12], uint32(c.ThisZone))
	binary.LittleEndian.PutUint32(b[12:16], c.SigFigs)
	binary.LittleEndian.PutUint32(b[16:20], c.SnapLen)
	binary.LittleEndian.PutUint32(b[20:24], c.LinkType)
	return b
}
