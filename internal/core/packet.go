// Package core defines core data structures with zero external dependencies.
package core

import "time"

// RawPacket is one record read back from a capture file.
type RawPacket struct {
	Data       []byte    // Frame bytes following the record header
	Timestamp  time.Time // Record timestamp (ts_sec + ts_usec)
	CaptureLen uint32    // Declared captured length
	OrigLen    uint32    // Declared original length
	Index      int       // Zero-based record position in the file
}

// DecodedPacket is the result of decoding a simulated RTP frame.
type DecodedPacket struct {
	Timestamp  time.Time
	Ethernet   EthernetHeader
	IP         IPHeader
	UDP        UDPHeader
	RTP        RTPHeader
	Payload    []byte // Media payload, zero-copy slice
	CaptureLen uint32
	OrigLen    uint32
	FrameLen   int
}
