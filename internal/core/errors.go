// Package core defines sentinel errors.
package core

import "errors"

// Sentinel errors, wrapped with %w by the packages that return them.
var (
	// Packet decoding errors
	ErrPacketTooShort   = errors.New("rtpfixture: packet too short")
	ErrUnsupportedProto = errors.New("rtpfixture: unsupported protocol")
	ErrNotRTP           = errors.New("rtpfixture: payload is not RTP")

	// Capture file errors
	ErrBadMagic    = errors.New("rtpfixture: unrecognized capture magic")
	ErrOutputOpen  = errors.New("rtpfixture: cannot open output")
	ErrWriteRecord = errors.New("rtpfixture: record write failed")

	// Configuration errors
	ErrConfigInvalid = errors.New("rtpfixture: invalid configuration")
)
