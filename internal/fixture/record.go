package fixture

import (
	"encoding/binary"
	"time"

	"firestige.xyz/rtpfixture/internal/core"
)

// WrapRecord prefixes frame with the 16-byte record header. Captured and
// original length are both len(frame); tsUsec is not range checked.
func WrapRecord(frame []byte, tsSec, tsUsec uint32) []byte {
	b := make([]byte, core.RecordHeaderLen, core.RecordHeaderLen+len(frame))
	binary.LittleEndian.PutUint32(b[0:4], tsSec)
	binary.LittleEndian.PutUint32(b[4:8], tsUsec)
	binary.LittleEndian.PutUint32(b[8:12], uint32(len(frame)))
	binary.LittleEndian.PutUint32(b[12:16], uint32(len(frame)))
	return append(b, frame...)
}

// SplitTimestamp converts t into the record's seconds and microseconds fields.
func SplitTimestamp(t time.Time) (sec, usec uint32) {
	return uint32(t.Unix()), uint32(t.Nanosecond() / 1000)
}
