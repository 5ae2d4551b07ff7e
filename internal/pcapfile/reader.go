package pcapfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/google/gopacket/pcapgo"

	"firestige.xyz/rtpfixture/internal/core"
)

const (
	magicMicros = core.MagicMicros
	magicNanos  = core.MagicNanos
)

// FileHeader is the decoded global capture header.
type FileHeader struct {
	Magic        uint32
	VersionMajor uint16
	VersionMinor uint16
	ThisZone     int32
	SigFigs      uint32
	SnapLen      uint32
	LinkType     uint32
	BigEndian    bool
}

// Nanosecond reports whether record timestamps carry nanoseconds.
func (h FileHeader) Nanosecond() bool { return h.Magic == magicNanos }

// ParseFileHeader decodes the 24-byte global header in either byte order.
func ParseFileHeader(b []byte) (FileHeader, error) {
	if len(b) < core.FileHeaderLen {
		return FileHeader{}, core.ErrPacketTooShort
	}

	var order binary.ByteOrder = binary.LittleEndian
	h := FileHeader{Magic: order.Uint32(b[0:4])}
	if h.Magic != magicMicros && h.Magic != magicNanos {
		order = binary.BigEndian
		h.Magic = order.Uint32(b[0:4])
		h.BigEndian = true
		if h.Magic != magicMicros && h.Magic != magicNanos {
			return FileHeader{}, fmt.Errorf("%w: 0x%08x", core.ErrBadMagic, binary.LittleEndian.Uint32(b[0:4]))
		}
	}

	h.VersionMajor = order.Uint16(b[4:6])
	h.VersionMinor = order.Uint16(b[6:8])
	h.ThisZone = int32(order.Uint32(b[8:12]))
	h.SigFigs = order.Uint32(b[12:16])
	h.SnapLen = order.Uint32(b[16:20])
	h.LinkType = order.Uint32(b[20:24])
	return h, nil
}

// Reader yields the records of a capture file as core.RawPacket.
type Reader struct {
	header FileHeader
	r      *pcapgo.Reader
	index  int
}

// NewReader parses the global header and positions r at the first record.
func NewReader(r io.Reader) (*Reader, error) {
	hdr := make([]byte, core.FileHeaderLen)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, fmt.Errorf("failed to read capture header: %w", err)
	}
	h, err := ParseFileHeader(hdr)
	if err != nil {
		return nil, err
	}

	pr, err := pcapgo.NewReader(io.MultiReader(bytes.NewReader(hdr), r))
	if err != nil {
		return nil, fmt.Errorf("failed to open capture: %w", err)
	}
	return &Reader{header: h, r: pr}, nil
}

// Header returns the parsed global header.
func (r *Reader) Header() FileHeader { return r.header }

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (core.RawPacket, error) {
	data, ci, err := r.r.ReadPacketData()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return core.RawPacket{}, io.EOF
		}
		return core.RawPacket{}, fmt.Errorf("failed to read record %d: %w", r.index, err)
	}

	pkt := core.RawPacket{
		Data:       data,
		Timestamp:  ci.Timestamp,
		CaptureLen: uint32(ci.CaptureLength),
		OrigLen:    uint32(ci.Length),
		Index:      r.index,
	}
	r.index++
	return pkt, nil
}
