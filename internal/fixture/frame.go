package fixture

import (
	"firestige.xyz/rtpfixture/internal/config"
	"firestige.xyz/rtpfixture/internal/core"
)

// FrameLen is the size of a frame carrying payloadLen media bytes.
func FrameLen(payloadLen int) int {
	return core.EthernetHeaderLen + core.IPv4HeaderLen + core.UDPHeaderLen + core.RTPHeaderLen + payloadLen
}

// BuildFrame stacks Ethernet, IPv4, UDP and RTP headers in front of payload.
func BuildFrame(cfg *config.Config, seq uint16, ts uint32, payload []byte) []byte {
	frame := make([]byte, 0, FrameLen(len(payload)))
	frame = append(frame, BuildEthernetHeader(cfg.Ethernet)...)
	frame = append(frame, BuildIPv4Header(cfg.IPv4, len(payload))...)
	frame = append(frame, BuildUDPHeader(cfg.UDP, len(payload))...)
	frame = append(frame, BuildRTPHeader(cfg.RTP, seq, ts)...)
	frame = append(frame, payload...)
	return frame
}
