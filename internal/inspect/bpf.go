package inspect

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/bpf"

	"firestige.xyz/rtpfixture/internal/core"
)

// snapLen is the accept length returned by matching programs, as tcpdump does.
const snapLen = 262144

var portRegex = regexp.MustCompile(`^udp\s+(?:(src|dst)\s+)?port\s+(\d+)$`)

// CompileFilter translates a small tcpdump-style expression into a classic
// BPF program for untagged Ethernet frames. Supported forms:
//
//	""  / "ip"
//	"udp"
//	"udp port N", "udp src port N", "udp dst port N"
//
// Fragments never match a port filter.
func CompileFilter(filter string) ([]bpf.Instruction, error) {
	filter = strings.Join(strings.Fields(strings.ToLower(filter)), " ")

	switch filter {
	case "", "ip":
		return ipv4Program(), nil
	case "udp":
		return udpProgram(), nil
	}

	m := portRegex.FindStringSubmatch(filter)
	if m == nil {
		return nil, fmt.Errorf("unsupported filter expression %q", filter)
	}
	port, err := strconv.ParseUint(m[2], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid port in filter %q: %w", filter, err)
	}

	switch m[1] {
	case "src":
		return udpPortProgram(14, uint32(port)), nil
	case "dst":
		return udpPortProgram(16, uint32(port)), nil
	default:
		return udpAnyPortProgram(uint32(port)), nil
	}
}

// Assemble compiles filter to raw instructions, e.g. for attaching to a socket.
func Assemble(filter string) ([]bpf.RawInstruction, error) {
	prog, err := CompileFilter(filter)
	if err != nil {
		return nil, err
	}
	return bpf.Assemble(prog)
}

func ipv4Program() []bpf.Instruction {
	return []bpf.Instruction{
		// EtherType at offset 12
		bpf.LoadAbsolute{Off: 12, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: core.EtherTypeIPv4, SkipFalse: 1},
		bpf.RetConstant{Val: snapLen},
		bpf.RetConstant{Val: 0},
	}
}

func udpProgram() []bpf.Instruction {
	return []bpf.Instruction{
		bpf.LoadAbsolute{Off: 12, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: core.EtherTypeIPv4, SkipFalse: 3},
		// IPv4 protocol: 14 + 9
		bpf.LoadAbsolute{Off: 23, Size: 1},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: core.ProtocolUDP, SkipFalse: 1},
		bpf.RetConstant{Val: snapLen},
		bpf.RetConstant{Val: 0},
	}
}

// udpPortProgram matches one UDP port field; portOff is 14 for the source
// port and 16 for the destination port, relative to the IPv4 header end.
func udpPortProgram(portOff uint32, port uint32) []bpf.Instruction {
	return []bpf.Instruction{
		bpf.LoadAbsolute{Off: 12, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: core.EtherTypeIPv4, SkipFalse: 8},
		bpf.LoadAbsolute{Off: 23, Size: 1},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: core.ProtocolUDP, SkipFalse: 6},
		// flags/fragment offset: reject non-first fragments and MF
		bpf.LoadAbsolute{Off: 20, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpBitsSet, Val: 0x3fff, SkipTrue: 4},
		// X = IHL*4
		bpf.LoadMemShift{Off: 14},
		bpf.LoadIndirect{Off: portOff, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: port, SkipFalse: 1},
		bpf.RetConstant{Val: snapLen},
		bpf.RetConstant{Val: 0},
	}
}

func udpAnyPortProgram(port uint32) []bpf.Instruction {
	return []bpf.Instruction{
		bpf.LoadAbsolute{Off: 12, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: core.EtherTypeIPv4, SkipFalse: 10},
		bpf.LoadAbsolute{Off: 23, Size: 1},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: core.ProtocolUDP, SkipFalse: 8},
		bpf.LoadAbsolute{Off: 20, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpBitsSet, Val: 0x3fff, SkipTrue: 6},
		bpf.LoadMemShift{Off: 14},
		bpf.LoadIndirect{Off: 14, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: port, SkipTrue: 2},
		bpf.LoadIndirect{Off: 16, Size: 2},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: port, SkipFalse: 1},
		bpf.RetConstant{Val: snapLen},
		bpf.RetConstant{Val: 0},
	}
}

// Matcher runs a compiled filter in the x/net/bpf virtual machine.
type Matcher struct {
	vm *bpf.VM
}

// NewMatcher compiles filter and loads it into a VM.
func NewMatcher(filter string) (*Matcher, error) {
	prog, err := CompileFilter(filter)
	if err != nil {
		return nil, err
	}
	vm, err := bpf.NewVM(prog)
	if err != nil {
		return nil, fmt.Errorf("failed to load BPF program: %w", err)
	}
	return &Matcher{vm: vm}, nil
}

// Match reports whether the filter accepts frame.
func (m *Matcher) Match(frame []byte) bool {
	n, err := m.vm.Run(frame)
	return err == nil && n > 0
}
