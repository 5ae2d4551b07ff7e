package inspect

import (
	"encoding/binary"
	"testing"

	"firestige.xyz/rtpfixture/internal/config"
	"firestige.xyz/rtpfixture/internal/fixture"
)

func defaultFrame() []byte {
	cfg := config.Default()
	return fixture.BuildFrame(cfg, 1000, 0, make([]byte, 160))
}

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		hasErr bool
	}{
		{name: "empty filter", filter: ""},
		{name: "ipv4 protocol only", filter: "ip"},
		{name: "udp", filter: "udp"},
		{name: "udp port", filter: "udp port 6000"},
		{name: "udp dst port", filter: "udp dst port 6000"},
		{name: "udp src port", filter: "UDP  src  port 8000"},
		{name: "tcp", filter: "tcp port 80", hasErr: true},
		{name: "port out of range", filter: "udp port 70000", hasErr: true},
		{name: "host", filter: "host 127.0.0.1", hasErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := Assemble(tt.filter)

			if tt.hasErr && err == nil {
				t.Errorf("Assemble(%q) error = %v, wantErr %v", tt.filter, err, tt.hasErr)
				return
			}
			if !tt.hasErr && err != nil {
				t.Errorf("Assemble(%q) error = %v, wantErr %v", tt.filter, err, tt.hasErr)
				return
			}
			if !tt.hasErr && len(prog) == 0 {
				t.Errorf("Assemble(%q) returned empty instructions for valid filter", tt.filter)
			}
		})
	}
}

func TestMatcher(t *testing.T) {
	frame := defaultFrame()

	fragment := defaultFrame()
	binary.BigEndian.PutUint16(fragment[20:22], 0x2000)

	dontFragment := defaultFrame()
	binary.BigEndian.PutUint16(dontFragment[20:22], 0x4000)

	withOptions := append([]byte{}, frame[:34]...)
	withOptions[14] = 0x46
	withOptions = append(withOptions, 0, 0, 0, 0)
	withOptions = append(withOptions, frame[34:]...)

	ipv6 := defaultFrame()
	ipv6[12], ipv6[13] = 0x86, 0xdd

	tcp := defaultFrame()
	tcp[23] = 6

	tests := []struct {
		filter string
		frame  []byte
		want   bool
	}{
		{"ip", frame, true},
		{"ip", ipv6, false},
		{"udp", frame, true},
		{"udp", tcp, false},
		{"udp dst port 6000", frame, true},
		{"udp dst port 8000", frame, false},
		{"udp src port 8000", frame, true},
		{"udp port 8000", frame, true},
		{"udp port 6000", frame, true},
		{"udp port 5060", frame, false},
		{"udp dst port 6000", fragment, false},
		{"udp dst port 6000", dontFragment, true},
		{"udp dst port 6000", withOptions, true},
		{"udp dst port 6000", tcp, false},
		{"udp dst port 6000", frame[:20], false},
	}

	for _, tt := range tests {
		m, err := NewMatcher(tt.filter)
		if err != nil {
			t.Fatalf("NewMatcher(%q) failed: %v", tt.filter, err)
		}
		if got := m.Match(tt.frame); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.filter, got, tt.want)
		}
	}
}
