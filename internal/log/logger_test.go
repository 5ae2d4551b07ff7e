package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"firestige.xyz/rtpfixture/internal/config"
)

func TestFormatterPattern(t *testing.T) {
	f := newFormatter("%time [%level] %msg %field%n", "15:04:05")
	entry := &logrus.Entry{
		Time:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "hello",
		Data:    logrus.Fields{"seq": 1000, "file": "a.pcap"},
	}

	out, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	want := "03:04:05 [warning] hello file=a.pcap,seq=1000\n"
	if string(out) != want {
		t.Errorf("Format() = %q, want %q", out, want)
	}
}

func TestFormatterDefaults(t *testing.T) {
	f := newFormatter("", "")
	if f.pattern != defaultPattern || f.time != defaultTime {
		t.Errorf("expected defaults, got %q %q", f.pattern, f.time)
	}

	// Patterns without %n still end in a newline.
	f = newFormatter("%msg", "")
	out, _ := f.Format(&logrus.Entry{Message: "x", Data: logrus.Fields{}})
	if string(out) != "x\n" {
		t.Errorf("Format() = %q, want %q", out, "x\n")
	}
}

func TestInitLevels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
	}{
		{"debug", true},
		{"info", false},
		{"warn", false},
		{"error", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			if err := InitWithWriter(config.LogConfig{Level: tt.level}, &buf); err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			if got := GetLogger().IsDebugEnabled(); got != tt.wantDebug {
				t.Errorf("IsDebugEnabled() = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}

func TestInitInvalidLevel(t *testing.T) {
	err := InitWithWriter(config.LogConfig{Level: "loud"}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("Expected error for invalid log level, got nil")
	}
	if !strings.Contains(err.Error(), "invalid log level") {
		t.Errorf("Expected error about invalid log level, got: %v", err)
	}
}

func TestInitWithFileOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	var console bytes.Buffer
	cfg := config.LogConfig{
		Level: "info",
		File: config.FileOutputConfig{
			Enabled:    true,
			Path:       logPath,
			MaxSizeMB:  1,
			MaxBackups: 1,
		},
	}
	if err := InitWithWriter(cfg, &console); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	GetLogger().WithField("packets", 50).Info("capture written")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Log file was not created at %s: %v", logPath, err)
	}
	if !strings.Contains(string(data), "capture written") || !strings.Contains(string(data), "packets=50") {
		t.Errorf("unexpected file log content: %q", data)
	}
	if console.String() != string(data) {
		t.Errorf("console and file output differ: %q vs %q", console.String(), data)
	}
}

func TestInitWithMissingFilePath(t *testing.T) {
	cfg := config.LogConfig{
		Level: "info",
		File:  config.FileOutputConfig{Enabled: true},
	}
	if err := InitWithWriter(cfg, &bytes.Buffer{}); err == nil {
		t.Error("Expected error for missing file path, got nil")
	}
}

func TestMultiWriter(t *testing.T) {
	var a, b bytes.Buffer
	w := NewMultiWriter().Add(&a).Add(&b)

	n, err := w.Write([]byte("line\n"))
	if err != nil || n != 5 {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	if a.String() != "line\n" || b.String() != "line\n" {
		t.Errorf("writers got %q and %q", a.String(), b.String())
	}
}
