package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", Debug, false},
		{"INFO", Info, false},
		{" notice ", Notice, false},
		{"warning", Warning, false},
		{"error", Error, false},
		{"verbose", Notice, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %t", tt.input, err, tt.wantErr)
			}
			if level != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, level, tt.expected)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stderr)

	previous := GetLevel()
	defer SetLevel(previous)

	logger := New("test-module")

	SetLevel(Warning)
	logger.Info("hidden message")
	logger.Warningf("shown %d", 42)

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Errorf("Info message should be filtered at warning level, got %q", out)
	}
	if !strings.Contains(out, "shown 42") {
		t.Errorf("Expected warning message in output, got %q", out)
	}
	if !strings.Contains(out, "[test-module]") {
		t.Errorf("Expected module name in output, got %q", out)
	}

	buf.Reset()
	SetLevel(Debug)
	logger.Debug("trace detail")
	if !strings.Contains(buf.String(), "trace detail") {
		t.Errorf("Expected debug message at debug level, got %q", buf.String())
	}
}
