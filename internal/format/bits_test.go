package format

import (
	"testing"
	"time"
)

func TestFormatBinaryString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"101", "101"},
		{"1010", "1010"},
		{"11000011", "1100 0011"},
		{"110000111", "1 1000 0111"},
		{"0000111100001111", "0000 1111 0000 1111"},
	}

	for _, tt := range tests {
		if got := FormatBinaryString(tt.in); got != tt.want {
			t.Errorf("FormatBinaryString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1 << 20, "1.0 MiB"},
		{3 << 30, "3.0 GiB"},
		{2 << 40, "2.0 TiB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		d    time.Duration
		want string
	}{
		{700 * time.Nanosecond, "0µs"},
		{42 * time.Microsecond, "42µs"},
		{999 * time.Microsecond, "999µs"},
		{12 * time.Millisecond, "12ms"},
		{999 * time.Millisecond, "999ms"},
		{2 * time.Second, "2s"},
		{90 * time.Second, "1m30s"},
	}

	for _, tt := range tests {
		if got := FormatExecutionDuration(tt.d); got != tt.want {
			t.Errorf("FormatExecutionDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
