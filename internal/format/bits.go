package format

import (
	"fmt"
	"strings"
)

// FormatBinaryString groups a binary digit string into nibbles from the
// least significant end: "1100 0011" style, the way datasheets print bus
// values. Strings of four digits or fewer pass through unchanged.
func FormatBinaryString(s string) string {
	if len(s) <= 4 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 4
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 4 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s[i : i+4])
	}
	return b.String()
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
