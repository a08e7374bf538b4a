// Package stats renders committed money: display formatting, period report
// data, and CSV export.
package stats

import (
	"fmt"
	"strings"
)

// FormatMoney renders a whole-soum amount for chat display: millions are
// shortened to one decimal ("1.2M"), everything below is space-grouped with
// the currency suffix ("97 500 UZS"). The sign survives formatting.
func FormatMoney(amount int64) string {
	neg := amount < 0
	abs := amount
	if neg {
		abs = -abs
	}

	var out string
	if abs >= 1_000_000 {
		out = fmt.Sprintf("%.1f", float64(abs)/1_000_000)
		out = strings.TrimSuffix(out, ".0") + "M"
	} else {
		out = groupDigits(abs) + " UZS"
	}

	if neg {
		return "-" + out
	}
	return out
}

// groupDigits inserts a space every three digits from the right.
func groupDigits(v int64) string {
	s := fmt.Sprintf("%d", v)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
