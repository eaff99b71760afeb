package moneytext

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatAmount renders a monetary value with 3-digit space grouping and a
// comma decimal separator, e.g. 1432500.00 → "1 432 500,00".
func FormatAmount(value decimal.Decimal, decimals int32) string {
	fixed := value.StringFixed(decimals)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart := fixed
	fracPart := ""
	if idx := strings.IndexByte(fixed, '.'); idx >= 0 {
		intPart = fixed[:idx]
		fracPart = fixed[idx+1:]
	}

	grouped := groupThousands(intPart)
	if negative {
		grouped = "-" + grouped
	}
	if fracPart == "" {
		return grouped
	}
	return grouped + "," + fracPart
}

// FormatDate renders dd.mm.yyyy; the zero time renders as an empty string.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02.01.2006")
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
