package dal

import (
	"math"
	"strconv"
	"strings"
)

// BBLLength is 1 borough digit + 5 block digits + 4 lot digits.
const BBLLength = 10

// PadBBL normalizes a raw Borough-Block-Lot value to exactly ten digits.
// Non-digits are dropped, short values are left padded with zeros and long
// values keep their first ten digits. An input without digits yields "".
func PadBBL(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	clean := b.String()

	switch {
	case clean == "":
		return ""
	case len(clean) == BBLLength:
		return clean
	case len(clean) < BBLLength:
		return strings.Repeat("0", BBLLength-len(clean)) + clean
	default:
		return clean[:BBLLength]
	}
}

// Units coerces the residential unit count to a non-negative integer.
func Units(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}
