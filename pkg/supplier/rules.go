package supplier

import (
	"strings"

	"github.com/rratsunrollun/rollun-usps/pkg/shipping"
)

// HasPositiveDimensions reports whether length, width and height are all
// known and greater than zero.
func HasPositiveDimensions(item *shipping.Item) bool {
	return item.Triple().Min > 0
}

// LengthPlusGirth returns the longest side plus twice the sum of the other two.
func LengthPlusGirth(item *shipping.Item) float64 {
	t := item.Triple()
	return t.Max + 2*(t.Mid+t.Min)
}

// HasZipPrefix reports whether zip starts with any of prefixes.
func HasZipPrefix(zip string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(zip, p) {
			return true
		}
	}
	return false
}

// IsFiveDigitZip reports whether zip is exactly five ASCII digits.
func IsFiveDigitZip(zip string) bool {
	if len(zip) != 5 {
		return false
	}
	for i := 0; i < len(zip); i++ {
		if zip[i] < '0' || zip[i] > '9' {
			return false
		}
	}
	return true
}
