package shipping

import (
	"fmt"
	"strconv"
	"strings"
)

// CentsRoundUp converts a decimal price string ("10.60", "7.5", "12")
// to minor currency units, rounding any residue beyond two decimals
// up. Quotes must never undercharge, so truncation is not an option.
// Parsing stays in string space to avoid float artifacts on exact
// two-decimal provider prices.
func CentsRoundUp(price string) (int64, error) {
	s := strings.TrimSpace(price)
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("negative price %q", price)
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", price)
	}

	var cents int64
	residue := false
	for i, r := range frac {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid price %q", price)
		}
		d := int64(r - '0')
		switch i {
		case 0:
			cents += d * 10
		case 1:
			cents += d
		default:
			if d > 0 {
				residue = true
			}
		}
	}
	if residue {
		cents++
	}

	return units*100 + cents, nil
}
