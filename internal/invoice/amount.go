package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders cents as a decimal currency value without symbol.
// Trailing zeros are dropped but at least one fractional digit is kept:
//
//	950   -> "9.5"
//	9500  -> "95.0"
//	12345 -> "123.45"
//	1     -> "0.01"
func FormatAmount(cents int64) string {
	s := decimal.New(cents, -2).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
