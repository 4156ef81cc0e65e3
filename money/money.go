// Package money implements the fixed-point currency codec used by the
// quotation table: free-form Brazilian numeric text in, exact centavos out.
package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in centavos (two fixed decimal places).
type Money int64

// Precision is the display precision every amount is stored at.
const Precision = 2

func FromCents(c int64) Money { return Money(c) }

// FromUnits returns a whole-unit amount (quantities are integer-valued).
func FromUnits(n int64) Money { return Money(n * 100) }

func (m Money) Cents() int64      { return int64(m) }
func (m Money) Units() int64      { return int64(m) / 100 }
func (m Money) IsZero() bool      { return m == 0 }
func (m Money) Add(o Money) Money { return m + o }
func (m Money) Sub(o Money) Money { return m - o }

func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// MulQty multiplies a unit price by an integer-valued quantity.
// The quantity's fractional part is discarded, matching the table's
// integer coercion for the quantity column.
func (m Money) MulQty(qty Money) Money {
	return Money(int64(m) * qty.Units())
}

// DivInt splits an amount into n equal parts, truncating toward zero.
func (m Money) DivInt(n int) Money {
	if n == 0 {
		return 0
	}
	return Money(int64(m) / int64(n))
}

// Float64 renders the amount as a plain decimal number for the record
// API payloads. Exact for any amount within float53 range.
func (m Money) Float64() float64 { return float64(m) / 100 }

// String formats with a decimal comma and two fractional digits, no
// thousands grouping: "1234,56", "-0,05".
func (m Money) String() string { return m.Format(Precision) }

// Format renders with nd fractional digits. nd=0 drops the comma
// entirely (quantity cells), nd>2 pads with zeros.
func (m Money) Format(nd int) string {
	c := int64(m)
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	if nd <= 0 {
		return sign + strconv.FormatInt(c/100, 10)
	}
	frac := fmt.Sprintf("%02d", c%100)
	if nd < len(frac) {
		frac = frac[:nd]
	} else if nd > len(frac) {
		frac += strings.Repeat("0", nd-len(frac))
	}
	return sign + strconv.FormatInt(c/100, 10) + "," + frac
}

// Parse converts free-form numeric text into an amount at two decimal
// places. It never fails: anything unparseable is zero.
func Parse(text string) Money { return ParseN(text, Precision) }

// ParseN parses and then truncates (never rounds) to nd fractional
// digits. The separator rules mirror what users paste from spreadsheets
// and bank statements:
//   - two or more of the same separator: grouping, stripped
//   - one dot and one comma: the later one is the decimal separator
//   - a single comma: decimal separator
//   - a single dot followed by more than two digits: grouping
func ParseN(text string, nd int) Money {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" {
		return 0
	}

	neg := strings.HasPrefix(clean, "-")
	clean = strings.ReplaceAll(clean, "-", "")

	dots := strings.Count(clean, ".")
	commas := strings.Count(clean, ",")
	switch {
	case dots > 1 || commas > 1:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", "")
	case dots == 1 && commas == 1:
		if strings.LastIndex(clean, ".") > strings.LastIndex(clean, ",") {
			clean = strings.ReplaceAll(clean, ",", "")
		} else {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		}
	case commas == 1:
		clean = strings.Replace(clean, ",", ".", 1)
	case dots == 1:
		if len(clean)-strings.Index(clean, ".")-1 > Precision {
			clean = strings.ReplaceAll(clean, ".", "")
		}
	}

	intPart := clean
	fracPart := ""
	if i := strings.Index(clean, "."); i >= 0 {
		intPart, fracPart = clean[:i], clean[i+1:]
	}
	if nd >= 0 && len(fracPart) > nd {
		fracPart = fracPart[:nd]
	}
	if len(fracPart) > Precision {
		fracPart = fracPart[:Precision]
	}
	for len(fracPart) < Precision {
		fracPart += "0"
	}

	units := int64(0)
	if intPart != "" {
		v, err := strconv.ParseInt(intPart, 10, 64)
		if err != nil {
			return 0
		}
		units = v
	}
	if units > math.MaxInt64/100 {
		return 0
	}
	frac, _ := strconv.ParseInt(fracPart, 10, 64)

	cents := units*100 + frac
	if neg {
		cents = -cents
	}
	return Money(cents)
}

// ParseInt coerces text to a whole-unit amount, dropping any fraction.
func ParseInt(text string) Money { return ParseN(text, 0) }

// Negative forces a positive amount negative; negative input is kept.
// Discount rows are entered as magnitudes and stored for display this way.
func Negative(m Money) Money {
	if m > 0 {
		return -m
	}
	return m
}

// MarshalJSON emits a plain dot-decimal number ("1234.56"). This is the
// wire shape the record API expects; the comma formatting above is for
// display only.
func (m Money) MarshalJSON() ([]byte, error) {
	c := int64(m)
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return []byte(fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)), nil
}

// UnmarshalJSON accepts a JSON number or a quoted dot-decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*m = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	*m = Money(math.Round(f * 100))
	return nil
}
