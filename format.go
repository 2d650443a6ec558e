package quantity

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var errSigDigits = errors.New("significant digits must be at least 1")

// Format renders the quantity with its uncertainty rounded to sigDigits
// significant digits, in the form "value ± error", followed by the units
// when the quantity is not dimensionless.
//
// The uncertainty determines the rounding of both numbers: it is rounded
// half-up (ties away from zero, computed in exact decimal arithmetic) so
// that exactly sigDigits significant digits remain, and the value is then
// rounded at the same decimal position and rendered with the same number
// of decimal places as the rounded uncertainty.
// Because the uncertainty drives the rounding position, rounding it up a
// power of ten (e.g. 120 to 100 at one significant digit) also coarsens
// the value by one decimal position.
//
// If leadingOne is true, an uncertainty whose leading digit is 1 is
// promoted from one to two significant digits, since a single leading 1
// is often considered too imprecise.
//
// An exact quantity renders as "value (no error)" and a quantity with
// unbounded uncertainty renders as "value ± ∞", in both cases with the
// value in its plain shortest form, unrounded.
//
// Format returns an error if sigDigits is less than 1.
func Format(q Quantity, sigDigits int, leadingOne bool) (string, error) {
	if sigDigits < 1 {
		return "", fmt.Errorf("formatting [%v] to %v significant digits: %w", q, sigDigits, errSigDigits)
	}
	switch {
	case q.unc == 0:
		return withUnits(formatPlain(q.val)+" (no error)", q.units), nil
	case math.IsInf(q.unc, 1):
		return withUnits(formatPlain(q.val)+" ± ∞", q.units), nil
	}

	unc := decimal.NewFromFloat(q.unc)
	effSig := sigDigits
	if leadingOne && sigDigits == 1 && leadingDigit(unc) == 1 {
		effSig = 2
	}

	// Shift such that the uncertainty scaled by 10^shift lands in
	// [10^(effSig-1), 10^effSig), so rounding to shift decimal places
	// keeps effSig significant digits.
	shift := effSig - 1 - magnitude(unc)

	errStr := formatSigDigits(unc.Round(int32(shift)), effSig)
	decimals := 0
	if i := strings.IndexByte(errStr, '.'); i >= 0 {
		decimals = len(errStr) - i - 1
	}

	// The value is rounded at the same decimal position as the
	// uncertainty and inherits its decimal-place count.
	valStr := decimal.NewFromFloat(q.val).Round(int32(shift)).StringFixed(int32(decimals))
	return withUnits(valStr+" ± "+errStr, q.units), nil
}

// MustFormat is like [Format] but panics if the quantity cannot be formatted.
func MustFormat(q Quantity, sigDigits int, leadingOne bool) string {
	s, err := Format(q, sigDigits, leadingOne)
	if err != nil {
		panic(fmt.Sprintf("Format(%v, %v, %v) failed: %v", q, sigDigits, leadingOne, err))
	}
	return s
}

// magnitude returns the base-10 order of magnitude of a positive decimal,
// that is floor(log10(d)), computed exactly from its representation.
func magnitude(d decimal.Decimal) int {
	return len(d.Coefficient().String()) + int(d.Exponent()) - 1
}

// leadingDigit returns the first significant digit of a positive decimal.
func leadingDigit(d decimal.Decimal) int {
	return int(d.Coefficient().String()[0] - '0')
}

// countSigDigits returns the number of significant digits in a plain
// decimal string: the sign, the decimal point, and leading zeros are
// ignored, and trailing zeros after the first nonzero digit count.
func countSigDigits(s string) int {
	n, seen := 0, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			continue
		}
		if c != '0' {
			seen = true
		}
		if seen {
			n++
		}
	}
	return n
}

// formatSigDigits renders a rounded non-negative decimal with exactly sig
// significant digits, padding with trailing zeros when its shortest form
// has fewer.
// A shortest form that already has sig or more significant digits is
// returned unmodified: its trailing zeros were produced by the rounding
// step and are significant.
func formatSigDigits(d decimal.Decimal, sig int) string {
	s := d.String()
	n := countSigDigits(s)
	switch {
	case n == 0:
		if sig == 1 {
			return "0"
		}
		return "0." + strings.Repeat("0", sig-1)
	case n >= sig:
		return s
	}
	if !strings.Contains(s, ".") {
		s += "."
	}
	return s + strings.Repeat("0", sig-n)
}

// formatPlain renders a float in its shortest round-tripping form.
func formatPlain(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// withUnits appends the rendered units to s, unless dimensionless.
func withUnits(s string, u Units) string {
	if u.IsDimensionless() {
		return s
	}
	return s + " " + u.String()
}
