package quantity

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/kbolino/rat128"
)

// Units represents the dimensional signature of a quantity as a mapping
// from unit symbol to exact rational exponent.
// Its zero value is dimensionless.
// Units is designed to be safe for concurrent use by multiple goroutines.
//
// Symbols are matched exactly: "m" and "meter" are distinct, unrelated units.
// Entries with a zero exponent are dropped on construction, so two Units are
// equal if and only if their normalized maps are equal.
type Units struct {
	dims map[string]rat128.N
}

// newUnits constructs Units from an already-normalized map.
// The map must not contain zero exponents and must not be aliased elsewhere.
func newUnits(dims map[string]rat128.N) Units {
	if len(dims) == 0 {
		return Units{}
	}
	return Units{dims: dims}
}

// NewUnits returns the Units described by the given symbol-to-exponent mapping.
// The mapping is copied, and entries with a zero exponent are dropped.
func NewUnits(dims map[string]rat128.N) Units {
	norm := make(map[string]rat128.N, len(dims))
	for sym, exp := range dims {
		if exp.IsZero() {
			continue
		}
		norm[sym] = exp
	}
	return newUnits(norm)
}

// NewUnit returns the Units consisting of a single symbol with exponent 1.
func NewUnit(symbol string) Units {
	return newUnits(map[string]rat128.N{symbol: rat128.New(1, 1)})
}

// Exponent returns the exponent of the given symbol and whether the symbol
// is present.
// Absent symbols have an implicit exponent of 0.
func (u Units) Exponent(symbol string) (rat128.N, bool) {
	exp, ok := u.dims[symbol]
	return exp, ok
}

// NumDims returns the number of distinct unit symbols.
func (u Units) NumDims() int {
	return len(u.dims)
}

// IsDimensionless returns:
//
//	true  if u has no unit symbols
//	false otherwise
func (u Units) IsDimensionless() bool {
	return len(u.dims) == 0
}

// Equal returns true if units u and v have identical normalized
// symbol-to-exponent mappings.
func (u Units) Equal(v Units) bool {
	return maps.Equal(u.dims, v.dims)
}

// Mul returns the product of units u and v.
// The exponent of each symbol in the result is the sum of its exponents
// in u and v.
func (u Units) Mul(v Units) Units {
	norm := make(map[string]rat128.N, len(u.dims)+len(v.dims))
	maps.Copy(norm, u.dims)
	for sym, exp := range v.dims {
		exp = exp.Add(norm[sym])
		if exp.IsZero() {
			delete(norm, sym)
			continue
		}
		norm[sym] = exp
	}
	return newUnits(norm)
}

// Quo returns the quotient of units u and v.
// The exponent of each symbol in the result is its exponent in u minus
// its exponent in v.
func (u Units) Quo(v Units) Units {
	return u.Mul(v.Inv())
}

// Inv returns units with every exponent negated.
func (u Units) Inv() Units {
	norm := make(map[string]rat128.N, len(u.dims))
	for sym, exp := range u.dims {
		norm[sym] = exp.Neg()
	}
	return newUnits(norm)
}

// Pow returns units with every exponent multiplied by exp.
// Raising to the zero exponent yields dimensionless units.
func (u Units) Pow(exp rat128.N) Units {
	norm := make(map[string]rat128.N, len(u.dims))
	for sym, e := range u.dims {
		e = e.Mul(exp)
		if e.IsZero() {
			continue
		}
		norm[sym] = e
	}
	return newUnits(norm)
}

// formatExponent renders a rational exponent, omitting the denominator
// when it is 1.
func formatExponent(exp rat128.N) string {
	if exp.Den() == 1 {
		return strconv.FormatInt(exp.Num(), 10)
	}
	return exp.String()
}

// String implements the [fmt.Stringer] interface and returns the canonical
// rendering of the units: symbols sorted lexicographically and separated by
// single spaces, each rendered as "symbol" when its exponent is 1 and as
// "symbol^exponent" otherwise.
// Dimensionless units render as the empty string.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (u Units) String() string {
	if len(u.dims) == 0 {
		return ""
	}
	syms := make([]string, 0, len(u.dims))
	for sym := range u.dims {
		syms = append(syms, sym)
	}
	slices.Sort(syms)

	var sb strings.Builder
	one := rat128.New(1, 1)
	for i, sym := range syms {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(sym)
		if exp := u.dims[sym]; exp != one {
			sb.WriteByte('^')
			sb.WriteString(formatExponent(exp))
		}
	}
	return sb.String()
}
