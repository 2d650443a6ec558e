package quantity

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/kbolino/rat128"
)

var (
	errValueNotFinite     = errors.New("value is not finite")
	errInvalidUncertainty = errors.New("uncertainty is negative or NaN")
	errUnitsMismatch      = errors.New("units mismatch")
	errNotDimensionless   = errors.New("operand is not dimensionless")
	errNonPositiveOperand = errors.New("operand is not positive")
)

// Propagation selects the model used to combine the uncertainties of the
// operands of a binary operation.
type Propagation uint8

const (
	// WorstCase combines uncertainties by absolute linear sum, assuming
	// fully correlated error.
	// It is the default model of all binary operations.
	WorstCase Propagation = iota

	// Quadrature combines uncertainties by root-sum-of-squares, assuming
	// independent, uncorrelated error.
	Quadrature
)

// Quantity represents a measured value together with its absolute
// uncertainty and dimensional units.
// Its zero value corresponds to "0 +/- 0", dimensionless.
// Quantity is designed to be safe for concurrent use by multiple goroutines.
//
// The value is always finite.
// The uncertainty is either finite and non-negative, or +Inf, which marks a
// result whose uncertainty is unbounded (see [Quantity.Quo]).
// Because a quantity carries uncertainty, no equality or ordering is defined
// between quantities.
type Quantity struct {
	val   float64 // measured value
	unc   float64 // absolute uncertainty, >= 0 or +Inf
	units Units   // dimensional signature
}

// newQuantityUnsafe creates a new quantity without checking the invariants.
// Use it only if you are absolutely sure that the arguments are valid.
func newQuantityUnsafe(val, unc float64, units Units) Quantity {
	return Quantity{val: val, unc: unc, units: units}
}

// newQuantitySafe creates a new quantity and checks the invariants.
func newQuantitySafe(val, unc float64, units Units) (Quantity, error) {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return Quantity{}, fmt.Errorf("checking value %v: %w", val, errValueNotFinite)
	}
	if math.IsNaN(unc) || unc < 0 {
		return Quantity{}, fmt.Errorf("checking uncertainty %v: %w", unc, errInvalidUncertainty)
	}
	return newQuantityUnsafe(val, unc, units), nil
}

// New returns a quantity with the given value, absolute uncertainty,
// and units.
//
// New returns an error if:
//   - the value is NaN or infinite;
//   - the uncertainty is NaN, negative, or -Inf.
//
// An uncertainty of +Inf is valid and marks an unbounded uncertainty.
func New(val, unc float64, units Units) (Quantity, error) {
	q, err := newQuantitySafe(val, unc, units)
	if err != nil {
		return Quantity{}, fmt.Errorf("constructing quantity: %w", err)
	}
	return q, nil
}

// MustNew is like [New] but panics if the quantity cannot be constructed.
// It simplifies safe initialization of global variables holding quantities.
func MustNew(val, unc float64, units Units) Quantity {
	q, err := New(val, unc, units)
	if err != nil {
		panic(fmt.Sprintf("New(%v, %v, %q) failed: %v", val, unc, units, err))
	}
	return q
}

// Value returns the measured value of the quantity.
func (q Quantity) Value() float64 {
	return q.val
}

// Uncertainty returns the absolute uncertainty of the quantity.
func (q Quantity) Uncertainty() float64 {
	return q.unc
}

// Units returns the dimensional units of the quantity.
func (q Quantity) Units() Units {
	return q.units
}

// IsExact returns true if the uncertainty of the quantity is zero.
func (q Quantity) IsExact() bool {
	return q.unc == 0
}

// IsUnbounded returns true if the uncertainty of the quantity is +Inf.
// See also method [Quantity.Quo].
func (q Quantity) IsUnbounded() bool {
	return math.IsInf(q.unc, 1)
}

// SameUnits returns true if quantities q and r have equal units.
// See also method [Units.Equal].
func (q Quantity) SameUnits(r Quantity) bool {
	return q.units.Equal(r.units)
}

// Sign returns:
//
//	-1 if q.Value() < 0
//	 0 if q.Value() = 0
//	+1 if q.Value() > 0
func (q Quantity) Sign() int {
	switch {
	case q.val < 0:
		return -1
	case q.val > 0:
		return 1
	}
	return 0
}

// Neg returns a quantity with the opposite value.
// The uncertainty and units are unchanged.
func (q Quantity) Neg() Quantity {
	return newQuantityUnsafe(-q.val, q.unc, q.units)
}

// Abs returns a quantity with the absolute value.
// The uncertainty and units are unchanged.
func (q Quantity) Abs() Quantity {
	return newQuantityUnsafe(math.Abs(q.val), q.unc, q.units)
}

// Add returns the sum of quantities q and r under the [WorstCase] model.
// See also method [Quantity.AddProp].
func (q Quantity) Add(r Quantity) (Quantity, error) {
	return q.AddProp(r, WorstCase)
}

// AddProp returns the sum of quantities q and r, combining their
// uncertainties under the given propagation model.
//
// AddProp returns an error if the quantities have different units.
func (q Quantity) AddProp(r Quantity, prop Propagation) (Quantity, error) {
	s, err := q.add(r, prop)
	if err != nil {
		return Quantity{}, fmt.Errorf("computing [%v + %v]: %w", q, r, err)
	}
	return s, nil
}

func (q Quantity) add(r Quantity, prop Propagation) (Quantity, error) {
	if !q.SameUnits(r) {
		return Quantity{}, errUnitsMismatch
	}
	return newQuantitySafe(q.val+r.val, combine(prop, q.unc, r.unc), q.units)
}

// Sub returns the difference of quantities q and r under the [WorstCase]
// model.
// See also method [Quantity.SubProp].
func (q Quantity) Sub(r Quantity) (Quantity, error) {
	return q.SubProp(r, WorstCase)
}

// SubProp returns the difference of quantities q and r, combining their
// uncertainties under the given propagation model exactly as [Quantity.AddProp]
// does; subtracting a quantity never shrinks the uncertainty of the result.
//
// SubProp returns an error if the quantities have different units.
func (q Quantity) SubProp(r Quantity, prop Propagation) (Quantity, error) {
	s, err := q.sub(r, prop)
	if err != nil {
		return Quantity{}, fmt.Errorf("computing [%v - %v]: %w", q, r, err)
	}
	return s, nil
}

func (q Quantity) sub(r Quantity, prop Propagation) (Quantity, error) {
	if !q.SameUnits(r) {
		return Quantity{}, errUnitsMismatch
	}
	return newQuantitySafe(q.val-r.val, combine(prop, q.unc, r.unc), q.units)
}

// Mul returns the product of quantities q and r under the [WorstCase] model.
// See also method [Quantity.MulProp].
func (q Quantity) Mul(r Quantity) (Quantity, error) {
	return q.MulProp(r, WorstCase)
}

// MulProp returns the product of quantities q and r, combining their
// uncertainty contributions |r.Value()|*q.Uncertainty() and
// |q.Value()|*r.Uncertainty() under the given propagation model.
// The units of the result are the product of the operands' units.
//
// MulProp returns an error if the value of the result overflows.
func (q Quantity) MulProp(r Quantity, prop Propagation) (Quantity, error) {
	s, err := q.mul(r, prop)
	if err != nil {
		return Quantity{}, fmt.Errorf("computing [%v * %v]: %w", q, r, err)
	}
	return s, nil
}

func (q Quantity) mul(r Quantity, prop Propagation) (Quantity, error) {
	unc := combine(prop, r.val*q.unc, q.val*r.unc)
	return newQuantitySafe(q.val*r.val, unc, q.units.Mul(r.units))
}

// Quo returns the quotient of quantities q and r under the [WorstCase]
// model.
// See also method [Quantity.QuoProp].
func (q Quantity) Quo(r Quantity) (Quantity, error) {
	return q.QuoProp(r, WorstCase)
}

// QuoProp returns the quotient of quantities q and r, combining their
// uncertainty contributions q.Uncertainty()/|r.Value()| and
// |q.Value()|*r.Uncertainty()/r.Value()² under the given propagation model.
// The units of the result are the quotient of the operands' units.
//
// If the uncertainty interval of the divisor includes zero, that is
// r.Value()-r.Uncertainty() <= 0 <= r.Value()+r.Uncertainty(), the division
// is numerically unstable: the uncertainty of the result is unbounded.
// As a matter of policy the result is still returned, with its uncertainty
// set to +Inf regardless of the propagation model.
// See also method [Quantity.IsUnbounded].
//
// QuoProp returns an error if the value of the divisor is exactly zero,
// since the value of the quotient would not be finite.
func (q Quantity) QuoProp(r Quantity, prop Propagation) (Quantity, error) {
	s, err := q.quo(r, prop)
	if err != nil {
		return Quantity{}, fmt.Errorf("computing [%v / %v]: %w", q, r, err)
	}
	return s, nil
}

func (q Quantity) quo(r Quantity, prop Propagation) (Quantity, error) {
	units := q.units.Quo(r.units)
	if r.val-r.unc <= 0 && 0 <= r.val+r.unc {
		return newQuantitySafe(q.val/r.val, math.Inf(1), units)
	}
	unc := combine(prop, q.unc/r.val, q.val*r.unc/(r.val*r.val))
	return newQuantitySafe(q.val/r.val, unc, units)
}

// combine merges two uncertainty contributions under the given model.
// The contributions may carry the sign of the values they were scaled by;
// only their magnitudes matter.
func combine(prop Propagation, a, b float64) float64 {
	if prop == Quadrature {
		return math.Hypot(a, b)
	}
	return math.Abs(a) + math.Abs(b)
}

// Pow returns the quantity raised to the given exact rational power.
// The uncertainty is propagated to first order as
// |exp*q.Value()^(exp-1)| * q.Uncertainty(), and the units of the result
// are the units of q raised to exp.
//
// A negative value raised to a fractional power has no real result; the
// floating-point computation yields NaN and Pow returns an error.
func (q Quantity) Pow(exp rat128.N) (Quantity, error) {
	s, err := q.pow(exp)
	if err != nil {
		return Quantity{}, fmt.Errorf("computing [%v ^ %v]: %w", q, exp, err)
	}
	return s, nil
}

func (q Quantity) pow(exp rat128.N) (Quantity, error) {
	p, _ := exp.Float64()
	val := math.Pow(q.val, p)
	unc := math.Abs(p*math.Pow(q.val, p-1)) * q.unc
	return newQuantitySafe(val, unc, q.units.Pow(exp))
}

// Sqrt returns the square root of the quantity, that is the quantity
// raised to the exact rational power 1/2.
// See also method [Quantity.Pow].
func (q Quantity) Sqrt() (Quantity, error) {
	return q.Pow(rat128.New(1, 2))
}

// Exp returns e raised to the value of the quantity, with the uncertainty
// propagated to first order.
//
// Exp returns an error if the quantity is not dimensionless or the value
// of the result overflows.
func (q Quantity) Exp() (Quantity, error) {
	s, err := q.exp()
	if err != nil {
		return Quantity{}, fmt.Errorf("computing [exp(%v)]: %w", q, err)
	}
	return s, nil
}

func (q Quantity) exp() (Quantity, error) {
	if !q.units.IsDimensionless() {
		return Quantity{}, errNotDimensionless
	}
	val := math.Exp(q.val)
	return newQuantitySafe(val, val*q.unc, Units{})
}

// Log returns the natural logarithm of the value of the quantity, with the
// uncertainty propagated to first order as q.Uncertainty()/q.Value().
//
// Log returns an error if the quantity is not dimensionless or its value
// is not positive.
func (q Quantity) Log() (Quantity, error) {
	s, err := q.log()
	if err != nil {
		return Quantity{}, fmt.Errorf("computing [log(%v)]: %w", q, err)
	}
	return s, nil
}

func (q Quantity) log() (Quantity, error) {
	if !q.units.IsDimensionless() {
		return Quantity{}, errNotDimensionless
	}
	if q.val <= 0 {
		return Quantity{}, errNonPositiveOperand
	}
	return newQuantitySafe(math.Log(q.val), q.unc/q.val, Units{})
}

// Sin returns the sine of the value of the quantity, interpreted in
// radians, with the uncertainty propagated to first order as
// |cos(q.Value())| * q.Uncertainty().
//
// Sin returns an error if the quantity is not dimensionless.
func (q Quantity) Sin() (Quantity, error) {
	s, err := q.sin()
	if err != nil {
		return Quantity{}, fmt.Errorf("computing [sin(%v)]: %w", q, err)
	}
	return s, nil
}

func (q Quantity) sin() (Quantity, error) {
	if !q.units.IsDimensionless() {
		return Quantity{}, errNotDimensionless
	}
	return newQuantitySafe(math.Sin(q.val), math.Abs(math.Cos(q.val))*q.unc, Units{})
}

// Cos returns the cosine of the value of the quantity, interpreted in
// radians, with the uncertainty propagated to first order as
// |sin(q.Value())| * q.Uncertainty().
//
// Cos returns an error if the quantity is not dimensionless.
func (q Quantity) Cos() (Quantity, error) {
	s, err := q.cos()
	if err != nil {
		return Quantity{}, fmt.Errorf("computing [cos(%v)]: %w", q, err)
	}
	return s, nil
}

func (q Quantity) cos() (Quantity, error) {
	if !q.units.IsDimensionless() {
		return Quantity{}, errNotDimensionless
	}
	return newQuantitySafe(math.Cos(q.val), math.Abs(math.Sin(q.val))*q.unc, Units{})
}

// String implements the [fmt.Stringer] interface and returns a diagnostic
// representation of the quantity in the form "value +/- uncertainty",
// followed by the units when the quantity is not dimensionless.
// For a rendering rounded to significant digits, see [Format].
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (q Quantity) String() string {
	s := strconv.FormatFloat(q.val, 'g', -1, 64) + " +/- " + strconv.FormatFloat(q.unc, 'g', -1, 64)
	if !q.units.IsDimensionless() {
		s += " " + q.units.String()
	}
	return s
}
