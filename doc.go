/*
Package quantity implements measured physical quantities with uncertainty
propagation.
It combines a floating-point value and its absolute uncertainty with a
[Units] signature mapping unit symbols to exact rational exponents, and
leverages the [rat128] and [decimal] packages for exact exponent and
rounding arithmetic.

# Features

  - Immutable quantity and unit values, ensuring safe usage across multiple goroutines
  - Arithmetic and transcendental operations with uncertainty propagation
  - Selectable propagation model: worst-case linear sum or quadrature
  - Exact rational unit-exponent algebra with canonical rendering
  - Deterministic formatting of a quantity with its uncertainty rounded
    to a chosen number of significant digits

# Representation

The package consists of two main structs: Quantity and Units.
A Quantity represents a measured value and consists of a finite value, a
non-negative (or unbounded) absolute uncertainty, and a Units signature.
The Units struct represents a dimensional signature and is implemented as
a normalized mapping from unit symbol to exact rational exponent; entries
with zero exponent are dropped, so equal signatures always have equal maps.
Unit symbols are matched exactly and never converted or simplified: "m"
and "meter" are unrelated units.

# Operations

Binary operations (Add, Sub, Mul, Quo) combine the uncertainties of their
operands under a [Propagation] model, [WorstCase] by default.
Addition and subtraction require equal units; multiplication and division
combine units algebraically.
Unary operations (Pow, Sqrt, Exp, Log, Sin, Cos) propagate uncertainty to
first order; the transcendental functions require dimensionless operands.

# Formatting

[Format] renders a quantity with its uncertainty rounded half-up to a
caller-chosen number of significant digits, the value rounded at the same
decimal position.
Rounding is performed in exact decimal arithmetic, so ties never fall
victim to binary floating-point artifacts.

# Errors

Invariant and precondition violations (non-finite values, negative
uncertainty, unit mismatch, non-dimensionless transcendental operands)
are reported as errors naming the violated condition; Must variants panic.
Division by a quantity whose uncertainty interval straddles zero does not
fail: it returns a quantity whose uncertainty is +Inf, a checkable
in-band marker of an unbounded result.

[rat128]: https://pkg.go.dev/github.com/kbolino/rat128
[decimal]: https://pkg.go.dev/github.com/shopspring/decimal
*/
package quantity
