// Package core provides the field, scalar and constraint-system layer that
// every gadget and instruction in the Zinc VM is built on.
package core

import (
	"crypto/rand"
	"fmt"
	"math/big"

	bn254fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Field represents the single prime field the VM is configured with. Unlike
// a SNARK curve's fixed scalar field, Zinc lets a deployment pick its
// modulus (spec.md describes "arithmetic over a single configured prime
// field"); the BN254 scalar field is simply the default, matching the curve
// gadgets in gadgets/stdlib which are hardwired to BN254's embedded twisted
// Edwards curve.
type Field struct {
	modulus *big.Int
}

// FieldElement is a value in the configured prime field.
type FieldElement struct {
	field *Field
	value *big.Int
}

// NewField creates a new finite field with the given modulus.
func NewField(modulus *big.Int) (*Field, error) {
	if modulus.Cmp(big.NewInt(2)) <= 0 {
		return nil, fmt.Errorf("modulus must be greater than 2")
	}
	return &Field{modulus: new(big.Int).Set(modulus)}, nil
}

// BN254ScalarField returns the field matching gnark-crypto's bn254/fr
// modulus, the default for a Zinc deployment.
func BN254ScalarField() *Field {
	f, err := NewField(bn254fr.Modulus())
	if err != nil {
		panic("bn254 modulus is always valid: " + err.Error())
	}
	return f
}

// Modulus returns the field modulus.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.modulus)
}

// Capacity returns floor(log2(p)), the maximum safe bit-width for injective
// integer embedding (the GLOSSARY's "capacity" of a field).
func (f *Field) Capacity() uint {
	return uint(f.modulus.BitLen() - 1)
}

// NewElement creates a new field element from a big.Int, reducing it modulo
// the field's modulus.
func (f *Field) NewElement(value *big.Int) *FieldElement {
	normalized := new(big.Int).Mod(value, f.modulus)
	return &FieldElement{field: f, value: normalized}
}

// NewElementFromInt64 creates a new field element from an int64.
func (f *Field) NewElementFromInt64(value int64) *FieldElement {
	return f.NewElement(big.NewInt(value))
}

// NewElementFromUint64 creates a new field element from a uint64.
func (f *Field) NewElementFromUint64(value uint64) *FieldElement {
	return f.NewElement(new(big.Int).SetUint64(value))
}

// RandomElement generates a cryptographically random field element.
func (f *Field) RandomElement() (*FieldElement, error) {
	value, err := rand.Int(rand.Reader, f.modulus)
	if err != nil {
		return nil, fmt.Errorf("failed to generate random element: %w", err)
	}
	return f.NewElement(value), nil
}

// Zero returns the additive identity.
func (f *Field) Zero() *FieldElement { return f.NewElement(big.NewInt(0)) }

// One returns the multiplicative identity.
func (f *Field) One() *FieldElement { return f.NewElement(big.NewInt(1)) }

// Equals reports whether two fields share the same modulus.
func (f *Field) Equals(other *Field) bool {
	return f.modulus.Cmp(other.modulus) == 0
}

// Big returns the element's value as a big.Int.
func (fe *FieldElement) Big() *big.Int { return new(big.Int).Set(fe.value) }

// Field returns the field this element belongs to.
func (fe *FieldElement) Field() *Field { return fe.field }

// Add performs field addition.
func (fe *FieldElement) Add(other *FieldElement) *FieldElement {
	fe.mustMatch(other)
	return fe.field.NewElement(new(big.Int).Add(fe.value, other.value))
}

// Sub performs field subtraction.
func (fe *FieldElement) Sub(other *FieldElement) *FieldElement {
	fe.mustMatch(other)
	return fe.field.NewElement(new(big.Int).Sub(fe.value, other.value))
}

// Neg returns the additive inverse.
func (fe *FieldElement) Neg() *FieldElement {
	return fe.field.NewElement(new(big.Int).Neg(fe.value))
}

// Mul performs field multiplication.
func (fe *FieldElement) Mul(other *FieldElement) *FieldElement {
	fe.mustMatch(other)
	return fe.field.NewElement(new(big.Int).Mul(fe.value, other.value))
}

// Inv computes the multiplicative inverse; errors on zero.
func (fe *FieldElement) Inv() (*FieldElement, error) {
	if fe.value.Sign() == 0 {
		return nil, fmt.Errorf("cannot invert zero")
	}
	inv := new(big.Int).ModInverse(fe.value, fe.field.modulus)
	if inv == nil {
		return nil, fmt.Errorf("inverse does not exist")
	}
	return fe.field.NewElement(inv), nil
}

// Div performs field division (multiplication by inverse).
func (fe *FieldElement) Div(other *FieldElement) (*FieldElement, error) {
	fe.mustMatch(other)
	inv, err := other.Inv()
	if err != nil {
		return nil, fmt.Errorf("division failed: %w", err)
	}
	return fe.Mul(inv), nil
}

// EuclideanDivMod computes the quotient and remainder of integer division
// over the elements' *representative* big.Int values (not a field
// operation): a = q*b + r, 0 <= r < |b|. Used by the Div/Rem gadgets, which
// operate on the integer scalar types rather than raw field elements.
func EuclideanDivMod(a, b *big.Int) (q, r *big.Int, err error) {
	if b.Sign() == 0 {
		return nil, nil, fmt.Errorf("division by zero")
	}
	q, r = new(big.Int), new(big.Int)
	q.DivMod(a, b, r) // big.Int.DivMod is already Euclidean: 0 <= r < |b|
	return q, r, nil
}

// Exp performs field exponentiation.
func (fe *FieldElement) Exp(exponent *big.Int) *FieldElement {
	return fe.field.NewElement(new(big.Int).Exp(fe.value, exponent, fe.field.modulus))
}

// Equal checks value equality within the same field.
func (fe *FieldElement) Equal(other *FieldElement) bool {
	return fe.field.Equals(other.field) && fe.value.Cmp(other.value) == 0
}

// IsZero checks if the element is zero.
func (fe *FieldElement) IsZero() bool { return fe.value.Sign() == 0 }

// IsOne checks if the element is one.
func (fe *FieldElement) IsOne() bool { return fe.value.Cmp(big.NewInt(1)) == 0 }

// LessThan compares the representative integer values of two elements of
// the same field. Used by the comparison gadgets' witness-computation side.
func (fe *FieldElement) LessThan(other *FieldElement) bool {
	return fe.value.Cmp(other.value) < 0
}

// String returns a string representation of the field element.
func (fe *FieldElement) String() string { return fe.value.String() }

// Bytes returns the big-endian byte representation of the field element.
func (fe *FieldElement) Bytes() []byte { return fe.value.Bytes() }

// Bit returns the i-th bit (0 = least significant) of the element's
// representative integer.
func (fe *FieldElement) Bit(i int) bool { return fe.value.Bit(i) == 1 }

func (fe *FieldElement) mustMatch(other *FieldElement) {
	if !fe.field.Equals(other.field) {
		panic("zincvm: field elements belong to different fields")
	}
}
