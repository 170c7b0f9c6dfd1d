package vm

import (
	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
	"github.com/zinc-project/zinc-vm/internal/zincvm/gadgets"
	"github.com/zinc-project/zinc-vm/internal/zincvm/gadgets/stdlib"
	"github.com/zinc-project/zinc-vm/internal/zincvm/zerr"
)

// scalarBitsBigEndian decomposes a scalar into a fixed-width, big-endian,
// MSB-first-per-byte Boolean bit array: every scalar, regardless of its
// declared ScalarType, is decomposed into the same
// ceil(field_bit_length / 8) bytes, so the circuit's shape never depends on
// a particular witness value. This is the in-circuit counterpart of
// core.fixedWidthBytes.
func scalarBitsBigEndian(cs *core.ConstraintSystem, s *core.Scalar) ([]*core.Scalar, error) {
	fullBits := uint(cs.Field().Modulus().BitLen())
	bits, err := gadgets.DecomposeBits(cs, s.Variable(), s.Value(), fullBits)
	if err != nil {
		return nil, err
	}

	byteWidth := (fullBits + 7) / 8
	for uint(len(bits)) < byteWidth*8 {
		zero, err := core.NewConstantBool(cs, false)
		if err != nil {
			return nil, err
		}
		bits = append(bits, zero)
	}

	reversed := make([]*core.Scalar, len(bits))
	for i, b := range bits {
		reversed[len(bits)-1-i] = b
	}
	return reversed, nil
}

// leafHashBits computes the in-circuit SHA-256 digest of a leaf's values, as
// 256 Boolean bits, the in-circuit counterpart of core.leafValueHash.
func leafHashBits(cs *core.ConstraintSystem, values []*core.Scalar) ([]*core.Scalar, error) {
	var flat []*core.Scalar
	for _, v := range values {
		bits, err := scalarBitsBigEndian(cs, v)
		if err != nil {
			return nil, err
		}
		flat = append(flat, bits...)
	}
	return stdlib.Sha256(cs, flat)
}

// merkleHashPairBits combines two 256-bit digests into their parent's
// digest, the in-circuit counterpart of core.hashPair.
func merkleHashPairBits(cs *core.ConstraintSystem, left, right []*core.Scalar) ([]*core.Scalar, error) {
	pair := make([]*core.Scalar, 0, len(left)+len(right))
	pair = append(pair, left...)
	pair = append(pair, right...)
	return stdlib.Sha256(cs, pair)
}

// constantBits allocates a concrete byte slice as Boolean constants, in
// big-endian, MSB-first-per-byte order, matching leafHashBits' output
// convention.
func constantBits(cs *core.ConstraintSystem, b []byte) ([]*core.Scalar, error) {
	out := make([]*core.Scalar, 0, len(b)*8)
	for _, byteVal := range b {
		for i := 7; i >= 0; i-- {
			bit := (byteVal>>uint(i))&1 == 1
			s, err := core.NewConstantBool(cs, bit)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
	}
	return out, nil
}

// enforceBitsEqual constrains two equal-length Boolean bit arrays to be
// identical, bit by bit.
func enforceBitsEqual(cs *core.ConstraintSystem, label string, a, b []*core.Scalar) error {
	if len(a) != len(b) {
		return zerr.Runtime("%s: bit length mismatch (%d vs %d)", label, len(a), len(b))
	}
	for i := range a {
		cs.Enforce(label, cs.One(), a[i].LinearCombination(), b[i].LinearCombination())
	}
	return nil
}

// recomputeRootBits walks an authentication path from a leaf's hash bits to
// the root, in-circuit, choosing the hash order at each level from the
// (concrete, publicly known) leaf index — the same left/right choice
// core.RecomputeRoot makes at the witness level. The caller constrains the
// returned bits equal to the declared root's bits.
func recomputeRootBits(cs *core.ConstraintSystem, leafBits []*core.Scalar, index int, path [][]bool) ([]*core.Scalar, error) {
	current := leafBits
	idx := index
	for _, siblingBits := range path {
		sibling := make([]*core.Scalar, len(siblingBits))
		for i, bit := range siblingBits {
			s, err := core.NewConstantBool(cs, bit)
			if err != nil {
				return nil, err
			}
			sibling[i] = s
		}

		var next []*core.Scalar
		var err error
		if idx%2 == 0 {
			next, err = merkleHashPairBits(cs, current, sibling)
		} else {
			next, err = merkleHashPairBits(cs, sibling, current)
		}
		if err != nil {
			return nil, err
		}
		current = next
		idx /= 2
	}
	return current, nil
}
