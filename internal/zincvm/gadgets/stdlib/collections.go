package stdlib

import (
	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
	"github.com/zinc-project/zinc-vm/internal/zincvm/gadgets"
	"github.com/zinc-project/zinc-vm/internal/zincvm/zerr"
)

// ArrayReverse returns a new slice with the elements in reverse order. No
// constraints are needed: reversal only permutes variable handles, it does
// not derive new values.
func ArrayReverse(values []*core.Scalar) []*core.Scalar {
	out := make([]*core.Scalar, len(values))
	for i, v := range values {
		out[len(values)-1-i] = v
	}
	return out
}

// ArrayTruncate returns the first newLength elements of values.
func ArrayTruncate(values []*core.Scalar, newLength int) ([]*core.Scalar, error) {
	if newLength < 0 || newLength > len(values) {
		return nil, zerr.Runtime("array truncate: new length %d out of bounds for array of length %d", newLength, len(values))
	}
	out := make([]*core.Scalar, newLength)
	copy(out, values[:newLength])
	return out, nil
}

// ArrayPad returns values padded up to newLength by appending copies of
// fill, which must already share the element type used elsewhere in the
// array (the caller is responsible for constructing it with the right
// type, typically a zero constant of the array's element type).
func ArrayPad(values []*core.Scalar, newLength int, fill *core.Scalar) ([]*core.Scalar, error) {
	if newLength < len(values) {
		return nil, zerr.Runtime("array pad: new length %d shorter than current length %d", newLength, len(values))
	}
	out := make([]*core.Scalar, newLength)
	copy(out, values)
	for i := len(values); i < newLength; i++ {
		out[i] = fill
	}
	return out, nil
}

// MTreeMapContains reports whether key is present in leaf's entries,
// adapted from original_source's MTreeMap::contains (linear key scan over a
// map leaf's fixed-size entry table, bounded by schema size per spec.md §4.7).
func MTreeMapContains(leaf *core.MapLeaf, key []*core.Scalar) bool {
	return leaf.Contains(key)
}

// MTreeMapGet returns the value associated with key, and whether it was
// found.
func MTreeMapGet(leaf *core.MapLeaf, key []*core.Scalar) ([]*core.Scalar, bool) {
	return leaf.Get(key)
}

// MTreeMapInsert inserts or replaces the (key, value) pair in leaf.
func MTreeMapInsert(leaf *core.MapLeaf, key, value []*core.Scalar) error {
	if err := leaf.Insert(key, value); err != nil {
		return zerr.Runtime("%s", err)
	}
	return nil
}

// MTreeMapRemove removes key's entry from leaf, if present.
func MTreeMapRemove(leaf *core.MapLeaf, key []*core.Scalar) {
	leaf.Remove(key)
}

// KeyEquals is a constrained key-comparison helper used by higher-level
// map dispatch code that needs a Boolean "found" flag rather than the
// concrete-only bool MTreeMapContains returns (e.g. when the found flag
// itself feeds back into a conditional_select against in-circuit data).
func KeyEquals(cs *core.ConstraintSystem, a, b []*core.Scalar) (*core.Scalar, error) {
	if len(a) != len(b) {
		return nil, zerr.MalformedBytecode("key comparison requires equal-length keys")
	}
	if len(a) == 0 {
		return core.NewConstantBool(cs, true)
	}
	acc, err := gadgets.Eq(cs, a[0], b[0])
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(a); i++ {
		eq, err := gadgets.Eq(cs, a[i], b[i])
		if err != nil {
			return nil, err
		}
		acc, err = gadgets.And(cs, acc, eq)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}
