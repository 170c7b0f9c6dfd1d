package core

import (
	"crypto/sha256"
	"fmt"
)

// Leaf is one storage slot: a flat vector of scalars, its SHA-256 hash (as
// individual bits, matching the boolean-array shape the SHA-256 gadget
// produces in-circuit) and its authentication path. Adapted directly from
// original_source/zinc-vm/src/core/contract/storage/leaf.rs, rewritten from
// that file's Poseidon-keyed hash to SHA-256 per spec.md §4.7.
type Leaf struct {
	Values             []*Scalar
	ValueHash          []bool // 256 big-endian bits of sha256(leaf values)
	AuthenticationPath [][]bool
}

// NewLeaf builds a Leaf from its values, hashing them with SHA-256 and
// attaching the given authentication path (or a zero path of the given
// depth, for an empty/default leaf).
func NewLeaf(values []*Scalar, authenticationPath [][]bool, depth int) *Leaf {
	hashBytes := leafValueHash(values)
	bits := make([]bool, 0, len(hashBytes)*8)
	for _, b := range hashBytes {
		for j := 7; j >= 0; j-- {
			bits = append(bits, (b>>uint(j))&1 == 1)
		}
	}

	path := authenticationPath
	if path == nil {
		path = make([][]bool, depth)
		for i := range path {
			path[i] = make([]bool, sha256.Size*8)
		}
	}

	return &Leaf{Values: values, ValueHash: bits, AuthenticationPath: path}
}

// leafValueHash computes the concrete SHA-256 digest of a leaf's scalar
// values, serializing each one as a fixed-width big-endian byte string
// (width = ceil(field_bit_length / 8), zero-padded). A fixed width per
// value — rather than big.Int's variable-length Bytes() — is required so
// the witness-level hash always matches the in-circuit gadget's
// fixed-shape bit decomposition of the same values (see
// vm.leafHashBits/vm.scalarBitsBigEndian).
func leafValueHash(values []*Scalar) []byte {
	h := sha256.New()
	for _, v := range values {
		h.Write(fixedWidthBytes(v.Value()))
	}
	return h.Sum(nil)
}

// fixedWidthBytes renders a field element as a zero-padded big-endian byte
// string of ceil(field_bit_length / 8) bytes.
func fixedWidthBytes(v *FieldElement) []byte {
	width := (v.Field().Modulus().BitLen() + 7) / 8
	buf := make([]byte, width)
	v.Big().FillBytes(buf)
	return buf
}

// HashBytes returns the leaf's hash as a byte slice (packing ValueHash back
// into bytes), used when committing the leaf into a MerkleTree.
func (l *Leaf) HashBytes() []byte {
	out := make([]byte, len(l.ValueHash)/8)
	for i := range out {
		var b byte
		for j := 0; j < 8; j++ {
			b <<= 1
			if l.ValueHash[i*8+j] {
				b |= 1
			}
		}
		out[i] = b
	}
	return out
}

// KVPair is one entry of a MapLeaf: a flat key vector and a flat value
// vector, per spec.md §4.7's `MapLeaf` variant.
type KVPair struct {
	Key   []*Scalar
	Value []*Scalar
}

// MapLeaf stores (key, value) entries with linear scan semantics, bounded
// by the contract schema's declared map size (spec.md §4.7).
type MapLeaf struct {
	Entries []KVPair
	MaxSize int
}

// NewMapLeaf creates an empty map leaf with the given maximum size.
func NewMapLeaf(maxSize int) *MapLeaf {
	return &MapLeaf{MaxSize: maxSize}
}

func scalarsEqual(a, b []*Scalar) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Value().Equal(b[i].Value()) {
			return false
		}
	}
	return true
}

// Contains scans entries for exact key equality, mirroring
// original_source/zinc-vm/src/instructions/call_library/collections_mtreemap/contains.rs.
func (m *MapLeaf) Contains(key []*Scalar) bool {
	for _, e := range m.Entries {
		if scalarsEqual(e.Key, key) {
			return true
		}
	}
	return false
}

// Get returns the value for key via linear key-match.
func (m *MapLeaf) Get(key []*Scalar) ([]*Scalar, bool) {
	for _, e := range m.Entries {
		if scalarsEqual(e.Key, key) {
			return e.Value, true
		}
	}
	return nil, false
}

// Insert adds or replaces the entry for key; errors if the map is already
// at MaxSize and key is not already present.
func (m *MapLeaf) Insert(key, value []*Scalar) error {
	for i, e := range m.Entries {
		if scalarsEqual(e.Key, key) {
			m.Entries[i].Value = value
			return nil
		}
	}
	if len(m.Entries) >= m.MaxSize {
		return fmt.Errorf("map leaf at capacity (%d entries)", m.MaxSize)
	}
	m.Entries = append(m.Entries, KVPair{Key: key, Value: value})
	return nil
}

// Remove deletes the entry for key, if present.
func (m *MapLeaf) Remove(key []*Scalar) {
	for i, e := range m.Entries {
		if scalarsEqual(e.Key, key) {
			m.Entries = append(m.Entries[:i], m.Entries[i+1:]...)
			return
		}
	}
}
