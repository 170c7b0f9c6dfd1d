package vm

import (
	"crypto/sha256"

	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
	"github.com/zinc-project/zinc-vm/internal/zincvm/zerr"
)

// storageLoad reads the leaf at the concrete index popped off the stack
// (spec.md §4.7). A leaf never written before reads as a zero-filled leaf
// of the declared field width, matching a fresh contract's default storage.
//
// The returned values are bound to the committed Merkle root in-circuit:
// an existing leaf's SHA-256 gadget digest is constrained equal to its
// recorded hash, an unwritten leaf is authenticated against
// core.MerkleTree's own all-zero padding digest, and either digest is then
// walked up its authentication path and constrained equal to the root
// currently committed in state.Storage. A witness that tampers with either
// the returned values or the authentication path makes this constraint
// system unsatisfiable (spec.md §8 property 6).
func storageLoad(state *VMState, index *core.Scalar, width int) ([]*core.Scalar, error) {
	idx := int(index.Value().Big().Int64())
	leaf, ok := state.Leaves[idx]

	var values []*core.Scalar
	var declaredHashBytes []byte

	if ok {
		if len(leaf.Values) != width {
			return nil, zerr.Runtime("storage leaf %d has width %d, expected %d", idx, len(leaf.Values), width)
		}
		values = leaf.Values
		declaredHashBytes = leaf.HashBytes()

		computedBits, err := leafHashBits(state.CS, values)
		if err != nil {
			return nil, err
		}
		declaredBits, err := constantBits(state.CS, declaredHashBytes)
		if err != nil {
			return nil, err
		}
		if err := enforceBitsEqual(state.CS, "storage-load-leaf-hash", computedBits, declaredBits); err != nil {
			return nil, err
		}
	} else {
		values = zeroLeafValues(state.CS, width)
		declaredHashBytes = make([]byte, sha256.Size) // core.NewMerkleTree's zero-leaf padding
	}

	if state.Storage != nil {
		if err := authenticateAgainstRoot(state, idx, declaredHashBytes, "storage-load-root"); err != nil {
			return nil, err
		}
	}
	return values, nil
}

// storageStore writes values as the new leaf at the concrete index popped
// off the stack, updating the Merkle commitment if one is attached, and
// binds the write to that commitment in-circuit the same way storageLoad
// binds a read (spec.md §4.7, §8 property 6).
func storageStore(state *VMState, index *core.Scalar, values []*core.Scalar) error {
	idx := int(index.Value().Big().Int64())
	var path [][]byte
	if state.Storage != nil {
		p, err := state.Storage.Path(idx)
		if err != nil {
			return zerr.Runtime("storage_store: %s", err)
		}
		path = p
	}

	leaf := core.NewLeaf(values, toBoolPath(path), len(path))
	state.Leaves[idx] = leaf

	computedBits, err := leafHashBits(state.CS, values)
	if err != nil {
		return err
	}
	declaredBits, err := constantBits(state.CS, leaf.HashBytes())
	if err != nil {
		return err
	}
	if err := enforceBitsEqual(state.CS, "storage-store-leaf-hash", computedBits, declaredBits); err != nil {
		return err
	}

	if state.Storage != nil {
		updated, err := state.Storage.Update(idx, leaf.HashBytes())
		if err != nil {
			return zerr.Runtime("storage_store: %s", err)
		}
		state.Storage = updated

		if err := authenticateAgainstRoot(state, idx, leaf.HashBytes(), "storage-store-root"); err != nil {
			return err
		}
	}
	return nil
}

// authenticateAgainstRoot recomputes the Merkle root in-circuit from
// leafHashBytes along index's current authentication path, and constrains
// the result equal to state.Storage's currently committed root.
func authenticateAgainstRoot(state *VMState, index int, leafHashBytes []byte, label string) error {
	path, err := state.Storage.Path(index)
	if err != nil {
		return zerr.Runtime("%s: %s", label, err)
	}
	leafBits, err := constantBits(state.CS, leafHashBytes)
	if err != nil {
		return err
	}
	rootBits, err := recomputeRootBits(state.CS, leafBits, index, toBoolPath(path))
	if err != nil {
		return err
	}
	declaredRootBits, err := constantBits(state.CS, state.Storage.Root())
	if err != nil {
		return err
	}
	return enforceBitsEqual(state.CS, label, rootBits, declaredRootBits)
}

func zeroLeafValues(cs *core.ConstraintSystem, width int) []*core.Scalar {
	out := make([]*core.Scalar, width)
	zero := cs.Field().Zero()
	for i := range out {
		s, err := core.NewConstant(cs, zero, core.FieldType)
		if err != nil {
			panic("zincvm: allocating a zero constant cannot fail: " + err.Error())
		}
		out[i] = s
	}
	return out
}

func toBoolPath(path [][]byte) [][]bool {
	out := make([][]bool, len(path))
	for i, p := range path {
		bits := make([]bool, len(p)*8)
		for j, b := range p {
			for k := 0; k < 8; k++ {
				bits[j*8+k] = (b>>uint(7-k))&1 == 1
			}
		}
		out[i] = bits
	}
	return out
}
