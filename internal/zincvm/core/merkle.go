package core

import (
	"bytes"
	"crypto/sha256"
	"fmt"
)

// MerkleTree authenticates a contract's persistent state: an array of
// leaves, each hashed with SHA-256, committed into a binary tree of the
// configured depth (spec.md §4.7). Adapted from the teacher's
// core/merkle.go, which built the same leaves/levels/proof shape over a
// Poseidon-then-SHA256-fallback hash; Zinc's storage model hashes with
// SHA-256 only, as spec.md §4.7 specifies explicitly.
type MerkleTree struct {
	depth  int
	root   []byte
	leaves [][]byte
	levels [][][]byte
}

// ProofNode is one sibling hash on an authentication path.
type ProofNode struct {
	Hash    []byte
	IsRight bool
}

// NewMerkleTree builds a tree over the given leaf hashes, padding with
// zero-leaves up to 2^depth entries.
func NewMerkleTree(leafHashes [][]byte, depth int) (*MerkleTree, error) {
	size := 1 << uint(depth)
	if len(leafHashes) > size {
		return nil, fmt.Errorf("too many leaves (%d) for depth %d (capacity %d)", len(leafHashes), depth, size)
	}

	leaves := make([][]byte, size)
	zero := make([]byte, sha256.Size)
	for i := 0; i < size; i++ {
		if i < len(leafHashes) {
			leaves[i] = leafHashes[i]
		} else {
			leaves[i] = zero
		}
	}

	levels := [][][]byte{leaves}
	current := leaves
	for len(current) > 1 {
		next := make([][]byte, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			next = append(next, hashPair(current[i], current[i+1]))
		}
		levels = append(levels, next)
		current = next
	}

	root := leaves[0]
	if len(current) > 0 {
		root = current[0]
	}

	return &MerkleTree{depth: depth, root: root, leaves: leaves, levels: levels}, nil
}

func hashPair(left, right []byte) []byte {
	h := sha256.New()
	h.Write(left)
	h.Write(right)
	return h.Sum(nil)
}

// Depth returns the tree depth.
func (mt *MerkleTree) Depth() int { return mt.depth }

// Root returns the Merkle root.
func (mt *MerkleTree) Root() []byte { return mt.root }

// Path returns the authentication path (sibling hashes, leaf to root) for
// the leaf at index.
func (mt *MerkleTree) Path(index int) ([][]byte, error) {
	if index < 0 || index >= len(mt.leaves) {
		return nil, fmt.Errorf("leaf index %d out of range [0, %d)", index, len(mt.leaves))
	}
	path := make([][]byte, 0, mt.depth)
	idx := index
	for level := 0; level < len(mt.levels)-1; level++ {
		cur := mt.levels[level]
		sibling := idx ^ 1
		path = append(path, cur[sibling])
		idx /= 2
	}
	return path, nil
}

// RecomputeRoot recomputes the root given a leaf hash, its index and
// authentication path, without consulting the tree itself. This is the
// concrete (witness-side) counterpart of the in-circuit root recomputation
// performed by storage_load/storage_store gadgets.
func RecomputeRoot(leafHash []byte, index int, path [][]byte) []byte {
	hash := leafHash
	idx := index
	for _, sibling := range path {
		if idx%2 == 0 {
			hash = hashPair(hash, sibling)
		} else {
			hash = hashPair(sibling, hash)
		}
		idx /= 2
	}
	return hash
}

// VerifyProof reports whether leafHash authenticates to root along path at
// index.
func VerifyProof(root, leafHash []byte, index int, path [][]byte) bool {
	return bytes.Equal(RecomputeRoot(leafHash, index, path), root)
}

// Update replaces the leaf hash at index and returns the new tree (used by
// storage_store's witness-side bookkeeping).
func (mt *MerkleTree) Update(index int, leafHash []byte) (*MerkleTree, error) {
	if index < 0 || index >= len(mt.leaves) {
		return nil, fmt.Errorf("leaf index %d out of range [0, %d)", index, len(mt.leaves))
	}
	leaves := make([][]byte, len(mt.leaves))
	copy(leaves, mt.leaves)
	leaves[index] = leafHash
	return NewMerkleTree(leaves, mt.depth)
}
