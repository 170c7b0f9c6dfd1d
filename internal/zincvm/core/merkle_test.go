package core

import (
	"crypto/sha256"
	"testing"
)

func leafHash(s string) []byte {
	h := sha256.Sum256([]byte(s))
	return h[:]
}

func TestMerkleTreeRootAndProof(t *testing.T) {
	leaves := [][]byte{leafHash("a"), leafHash("b"), leafHash("c")}
	tree, err := NewMerkleTree(leaves, 2)
	if err != nil {
		t.Fatalf("NewMerkleTree: %v", err)
	}

	for i, lh := range leaves {
		path, err := tree.Path(i)
		if err != nil {
			t.Fatalf("Path(%d): %v", i, err)
		}
		if !VerifyProof(tree.Root(), lh, i, path) {
			t.Errorf("VerifyProof failed for leaf %d", i)
		}
	}
}

func TestMerkleTreeTamperedPathFails(t *testing.T) {
	leaves := [][]byte{leafHash("a"), leafHash("b")}
	tree, err := NewMerkleTree(leaves, 1)
	if err != nil {
		t.Fatalf("NewMerkleTree: %v", err)
	}

	path, err := tree.Path(0)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	tampered := make([][]byte, len(path))
	copy(tampered, path)
	tampered[0] = leafHash("tampered")

	if VerifyProof(tree.Root(), leaves[0], 0, tampered) {
		t.Error("tampered authentication path should not verify")
	}
}

func TestMerkleTreeUpdatePreservesOtherLeaves(t *testing.T) {
	leaves := [][]byte{leafHash("a"), leafHash("b"), leafHash("c"), leafHash("d")}
	tree, err := NewMerkleTree(leaves, 2)
	if err != nil {
		t.Fatalf("NewMerkleTree: %v", err)
	}

	newLeaf := leafHash("a-updated")
	updated, err := tree.Update(0, newLeaf)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	path, err := updated.Path(1)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if !VerifyProof(updated.Root(), leaves[1], 1, path) {
		t.Error("unrelated leaf should still authenticate after update")
	}

	path0, err := updated.Path(0)
	if err != nil {
		t.Fatalf("Path(0): %v", err)
	}
	if !VerifyProof(updated.Root(), newLeaf, 0, path0) {
		t.Error("updated leaf should authenticate to new root")
	}
}

func TestStorageLoadStoreRoundTripPreservesRoot(t *testing.T) {
	leaves := [][]byte{leafHash("x"), leafHash("y")}
	tree, err := NewMerkleTree(leaves, 1)
	if err != nil {
		t.Fatalf("NewMerkleTree: %v", err)
	}

	// storage_load followed by storage_store of the identical value must
	// preserve the Merkle root (spec.md §8 property 6).
	reloaded, err := tree.Update(0, leaves[0])
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if string(reloaded.Root()) != string(tree.Root()) {
		t.Error("round-trip store of identical value changed the root")
	}
}
