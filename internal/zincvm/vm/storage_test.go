package vm

import (
	"testing"

	"github.com/zinc-project/zinc-vm/internal/zincvm/bytecode"
	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
)

func newTestStateWithStorage(t *testing.T, depth int) *VMState {
	t.Helper()
	cs := NewConstraintSystem(DefaultConfig())
	tree, err := core.NewMerkleTree(nil, depth)
	if err != nil {
		t.Fatalf("NewMerkleTree: %v", err)
	}
	program := &bytecode.Program{Instructions: []bytecode.Instruction{}}
	return NewVMState(program, cs, tree)
}

func TestStorageLoadUnwrittenLeafIsZero(t *testing.T) {
	s := newTestStateWithStorage(t, 4)
	idx := testScalar(t, s, 3)

	values, err := storageLoad(s, idx, 2)
	if err != nil {
		t.Fatalf("storageLoad: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("storageLoad returned %d cells, want 2", len(values))
	}
	for i, v := range values {
		if !v.Value().IsZero() {
			t.Errorf("cell %d = %s, want 0", i, v.Value())
		}
	}
}

func TestStorageStoreThenLoadRoundTrip(t *testing.T) {
	s := newTestStateWithStorage(t, 4)
	idx := testScalar(t, s, 5)
	a, b := testScalar(t, s, 11), testScalar(t, s, 22)

	if err := storageStore(s, idx, []*core.Scalar{a, b}); err != nil {
		t.Fatalf("storageStore: %v", err)
	}

	values, err := storageLoad(s, idx, 2)
	if err != nil {
		t.Fatalf("storageLoad: %v", err)
	}
	if values[0] != a || values[1] != b {
		t.Errorf("storageLoad after store = %v, want [a, b]", values)
	}
}

func TestStorageLoadWidthMismatch(t *testing.T) {
	s := newTestStateWithStorage(t, 4)
	idx := testScalar(t, s, 1)
	a := testScalar(t, s, 1)

	if err := storageStore(s, idx, []*core.Scalar{a}); err != nil {
		t.Fatalf("storageStore: %v", err)
	}
	if _, err := storageLoad(s, idx, 2); err == nil {
		t.Error("expected an error loading a leaf with a mismatched declared width")
	}
}

func TestStorageStoreUpdatesMerkleRoot(t *testing.T) {
	s := newTestStateWithStorage(t, 4)
	rootBefore := s.Storage.Root()

	idx := testScalar(t, s, 2)
	a := testScalar(t, s, 99)
	if err := storageStore(s, idx, []*core.Scalar{a}); err != nil {
		t.Fatalf("storageStore: %v", err)
	}

	if string(s.Storage.Root()) == string(rootBefore) {
		t.Error("storing a new leaf value should change the Merkle root")
	}
}

func TestStorageStoreWithoutTree(t *testing.T) {
	s := newTestState(t) // no storage tree attached
	idx := testScalar(t, s, 0)
	a := testScalar(t, s, 7)

	if err := storageStore(s, idx, []*core.Scalar{a}); err != nil {
		t.Fatalf("storageStore without a Merkle tree should still record the leaf: %v", err)
	}
	values, err := storageLoad(s, idx, 1)
	if err != nil {
		t.Fatalf("storageLoad: %v", err)
	}
	if values[0] != a {
		t.Error("storageLoad should return the stored leaf even with no attached Merkle tree")
	}
}
