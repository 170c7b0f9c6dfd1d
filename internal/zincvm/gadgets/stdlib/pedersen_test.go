package stdlib

import (
	"testing"

	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
)

func boolBits(t *testing.T, cs *core.ConstraintSystem, values ...bool) []*core.Scalar {
	t.Helper()
	out := make([]*core.Scalar, len(values))
	for i, v := range values {
		s, err := core.NewConstantBool(cs, v)
		if err != nil {
			t.Fatalf("allocating bit %d: %v", i, err)
		}
		out[i] = s
	}
	return out
}

func TestPedersenDeterministic(t *testing.T) {
	cs := newTestCS(t)
	bits := boolBits(t, cs, true, false, true, true, false, false, true, false)

	x1, y1, err := Pedersen(cs, bits)
	if err != nil {
		t.Fatalf("Pedersen: %v", err)
	}

	cs2 := newTestCS(t)
	bits2 := boolBits(t, cs2, true, false, true, true, false, false, true, false)
	x2, y2, err := Pedersen(cs2, bits2)
	if err != nil {
		t.Fatalf("Pedersen (second run): %v", err)
	}

	if !x1.Value().Equal(x2.Value()) || !y1.Value().Equal(y2.Value()) {
		t.Error("Pedersen should be a deterministic function of its input bits")
	}
}

func TestPedersenDiffersOnDifferentInput(t *testing.T) {
	cs := newTestCS(t)
	a := boolBits(t, cs, true, false, true)
	b := boolBits(t, cs, false, true, true)

	xa, ya, err := Pedersen(cs, a)
	if err != nil {
		t.Fatalf("Pedersen(a): %v", err)
	}
	xb, yb, err := Pedersen(cs, b)
	if err != nil {
		t.Fatalf("Pedersen(b): %v", err)
	}

	if xa.Value().Equal(xb.Value()) && ya.Value().Equal(yb.Value()) {
		t.Error("Pedersen of two different bit patterns should not collide")
	}
}

func TestPedersenRejectsEmptyInput(t *testing.T) {
	cs := newTestCS(t)
	if _, _, err := Pedersen(cs, nil); err == nil {
		t.Error("expected an error for an empty input")
	}
}

func TestPedersenRejectsOversizedInput(t *testing.T) {
	cs := newTestCS(t)
	bits := make([]*core.Scalar, pedersenMaxBits+1)
	for i := range bits {
		s, err := core.NewConstantBool(cs, false)
		if err != nil {
			t.Fatalf("allocating bit: %v", err)
		}
		bits[i] = s
	}
	if _, _, err := Pedersen(cs, bits); err == nil {
		t.Error("expected an error exceeding the maximum input length")
	}
}

func TestPedersenRejectsNonBoolean(t *testing.T) {
	cs := newTestCS(t)
	nonBool := scalarFor(t, cs, 1)
	if _, _, err := Pedersen(cs, []*core.Scalar{nonBool}); err == nil {
		t.Error("expected an error for a non-boolean input")
	}
}
