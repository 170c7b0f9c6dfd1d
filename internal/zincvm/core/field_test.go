package core

import (
	"math/big"
	"testing"
)

func testField(t *testing.T) *Field {
	t.Helper()
	f, err := NewField(big.NewInt(97))
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	return f
}

func TestFieldArithmetic(t *testing.T) {
	f := testField(t)

	a := f.NewElementFromInt64(40)
	b := f.NewElementFromInt64(90)

	if got := a.Add(b).Big().Int64(); got != 33 { // 130 mod 97
		t.Errorf("Add = %d, want 33", got)
	}

	if got := a.Sub(b).Big().Int64(); got != 47 { // -50 mod 97
		t.Errorf("Sub = %d, want 47", got)
	}

	if got := a.Mul(b).Big().Int64(); got != (40*90)%97 {
		t.Errorf("Mul = %d, want %d", got, (40*90)%97)
	}
}

func TestFieldInverse(t *testing.T) {
	f := testField(t)
	a := f.NewElementFromInt64(5)

	inv, err := a.Inv()
	if err != nil {
		t.Fatalf("Inv: %v", err)
	}
	if got := a.Mul(inv); !got.IsOne() {
		t.Errorf("a * a^-1 = %s, want 1", got)
	}

	if _, err := f.Zero().Inv(); err == nil {
		t.Error("Inv(0) should error")
	}
}

func TestFieldDiv(t *testing.T) {
	f := testField(t)
	a := f.NewElementFromInt64(12)
	b := f.NewElementFromInt64(4)

	q, err := a.Div(b)
	if err != nil {
		t.Fatalf("Div: %v", err)
	}
	if got := q.Big().Int64(); got != 3 {
		t.Errorf("Div = %d, want 3", got)
	}
}

func TestEuclideanDivMod(t *testing.T) {
	cases := []struct{ a, b, q, r int64 }{
		{42, 5, 8, 2},
		{-42, 5, -9, 3},
		{42, -5, -8, 2},
		{-42, -5, 9, 3},
	}
	for _, c := range cases {
		q, r, err := EuclideanDivMod(big.NewInt(c.a), big.NewInt(c.b))
		if err != nil {
			t.Fatalf("EuclideanDivMod(%d,%d): %v", c.a, c.b, err)
		}
		if q.Int64() != c.q || r.Int64() != c.r {
			t.Errorf("EuclideanDivMod(%d,%d) = (%d,%d), want (%d,%d)", c.a, c.b, q.Int64(), r.Int64(), c.q, c.r)
		}
		// a = q*b + r, 0 <= r < |b|
		reconstructed := new(big.Int).Add(new(big.Int).Mul(q, big.NewInt(c.b)), r)
		if reconstructed.Int64() != c.a {
			t.Errorf("reconstruction failed for (%d,%d)", c.a, c.b)
		}
		if r.Sign() < 0 || r.CmpAbs(big.NewInt(c.b)) >= 0 {
			t.Errorf("remainder %d out of range for divisor %d", r.Int64(), c.b)
		}
	}

	if _, _, err := EuclideanDivMod(big.NewInt(1), big.NewInt(0)); err == nil {
		t.Error("division by zero should error")
	}
}

func TestBN254ScalarField(t *testing.T) {
	f := BN254ScalarField()
	if f.Capacity() == 0 {
		t.Error("BN254 scalar field capacity should be nonzero")
	}
}
