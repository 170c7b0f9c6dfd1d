package stdlib

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"

	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
)

func pointToFieldScalars(t *testing.T, cs *core.ConstraintSystem, p *twistededwards.PointAffine) (x, y *core.Scalar) {
	t.Helper()
	x, err := core.NewConstant(cs, fieldElementFromFr(cs.Field(), &p.X), core.FieldType)
	if err != nil {
		t.Fatalf("allocating point x: %v", err)
	}
	y, err = core.NewConstant(cs, fieldElementFromFr(cs.Field(), &p.Y), core.FieldType)
	if err != nil {
		t.Fatalf("allocating point y: %v", err)
	}
	return x, y
}

// signForTest builds a valid Schnorr-style signature over messageBits using
// the same base-point/challenge construction SchnorrVerify checks, so the
// test exercises the real verification equation rather than stubbing it out.
func signForTest(t *testing.T, cs *core.ConstraintSystem, secret, nonce *big.Int, messageBits []*core.Scalar) (rX, rY, s, pkX, pkY *core.Scalar) {
	t.Helper()
	curve := twistededwards.GetEdwardsCurve()

	var pk, r twistededwards.PointAffine
	pk.ScalarMultiplication(&curve.Base, secret)
	r.ScalarMultiplication(&curve.Base, nonce)

	messageBytes := bitsToBytes(messageBits)
	challenge := fiatShamirChallenge(&r, &pk, messageBytes, &curve.Order)

	sVal := new(big.Int).Mul(challenge, secret)
	sVal.Add(sVal, nonce)
	sVal.Mod(sVal, &curve.Order)

	rX, rY = pointToFieldScalars(t, cs, &r)
	pkX, pkY = pointToFieldScalars(t, cs, &pk)
	s, err := core.NewConstant(cs, cs.Field().NewElement(sVal), core.FieldType)
	if err != nil {
		t.Fatalf("allocating s: %v", err)
	}
	return rX, rY, s, pkX, pkY
}

func TestSchnorrVerifyValidSignature(t *testing.T) {
	cs := newTestCS(t)
	messageBits := boolBits(t, cs, true, false, true, true, false, true, false, false)

	rX, rY, s, pkX, pkY := signForTest(t, cs, big.NewInt(12345), big.NewInt(6789), messageBits)

	result, err := SchnorrVerify(cs, rX, rY, s, pkX, pkY, messageBits)
	if err != nil {
		t.Fatalf("SchnorrVerify: %v", err)
	}
	if !result.Value().IsOne() {
		t.Error("SchnorrVerify should accept a correctly constructed signature")
	}
}

func TestSchnorrVerifyRejectsWrongMessage(t *testing.T) {
	cs := newTestCS(t)
	signedMessage := boolBits(t, cs, true, false, true, true, false, true, false, false)
	otherMessage := boolBits(t, cs, false, false, true, true, false, true, false, false)

	rX, rY, s, pkX, pkY := signForTest(t, cs, big.NewInt(12345), big.NewInt(6789), signedMessage)

	result, err := SchnorrVerify(cs, rX, rY, s, pkX, pkY, otherMessage)
	if err != nil {
		t.Fatalf("SchnorrVerify: %v", err)
	}
	if result.Value().IsOne() {
		t.Error("SchnorrVerify should reject a signature checked against a different message")
	}
}

func TestSchnorrVerifyRejectsNonFieldArguments(t *testing.T) {
	cs := newTestCS(t)
	messageBits := boolBits(t, cs, true, false, true)
	nonField := scalarFor(t, cs, 1)

	_, err := SchnorrVerify(cs, nonField, nonField, nonField, nonField, nonField, messageBits)
	if err == nil {
		t.Error("expected an error for non-Field point/scalar arguments")
	}
}

func TestSchnorrVerifyRejectsEmptyMessage(t *testing.T) {
	cs := newTestCS(t)
	f := scalarFor(t, cs, 0)
	if _, err := SchnorrVerify(cs, f, f, f, f, f, nil); err == nil {
		t.Error("expected an error for an empty message")
	}
}
