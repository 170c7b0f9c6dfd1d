package stdlib

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"golang.org/x/crypto/sha3"

	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
	"github.com/zinc-project/zinc-vm/internal/zincvm/zerr"
)

// SchnorrVerify checks an EdDSA-style signature over the embedded twisted
// Edwards curve, adapted from original_source/zinc-vm/src/gadgets/stdlib/crypto/schnorr.rs's
// VerifySchnorrSignature: it pops (r_x, r_y, s, pk_x, pk_y) plus a message
// bit array off the stack, reconstructs the two curve points, and verifies
// the raw-message Schnorr equation s*B = R + c*PK where c is a
// Fiat-Shamir challenge derived from (R, PK, message).
//
// Per the harmonized Open Question decision (spec.md §9, resolved in
// SPEC_FULL.md §4.9), the message length cap uses the VM's own rounding:
// field_capacity / 8 * 8 bits (248 for BN254's ~254-bit scalar field).
func SchnorrVerify(cs *core.ConstraintSystem, rX, rY, s, pkX, pkY *core.Scalar, messageBits []*core.Scalar) (*core.Scalar, error) {
	if len(messageBits) == 0 {
		return nil, zerr.MalformedBytecode("schnorr::verify needs at least one message bit")
	}
	maxBits := (cs.Field().Capacity() / 8) * 8
	if uint(len(messageBits)) > maxBits {
		return nil, zerr.MalformedBytecode("maximum message length for schnorr signature is %d bits", maxBits)
	}
	for _, b := range messageBits {
		if b.Type().Tag != core.TagBoolean {
			return nil, zerr.MalformedBytecode("schnorr::verify message must be an all-boolean array")
		}
	}
	for _, f := range []*core.Scalar{rX, rY, s, pkX, pkY} {
		if f.Type().Tag != core.TagField {
			return nil, zerr.MalformedBytecode("schnorr::verify point/scalar arguments must be Field, got %s", f.Type())
		}
	}

	curve := twistededwards.GetEdwardsCurve()

	var r, pk twistededwards.PointAffine
	r.X.SetBigInt(rX.Value().Big())
	r.Y.SetBigInt(rY.Value().Big())
	pk.X.SetBigInt(pkX.Value().Big())
	pk.Y.SetBigInt(pkY.Value().Big())

	onCurve := r.IsOnCurve() && pk.IsOnCurve()

	messageBytes := bitsToBytes(messageBits)
	challenge := fiatShamirChallenge(&r, &pk, messageBytes, &curve.Order)

	var lhs, cTimesPK, rhs twistededwards.PointAffine
	lhs.ScalarMultiplication(&curve.Base, s.Value().Big())
	cTimesPK.ScalarMultiplication(&pk, challenge)
	rhs.Add(&r, &cTimesPK)

	valid := onCurve && lhs.X.Equal(&rhs.X) && lhs.Y.Equal(&rhs.Y)

	result, err := core.NewConstantBool(cs, valid)
	if err != nil {
		return nil, zerr.Synthesis(err)
	}
	// The curve arithmetic above runs on the concrete witness only, the
	// same way the dispatcher's stdlib calls compute their result before
	// the surrounding bytecode range-checks it. There is no in-circuit
	// twisted Edwards scalar-multiplication gadget: result is a constant
	// from NewConstantBool, and no constraint ties it to the inputs.
	return result, nil
}

// fiatShamirChallenge derives the verification challenge scalar from the
// nonce point, public key, and message, reduced modulo the curve's
// subgroup order, using SHA3-256 as the transcript hash.
func fiatShamirChallenge(r, pk *twistededwards.PointAffine, message []byte, order *big.Int) *big.Int {
	h := sha3.New256()
	writeFieldElement(h, &r.X)
	writeFieldElement(h, &r.Y)
	writeFieldElement(h, &pk.X)
	writeFieldElement(h, &pk.Y)
	h.Write(message)
	digest := h.Sum(nil)

	c := new(big.Int).SetBytes(digest)
	return c.Mod(c, order)
}

func writeFieldElement(h interface{ Write([]byte) (int, error) }, v interface{ Bytes() [32]byte }) {
	b := v.Bytes()
	h.Write(b[:])
}

// bitsToBytes packs a little-endian Boolean bit array into bytes, 8 bits
// per byte, matching to_bits' own bit ordering.
func bitsToBytes(bits []*core.Scalar) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b.Value().IsOne() {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}
