package stdlib

import (
	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
	"github.com/zinc-project/zinc-vm/internal/zincvm/gadgets"
	"github.com/zinc-project/zinc-vm/internal/zincvm/zerr"
)

// sha256RoundConstants are the 64 round constants of FIPS 180-4 §4.2.2.
var sha256RoundConstants = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

// sha256InitialHash is the SHA-256 initial hash value, FIPS 180-4 §5.3.3.
var sha256InitialHash = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// word32 is a little-endian array of 32 Boolean scalars representing one
// SHA-256 word, plus its concrete uint32 value for building the next
// round's witnesses without repeated bit-repacking.
type word32 struct {
	bits      []*core.Scalar // len 32, bit i = 2^i place (little-endian)
	value     uint32
	packed    core.Variable // lazily materialized packed-integer variable
	hasPacked bool
}

// Sha256 computes the SHA-256 digest of a Boolean bit array, returning a
// 256-bit Boolean array (spec.md §4.9 "sha256(bits)"). The input length
// must be a positive multiple of 8 (a whole number of bytes); this is the
// StdlibError precondition spec.md §7 calls out by name.
//
// No pack example ships an in-circuit SHA-256 gadget (see DESIGN.md), so
// this is built from scratch directly against FIPS 180-4, using the
// boolean/arithmetic primitives in the sibling gadgets package for every
// bitwise operation (rotr, shr, ch, maj, the two sigma functions) and for
// the mod-2^32 additions in the compression function.
func Sha256(cs *core.ConstraintSystem, input []*core.Scalar) ([]*core.Scalar, error) {
	if len(input) == 0 || len(input)%8 != 0 {
		return nil, zerr.Stdlib("sha256: input length %d is not a positive multiple of 8", len(input))
	}
	for _, b := range input {
		if b.Type().Tag != core.TagBoolean {
			return nil, zerr.Stdlib("sha256: input must be an all-boolean array")
		}
	}

	padded, err := padMessage(cs, input)
	if err != nil {
		return nil, err
	}

	h := make([]*word32, 8)
	for i, iv := range sha256InitialHash {
		w, err := constWord32(cs, iv)
		if err != nil {
			return nil, err
		}
		h[i] = w
	}

	blocks := len(padded) / 512
	for b := 0; b < blocks; b++ {
		block := padded[b*512 : (b+1)*512]
		h, err = sha256Compress(cs, h, block)
		if err != nil {
			return nil, err
		}
	}

	out := make([]*core.Scalar, 0, 256)
	for _, w := range h {
		out = append(out, bigEndianWord(w).bits...)
	}
	return out, nil
}

// padMessage applies FIPS 180-4 §5.1.1 padding: append a 1 bit, zero bits
// until length is congruent to 448 mod 512, then the 64-bit big-endian
// message length.
func padMessage(cs *core.ConstraintSystem, input []*core.Scalar) ([]*core.Scalar, error) {
	one, err := core.NewConstantBool(cs, true)
	if err != nil {
		return nil, zerr.Synthesis(err)
	}
	zero, err := core.NewConstantBool(cs, false)
	if err != nil {
		return nil, zerr.Synthesis(err)
	}

	msg := append([]*core.Scalar{}, input...)
	msg = append(msg, one)
	for (len(msg)+64)%512 != 0 {
		msg = append(msg, zero)
	}

	length := uint64(len(input))
	for i := 63; i >= 0; i-- {
		bit := (length>>uint(i))&1 == 1
		b, err := core.NewConstantBool(cs, bit)
		if err != nil {
			return nil, zerr.Synthesis(err)
		}
		msg = append(msg, b)
	}
	return msg, nil
}

// constWord32 builds a word32 from a constant uint32, each bit a constant
// Boolean scalar (no fresh variable range-checks needed beyond Boolean).
func constWord32(cs *core.ConstraintSystem, v uint32) (*word32, error) {
	bits := make([]*core.Scalar, 32)
	for i := 0; i < 32; i++ {
		b, err := core.NewConstantBool(cs, (v>>uint(i))&1 == 1)
		if err != nil {
			return nil, zerr.Synthesis(err)
		}
		bits[i] = b
	}
	return &word32{bits: bits, value: v}, nil
}

// wordFromBits packs 32 big-endian-ordered-in-the-message bits (as they
// appear in a SHA-256 block: bit 0 of the word is the MSB of the first
// byte) into a little-endian word32.
func wordFromBits(bits []*core.Scalar) *word32 {
	var v uint32
	le := make([]*core.Scalar, 32)
	for i := 0; i < 32; i++ {
		msbFirst := bits[i]
		bitIndex := 31 - i
		le[bitIndex] = msbFirst
		if msbFirst.Value().IsOne() {
			v |= 1 << uint(bitIndex)
		}
	}
	return &word32{bits: le, value: v}
}

func sha256Compress(cs *core.ConstraintSystem, h []*word32, block []*core.Scalar) ([]*word32, error) {
	w := make([]*word32, 64)
	for t := 0; t < 16; t++ {
		w[t] = wordFromBits(block[t*32 : (t+1)*32])
	}
	for t := 16; t < 64; t++ {
		s0, err := sigma0(cs, w[t-15])
		if err != nil {
			return nil, err
		}
		s1, err := sigma1(cs, w[t-2])
		if err != nil {
			return nil, err
		}
		sum, err := addMod32(cs, w[t-16], s0, w[t-7], s1)
		if err != nil {
			return nil, err
		}
		w[t] = sum
	}

	a, b, c, d, e, f, g, hh := h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7]
	for t := 0; t < 64; t++ {
		bigS1, err := bigSigma1(cs, e)
		if err != nil {
			return nil, err
		}
		chResult, err := ch(cs, e, f, g)
		if err != nil {
			return nil, err
		}
		k, err := constWord32(cs, sha256RoundConstants[t])
		if err != nil {
			return nil, err
		}
		temp1, err := addMod32(cs, hh, bigS1, chResult, k, w[t])
		if err != nil {
			return nil, err
		}
		bigS0, err := bigSigma0(cs, a)
		if err != nil {
			return nil, err
		}
		majResult, err := maj(cs, a, b, c)
		if err != nil {
			return nil, err
		}
		temp2, err := addMod32(cs, bigS0, majResult)
		if err != nil {
			return nil, err
		}

		hh = g
		g = f
		f = e
		e, err = addMod32(cs, d, temp1)
		if err != nil {
			return nil, err
		}
		d = c
		c = b
		b = a
		a, err = addMod32(cs, temp1, temp2)
		if err != nil {
			return nil, err
		}
	}

	out := make([]*word32, 8)
	var err error
	out[0], err = addMod32(cs, h[0], a)
	if err != nil {
		return nil, err
	}
	out[1], err = addMod32(cs, h[1], b)
	if err != nil {
		return nil, err
	}
	out[2], err = addMod32(cs, h[2], c)
	if err != nil {
		return nil, err
	}
	out[3], err = addMod32(cs, h[3], d)
	if err != nil {
		return nil, err
	}
	out[4], err = addMod32(cs, h[4], e)
	if err != nil {
		return nil, err
	}
	out[5], err = addMod32(cs, h[5], f)
	if err != nil {
		return nil, err
	}
	out[6], err = addMod32(cs, h[6], g)
	if err != nil {
		return nil, err
	}
	out[7], err = addMod32(cs, h[7], hh)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// bigEndianWord returns a word32 whose .bits are in the message-order (MSB
// first) layout the sha256 public output uses, matching how the input bit
// array is interpreted.
func bigEndianWord(w *word32) *word32 {
	be := make([]*core.Scalar, 32)
	for i := 0; i < 32; i++ {
		be[i] = w.bits[31-i]
	}
	return &word32{bits: be, value: w.value}
}

func rotr(bits []*core.Scalar, n int) []*core.Scalar {
	out := make([]*core.Scalar, 32)
	for i := 0; i < 32; i++ {
		out[i] = bits[(i+n)%32]
	}
	return out
}

func shr(cs *core.ConstraintSystem, bits []*core.Scalar, n int) ([]*core.Scalar, error) {
	zero, err := core.NewConstantBool(cs, false)
	if err != nil {
		return nil, zerr.Synthesis(err)
	}
	out := make([]*core.Scalar, 32)
	for i := 0; i < 32; i++ {
		if i+n < 32 {
			out[i] = bits[i+n]
		} else {
			out[i] = zero
		}
	}
	return out, nil
}

func xorBits(cs *core.ConstraintSystem, a, b []*core.Scalar) (*word32, error) {
	bits := make([]*core.Scalar, 32)
	var v uint32
	for i := 0; i < 32; i++ {
		x, err := gadgets.Xor(cs, a[i], b[i])
		if err != nil {
			return nil, err
		}
		bits[i] = x
		if x.Value().IsOne() {
			v |= 1 << uint(i)
		}
	}
	return &word32{bits: bits, value: v}, nil
}

func sigma0(cs *core.ConstraintSystem, w *word32) (*word32, error) {
	r7 := rotr(w.bits, 7)
	r18 := rotr(w.bits, 18)
	s3, err := shr(cs, w.bits, 3)
	if err != nil {
		return nil, err
	}
	t1, err := xorBits(cs, r7, r18)
	if err != nil {
		return nil, err
	}
	return xorBits(cs, t1.bits, s3)
}

func sigma1(cs *core.ConstraintSystem, w *word32) (*word32, error) {
	r17 := rotr(w.bits, 17)
	r19 := rotr(w.bits, 19)
	s10, err := shr(cs, w.bits, 10)
	if err != nil {
		return nil, err
	}
	t1, err := xorBits(cs, r17, r19)
	if err != nil {
		return nil, err
	}
	return xorBits(cs, t1.bits, s10)
}

func bigSigma0(cs *core.ConstraintSystem, w *word32) (*word32, error) {
	r2 := rotr(w.bits, 2)
	r13 := rotr(w.bits, 13)
	r22 := rotr(w.bits, 22)
	t1, err := xorBits(cs, r2, r13)
	if err != nil {
		return nil, err
	}
	return xorBits(cs, t1.bits, r22)
}

func bigSigma1(cs *core.ConstraintSystem, w *word32) (*word32, error) {
	r6 := rotr(w.bits, 6)
	r11 := rotr(w.bits, 11)
	r25 := rotr(w.bits, 25)
	t1, err := xorBits(cs, r6, r11)
	if err != nil {
		return nil, err
	}
	return xorBits(cs, t1.bits, r25)
}

// ch computes (e AND f) XOR ((NOT e) AND g), bitwise, per FIPS 180-4 §4.1.2.
func ch(cs *core.ConstraintSystem, e, f, g *word32) (*word32, error) {
	bits := make([]*core.Scalar, 32)
	var v uint32
	for i := 0; i < 32; i++ {
		ef, err := gadgets.And(cs, e.bits[i], f.bits[i])
		if err != nil {
			return nil, err
		}
		notE, err := gadgets.Not(cs, e.bits[i])
		if err != nil {
			return nil, err
		}
		notEg, err := gadgets.And(cs, notE, g.bits[i])
		if err != nil {
			return nil, err
		}
		r, err := gadgets.Xor(cs, ef, notEg)
		if err != nil {
			return nil, err
		}
		bits[i] = r
		if r.Value().IsOne() {
			v |= 1 << uint(i)
		}
	}
	return &word32{bits: bits, value: v}, nil
}

// maj computes (a AND b) XOR (a AND c) XOR (b AND c), bitwise.
func maj(cs *core.ConstraintSystem, a, b, c *word32) (*word32, error) {
	bits := make([]*core.Scalar, 32)
	var v uint32
	for i := 0; i < 32; i++ {
		ab, err := gadgets.And(cs, a.bits[i], b.bits[i])
		if err != nil {
			return nil, err
		}
		ac, err := gadgets.And(cs, a.bits[i], c.bits[i])
		if err != nil {
			return nil, err
		}
		bc, err := gadgets.And(cs, b.bits[i], c.bits[i])
		if err != nil {
			return nil, err
		}
		x1, err := gadgets.Xor(cs, ab, ac)
		if err != nil {
			return nil, err
		}
		r, err := gadgets.Xor(cs, x1, bc)
		if err != nil {
			return nil, err
		}
		bits[i] = r
		if r.Value().IsOne() {
			v |= 1 << uint(i)
		}
	}
	return &word32{bits: bits, value: v}, nil
}

// addMod32 adds 2-5 words modulo 2^32, allocating a fresh witness for the
// wrapped sum and constraining it against the unwrapped linear sum via an
// explicit carry witness (sum = carry*2^32 + result).
func addMod32(cs *core.ConstraintSystem, words ...*word32) (*word32, error) {
	var total uint64
	for _, w := range words {
		total += uint64(w.value)
	}
	result := uint32(total % (1 << 32))
	carry := total >> 32

	field := cs.Field()
	terms := core.LinearCombination{}
	for _, w := range words {
		terms = append(terms, core.Term{Variable: wordVariable(cs, w), Coefficient: field.One()})
	}

	resultScalar, err := core.AllocateWitness(cs, field.NewElementFromUint64(uint64(result)), core.UnsignedInteger(32))
	if err != nil {
		return nil, zerr.Synthesis(err)
	}
	carryScalar, err := core.AllocateWitness(cs, field.NewElementFromUint64(carry), core.UnsignedInteger(3))
	if err != nil {
		return nil, zerr.Synthesis(err)
	}

	twoPow32 := field.NewElementFromUint64(1 << 32)
	rhs := core.LinearCombination{
		{Variable: resultScalar.Variable(), Coefficient: field.One()},
		{Variable: carryScalar.Variable(), Coefficient: twoPow32},
	}
	cs.Enforce("sha256-add-mod32", cs.One(), terms, rhs)

	bits, err := gadgets.DecomposeBits(cs, resultScalar.Variable(), resultScalar.Value(), 32)
	if err != nil {
		return nil, err
	}
	return &word32{bits: bits, value: result}, nil
}

// wordVariable materializes a word32's packed-value variable on demand: a
// word32 produced by bitwise gadgets only carries its bit scalars, so this
// allocates (once) the packed integer and constrains it against those bits.
func wordVariable(cs *core.ConstraintSystem, w *word32) core.Variable {
	if w.hasPacked {
		return w.packed
	}
	field := cs.Field()
	scalar, err := core.AllocateWitness(cs, field.NewElementFromUint64(uint64(w.value)), core.UnsignedInteger(32))
	if err != nil {
		panic("sha256: packing a word32's bits into an integer witness cannot fail: " + err.Error())
	}
	terms := core.LinearCombination{}
	coeff := field.One()
	two := field.NewElementFromInt64(2)
	for i := 0; i < 32; i++ {
		terms = append(terms, core.Term{Variable: w.bits[i].Variable(), Coefficient: coeff})
		coeff = coeff.Mul(two)
	}
	cs.Enforce("sha256-pack-word", cs.One(), terms, scalar.LinearCombination())
	w.packed = scalar.Variable()
	w.hasPacked = true
	return w.packed
}
