package bytecode

import "math/big"

// EncodeVLQ encodes a non-negative big.Int as a little-endian base-128
// variable-length quantity: each byte carries 7 bits of the magnitude with
// the high bit set on every byte but the last, matching spec.md §6's
// "big-integer constants use variable-length quantity encoding."
func EncodeVLQ(v *big.Int) []byte {
	if v.Sign() == 0 {
		return []byte{0}
	}
	n := new(big.Int).Set(v)
	var out []byte
	mask := big.NewInt(0x7f)
	for n.Sign() > 0 {
		chunk := new(big.Int).And(n, mask)
		n.Rsh(n, 7)
		b := byte(chunk.Uint64())
		if n.Sign() > 0 {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}

// DecodeVLQ decodes a VLQ-encoded big.Int from the start of bytes,
// returning the value and the number of bytes consumed.
func DecodeVLQ(bytes []byte) (*big.Int, int, error) {
	v := big.NewInt(0)
	shift := uint(0)
	for i, b := range bytes {
		chunk := big.NewInt(int64(b & 0x7f))
		chunk.Lsh(chunk, shift)
		v.Or(v, chunk)
		shift += 7
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
		if i == len(bytes)-1 {
			return nil, 0, ErrUnexpectedEOF
		}
	}
	return nil, 0, ErrUnexpectedEOF
}
