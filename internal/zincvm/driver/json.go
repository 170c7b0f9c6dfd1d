// Package driver binds a decoded bytecode.Program to JSON-encoded input and
// witness documents (spec.md §6) and runs it to completion, the way the
// teacher's cmd/vybium-vm-prover/main.go decodes its own JSON-lines claim
// and program before constructing a vm.VMState.
package driver

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/zinc-project/zinc-vm/internal/zincvm/bytecode"
	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
)

// DecodeValue destructures a JSON document into a flat, left-to-right
// ordered list of Scalars matching typ's shape (spec.md §6: "arrays and
// tuples/structs are recursively destructured"). Scalar leaves are decoded
// by their declared type: numeric literals for integers/field elements,
// JSON booleans for Boolean.
func DecodeValue(cs *core.ConstraintSystem, raw json.RawMessage, typ *bytecode.TypeDescriptor) ([]*core.Scalar, error) {
	switch {
	case typ.Scalar != nil:
		s, err := decodeScalarLeaf(cs, raw, *typ.Scalar)
		if err != nil {
			return nil, err
		}
		return []*core.Scalar{s}, nil

	case typ.Array != nil:
		var elements []json.RawMessage
		if err := json.Unmarshal(raw, &elements); err != nil {
			return nil, fmt.Errorf("driver: decoding array value: %w", err)
		}
		if len(elements) != typ.Array.Length {
			return nil, fmt.Errorf("driver: array has %d elements, type declares %d", len(elements), typ.Array.Length)
		}
		var out []*core.Scalar
		for _, elem := range elements {
			flat, err := DecodeValue(cs, elem, typ.Array.Element)
			if err != nil {
				return nil, err
			}
			out = append(out, flat...)
		}
		return out, nil

	case typ.Struct != nil:
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("driver: decoding struct value: %w", err)
		}
		var out []*core.Scalar
		for _, f := range typ.Struct.Fields {
			raw, ok := fields[f.Name]
			if !ok {
				return nil, fmt.Errorf("driver: missing struct field %q", f.Name)
			}
			flat, err := DecodeValue(cs, raw, f.Type)
			if err != nil {
				return nil, err
			}
			out = append(out, flat...)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("driver: empty type descriptor")
	}
}

func decodeScalarLeaf(cs *core.ConstraintSystem, raw json.RawMessage, typ core.ScalarType) (*core.Scalar, error) {
	field := cs.Field()
	switch typ.Tag {
	case core.TagBoolean:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("driver: decoding boolean value: %w", err)
		}
		return core.NewConstantBool(cs, b)

	case core.TagField:
		v, err := decodeBigInt(raw)
		if err != nil {
			return nil, err
		}
		return core.NewConstant(cs, field.NewElement(v), typ)

	case core.TagIntegerUnsigned:
		v, err := decodeBigInt(raw)
		if err != nil {
			return nil, err
		}
		return core.NewConstant(cs, field.NewElement(v), typ)

	case core.TagIntegerSigned:
		v, err := decodeBigInt(raw)
		if err != nil {
			return nil, err
		}
		stored := core.SignedValueToStored(field, typ.BitLength, v)
		return core.NewConstant(cs, stored, typ)

	default:
		return nil, fmt.Errorf("driver: unknown scalar type tag %d", typ.Tag)
	}
}

func decodeBigInt(raw json.RawMessage) (*big.Int, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("driver: decoding numeric value: %w", err)
	}
	v, ok := new(big.Int).SetString(n.String(), 10)
	if !ok {
		return nil, fmt.Errorf("driver: %q is not a valid integer literal", n.String())
	}
	return v, nil
}

// EncodeValue serializes a flat Scalar slice back into a JSON value
// matching typ's shape, the inverse of DecodeValue, used to render
// Exit's output cells per spec.md §6.
func EncodeValue(scalars []*core.Scalar, typ *bytecode.TypeDescriptor) (interface{}, int, error) {
	switch {
	case typ.Scalar != nil:
		if len(scalars) == 0 {
			return nil, 0, fmt.Errorf("driver: not enough scalars to encode %s", typ.Scalar)
		}
		return encodeScalarLeaf(scalars[0], *typ.Scalar), 1, nil

	case typ.Array != nil:
		out := make([]interface{}, typ.Array.Length)
		consumed := 0
		for i := 0; i < typ.Array.Length; i++ {
			v, n, err := EncodeValue(scalars[consumed:], typ.Array.Element)
			if err != nil {
				return nil, 0, err
			}
			out[i] = v
			consumed += n
		}
		return out, consumed, nil

	case typ.Struct != nil:
		out := make(map[string]interface{}, len(typ.Struct.Fields))
		consumed := 0
		for _, f := range typ.Struct.Fields {
			v, n, err := EncodeValue(scalars[consumed:], f.Type)
			if err != nil {
				return nil, 0, err
			}
			out[f.Name] = v
			consumed += n
		}
		return out, consumed, nil

	default:
		return nil, 0, fmt.Errorf("driver: empty type descriptor")
	}
}

func encodeScalarLeaf(s *core.Scalar, typ core.ScalarType) interface{} {
	switch typ.Tag {
	case core.TagBoolean:
		return s.Value().IsOne()
	case core.TagIntegerSigned:
		return core.StoredToSignedValue(typ.BitLength, s.Value().Big()).String()
	default:
		return s.Value().Big().String()
	}
}
