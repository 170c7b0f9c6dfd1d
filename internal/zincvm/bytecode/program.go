package bytecode

// Function describes one entry in the bytecode's function table: its
// starting instruction offset and declared argument/return type shapes
// (spec.md §6: "a header describing input and witness types and the
// entry-point function table").
type Function struct {
	Name       string
	Address    int
	ArgTypes   []*TypeDescriptor
	ReturnType *TypeDescriptor
}

// Program is a fully decoded bytecode unit: its flat instruction stream,
// function table, and the declared shapes of its public input and private
// witness (spec.md §6). DecodeProgram does not fill Functions; it is only
// populated by code that builds a Program directly.
type Program struct {
	Instructions []Instruction
	Functions    []Function
	EntryPoint   int

	InputType   *TypeDescriptor
	WitnessType *TypeDescriptor
}

// DecodeProgram decodes a full program from its wire bytes: the header
// (a VLQ entry point index, then the input and the witness type
// descriptors) followed by the flat instruction stream, which runs to the
// end of data. The wire header format is this VM's own addition, not
// specified byte-for-byte by the distilled spec; its sections carry no
// length prefixes. No function table is read, so the returned Program's
// Functions is empty.
func DecodeProgram(data []byte) (*Program, error) {
	offset := 0

	entryPoint, n, err := DecodeVLQ(data[offset:])
	if err != nil {
		return nil, err
	}
	offset += n

	inputType, n, err := decodeTypeDescriptor(data[offset:])
	if err != nil {
		return nil, err
	}
	offset += n

	witnessType, n, err := decodeTypeDescriptor(data[offset:])
	if err != nil {
		return nil, err
	}
	offset += n

	instructions, err := DecodeAllInstructions(data[offset:])
	if err != nil {
		return nil, err
	}

	return &Program{
		Instructions: instructions,
		EntryPoint:   int(entryPoint.Uint64()),
		InputType:    inputType,
		WitnessType:  witnessType,
	}, nil
}

// decodeTypeDescriptor decodes a recursive TypeDescriptor: a one-byte shape
// tag (0 = scalar, 1 = array, 2 = struct) followed by shape-specific
// payload.
func decodeTypeDescriptor(data []byte) (*TypeDescriptor, int, error) {
	if len(data) < 1 {
		return nil, 0, ErrUnexpectedEOF
	}
	switch data[0] {
	case 0:
		t, n, err := DecodeScalarType(data[1:])
		if err != nil {
			return nil, 0, err
		}
		return ScalarTypeDescriptor(t), 1 + n, nil
	case 1:
		length, n1, err := DecodeVLQ(data[1:])
		if err != nil {
			return nil, 0, err
		}
		elem, n2, err := decodeTypeDescriptor(data[1+n1:])
		if err != nil {
			return nil, 0, err
		}
		return &TypeDescriptor{Array: &ArrayType{Element: elem, Length: int(length.Uint64())}}, 1 + n1 + n2, nil
	case 2:
		count, n1, err := DecodeVLQ(data[1:])
		if err != nil {
			return nil, 0, err
		}
		offset := 1 + n1
		fields := make([]StructField, count.Uint64())
		for i := range fields {
			nameLen, n2, err := DecodeVLQ(data[offset:])
			if err != nil {
				return nil, 0, err
			}
			offset += n2
			nameEnd := offset + int(nameLen.Uint64())
			if nameEnd > len(data) {
				return nil, 0, ErrUnexpectedEOF
			}
			name := string(data[offset:nameEnd])
			offset = nameEnd

			fieldType, n3, err := decodeTypeDescriptor(data[offset:])
			if err != nil {
				return nil, 0, err
			}
			offset += n3
			fields[i] = StructField{Name: name, Type: fieldType}
		}
		return &TypeDescriptor{Struct: &StructType{Fields: fields}}, offset, nil
	default:
		return nil, 0, ErrUnexpectedEOF
	}
}
