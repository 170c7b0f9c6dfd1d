package vm

import (
	"github.com/zinc-project/zinc-vm/internal/zincvm/bytecode"
	"github.com/zinc-project/zinc-vm/internal/zincvm/core"
	"github.com/zinc-project/zinc-vm/internal/zincvm/gadgets/stdlib"
	"github.com/zinc-project/zinc-vm/internal/zincvm/zerr"
)

// callMTreeMap dispatches one of the four mtreemap_* stdlib calls (spec.md
// §4.7's MapLeaf variant). Argument layout on the stack, bottom to top:
// map id, key length, key cells..., and for mtreemap_insert the value
// cells following the key. The map identifier addresses a core.MapLeaf held
// in VMState.Maps, created lazily by mapLeaf on first reference with a
// fixed maximum size of 1024 entries.
func (ds *dispatchState) callMTreeMap(fn bytecode.StdlibFunction, args []*core.Scalar) error {
	if len(args) < 2 {
		return zerr.MalformedBytecode("mtreemap call requires at least a map id and key length")
	}
	mapID := uint(args[0].Value().Big().Int64())
	keyLen := int(args[1].Value().Big().Int64())
	rest := args[2:]
	if len(rest) < keyLen {
		return zerr.MalformedBytecode("mtreemap call declares key length %d but only %d cells remain", keyLen, len(rest))
	}
	key := rest[:keyLen]
	value := rest[keyLen:]

	leaf := ds.mapLeaf(mapID)

	switch fn {
	case bytecode.StdlibMTreeMapContains:
		result, err := core.NewConstantBool(ds.CS, stdlib.MTreeMapContains(leaf, key))
		if err != nil {
			return zerr.Synthesis(err)
		}
		ds.Push(result)

	case bytecode.StdlibMTreeMapGet:
		found, ok := stdlib.MTreeMapGet(leaf, key)
		resultFlag, err := core.NewConstantBool(ds.CS, ok)
		if err != nil {
			return zerr.Synthesis(err)
		}
		ds.Push(resultFlag)
		for _, v := range found {
			ds.Push(v)
		}

	case bytecode.StdlibMTreeMapInsert:
		if err := stdlib.MTreeMapInsert(leaf, key, value); err != nil {
			return err
		}

	case bytecode.StdlibMTreeMapRemove:
		stdlib.MTreeMapRemove(leaf, key)

	default:
		return zerr.MalformedBytecode("unknown mtreemap function %d", fn)
	}
	return nil
}

// mapLeaf returns the MapLeaf for id, creating an empty one (bounded at a
// default schema size) on first reference.
func (ds *dispatchState) mapLeaf(id uint) *core.MapLeaf {
	const defaultMaxSize = 1024
	leaf, ok := ds.Maps[id]
	if !ok {
		leaf = core.NewMapLeaf(defaultMaxSize)
		ds.Maps[id] = leaf
	}
	return leaf
}
