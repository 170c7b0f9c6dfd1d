package vm

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zinc-project/zinc-vm/internal/zincvm/bytecode"
)

// dbgOutput is where Dbg messages are written; a package variable (rather
// than a VMState field) so tests can redirect it without threading an
// io.Writer through every constructor, matching Dbg's nature as a pure
// side-effect with no bearing on the constraint system.
var dbgOutput io.Writer = os.Stderr

// execDbg implements spec.md §4.8's Dbg: pops the flattened cells of each
// declared argument (last-declared argument on top of stack, per
// original_source/zinc-vm/src/instructions/dbg.rs's `.rev()` iteration),
// and — only when the active condition is truthy — substitutes each
// argument's rendered value into the next "{}" placeholder of Format and
// writes the result. Dbg never emits constraints and never fails the run:
// a malformed format string just leaves later placeholders unfilled.
func (ds *dispatchState) execDbg(d *bytecode.Dbg) error {
	values := make([]string, len(d.ArgSizes))
	for i := len(d.ArgSizes) - 1; i >= 0; i-- {
		cells, err := ds.PopN(int(d.ArgSizes[i]))
		if err != nil {
			return err
		}
		parts := make([]string, len(cells))
		for j, c := range cells {
			parts[j] = c.Value().String()
		}
		values[i] = strings.Join(parts, ", ")
	}

	active := ds.ActiveCondition()
	if active != nil && !active.Value().IsOne() {
		return nil
	}

	message := d.Format
	for _, v := range values {
		message = strings.Replace(message, "{}", v, 1)
	}
	fmt.Fprintln(dbgOutput, message)
	return nil
}
