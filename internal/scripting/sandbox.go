// Package scripting runs game-master macros in a sandboxed GopherLua VM.
// It depends only on the dice and combat rules; actor-specific lookups are
// injected through Manager callback fields.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the opcode budget of one macro call when none
// is configured.
const DefaultInstructionLimit = 100_000

// safeLibs are the only standard libraries a macro can reach.
var safeLibs = []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath}

// strippedGlobals are base-library functions that could read files or
// escape the budget.
var strippedGlobals = []string{"dofile", "loadfile", "load", "collectgarbage", "require"}

// opBudget is a context that cancels itself once Done has been polled more
// than its budget allows. GopherLua polls Done once per opcode when a
// context is set, so the budget counts opcodes exactly.
type opBudget struct {
	context.Context
	cancel context.CancelFunc
	left   atomic.Int64
}

func (b *opBudget) Done() <-chan struct{} {
	if b.left.Add(-1) < 0 {
		b.cancel()
	}
	return b.Context.Done()
}

// limitInstructions installs a fresh budget of limit opcodes on L; limit <= 0
// means DefaultInstructionLimit. The returned cancel releases the budget.
func limitInstructions(L *lua.LState, limit int) context.CancelFunc {
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}
	ctx, cancel := context.WithCancel(context.Background())
	b := &opBudget{Context: ctx, cancel: cancel}
	b.left.Store(int64(limit))
	L.SetContext(b)
	return cancel
}

// NewSandboxedState creates an LState that can only reach the base, table,
// string and math libraries, with the file-loading globals removed and an
// initial budget of instLimit opcodes.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: The caller owns the LState and must call L.Close().
func NewSandboxedState(instLimit int) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range safeLibs {
		open(L)
	}
	for _, name := range strippedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	limitInstructions(L, instLimit)
	return L
}
