package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rogue-trader/internal/game/combat"
	"github.com/cory-johannsen/rogue-trader/internal/game/dice"
)

var (
	// ErrNotLoaded is returned when a macro is called before Load.
	ErrNotLoaded = errors.New("scripting: no macros loaded")
	// ErrUnknownMacro is returned when no loaded script defines the macro.
	ErrUnknownMacro = errors.New("scripting: unknown macro")
)

// Manager owns one sandboxed LState holding every loaded macro.
//
// Manager is safe for concurrent use; calls into the VM are serialized.
type Manager struct {
	mu     sync.Mutex
	state  *lua.LState
	macros []string
	limit  int
	roller *dice.Roller
	hits   *combat.Table
	logger *zap.Logger

	// Injected after construction. nil makes the matching rt.* function
	// return nil.
	Characteristic func(key string) (total, bonus int, ok bool)
	SkillTest      func(key string, modifier int) (dice.TestResult, error)
}

// NewManager creates a Manager. A nil hits table uses combat.DefaultTable.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no macros loaded.
func NewManager(roller *dice.Roller, hits *combat.Table, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: precondition violated: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: precondition violated: logger must not be nil")
	}
	if hits == nil {
		hits = combat.DefaultTable
	}
	return &Manager{roller: roller, hits: hits, logger: logger}
}

// Load creates a fresh sandboxed VM, registers the rt module, then executes
// every *.lua file in scriptDir in lexicographic order. Global functions the
// scripts define become macros. A previously loaded VM is replaced only when
// loading succeeds.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Macros are registered; returns error on Lua load failure.
func (m *Manager) Load(scriptDir string, instLimit int) error {
	L := NewSandboxedState(instLimit)
	m.RegisterModules(L)
	baseline := globalFunctions(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		cancel := limitInstructions(L, instLimit)
		err := L.DoFile(path)
		cancel()
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	var macros []string
	for name := range globalFunctions(L) {
		if !baseline[name] {
			macros = append(macros, name)
		}
	}
	sort.Strings(macros)

	m.mu.Lock()
	if m.state != nil {
		m.state.Close()
	}
	m.state = L
	m.macros = macros
	m.limit = instLimit
	m.mu.Unlock()

	m.logger.Debug("macros loaded",
		zap.String("dir", scriptDir),
		zap.Int("files", len(luaFiles)),
		zap.Strings("macros", macros),
	)
	return nil
}

// Macros lists the loaded macro names in sorted order.
func (m *Manager) Macros() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.macros))
	copy(out, m.macros)
	return out
}

// CallMacro calls the named macro with args. Arguments that parse as integers
// are passed as Lua numbers, all others as strings. Every call gets a fresh
// instruction budget.
//
// Postcondition: Returns the macro's first return value (LNil when it returns
// nothing), ErrNotLoaded, ErrUnknownMacro, or a wrapped Lua runtime error.
func (m *Manager) CallMacro(name string, args ...string) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return lua.LNil, ErrNotLoaded
	}
	L := m.state
	fn, ok := L.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return lua.LNil, fmt.Errorf("%w: %q", ErrUnknownMacro, name)
	}

	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		if n, err := strconv.Atoi(a); err == nil {
			largs[i] = lua.LNumber(n)
		} else {
			largs[i] = lua.LString(a)
		}
	}

	cancel := limitInstructions(L, m.limit)
	defer cancel()
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, largs...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("macro", name),
			zap.Error(err),
		)
		return lua.LNil, fmt.Errorf("scripting: macro %q: %w", name, err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Close releases the VM.
//
// Postcondition: CallMacro returns ErrNotLoaded until the next Load.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		m.state.Close()
		m.state = nil
	}
	m.macros = nil
}

func globalFunctions(L *lua.LState) map[string]bool {
	out := make(map[string]bool)
	L.G.Global.ForEach(func(k, v lua.LValue) {
		if _, ok := v.(*lua.LFunction); ok {
			if name, ok := k.(lua.LString); ok {
				out[string(name)] = true
			}
		}
	})
	return out
}
