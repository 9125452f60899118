package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/rogue-trader/internal/game/dice"
)

// RegisterModules defines the rt global table in L:
//
//	rt.roll(expr)              total of a dice expression
//	rt.d100()                  a single percentile roll
//	rt.test(target)            {roll, target, success, degrees}
//	rt.hit_location(roll)      {location, label, roll, reversed}
//	rt.characteristic(key)     total, bonus (nil when unknown)
//	rt.skill(key [, modifier]) a test table, or nil and a message
//	rt.log(msg)                writes msg to the structured log
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: rt global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	rt := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"roll":           m.luaRoll,
		"d100":           m.luaD100,
		"test":           m.luaTest,
		"hit_location":   m.luaHitLocation,
		"characteristic": m.luaCharacteristic,
		"skill":          m.luaSkill,
		"log":            m.luaLog,
	})
	L.SetGlobal("rt", rt)
}

func (m *Manager) luaRoll(L *lua.LState) int {
	res, err := m.roller.RollExpr(L.CheckString(1))
	if err != nil {
		L.RaiseError("rt.roll: %v", err)
		return 0
	}
	L.Push(lua.LNumber(res.Total()))
	return 1
}

func (m *Manager) luaD100(L *lua.LState) int {
	L.Push(lua.LNumber(dice.D100(m.roller.Source())))
	return 1
}

func (m *Manager) luaTest(L *lua.LState) int {
	L.Push(testTable(L, m.roller.Test(L.CheckInt(1))))
	return 1
}

func (m *Manager) luaHitLocation(L *lua.LState) int {
	roll := L.CheckInt(1)
	if roll < 1 || roll > dice.D100Sides {
		L.ArgError(1, "roll must be in 1..100")
		return 0
	}
	hit := m.hits.Resolve(roll)
	t := L.NewTable()
	t.RawSetString("location", lua.LString(hit.Location))
	t.RawSetString("label", lua.LString(hit.Label))
	t.RawSetString("roll", lua.LNumber(hit.Roll))
	t.RawSetString("reversed", lua.LNumber(hit.Reversed))
	L.Push(t)
	return 1
}

func (m *Manager) luaCharacteristic(L *lua.LState) int {
	key := L.CheckString(1)
	if m.Characteristic == nil {
		L.Push(lua.LNil)
		return 1
	}
	total, bonus, ok := m.Characteristic(key)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(total))
	L.Push(lua.LNumber(bonus))
	return 2
}

func (m *Manager) luaSkill(L *lua.LState) int {
	key := L.CheckString(1)
	modifier := L.OptInt(2, 0)
	if m.SkillTest == nil {
		L.Push(lua.LNil)
		L.Push(lua.LString("no actor bound"))
		return 2
	}
	res, err := m.SkillTest(key, modifier)
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(testTable(L, res))
	return 1
}

func (m *Manager) luaLog(L *lua.LState) int {
	m.logger.Info("macro log", zap.String("message", L.CheckString(1)))
	return 0
}

func testTable(L *lua.LState, r dice.TestResult) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("roll", lua.LNumber(r.Roll))
	t.RawSetString("target", lua.LNumber(r.Target))
	t.RawSetString("success", lua.LBool(r.IsSuccess))
	t.RawSetString("degrees", lua.LNumber(r.Degrees))
	return t
}
