package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules installs the engine global into L:
//
//	engine.log.debug/info/warn(msg)  write to the server log
//	engine.random(n)                 uniform integer in [1, n]
//	engine.broadcast(msg)            send a line to the chat room
//
// Precondition: L must be from NewSandboxedState.
func (m *Manager) RegisterModules(L *lua.LState, key string) {
	engine := L.NewTable()

	logTable := L.NewTable()
	logger := m.logger.With(zap.String("script", key))
	for name, fn := range map[string]func(string, ...zap.Field){
		"debug": logger.Debug,
		"info":  logger.Info,
		"warn":  logger.Warn,
	} {
		write := fn
		L.SetField(logTable, name, L.NewFunction(func(L *lua.LState) int {
			write(L.CheckString(1))
			return 0
		}))
	}
	L.SetField(engine, "log", logTable)

	L.SetField(engine, "random", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckInt(1)
		if n < 1 {
			L.ArgError(1, "n must be >= 1")
			return 0
		}
		L.Push(lua.LNumber(m.src.Intn(n) + 1))
		return 1
	}))

	L.SetField(engine, "broadcast", L.NewFunction(func(L *lua.LState) int {
		msg := L.CheckString(1)
		if m.Broadcast != nil {
			m.Broadcast(msg)
		}
		return 0
	}))

	L.SetGlobal("engine", engine)
}
