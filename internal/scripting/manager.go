package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/adventuremech/internal/game/dice"
)

// Manager owns one sandboxed LState per script and dispatches hooks to it.
//
// Manager is safe for concurrent use. Calls to the same script are serialized.
type Manager struct {
	mu        sync.Mutex
	states    map[string]*lua.LState
	instLimit int
	src       dice.Source
	logger    *zap.Logger

	// Broadcast is injected after construction. nil makes engine.broadcast a no-op.
	Broadcast func(line string)
}

// NewManager creates a Manager with no scripts loaded.
//
// Precondition: src and logger must be non-nil; instLimit >= 0 (0 uses the default).
func NewManager(src dice.Source, logger *zap.Logger, instLimit int) *Manager {
	if src == nil || logger == nil {
		panic("scripting.NewManager: src and logger must not be nil")
	}
	return &Manager{
		states:    make(map[string]*lua.LState),
		instLimit: instLimit,
		src:       src,
		logger:    logger,
	}
}

// LoadScript creates a VM for key and executes the file at path in it,
// replacing any VM previously loaded under key.
//
// Precondition: key must be non-empty.
// Postcondition: Returns an error on read, syntax or runtime failure; the
// previous VM for key, if any, is kept in that case.
func (m *Manager) LoadScript(key, path string) error {
	if key == "" {
		return fmt.Errorf("scripting: script key must not be empty")
	}
	L := NewSandboxedState()
	m.RegisterModules(L, key)
	if err := RunLimited(L, m.instLimit, func() error { return L.DoFile(path) }); err != nil {
		L.Close()
		return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
	}

	m.mu.Lock()
	if old, ok := m.states[key]; ok {
		old.Close()
	}
	m.states[key] = L
	m.mu.Unlock()
	m.logger.Debug("script loaded", zap.String("script", key), zap.String("path", path))
	return nil
}

// LoadDir loads every *.lua file in dir in lexicographic order, keyed by the
// file name without its extension.
//
// Precondition: dir must be a readable directory.
func (m *Manager) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	for _, name := range files {
		key := strings.TrimSuffix(name, ".lua")
		if err := m.LoadScript(key, filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// Has reports whether a script is loaded under key.
func (m *Manager) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.states[key]
	return ok
}

// Keys returns the loaded script keys in sorted order.
func (m *Manager) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.states))
	for k := range m.states {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, L := range m.states {
		L.Close()
		delete(m.states, k)
	}
}

// CallHook calls the named global function in key's VM. Returns (LNil, nil)
// if the script or the hook is missing. Lua runtime errors, including an
// exhausted instruction budget, are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(key, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	L, ok := m.states[key]
	if !ok {
		m.logger.Info("scripting: no VM for script",
			zap.String("script", key),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	err := RunLimited(L, m.instLimit, func() error {
		return L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...)
	})
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("script", key),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// CallStringHook converts Go arguments to Lua values, calls hook, and returns
// its result when it is a string.
//
// Precondition: each arg must be a string, bool, int, int64, uint64 or float64.
// Postcondition: Returns (text, true) only when the hook returned a string.
func (m *Manager) CallStringHook(key, hook string, args ...interface{}) (string, bool) {
	largs := make([]lua.LValue, 0, len(args))
	for _, a := range args {
		largs = append(largs, toLValue(a))
	}
	ret, err := m.CallHook(key, hook, largs...)
	if err != nil {
		return "", false
	}
	s, ok := ret.(lua.LString)
	if !ok {
		return "", false
	}
	return string(s), true
}

func toLValue(v interface{}) lua.LValue {
	switch x := v.(type) {
	case string:
		return lua.LString(x)
	case bool:
		return lua.LBool(x)
	case int:
		return lua.LNumber(x)
	case int64:
		return lua.LNumber(x)
	case uint64:
		return lua.LNumber(x)
	case float64:
		return lua.LNumber(x)
	case nil:
		return lua.LNil
	default:
		return lua.LString(fmt.Sprint(x))
	}
}
