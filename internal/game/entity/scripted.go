package entity

// Hooks dispatches named Lua hooks for scripted entities.
// A non-empty string result is broadcast to the room.
type Hooks interface {
	// CallStringHook calls hook in the script's VM.
	//
	// Postcondition: Returns (text, true) only when the hook exists and
	// returned a string.
	CallStringHook(script, hook string, args ...interface{}) (string, bool)
}

// Hook names a scripted enemy calls.
const (
	HookOnAttacked = "on_attacked"
	HookOnDeath    = "on_death"
	HookOnEnter    = "on_enter"
	HookOnAttack   = "on_attack"
)

// ScriptedEnemy is a SimpleEnemy whose reactions are extended by a Lua script.
// The script may define any subset of on_attacked(name, power, health),
// on_death(name), on_enter(name) and on_attack(name, power).
type ScriptedEnemy struct {
	*SimpleEnemy
	script string
	hooks  Hooks
}

// NewScriptedEnemy wraps enemy with the hooks of script.
//
// Precondition: enemy and hooks must be non-nil; script must be non-empty.
func NewScriptedEnemy(enemy *SimpleEnemy, script string, hooks Hooks) *ScriptedEnemy {
	if enemy == nil || hooks == nil {
		panic("entity.NewScriptedEnemy: enemy and hooks must not be nil")
	}
	return &ScriptedEnemy{SimpleEnemy: enemy, script: script, hooks: hooks}
}

// Script returns the key of the script driving this enemy.
func (s *ScriptedEnemy) Script() string { return s.script }

func (s *ScriptedEnemy) call(ctx Context, hook string, args ...interface{}) {
	if text, ok := s.hooks.CallStringHook(s.script, hook, args...); ok && text != "" {
		ctx.Send(text)
	}
}

// OnAttacked applies damage like a SimpleEnemy, then runs on_attacked or on_death.
func (s *ScriptedEnemy) OnAttacked(ctx Context, power int) Outcome {
	out := s.SimpleEnemy.OnAttacked(ctx, power)
	if out.Dead {
		s.call(ctx, HookOnDeath, s.name)
	} else {
		s.call(ctx, HookOnAttacked, s.name, power, s.Health())
	}
	return out
}

// Update runs the SimpleEnemy cooldown and calls on_attack after each strike.
func (s *ScriptedEnemy) Update(ctx Context, _ uint64) {
	if s.attack(ctx) {
		s.call(ctx, HookOnAttack, s.name, s.attackPower)
	}
}

// OnPlayerEnteredRoom announces the enemy, then calls on_enter.
func (s *ScriptedEnemy) OnPlayerEnteredRoom(ctx Context) {
	s.SimpleEnemy.OnPlayerEnteredRoom(ctx)
	s.call(ctx, HookOnEnter, s.name)
}
