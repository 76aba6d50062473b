package action

import "github.com/cory-johannsen/adventuremech/internal/game/entity"

// Attack repeatedly strikes a target entity until it dies, disappears, or the
// action is cancelled.
type Attack struct {
	Timed
	owner  Owner
	target entity.Entity
}

// NewAttack creates an idle, repeating attack.
//
// Precondition: owner must be non-nil; duration > 0.
func NewAttack(owner Owner, duration uint64) *Attack {
	if owner == nil {
		panic("action.NewAttack: owner must not be nil")
	}
	return &Attack{Timed: NewTimed(KindAttack, duration, true), owner: owner}
}

// Target returns the current target, or nil.
func (a *Attack) Target() entity.Entity { return a.target }

// SetTarget replaces the target.
func (a *Attack) SetTarget(e entity.Entity) { a.target = e }

// Cancel stops the attack and forgets the target.
func (a *Attack) Cancel() {
	a.Timed.Cancel()
	a.target = nil
}

// Update fires the attack when due.
//
// Postcondition: with no target the action goes Idle silently; when the
// resolver reports the attack finished the action goes Idle.
func (a *Attack) Update(tick uint64, r Resolver) {
	if !a.ready(tick) {
		return
	}
	if a.target == nil {
		a.Cancel()
		return
	}
	a.fire(tick)
	if r.AttackTarget(a.owner, a.target) {
		a.Cancel()
	}
}

// Repair restores mech health once after its duration.
type Repair struct {
	Timed
	owner Owner
}

// NewRepair creates an idle, one-shot repair.
//
// Precondition: owner must be non-nil; duration > 0.
func NewRepair(owner Owner, duration uint64) *Repair {
	if owner == nil {
		panic("action.NewRepair: owner must not be nil")
	}
	return &Repair{Timed: NewTimed(KindRepair, duration, false), owner: owner}
}

// Update completes the repair when due.
func (r *Repair) Update(tick uint64, res Resolver) {
	if !r.ready(tick) {
		return
	}
	r.fire(tick)
	res.RepairMech(r.owner)
}
