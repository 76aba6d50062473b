package gameserver

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/adventuremech/internal/game/command"
	"github.com/cory-johannsen/adventuremech/internal/game/entity"
	"github.com/cory-johannsen/adventuremech/internal/game/mech"
	"github.com/cory-johannsen/adventuremech/internal/game/player"
	"github.com/cory-johannsen/adventuremech/internal/game/world"
)

// UnknownReply is sent for unrecognized commands when Options.ReplyUnknown is set.
const UnknownReply = "I don't understand that."

// HandleMessage processes one chat line from the participant called name.
// Participants who have not joined may only join; everything else they say
// is ignored, as is unrecognized text from players.
func (w *World) HandleMessage(name, text string) {
	if name == "" {
		return
	}
	inv, ok := w.registry.Parse(text)
	p, joined := w.players.Get(name)
	if !joined {
		if ok && inv.Handler == command.HandlerJoin {
			w.join(name)
		}
		return
	}
	if !ok {
		w.logger.Debug("unrecognized command",
			zap.String("player", name),
			zap.String("text", text),
		)
		if w.opts.ReplyUnknown {
			w.Send(UnknownReply)
		}
		return
	}

	switch inv.Handler {
	case command.HandlerMove:
		w.move(inv.Direction)
	case command.HandlerLook:
		w.look(p, inv.Target)
	case command.HandlerAttack:
		w.attack(p, inv.Target)
	case command.HandlerRepair:
		w.repair(p)
	case command.HandlerStatus:
		w.status()
	case command.HandlerHelp:
		w.Send(w.registry.HelpLine())
	case command.HandlerJoin:
		// already piloting
	}
}

func (w *World) join(name string) {
	p := player.New(name, w.durations)
	w.players.Add(p)
	part := w.mech.LeastPopulousPart()
	w.mech.AddPilot(part, p)
	w.logger.Info("player joined", zap.String("player", name), zap.Stringer("part", part))
	w.Send(fmt.Sprintf("%s is now piloting %s's %s.", p.FormalIdentifier(), w.mech.Name(), part))
	w.Send(fmt.Sprintf("Welcome to the game, %s!", p.FormalIdentifier()))
}

// move walks the party through an exit. Every player's actions are cancelled
// before the move is announced.
func (w *World) move(d world.Direction) {
	from := w.graph.Position()
	if !w.graph.Move(d) {
		w.Send("There is no exit in that direction.")
		return
	}
	for _, p := range w.players.All() {
		p.CancelActions()
	}
	for _, e := range w.entities.InRoom(from) {
		e.OnPlayerLeftRoom(w)
	}
	w.logger.Debug("party moved",
		zap.Int("from", from),
		zap.Int("to", w.graph.Position()),
		zap.Stringer("direction", d),
	)
	w.Send("You go " + d.String() + ".")
	w.lookRoom()
	for _, e := range w.entities.InRoom(w.graph.Position()) {
		e.OnPlayerEnteredRoom(w)
	}
}

func (w *World) look(p *player.Player, target string) {
	if target == "" {
		w.lookRoom()
		return
	}
	e, ok := w.entities.FindInRoom(w.graph.Position(), target)
	if !ok {
		w.Send(fmt.Sprintf("There is no %s in here, %s.", target, p.FormalIdentifier()))
		return
	}
	w.Send(e.DetailedLook())
}

func (w *World) lookRoom() {
	pos := w.graph.Position()
	if desc, ok := w.descriptions[pos]; ok {
		w.Send("You see " + desc)
	} else {
		w.Send(fmt.Sprintf("You are now in room %d", pos))
	}
	w.Send(world.ExitText(w.graph.Exits(pos)))
	if names := entityNames(w.entities.InRoom(pos)); len(names) > 0 {
		w.Send("There is a " + world.JoinWithAnd(names) + " in the room.")
	}
}

func entityNames(es []entity.Entity) []string {
	names := make([]string, 0, len(es))
	for _, e := range es {
		names = append(names, e.Name())
	}
	return names
}

func (w *World) attack(p *player.Player, target string) {
	if target == "" {
		w.Send("What should I attack?")
		return
	}
	e, ok := w.entities.FindInRoom(w.graph.Position(), target)
	if !ok {
		w.Send(fmt.Sprintf("There is no %s in here, %s.", target, p.FormalIdentifier()))
		return
	}
	a := p.AttackAction()
	a.SetTarget(e)
	a.Activate()
}

func (w *World) repair(p *player.Player) {
	if w.mech.IsFullHealth() {
		w.Send(w.mech.Name() + " is already at full health.")
		return
	}
	if w.repairAmount(p) < 1 {
		w.Send(w.mech.Name() + " cannot be repaired.")
		return
	}
	r := p.RepairAction()
	if r.Active() {
		w.Send(fmt.Sprintf("%s is already repairing %s.", p.FormalIdentifier(), w.mech.Name()))
		return
	}
	r.Start(w.ticks)
	w.Send(fmt.Sprintf("%s starts repairing %s.", p.FormalIdentifier(), w.mech.Name()))
}

func (w *World) status() {
	parts := make([]string, 0, len(mech.AllParts))
	for _, part := range mech.AllParts {
		pilots := w.mech.Pilots(part)
		names := make([]string, 0, len(pilots))
		for _, pl := range pilots {
			names = append(names, pl.FormalIdentifier())
		}
		who := "nobody"
		if len(names) > 0 {
			who = strings.Join(names, ", ")
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", part, who))
	}
	w.Send(fmt.Sprintf("%s has %d/%d health. Pilots: %s.",
		w.mech.Name(), w.mech.Health(), w.mech.MaxHealth(), strings.Join(parts, ", ")))
}
