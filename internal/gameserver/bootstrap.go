package gameserver

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/adventuremech/internal/config"
	"github.com/cory-johannsen/adventuremech/internal/game/dice"
	"github.com/cory-johannsen/adventuremech/internal/game/entity"
	"github.com/cory-johannsen/adventuremech/internal/game/world"
	"github.com/cory-johannsen/adventuremech/internal/scripting"
)

// Assembly is everything built from the content file at startup.
type Assembly struct {
	World *World
	// Scripts is nil when no script directory is configured.
	Scripts *scripting.Manager
}

// Close releases the script VMs.
func (a *Assembly) Close() {
	if a.Scripts != nil {
		a.Scripts.Close()
	}
}

// Assemble loads the content file and scripts named by cfg and builds a World
// that sends its lines to out.
//
// Precondition: cfg must be valid; out, src and logger must be non-nil.
// Postcondition: Returns a ready World, or an error describing the first
// content, script or roster problem.
func Assemble(cfg config.GameConfig, out Sender, src dice.Source, logger *zap.Logger) (*Assembly, error) {
	content, err := world.LoadContentFromFile(cfg.ContentFile)
	if err != nil {
		return nil, fmt.Errorf("loading world: %w", err)
	}
	for _, c := range content.Overwritten {
		logger.Warn("connection overwrites an earlier one", zap.String("connection", c))
	}

	templates, err := entity.LoadTemplatesFromFile(cfg.ContentFile)
	if err != nil {
		return nil, fmt.Errorf("loading enemies: %w", err)
	}

	asm := &Assembly{}
	if cfg.ScriptDir != "" {
		asm.Scripts = scripting.NewManager(src, logger.Named("scripting"), 0)
		asm.Scripts.Broadcast = out.Send
		if err := asm.Scripts.LoadDir(cfg.ScriptDir); err != nil {
			asm.Close()
			return nil, err
		}
	}

	opts := entity.SpawnOptions{
		TicksPerSecond: cfg.TicksPerSecond,
		ImageBaseURL:   cfg.ImageBaseURL,
		Source:         src,
	}
	if asm.Scripts != nil {
		opts.Hooks = asm.Scripts
	}

	entities := make([]entity.Entity, 0, len(templates))
	for _, t := range templates {
		if t.Script != "" && (asm.Scripts == nil || !asm.Scripts.Has(t.Script)) {
			asm.Close()
			return nil, fmt.Errorf("enemy %q: script %q is not loaded", t.Name, t.Script)
		}
		e, err := entity.Spawn(t, opts)
		if err != nil {
			asm.Close()
			return nil, err
		}
		entities = append(entities, e)
	}

	asm.World = NewWorld(content, entities, out, logger, Options{
		RobotName:      cfg.RobotName,
		TicksPerSecond: cfg.TicksPerSecond,
		RepairPerLevel: cfg.RepairPerLevel,
		RepairSeconds:  cfg.RepairSeconds,
		ReplyUnknown:   cfg.ReplyUnknown,
	})
	logger.Info("world assembled",
		zap.Int("rooms", content.Graph.RoomCount()),
		zap.Int("entities", len(entities)),
		zap.Int("start_room", content.StartRoom),
		zap.String("robot", asm.World.Mech().Name()),
	)
	return asm, nil
}
