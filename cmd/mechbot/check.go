package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/adventuremech/internal/chat"
	"github.com/cory-johannsen/adventuremech/internal/config"
	"github.com/cory-johannsen/adventuremech/internal/game/dice"
	"github.com/cory-johannsen/adventuremech/internal/gameserver"
)

func newCheckCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration, content file and scripts",
		Long: `check loads the configuration and builds the world exactly as serve
would, without opening any listener, and prints a summary.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return check(cmd, *configPath)
		},
	}
}

func check(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := zap.NewNop()
	asm, err := gameserver.Assemble(cfg.Game, chat.NewHub(0, logger), dice.NewCryptoSource(), logger)
	if err != nil {
		return err
	}
	defer asm.Close()

	out := cmd.OutOrStdout()
	w := asm.World
	fmt.Fprintf(out, "config ok: %s\n", configPath)
	fmt.Fprintf(out, "robot: %s (%d health), start room %d\n", w.Mech().Name(), w.Mech().MaxHealth(), w.Position())
	for _, e := range w.Entities().All() {
		fmt.Fprintf(out, "  %s in room %d (%d health)\n", e.Name(), e.RoomID(), e.Health())
	}
	if asm.Scripts != nil {
		fmt.Fprintf(out, "scripts: %v\n", asm.Scripts.Keys())
	}
	return nil
}
