package gameserver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/adventuremech/internal/config"
	"github.com/cory-johannsen/adventuremech/internal/game/dice"
	"github.com/cory-johannsen/adventuremech/internal/game/entity"
	"github.com/cory-johannsen/adventuremech/internal/gameserver"
)

// repoRoot walks up from the test directory to the directory holding go.mod.
func repoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		require.NotEqual(t, dir, parent, "go.mod not found")
		dir = parent
	}
}

func gameConfig(root string) config.GameConfig {
	return config.GameConfig{
		TicksPerSecond: 10,
		ContentFile:    filepath.Join(root, "content", "world.yaml"),
		ScriptDir:      filepath.Join(root, "content", "scripts"),
		RepairPerLevel: 10,
		RepairSeconds:  5,
		ImageBaseURL:   "http://img.example/",
	}
}

func TestAssemble_ShippedContent(t *testing.T) {
	rec := &recorder{}
	asm, err := gameserver.Assemble(gameConfig(repoRoot(t)), rec, dice.NewFixedSource(0), zap.NewNop())
	require.NoError(t, err)
	defer asm.Close()

	w := asm.World
	require.NotNil(t, asm.Scripts)
	assert.True(t, asm.Scripts.Has("atat"))
	assert.Equal(t, "Smashing Robot", w.Mech().Name())
	assert.Equal(t, 0, w.Position())

	names := map[string]entity.Entity{}
	for _, e := range w.Entities().All() {
		names[e.Name()] = e
	}
	require.Contains(t, names, "rat")
	require.Contains(t, names, "AT-AT")
	_, scripted := names["AT-AT"].(*entity.ScriptedEnemy)
	assert.True(t, scripted)
	assert.Equal(t, 1, names["rat"].RoomID())
	assert.Equal(t, 3, names["AT-AT"].RoomID())
}

func TestAssemble_WalkToTheRat(t *testing.T) {
	rec := &recorder{}
	asm, err := gameserver.Assemble(gameConfig(repoRoot(t)), rec, dice.NewFixedSource(0), zap.NewNop())
	require.NoError(t, err)
	defer asm.Close()

	asm.World.HandleMessage("alice", "join")
	asm.World.HandleMessage("alice", "n")
	lines := rec.take()
	assert.Contains(t, lines, "You go north.")
	assert.Contains(t, lines, "There is a rat in the room.")
	assert.Contains(t, lines, "http://img.example/rat.jpg")
}

func TestAssemble_WithoutScriptsRejectsScriptedEnemy(t *testing.T) {
	cfg := gameConfig(repoRoot(t))
	cfg.ScriptDir = ""
	_, err := gameserver.Assemble(cfg, &recorder{}, dice.NewFixedSource(0), zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "atat")
}

func TestAssemble_MissingContent(t *testing.T) {
	cfg := gameConfig(t.TempDir())
	_, err := gameserver.Assemble(cfg, &recorder{}, dice.NewFixedSource(0), zap.NewNop())
	assert.Error(t, err)
}

func TestAssemble_RobotNameOverride(t *testing.T) {
	cfg := gameConfig(repoRoot(t))
	cfg.RobotName = "Clanky"
	asm, err := gameserver.Assemble(cfg, &recorder{}, dice.NewFixedSource(0), zap.NewNop())
	require.NoError(t, err)
	defer asm.Close()
	assert.Equal(t, "Clanky", asm.World.Mech().Name())
}
