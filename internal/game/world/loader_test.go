package world

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validContentYAML = `
world:
  robot_name: Smashing Robot
  start_room: 0
  rooms:
    - id: 0
      description: a small cave overlooking some fields.
    - id: 1
      description: |
        a dusty path.
  connections:
    - {from: 0, to: 1, direction: north}
    - {from: 1, to: 2, direction: n}
    - {from: 2, to: 3, direction: northeast}
    - {from: 2, to: 4, direction: northwest}
enemies:
  - name: rat
    room: 1
`

func TestLoadContentFromBytes_Valid(t *testing.T) {
	content, err := LoadContentFromBytes([]byte(validContentYAML))
	require.NoError(t, err)

	assert.Equal(t, "Smashing Robot", content.RobotName)
	assert.Equal(t, 0, content.StartRoom)
	assert.Equal(t, 0, content.Graph.Position())
	assert.Equal(t, 5, content.Graph.RoomCount())
	assert.Empty(t, content.Overwritten)

	desc, ok := content.Description(1)
	require.True(t, ok)
	assert.Equal(t, "a dusty path.", desc)

	_, ok = content.Description(3)
	assert.False(t, ok)

	assert.Equal(t, []Direction{Northeast, South, Northwest}, content.Graph.Exits(2))
}

func TestLoadContentFromBytes_InvalidYAML(t *testing.T) {
	_, err := LoadContentFromBytes([]byte("world: [unclosed"))
	assert.Error(t, err)
}

func TestLoadContentFromBytes_UnknownDirection(t *testing.T) {
	_, err := LoadContentFromBytes([]byte(`
world:
  robot_name: Bot
  connections:
    - {from: 0, to: 1, direction: up}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown direction")
}

func TestLoadContentFromBytes_NoConnections(t *testing.T) {
	_, err := LoadContentFromBytes([]byte("world:\n  robot_name: Bot\n"))
	assert.Error(t, err)
}

func TestLoadContentFromBytes_MissingRobotName(t *testing.T) {
	_, err := LoadContentFromBytes([]byte(`
world:
  connections:
    - {from: 0, to: 1, direction: north}
`))
	assert.Error(t, err)
}

func TestLoadContentFromBytes_StartRoomWithoutExits(t *testing.T) {
	_, err := LoadContentFromBytes([]byte(`
world:
  robot_name: Bot
  start_room: 9
  connections:
    - {from: 0, to: 1, direction: north}
`))
	assert.Error(t, err)
}

func TestLoadContentFromBytes_SelfLoop(t *testing.T) {
	_, err := LoadContentFromBytes([]byte(`
world:
  robot_name: Bot
  connections:
    - {from: 0, to: 0, direction: north}
`))
	assert.Error(t, err)
}

func TestLoadContentFromBytes_ReportsOverwrite(t *testing.T) {
	content, err := LoadContentFromBytes([]byte(`
world:
  robot_name: Bot
  connections:
    - {from: 0, to: 1, direction: north}
    - {from: 0, to: 2, direction: north}
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"0 north 2"}, content.Overwritten)
}

func TestLoadContentFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validContentYAML), 0644))

	content, err := LoadContentFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Smashing Robot", content.RobotName)

	_, err = LoadContentFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
