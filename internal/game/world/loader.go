package world

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlContentFile is the top-level YAML structure for content files.
type yamlContentFile struct {
	World yamlWorld `yaml:"world"`
}

// yamlWorld is the YAML representation of the room graph.
type yamlWorld struct {
	RobotName   string           `yaml:"robot_name"`
	StartRoom   int              `yaml:"start_room"`
	Rooms       []yamlRoom       `yaml:"rooms"`
	Connections []yamlConnection `yaml:"connections"`
}

// yamlRoom carries the flavor text of a room.
type yamlRoom struct {
	ID          int    `yaml:"id"`
	Description string `yaml:"description"`
}

// yamlConnection is one reciprocal edge of the graph.
type yamlConnection struct {
	From      int    `yaml:"from"`
	To        int    `yaml:"to"`
	Direction string `yaml:"direction"`
}

// Content is the loaded map: the graph plus the text shown when looking around.
type Content struct {
	// Graph is positioned at StartRoom.
	Graph *Graph
	// StartRoom is where the party begins.
	StartRoom int
	// RobotName is the display name of the mech.
	RobotName string
	// Descriptions maps room IDs to their description. Rooms without one are
	// described by number.
	Descriptions map[int]string
	// Overwritten lists connections that replaced an earlier connection on the
	// same room and direction.
	Overwritten []string
}

// Description returns the description of room id.
//
// Postcondition: Returns (text, true) if the room has a description.
func (c *Content) Description(id int) (string, bool) {
	d, ok := c.Descriptions[id]
	return d, ok
}

// LoadContentFromFile reads and validates the map section of a content file.
//
// Precondition: path must point to a valid YAML content file.
// Postcondition: Returns validated Content or a non-nil error.
func LoadContentFromFile(path string) (*Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content file %s: %w", path, err)
	}
	return LoadContentFromBytes(data)
}

// LoadContentFromBytes parses and validates the map section of a content file.
//
// Precondition: data must be valid YAML conforming to the content schema.
// Postcondition: Returns validated Content or a non-nil error.
func LoadContentFromBytes(data []byte) (*Content, error) {
	var file yamlContentFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing content YAML: %w", err)
	}
	content, err := convertYAMLWorld(file.World)
	if err != nil {
		return nil, fmt.Errorf("validating content: %w", err)
	}
	return content, nil
}

func convertYAMLWorld(yw yamlWorld) (*Content, error) {
	if len(yw.Connections) == 0 {
		return nil, fmt.Errorf("world must contain at least one connection")
	}

	content := &Content{
		StartRoom:    yw.StartRoom,
		RobotName:    strings.TrimSpace(yw.RobotName),
		Descriptions: make(map[int]string, len(yw.Rooms)),
		Graph:        NewGraph(yw.StartRoom),
	}
	if content.RobotName == "" {
		return nil, fmt.Errorf("robot_name must not be empty")
	}

	for _, yr := range yw.Rooms {
		if _, dup := content.Descriptions[yr.ID]; dup {
			return nil, fmt.Errorf("room %d: duplicate description", yr.ID)
		}
		desc := strings.TrimSpace(yr.Description)
		if desc == "" {
			return nil, fmt.Errorf("room %d: description must not be empty", yr.ID)
		}
		content.Descriptions[yr.ID] = desc
	}

	for i, yc := range yw.Connections {
		d := ParseDirection(yc.Direction)
		if d == NoDirection {
			return nil, fmt.Errorf("connection %d: unknown direction %q", i, yc.Direction)
		}
		if yc.From == yc.To {
			return nil, fmt.Errorf("connection %d: room %d cannot connect to itself", i, yc.From)
		}
		if content.Graph.Connect(yc.From, yc.To, d) {
			content.Overwritten = append(content.Overwritten,
				fmt.Sprintf("%d %s %d", yc.From, d, yc.To))
		}
	}

	if len(content.Graph.Exits(yw.StartRoom)) == 0 {
		return nil, fmt.Errorf("start_room %d has no exits", yw.StartRoom)
	}
	return content, nil
}
