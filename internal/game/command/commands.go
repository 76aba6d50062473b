// Package command provides the chat command grammar and the built-in command
// table shown by help.
package command

// Categories for organizing commands.
const (
	CategoryMovement = "movement"
	CategoryWorld    = "world"
	CategoryCombat   = "combat"
	CategorySystem   = "system"
)

// Handler identifiers mapping commands to world operations.
const (
	HandlerMove   = "move"
	HandlerLook   = "look"
	HandlerAttack = "attack"
	HandlerJoin   = "join"
	HandlerRepair = "repair"
	HandlerStatus = "status"
	HandlerHelp   = "help"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the arguments the command accepts, if any.
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command.
	Category string
	// Handler maps to the world operation that executes the command.
	Handler string
}

// BuiltinCommands returns all built-in commands in help order.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "north", Aliases: []string{"n"}, Help: "Move north", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "northeast", Aliases: []string{"ne"}, Help: "Move northeast", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "east", Aliases: []string{"e"}, Help: "Move east", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "southeast", Aliases: []string{"se"}, Help: "Move southeast", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "south", Aliases: []string{"s"}, Help: "Move south", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "southwest", Aliases: []string{"sw"}, Help: "Move southwest", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "west", Aliases: []string{"w"}, Help: "Move west", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "northwest", Aliases: []string{"nw"}, Help: "Move northwest", Category: CategoryMovement, Handler: HandlerMove},

		{Name: "look", Usage: "[at] [target]", Help: "Look around the room or at something in it", Category: CategoryWorld, Handler: HandlerLook},
		{Name: "attack", Usage: "<target>", Help: "Command the robot to attack", Category: CategoryCombat, Handler: HandlerAttack},
		{Name: "repair", Help: "Repair the robot", Category: CategoryCombat, Handler: HandlerRepair},

		{Name: "join", Help: "Join the game as a pilot", Category: CategorySystem, Handler: HandlerJoin},
		{Name: "status", Help: "Show the robot's health and pilots", Category: CategorySystem, Handler: HandlerStatus},
		{Name: "help", Help: "List commands", Category: CategorySystem, Handler: HandlerHelp},
	}
}
