// Package main is the entry point of the mech bot: a chat room whose members
// pilot one shared robot through a text adventure.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:   "mechbot",
		Short: "Multiplayer mech text adventure played over chat",
		Long: `mechbot runs a tick-driven text adventure in a shared chat room.
Participants join to pilot a part of one robot, walk it through the map and
stomp on whatever they find.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "configs/dev.yaml", "path to configuration file")
	root.AddCommand(newServeCmd(&configPath), newCheckCmd(&configPath))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
