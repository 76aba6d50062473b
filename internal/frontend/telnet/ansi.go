// Package telnet serves the shared chat room over Telnet, with ANSI color
// highlighting of game lines.
package telnet

import "strings"

// ANSI escape code constants for terminal styling.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"

	BrightRed    = "\033[91m"
	BrightYellow = "\033[93m"
)

// Colorize wraps text with the given ANSI color code and a reset suffix.
//
// Precondition: color must be a valid ANSI escape sequence.
// Postcondition: Returns text wrapped with the color code and Reset.
func Colorize(color, text string) string {
	return color + text + Reset
}

// StripANSI removes all ANSI escape sequences from a string.
//
// Postcondition: Returns text with all \033[...m sequences removed.
func StripANSI(s string) string {
	result := make([]byte, 0, len(s))
	i := 0
	for i < len(s) {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			if j < len(s) {
				i = j + 1
				continue
			}
		}
		result = append(result, s[i])
		i++
	}
	return string(result)
}

// styleRule colors every line containing marker.
type styleRule struct {
	marker string
	color  string
}

// First match wins.
var styleRules = []styleRule{
	{"explodes. Bits of robot", Bold + BrightRed},
	{"You have zero health", BrightRed},
	{"finishes repairing", Green},
	{"health remaining).", Red},
	{"is now level", BrightYellow},
	{"is dead.", Green},
	{"is now piloting", Cyan},
	{"Welcome to the game", Cyan},
	{"commands ", Yellow},
	{"You see ", White},
	{"There is an exit", Blue},
	{"There are exits", Blue},
	{"There are no exits", Blue},
}

// Style colors a game line by its content. Lines matching no rule are
// returned unchanged. Callers keep relayed chat away from Style.
func Style(line string) string {
	for _, r := range styleRules {
		if strings.Contains(line, r.marker) {
			return Colorize(r.color, line)
		}
	}
	return line
}
