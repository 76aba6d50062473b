package world

import "strings"

// JoinWithAnd joins items with commas, using "and" before the final item:
// ["cat", "dog", "bird"] becomes "cat, dog and bird".
//
// Postcondition: Returns "" for an empty slice; the input is not modified.
func JoinWithAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

// ExitText renders the exits of a room as a sentence, e.g.
// "There are exits to the north and southeast."
func ExitText(exits []Direction) string {
	switch len(exits) {
	case 0:
		return "There are no exits."
	case 1:
		return "There is an exit to the " + exits[0].String() + "."
	}
	names := make([]string, len(exits))
	for i, d := range exits {
		names[i] = d.String()
	}
	return "There are exits to the " + JoinWithAnd(names) + "."
}
