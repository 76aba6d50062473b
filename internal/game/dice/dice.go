// Package dice provides the randomness abstraction used to pick flavor lines
// for the adventure.
package dice

// Source is the randomness provider.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Pick returns a uniformly chosen element of lines.
//
// Precondition: src must be non-nil.
// Postcondition: Returns "" when lines is empty; otherwise an element of lines.
func Pick(src Source, lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[src.Intn(len(lines))]
}
