package cpu

// Capacity of the medium stack. Scene authoring is expected to bound the
// nesting depth of participating media; a path that exceeds this is treated
// as absorbed rather than silently clamped (see push).
const mediumStackSize = 10

// mediumStack is a bounded LIFO of the material identifiers of the media
// the ray currently occupies. Slot 0 always holds the ambient medium and is
// never popped, so top() is always valid.
type mediumStack struct {
	entries [mediumStackSize]uint32
	top     int
}

// Reset the stack to contain only the ambient medium.
func (s *mediumStack) reset(ambient uint32) {
	s.entries[0] = ambient
	s.top = 0
}

// Get the identifier of the medium the ray currently travels through.
func (s *mediumStack) peek() uint32 {
	return s.entries[s.top]
}

// Get the identifier of the medium one nesting level below the current one.
// For a stack at the ambient level this is the ambient medium itself.
func (s *mediumStack) below() uint32 {
	if s.top == 0 {
		return s.entries[0]
	}
	return s.entries[s.top-1]
}

// Push a medium the ray transmitted into. Returns false when the nesting
// capacity is exhausted; the caller decides the termination policy.
func (s *mediumStack) push(medium uint32) bool {
	if s.top == mediumStackSize-1 {
		return false
	}
	s.top++
	s.entries[s.top] = medium
	return true
}

// Pop the current medium after the ray transmitted out of it. The ambient
// entry at slot 0 is never removed.
func (s *mediumStack) pop() bool {
	if s.top == 0 {
		return false
	}
	s.top--
	return true
}

// Current nesting depth including the ambient entry.
func (s *mediumStack) depth() int {
	return s.top + 1
}
