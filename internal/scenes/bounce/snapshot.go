package bounce

// Snapshot is a comparable view of the scene state.
type Snapshot struct {
	X, Y          int
	DirX, DirY    int
	Swapped       bool
	ButtonPressed bool
	CursorX       int
	CursorY       int
}

// Snapshot returns the current state.
func (s *Scene) Snapshot() Snapshot {
	return Snapshot{
		X:             s.boxX,
		Y:             s.boxY,
		DirX:          s.dirX,
		DirY:          s.dirY,
		Swapped:       s.swapColor,
		ButtonPressed: s.buttonPressed,
		CursorX:       s.cursorX,
		CursorY:       s.cursorY,
	}
}
