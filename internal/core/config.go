package core

// RuntimeConfig is handed to a scene when it is reset.
type RuntimeConfig struct {
	Width      int   // Surface width in pixels
	Height     int   // Surface height in pixels
	UpdateRate int   // Fixed update steps per second
	RedrawRate int   // Host redraw ticks per second
	Seed       int64 // RNG seed, 0 means the caller picks one from the clock
}
