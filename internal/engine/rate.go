package engine

import "time"

// Rates is one report from a RateMeter.
type Rates struct {
	Update float64 // Update steps per second
	Render float64 // Renders per second
}

// RateMeter measures update and render rates over windows of roughly one
// second of render time. Scenes call Update from their update function and
// Render from their render function.
type RateMeter struct {
	window  time.Duration
	updates int
	renders int
	elapsed time.Duration
}

// NewRateMeter creates a meter that reports once per window.
func NewRateMeter(window time.Duration) *RateMeter {
	if window <= 0 {
		window = time.Second
	}
	return &RateMeter{window: window}
}

// Update records one update step.
func (m *RateMeter) Update() {
	m.updates++
}

// Render records one render of dt. Once more than a window has passed it
// returns the rates for that window and starts a new one.
func (m *RateMeter) Render(dt time.Duration) (Rates, bool) {
	m.renders++
	m.elapsed += dt
	if m.elapsed <= m.window {
		return Rates{}, false
	}

	secs := m.elapsed.Seconds()
	r := Rates{
		Update: float64(m.updates) / secs,
		Render: float64(m.renders) / secs,
	}
	m.updates, m.renders, m.elapsed = 0, 0, 0
	return r, true
}
