// Package config provides YAML-based configuration loading for pixelloop.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Backend names accepted by the run command.
const (
	BackendTUI   = "tui"
	BackendTcell = "tcell"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the complete application configuration.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Loop    LoopConfig    `yaml:"loop"`
	Backend string        `yaml:"backend"`
	Scene   string        `yaml:"scene"`
	Bounce  BounceConfig  `yaml:"bounce"`
	Paint   PaintConfig   `yaml:"paint"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	SSH     SSHConfig     `yaml:"ssh"`
}

// WindowConfig describes the host window and the surface inside it.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`  // Surface width in pixels
	Height int    `yaml:"height"` // Surface height in pixels
}

// LoopConfig controls the engine loop cadence.
type LoopConfig struct {
	UpdateRate int `yaml:"update_rate"` // Fixed updates per second; 0 is rejected by the engine
	RedrawRate int `yaml:"redraw_rate"` // Host redraw ticks per second
}

// BounceConfig tunes the bouncing box scene.
type BounceConfig struct {
	BoxWidth  int    `yaml:"box_width"`
	BoxHeight int    `yaml:"box_height"`
	Speed     int    `yaml:"speed"` // Pixels per update step on each axis
	Color     string `yaml:"color"`
	AltColor  string `yaml:"alt_color"`
}

// PaintConfig tunes the paint scene.
type PaintConfig struct {
	BrushSize int `yaml:"brush_size"`
	MaxDots   int `yaml:"max_dots"`
	HueStep   int `yaml:"hue_step"` // Update steps between brush color changes
}

// StorageConfig locates the run statistics database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LogConfig controls the application logger.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // Used while a terminal host owns the screen
}

// SSHConfig configures the serve command.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// Validate checks the values the engine does not check itself. The update
// rate is left to the engine so a zero rate fails at loop construction.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Loop.RedrawRate <= 0 {
		return fmt.Errorf("%w: redraw_rate %d", ErrInvalid, c.Loop.RedrawRate)
	}
	switch c.Backend {
	case BackendTUI, BackendTcell:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Backend)
	}
	if c.Bounce.BoxWidth <= 0 || c.Bounce.BoxHeight <= 0 {
		return fmt.Errorf("%w: bounce box %dx%d", ErrInvalid, c.Bounce.BoxWidth, c.Bounce.BoxHeight)
	}
	if c.Bounce.BoxWidth >= c.Window.Width || c.Bounce.BoxHeight >= c.Window.Height {
		return fmt.Errorf("%w: bounce box does not fit the window", ErrInvalid)
	}
	if c.Paint.BrushSize <= 0 {
		return fmt.Errorf("%w: paint brush_size %d", ErrInvalid, c.Paint.BrushSize)
	}
	return nil
}
