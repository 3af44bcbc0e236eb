package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/pixelloop.yaml
var defaultYAML []byte

// Default returns the built-in configuration. It mirrors
// defaults/pixelloop.yaml and is the base every loaded file decodes over.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "Pixel Loop",
			Width:  640,
			Height: 480,
		},
		Loop: LoopConfig{
			UpdateRate: 120,
			RedrawRate: 60,
		},
		Backend: BackendTUI,
		Scene:   "bounce",
		Bounce: BounceConfig{
			BoxWidth:  50,
			BoxHeight: 60,
			Speed:     1,
			Color:     "#ffff00",
			AltColor:  "#ff0000",
		},
		Paint: PaintConfig{
			BrushSize: 6,
			MaxDots:   20000,
			HueStep:   30,
		},
		Storage: StorageConfig{
			DBPath: "~/.pixelloop/stats.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		SSH: SSHConfig{
			Address:     ":23235",
			IdleTimeout: 30 * time.Minute,
		},
	}
}
