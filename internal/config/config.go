// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/sunlight/internal/engine/debug"
	"github.com/Faultbox/sunlight/internal/engine/lighting"
)

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Light    LightConfig    `yaml:"light"`
	Shadow   ShadowConfig   `yaml:"shadow"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// LightConfig describes the scene's directional light.
type LightConfig struct {
	Intensity    float32    `yaml:"intensity"`
	Color        [3]float32 `yaml:"color"`
	Position     [3]float32 `yaml:"position"`
	FocalPoint   [3]float32 `yaml:"focal_point"`
	Up           [3]float32 `yaml:"up"`
	HasShadowMap bool       `yaml:"has_shadow_map"`
}

// ShadowConfig holds shadow map settings.
type ShadowConfig struct {
	Resolution int32  `yaml:"resolution"`  // Width and height of the light's render target
	DumpDir    string `yaml:"dump_dir"`    // Where F12 writes depth images
	DumpFormat string `yaml:"dump_format"` // "png" or "bmp"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Light: LightConfig{
			Intensity:    5000,
			Color:        [3]float32{1, 1, 1},
			Position:     [3]float32{0, 80, 80},
			FocalPoint:   [3]float32{0, 0, 0},
			Up:           [3]float32{0, 1, 0},
			HasShadowMap: true,
		},
		Shadow: ShadowConfig{
			Resolution: 2048,
			DumpDir:    "screenshots",
			DumpFormat: debug.FormatPNG,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Params converts the light section into construction parameters.
func (l LightConfig) Params() lighting.Params {
	return lighting.Params{
		Intensity:    l.Intensity,
		Color:        mgl32.Vec3(l.Color),
		Position:     mgl32.Vec3(l.Position),
		FocalPoint:   mgl32.Vec3(l.FocalPoint),
		Up:           mgl32.Vec3(l.Up),
		HasShadowMap: l.HasShadowMap,
	}
}

// Validate reports settings the viewer cannot run with.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	if c.Shadow.Resolution <= 0 {
		return fmt.Errorf("shadow: invalid resolution %d", c.Shadow.Resolution)
	}
	if !debug.ValidFormat(c.Shadow.DumpFormat) {
		return fmt.Errorf("shadow: unsupported dump format %q", c.Shadow.DumpFormat)
	}
	if err := c.Light.Params().Validate(); err != nil {
		return fmt.Errorf("light: %w", err)
	}
	return nil
}
