package layout

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/procflow/pkg/errors"
)

// Mode selects the diagram style.
type Mode string

const (
	ModeFlow      Mode = "flow"
	ModeSchematic Mode = "schematic"
)

// Default viewport size in pixels.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
)

// ValidModes is the set of supported diagram modes.
var ValidModes = map[Mode]bool{
	ModeFlow:      true,
	ModeSchematic: true,
}

// ParseMode accepts a mode name in any case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeFlow:
		return ModeFlow, nil
	case ModeSchematic:
		return ModeSchematic, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "invalid mode: %q (must be one of: flow, schematic)", s)
}

// Viewport is the drawing area the diagram is centered in.
type Viewport struct {
	Width  float64 `json:"width" bson:"width" toml:"width"`
	Height float64 `json:"height" bson:"height" toml:"height"`
}

// Config controls one Assemble call.
type Config struct {
	Mode      Mode     `json:"mode,omitempty" toml:"mode"`
	Transpose bool     `json:"transpose,omitempty" toml:"transpose"` // schematic only: swap x and y
	Viewport  Viewport `json:"viewport,omitempty" toml:"viewport"`

	Logger *log.Logger `json:"-" toml:"-"`
}

// ValidateAndSetDefaults checks the configuration and fills zero fields.
func (c *Config) ValidateAndSetDefaults() error {
	mode, err := ParseMode(string(c.Mode))
	if err != nil {
		return err
	}
	c.Mode = mode

	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "viewport must not be negative: %vx%v",
			c.Viewport.Width, c.Viewport.Height)
	}
	if c.Viewport.Width == 0 {
		c.Viewport.Width = DefaultWidth
	}
	if c.Viewport.Height == 0 {
		c.Viewport.Height = DefaultHeight
	}
	if c.Mode == ModeFlow {
		c.Transpose = false
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}
