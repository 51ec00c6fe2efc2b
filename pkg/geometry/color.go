package geometry

import (
	"fmt"
	"strconv"
	"strings"
)

// lightLuma is the BT.709 luma above which a color counts as light.
const lightLuma = 160

// RGB is an 8-bit-per-channel color.
type RGB struct {
	R, G, B uint8
}

// Luma returns the ITU-R BT.709 luma of c.
func (c RGB) Luma() float64 {
	return 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
}

// Light reports whether text on top of c should be dark.
func (c RGB) Light() bool { return c.Luma() > lightLuma }

// Hex returns c as #rrggbb.
func (c RGB) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// ParseColor accepts #rrggbb, #rgb and rgb(r,g,b) (also rgba, alpha ignored).
func ParseColor(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgb"):
		lo, hi := strings.IndexByte(s, '('), strings.IndexByte(s, ')')
		if lo < 0 || hi < lo {
			return RGB{}, fmt.Errorf("malformed color %q", s)
		}
		return parseChannels(s[lo+1 : hi])
	case strings.HasPrefix(s, "("):
		return parseChannels(strings.Trim(s, "()"))
	}
	return RGB{}, fmt.Errorf("unsupported color %q", s)
}

// IsLight parses color and reports whether it is light.
func IsLight(color string) (bool, error) {
	c, err := ParseColor(color)
	if err != nil {
		return false, err
	}
	return c.Light(), nil
}

// HexToRGB converts #rrggbb to the "(r,g,b)" form.
func HexToRGB(hex string) (string, error) {
	c, err := ParseColor(hex)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%d,%d,%d)", c.R, c.G, c.B), nil
}

func parseHex(h string) (RGB, error) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("malformed hex color %q", "#"+h)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("malformed hex color %q: %w", "#"+h, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func parseChannels(body string) (RGB, error) {
	parts := strings.Split(body, ",")
	if len(parts) < 3 {
		return RGB{}, fmt.Errorf("expected 3 channels, got %d", len(parts))
	}
	var ch [3]uint8
	for i := range ch {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return RGB{}, fmt.Errorf("channel %q out of range", strings.TrimSpace(parts[i]))
		}
		ch[i] = uint8(v)
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}
