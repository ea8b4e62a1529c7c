package core

import "image/color"

// RGB is an 8-bit-per-channel color. Arithmetic saturates at the byte range
// and truncates fractional results toward zero.
type RGB struct {
	R, G, B uint8
}

// NewRGB creates a new RGB color
func NewRGB(r, g, b uint8) RGB {
	return RGB{R: r, G: g, B: b}
}

// Gray returns an RGB with all channels set to n
func Gray(n uint8) RGB {
	return RGB{n, n, n}
}

// Add returns the channel-wise saturating sum
func (c RGB) Add(other RGB) RGB {
	return RGB{
		R: addByte(c.R, other.R),
		G: addByte(c.G, other.G),
		B: addByte(c.B, other.B),
	}
}

// Subtract returns the channel-wise saturating difference
func (c RGB) Subtract(other RGB) RGB {
	return RGB{
		R: clampByte(int(c.R) - int(other.R)),
		G: clampByte(int(c.G) - int(other.G)),
		B: clampByte(int(c.B) - int(other.B)),
	}
}

// Scale multiplies every channel by s
func (c RGB) Scale(s float32) RGB {
	return RGB{
		R: mulByte(c.R, s),
		G: mulByte(c.G, s),
		B: mulByte(c.B, s),
	}
}

// ScaleVec multiplies the channels by the X, Y and Z components of v
func (c RGB) ScaleVec(v Vec3) RGB {
	return RGB{
		R: mulByte(c.R, v.X),
		G: mulByte(c.G, v.Y),
		B: mulByte(c.B, v.Z),
	}
}

// Normalized returns the color as a Vec3 in [0, 1]
func (c RGB) Normalized() Vec3 {
	return Vec3{
		X: float32(c.R) / 255,
		Y: float32(c.G) / 255,
		Z: float32(c.B) / 255,
	}
}

// RGBA converts to an opaque color.RGBA
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// RGBFromColor converts any color.Color, dropping alpha
func RGBFromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

func addByte(a, b uint8) uint8 {
	return clampByte(int(a) + int(b))
}

func mulByte(a uint8, s float32) uint8 {
	v := float32(a) * s
	if v != v {
		return 0
	}
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}

func clampByte(v int) uint8 {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}
