// Package heatmap maps numeric values onto the three-stop spreadsheet
// gradient (green, yellow, red) and exports colored workbooks.
package heatmap

import (
	"fmt"
	"math"
)

// RGB is an 8-bit color.
type RGB struct {
	R, G, B uint8
}

// Hex formats the color as #RRGGBB.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Gradient stops. These match the default three-color scale of common
// spreadsheet conditional formatting, so exported reports line up with
// hand-formatted ones.
var (
	Green  = RGB{0x63, 0xBE, 0x7B}
	Yellow = RGB{0xFF, 0xEB, 0x84}
	Red    = RGB{0xF8, 0x69, 0x6B}
)

// ColorFor maps value within [min, max] onto the gradient.
// A degenerate range yields Yellow.
func ColorFor(value, min, max float64) RGB {
	if min == max {
		return Yellow
	}
	ratio := (value - min) / (max - min)
	if ratio < 0.5 {
		return blend(Green, Yellow, ratio*2)
	}
	return blend(Yellow, Red, (ratio-0.5)*2)
}

// HexFor is ColorFor(value, min, max).Hex().
func HexFor(value, min, max float64) string {
	return ColorFor(value, min, max).Hex()
}

func blend(from, to RGB, t float64) RGB {
	return RGB{
		R: channel(from.R, to.R, t),
		G: channel(from.G, to.G, t),
		B: channel(from.B, to.B, t),
	}
}

func channel(from, to uint8, t float64) uint8 {
	v := math.Round(float64(from) + t*(float64(to)-float64(from)))
	return uint8(math.Max(0, math.Min(255, v)))
}
