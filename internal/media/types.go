package media

import "image/color"

type Type string

const (
	// TypeCat is a frame of the typing cat.
	TypeCat Type = "cat"
)

// ColorKey marks transparent pixels; 24-bit bitmaps have no alpha channel.
var ColorKey = color.RGBA{R: 0xFF, G: 0x00, B: 0xFF, A: 0xFF}

func (t Type) Size() (w int, h int) {
	switch t {
	case TypeCat:
		return 32, 32
	default:
		return 0, 0
	}
}
