package animation

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"

	"github.com/ajanata/dongle/internal/media"
)

type Animation interface {
	// Activate is called when the animation is being started on the display.
	// An animation may be re-used so this should be able to be called more than once.
	Activate(drivers.Displayer)
	// DrawFrame draws the next frame of the animation on top of whatever is already on the display.
	// The current frame number is provided to allow animations to be keyed off every-x-frames without having to keep
	// track of that themselves.
	// Returns whether the animation should continue.
	DrawFrame(disp drivers.Displayer, tick uint32) bool
}

// DrawImage draws the image on the display at the given coordinates, clipping whatever falls off the display.
// Pixels matching media.ColorKey, or with zero alpha, are skipped.
func DrawImage(disp drivers.Displayer, offX, offY int16, img image.Image) {
	w, h := disp.Size()
	if w <= 0 || h <= 0 {
		return
	}
	bounds := img.Bounds()
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		xx := int16(x-bounds.Min.X) + offX
		if xx < 0 || xx >= w {
			continue
		}
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			yy := int16(y-bounds.Min.Y) + offY
			if yy < 0 || yy >= h {
				continue
			}
			r, g, b, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			c := color.RGBA{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			}
			if c == media.ColorKey {
				continue
			}
			disp.SetPixel(xx, yy, c)
		}
	}
}
