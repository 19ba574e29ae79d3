// Package media holds the character's frames, embedded as 24-bit bitmaps.
package media

import (
	"embed"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"

	"golang.org/x/image/bmp"
)

//go:embed media/*/*.bmp
var imgs embed.FS

// LoadImage decodes one frame of typ. Pixels in ColorKey come back fully transparent, so callers only need to
// check alpha.
func LoadImage(typ Type, name string) (image.Image, error) {
	w, h := typ.Size()
	if w == 0 || h == 0 {
		return nil, errors.New("invalid media type " + strconv.Quote(string(typ)))
	}

	r, err := imgs.Open("media/" + string(typ) + "/" + name + ".bmp")
	if err != nil {
		return nil, err
	}
	defer r.Close()

	src, err := bmp.Decode(r)
	if err != nil {
		return nil, errors.New("decode " + name + ": " + err.Error())
	}

	b := src.Bounds()
	if b.Dx() != w || b.Dy() != h {
		return nil, errors.New("invalid image size for type " + string(typ) + ": " +
			strconv.Itoa(b.Dx()) + "x" + strconv.Itoa(b.Dy()))
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			if c == ColorKey {
				continue
			}
			dst.SetRGBA(x, y, c)
		}
	}
	return dst, nil
}

// LoadSequence loads several images of one type, in order.
func LoadSequence(typ Type, names ...string) ([]image.Image, error) {
	frames := make([]image.Image, 0, len(names))
	for _, n := range names {
		img, err := LoadImage(typ, n)
		if err != nil {
			return nil, fmt.Errorf("load %s/%s: %w", typ, n, err)
		}
		frames = append(frames, img)
	}
	return frames, nil
}
