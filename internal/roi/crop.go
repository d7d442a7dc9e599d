package roi

import (
	"bytes"
	"image"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// Crop cuts the window out of img in pixel space. The window is clamped so
// the result is always at least 1×1 even for out-of-range coordinates.
func Crop(img image.Image, window ROI) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	x0 := int(window.X0 * float64(w))
	y0 := int(window.Y0 * float64(h))
	x1 := int(window.X1 * float64(w))
	y1 := int(window.Y1 * float64(h))

	x0 = clampInt(x0, 0, w-1)
	y0 = clampInt(y0, 0, h-1)
	x1 = clampInt(x1, x0+1, w)
	y1 = clampInt(y1, y0+1, h)

	dst := image.NewRGBA(image.Rect(0, 0, x1-x0, y1-y0))
	xdraw.Draw(dst, dst.Bounds(), img, image.Pt(b.Min.X+x0, b.Min.Y+y0), xdraw.Src)
	return dst
}

// CropBytes decodes, crops and re-encodes as PNG. On any failure the input
// bytes come back untouched with ok=false, so callers fall back to sending
// the full frame.
func CropBytes(raw []byte, window ROI) ([]byte, bool) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil || img == nil {
		return raw, false
	}
	cropped := Crop(img, window)
	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return raw, false
	}
	return buf.Bytes(), true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
