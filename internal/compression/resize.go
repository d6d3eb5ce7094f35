package compression

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// FitDimensions scales width x height down to the profile box.
// The width cap is applied first and the height is re-checked afterwards,
// rather than taking a single combined scale factor. Images are never upscaled.
func FitDimensions(width, height, maxWidth, maxHeight int) (int, int) {
	w := float64(width)
	h := float64(height)

	if w > float64(maxWidth) {
		scale := float64(maxWidth) / w
		w *= scale
		h *= scale
	}
	if h > float64(maxHeight) {
		scale := float64(maxHeight) / h
		w *= scale
		h *= scale
	}

	return max(1, int(math.Round(w))), max(1, int(math.Round(h)))
}

// resize draws img onto a canvas of the fitted size
func resize(img image.Image, p Profile) *image.NRGBA {
	b := img.Bounds()
	w, h := FitDimensions(b.Dx(), b.Dy(), p.MaxWidth, p.MaxHeight)
	if w == b.Dx() && h == b.Dy() {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}
