package roi

import (
	"image"
	"image/color"
	"testing"
)

func uniformImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// texturedImage paints a checkerboard patch (8px cells, coarse enough to
// survive downscaling) on a flat background. The patch is the only
// high-variance area, so detection must land on it.
func texturedImage(w, h, px0, py0, px1, py1 int) *image.RGBA {
	img := uniformImage(w, h, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	for y := py0; y < py1; y++ {
		for x := px0; x < px1; x++ {
			if (x/8+y/8)%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{A: 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
			}
		}
	}
	return img
}

func expectFallback(t *testing.T, got ROI) {
	t.Helper()
	if got.Method != MethodFallbackFullFrame {
		t.Fatalf("method=%q, want %q", got.Method, MethodFallbackFullFrame)
	}
	if got.Confidence != 0 {
		t.Fatalf("confidence=%v, want 0", got.Confidence)
	}
	if got.X0 != 0.02 || got.Y0 != 0.02 || got.X1 != 0.98 || got.Y1 != 0.98 {
		t.Fatalf("rect=%+v, want default full frame", got)
	}
}

func TestDetectUndecodableBytes(t *testing.T) {
	expectFallback(t, Detect([]byte("definitely not an image")))
	expectFallback(t, Detect(nil))
}

func TestDetectUniformImageFallsBack(t *testing.T) {
	got := DetectImage(uniformImage(512, 512, color.RGBA{R: 40, G: 40, B: 40, A: 255}))
	expectFallback(t, got)
}

func TestDetectFindsTexturedRegion(t *testing.T) {
	// 512x512 -> 32x32 blocks of 16px. Patch spans blocks [8,24) in both
	// axes: 256 of 1024 blocks, well under the 70th percentile cut, so the
	// threshold separates it cleanly from the flat background.
	img := texturedImage(512, 512, 128, 128, 384, 384)
	got := DetectImage(img)

	if got.Method != MethodTextureVariance {
		t.Fatalf("method=%q, want %q", got.Method, MethodTextureVariance)
	}
	if got.Confidence != 1 {
		t.Fatalf("confidence=%v, want saturated 1 (256 blocks)", got.Confidence)
	}
	// Patch occupies [0.25,0.75] normalized; allow the 3% margin.
	if got.X0 > 0.25 || got.X0 < 0.25-0.05 {
		t.Fatalf("x0=%v, want ~0.22..0.25", got.X0)
	}
	if got.X1 < 0.75 || got.X1 > 0.75+0.05 {
		t.Fatalf("x1=%v, want ~0.75..0.78", got.X1)
	}
	if got.Y0 > 0.25 || got.Y0 < 0.20 || got.Y1 < 0.75 || got.Y1 > 0.80 {
		t.Fatalf("rect=%+v, want patch bounds with margin", got)
	}
	if got.X1 <= got.X0 || got.Y1 <= got.Y0 {
		t.Fatalf("degenerate rect: %+v", got)
	}
}

func TestDetectRejectsDegenerateSpan(t *testing.T) {
	// A tall sliver: 3 blocks wide (48px + margins ~ 0.15 normalized width),
	// enough blocks to pass the region minimum but too narrow to crop.
	img := texturedImage(512, 512, 128, 64, 176, 320)
	got := DetectImage(img)
	expectFallback(t, got)
}

func TestDetectTinyRegionFallsBack(t *testing.T) {
	// A patch covering fewer than 6 blocks must be ignored.
	img := texturedImage(512, 512, 128, 128, 160, 160)
	got := DetectImage(img)
	expectFallback(t, got)
}

func TestDetectDownscalesLargeImages(t *testing.T) {
	// 2048px wide: analysis runs at 512 but coordinates come back in
	// original normalized space.
	img := texturedImage(2048, 1024, 512, 256, 1536, 768)
	got := DetectImage(img)
	if got.Method != MethodTextureVariance {
		t.Fatalf("method=%q, want %q", got.Method, MethodTextureVariance)
	}
	if got.X0 > 0.25 || got.X1 < 0.75 || got.Y0 > 0.25 || got.Y1 < 0.75 {
		t.Fatalf("rect=%+v, want to cover the patch [0.25,0.75]", got)
	}
}

func TestCropWindowRejectsSlivers(t *testing.T) {
	if _, ok := (ROI{X0: 0.5, Y0: 0.1, X1: 0.52, Y1: 0.9}).CropWindow(); ok {
		t.Fatal("sliver window accepted")
	}
	win, ok := (ROI{X0: 0.2, Y0: 0.2, X1: 0.8, Y1: 0.8}).CropWindow()
	if !ok {
		t.Fatal("valid window rejected")
	}
	if win.X0 != 0.2 || win.X1 != 0.8 {
		t.Fatalf("window=%+v, want clamped passthrough", win)
	}
}

func TestCropBounds(t *testing.T) {
	img := uniformImage(100, 200, color.RGBA{R: 10, G: 10, B: 10, A: 255})
	out := Crop(img, ROI{X0: 0.25, Y0: 0.25, X1: 0.75, Y1: 0.75})
	b := out.Bounds()
	if b.Dx() != 50 || b.Dy() != 100 {
		t.Fatalf("crop=%dx%d, want 50x100", b.Dx(), b.Dy())
	}
}
