package roi

// Package roi locates the clinically relevant region of an uploaded image so
// background and scanner UI can be cropped away before the image is sent to
// the vision service. Detection is a deterministic texture heuristic; it is
// not diagnostic and never fails hard.

const (
	Version = "ROI_V1"

	MethodTextureVariance   = "texture_variance"
	MethodFallbackFullFrame = "fallback_fullframe"
)

// ROI is a normalized rectangle in original-image space, each coordinate in
// [0,1] relative to width/height. X1 > X0 and Y1 > Y0 always hold.
type ROI struct {
	Version    string  `json:"version"`
	X0         float64 `json:"x0"`
	Y0         float64 `json:"y0"`
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	Method     string  `json:"method"`
	Confidence float64 `json:"confidence"`
}

// DefaultROI is the full-frame fallback used whenever detection cannot
// produce a usable rectangle. Confidence 0 tells callers nothing was found.
func DefaultROI() ROI {
	return ROI{
		Version:    Version,
		X0:         0.02,
		Y0:         0.02,
		X1:         0.98,
		Y1:         0.98,
		Method:     MethodFallbackFullFrame,
		Confidence: 0,
	}
}

// SpanX and SpanY are the rectangle's width and height fractions.
func (r ROI) SpanX() float64 { return r.X1 - r.X0 }
func (r ROI) SpanY() float64 { return r.Y1 - r.Y0 }

// CropWindow validates an ROI for use as a crop window. Degenerate windows
// (span below 5% in either axis) are rejected so a bad detection cannot
// produce a sliver crop; callers treat a false return as "send full frame".
func (r ROI) CropWindow() (ROI, bool) {
	out := ROI{
		Version:    r.Version,
		X0:         clamp01(r.X0),
		Y0:         clamp01(r.Y0),
		X1:         clamp01(r.X1),
		Y1:         clamp01(r.Y1),
		Method:     r.Method,
		Confidence: r.Confidence,
	}
	if out.X1-out.X0 < 0.05 || out.Y1-out.Y0 < 0.05 {
		return ROI{}, false
	}
	return out, true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
