package roi

import "encoding/json"

// Overlay geometry arrives from the vision service relative to whatever
// image was actually sent. When that image was an ROI crop, every coordinate
// has to be mapped back into original-image space before a caller that only
// knows the original can draw it:
//
//	point  -> crop origin + value * crop span
//	length -> value * crop span (no translation)
//
// Each overlay profile declares its own field set but shares this transform.

type Profile string

const (
	ProfileMSK      Profile = "MSK"
	ProfileVascular Profile = "VASCULAR"
)

// NormRect is a normalized rectangle inside an overlay payload.
type NormRect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// RemapX maps a crop-relative x coordinate into original space.
func RemapX(x float64, crop ROI) float64 { return crop.X0 + x*crop.SpanX() }

// RemapY maps a crop-relative y coordinate into original space.
func RemapY(y float64, crop ROI) float64 { return crop.Y0 + y*crop.SpanY() }

// RemapW scales a crop-relative width/radius; lengths translate nowhere.
func RemapW(w float64, crop ROI) float64 { return w * crop.SpanX() }

// RemapH scales a crop-relative height/radius.
func RemapH(h float64, crop ROI) float64 { return h * crop.SpanY() }

func remapRect(r NormRect, crop ROI) NormRect {
	return NormRect{
		X0: RemapX(r.X0, crop),
		Y0: RemapY(r.Y0, crop),
		X1: RemapX(r.X1, crop),
		Y1: RemapY(r.Y1, crop),
	}
}

// MSKOverlay is the musculoskeletal ultrasound overlay profile.
type MSKOverlay struct {
	ROI         NormRect  `json:"roi"`
	Layers      MSKLayers `json:"layers"`
	Label       MSKLabel  `json:"label"`
	RotationDeg float64   `json:"rotation_deg"`
	Confidence  float64   `json:"confidence"`
	Method      string    `json:"method,omitempty"`
}

type MSKLayers struct {
	SkinEnd float64 `json:"skin_end"`
	SubcEnd float64 `json:"subc_end"`
	FasciaY float64 `json:"fascia_y"`
}

type MSKLabel struct {
	MuscleOffset float64 `json:"muscle_offset"`
}

// Remap converts the overlay from crop-relative into original-image space.
// muscle_offset is a vertical length, so it only scales.
func (o MSKOverlay) Remap(crop ROI) MSKOverlay {
	out := o
	out.ROI = remapRect(o.ROI, crop)
	out.Layers = MSKLayers{
		SkinEnd: RemapY(o.Layers.SkinEnd, crop),
		SubcEnd: RemapY(o.Layers.SubcEnd, crop),
		FasciaY: RemapY(o.Layers.FasciaY, crop),
	}
	out.Label = MSKLabel{MuscleOffset: RemapH(o.Label.MuscleOffset, crop)}
	return out
}

// VascularOverlay is the vascular ultrasound overlay profile: a vessel
// ellipse (center plus radii) under a skin line.
type VascularOverlay struct {
	Profile    Profile        `json:"profile"`
	ROI        NormRect       `json:"roi"`
	Layers     VascularLayers `json:"layers"`
	Label      VascularLabel  `json:"label"`
	Confidence float64        `json:"confidence"`
	Method     string         `json:"method,omitempty"`
}

type VascularLayers struct {
	SkinEnd  float64 `json:"skin_end"`
	VesselCX float64 `json:"vessel_cx"`
	VesselCY float64 `json:"vessel_cy"`
	VesselRX float64 `json:"vessel_rx"`
	VesselRY float64 `json:"vessel_ry"`
}

type VascularLabel struct {
	Text string `json:"text"`
}

func (o VascularOverlay) Remap(crop ROI) VascularOverlay {
	out := o
	out.ROI = remapRect(o.ROI, crop)
	out.Layers = VascularLayers{
		SkinEnd:  RemapY(o.Layers.SkinEnd, crop),
		VesselCX: RemapX(o.Layers.VesselCX, crop),
		VesselCY: RemapY(o.Layers.VesselCY, crop),
		VesselRX: RemapW(o.Layers.VesselRX, crop),
		VesselRY: RemapH(o.Layers.VesselRY, crop),
	}
	return out
}

// Raw payloads from the vision service are decoded defensively: any missing
// or malformed field keeps its profile default instead of failing the whole
// overlay. The intermediate pointer structs below distinguish "absent" from
// zero.

type rawRect struct {
	X0 *float64 `json:"x0"`
	Y0 *float64 `json:"y0"`
	X1 *float64 `json:"x1"`
	Y1 *float64 `json:"y1"`
}

type rawMSK struct {
	ROI    *rawRect `json:"roi"`
	Layers *struct {
		SkinEnd *float64 `json:"skin_end"`
		SubcEnd *float64 `json:"subc_end"`
		FasciaY *float64 `json:"fascia_y"`
	} `json:"layers"`
	Label *struct {
		MuscleOffset *float64 `json:"muscle_offset"`
	} `json:"label"`
	RotationDeg *float64 `json:"rotation_deg"`
	Confidence  *float64 `json:"confidence"`
}

type rawVascular struct {
	ROI    *rawRect `json:"roi"`
	Layers *struct {
		SkinEnd  *float64 `json:"skin_end"`
		VesselCX *float64 `json:"vessel_cx"`
		VesselCY *float64 `json:"vessel_cy"`
		VesselRX *float64 `json:"vessel_rx"`
		VesselRY *float64 `json:"vessel_ry"`
	} `json:"layers"`
	Label *struct {
		Text *string `json:"text"`
	} `json:"label"`
	Confidence *float64 `json:"confidence"`
}

// DefaultMSKOverlay mirrors the vision prompt's fallback geometry.
func DefaultMSKOverlay() MSKOverlay {
	return MSKOverlay{
		ROI:        NormRect{X0: 0.10, Y0: 0.10, X1: 0.95, Y1: 0.84},
		Layers:     MSKLayers{SkinEnd: 0.06, SubcEnd: 0.22, FasciaY: 0.30},
		Label:      MSKLabel{MuscleOffset: 1.6},
		Confidence: 0,
	}
}

func DefaultVascularOverlay() VascularOverlay {
	return VascularOverlay{
		Profile:    ProfileVascular,
		ROI:        NormRect{X0: 0.10, Y0: 0.10, X1: 0.95, Y1: 0.85},
		Layers:     VascularLayers{SkinEnd: 0.06, VesselCX: 0.5, VesselCY: 0.5, VesselRX: 0.10, VesselRY: 0.08},
		Label:      VascularLabel{Text: "Vessel (orientative)"},
		Confidence: 0,
	}
}

// DecodeMSKOverlay parses a raw vision payload into an MSKOverlay. A payload
// that does not parse at all returns the full default with confidence 0.
func DecodeMSKOverlay(raw []byte) MSKOverlay {
	out := DefaultMSKOverlay()
	var in rawMSK
	if err := json.Unmarshal(raw, &in); err != nil {
		return out
	}
	if in.ROI != nil {
		out.ROI = NormRect{
			X0: clamp01Or(in.ROI.X0, out.ROI.X0),
			Y0: clamp01Or(in.ROI.Y0, out.ROI.Y0),
			X1: clamp01Or(in.ROI.X1, out.ROI.X1),
			Y1: clamp01Or(in.ROI.Y1, out.ROI.Y1),
		}
	}
	if in.Layers != nil {
		out.Layers = MSKLayers{
			SkinEnd: clamp01Or(in.Layers.SkinEnd, out.Layers.SkinEnd),
			SubcEnd: clamp01Or(in.Layers.SubcEnd, out.Layers.SubcEnd),
			FasciaY: clamp01Or(in.Layers.FasciaY, out.Layers.FasciaY),
		}
	}
	if in.Label != nil && in.Label.MuscleOffset != nil {
		out.Label.MuscleOffset = *in.Label.MuscleOffset
	}
	if in.RotationDeg != nil {
		out.RotationDeg = *in.RotationDeg
	}
	if in.Confidence != nil {
		out.Confidence = clamp01(*in.Confidence)
	}

	// Keep the rectangle well ordered and the layers monotone; the drawing
	// side assumes skin < subcutaneous < fascia.
	if out.ROI.X1 <= out.ROI.X0 {
		out.ROI.X1 = minF(1, out.ROI.X0+0.85)
	}
	if out.ROI.Y1 <= out.ROI.Y0 {
		out.ROI.Y1 = minF(1, out.ROI.Y0+0.74)
	}
	if out.Layers.SubcEnd < out.Layers.SkinEnd {
		out.Layers.SubcEnd = minF(1, out.Layers.SkinEnd+0.10)
	}
	if out.Layers.FasciaY < out.Layers.SubcEnd {
		out.Layers.FasciaY = minF(1, out.Layers.SubcEnd+0.08)
	}
	return out
}

// DecodeVascularOverlay parses a raw vision payload into a VascularOverlay
// with per-field defaults. Radii get a floor so the ellipse stays drawable.
func DecodeVascularOverlay(raw []byte) VascularOverlay {
	out := DefaultVascularOverlay()
	var in rawVascular
	if err := json.Unmarshal(raw, &in); err != nil {
		return out
	}
	if in.ROI != nil {
		out.ROI = NormRect{
			X0: clamp01Or(in.ROI.X0, out.ROI.X0),
			Y0: clamp01Or(in.ROI.Y0, out.ROI.Y0),
			X1: clamp01Or(in.ROI.X1, out.ROI.X1),
			Y1: clamp01Or(in.ROI.Y1, out.ROI.Y1),
		}
	}
	if in.Layers != nil {
		out.Layers = VascularLayers{
			SkinEnd:  clamp01Or(in.Layers.SkinEnd, out.Layers.SkinEnd),
			VesselCX: clamp01Or(in.Layers.VesselCX, out.Layers.VesselCX),
			VesselCY: clamp01Or(in.Layers.VesselCY, out.Layers.VesselCY),
			VesselRX: clampOr(in.Layers.VesselRX, 0.02, 0.5, out.Layers.VesselRX),
			VesselRY: clampOr(in.Layers.VesselRY, 0.02, 0.5, out.Layers.VesselRY),
		}
	}
	if in.Label != nil && in.Label.Text != nil && *in.Label.Text != "" {
		out.Label.Text = *in.Label.Text
	}
	if in.Confidence != nil {
		out.Confidence = clamp01(*in.Confidence)
	}
	return out
}

func clamp01Or(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return clamp01(*p)
}

func clampOr(p *float64, lo, hi, def float64) float64 {
	if p == nil {
		return def
	}
	v := *p
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
