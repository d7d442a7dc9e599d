package roi

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRemapMidpointInvariance(t *testing.T) {
	crop := ROI{X0: 0.2, Y0: 0.2, X1: 0.8, Y1: 0.8}
	if got := RemapX(0.5, crop); !almostEqual(got, 0.5) {
		t.Fatalf("RemapX(0.5)=%v, want 0.5", got)
	}
	if got := RemapY(0.5, crop); !almostEqual(got, 0.5) {
		t.Fatalf("RemapY(0.5)=%v, want 0.5", got)
	}
}

func TestRemapLengthScalesWithoutTranslation(t *testing.T) {
	crop := ROI{X0: 0.2, Y0: 0.2, X1: 0.8, Y1: 0.8}
	if got := RemapW(0.5, crop); !almostEqual(got, 0.3) {
		t.Fatalf("RemapW(0.5)=%v, want 0.3", got)
	}
	if got := RemapH(0.5, crop); !almostEqual(got, 0.3) {
		t.Fatalf("RemapH(0.5)=%v, want 0.3", got)
	}
}

func TestRemapCorners(t *testing.T) {
	crop := ROI{X0: 0.1, Y0: 0.3, X1: 0.9, Y1: 0.7}
	if got := RemapX(0, crop); !almostEqual(got, 0.1) {
		t.Fatalf("RemapX(0)=%v, want crop origin 0.1", got)
	}
	if got := RemapX(1, crop); !almostEqual(got, 0.9) {
		t.Fatalf("RemapX(1)=%v, want crop end 0.9", got)
	}
	if got := RemapY(1, crop); !almostEqual(got, 0.7) {
		t.Fatalf("RemapY(1)=%v, want crop end 0.7", got)
	}
}

func TestMSKOverlayRemap(t *testing.T) {
	crop := ROI{X0: 0.2, Y0: 0.2, X1: 0.8, Y1: 0.8}
	o := MSKOverlay{
		ROI:    NormRect{X0: 0, Y0: 0, X1: 1, Y1: 1},
		Layers: MSKLayers{SkinEnd: 0.1, SubcEnd: 0.25, FasciaY: 0.5},
		Label:  MSKLabel{MuscleOffset: 1.0},
	}
	got := o.Remap(crop)
	if !almostEqual(got.ROI.X0, 0.2) || !almostEqual(got.ROI.X1, 0.8) {
		t.Fatalf("roi=%+v, want mapped onto crop window", got.ROI)
	}
	if !almostEqual(got.Layers.FasciaY, 0.5) {
		t.Fatalf("fascia_y=%v, want 0.5 (midpoint invariance)", got.Layers.FasciaY)
	}
	if !almostEqual(got.Layers.SkinEnd, 0.26) {
		t.Fatalf("skin_end=%v, want 0.26", got.Layers.SkinEnd)
	}
	if !almostEqual(got.Label.MuscleOffset, 0.6) {
		t.Fatalf("muscle_offset=%v, want 0.6 (length, scale only)", got.Label.MuscleOffset)
	}
}

func TestVascularOverlayRemap(t *testing.T) {
	crop := ROI{X0: 0.2, Y0: 0.2, X1: 0.8, Y1: 0.8}
	o := DefaultVascularOverlay()
	o.Layers.VesselCX = 0.5
	o.Layers.VesselCY = 0.5
	o.Layers.VesselRX = 0.2
	o.Layers.VesselRY = 0.1
	got := o.Remap(crop)
	if !almostEqual(got.Layers.VesselCX, 0.5) || !almostEqual(got.Layers.VesselCY, 0.5) {
		t.Fatalf("vessel center=(%v,%v), want (0.5,0.5)", got.Layers.VesselCX, got.Layers.VesselCY)
	}
	if !almostEqual(got.Layers.VesselRX, 0.12) || !almostEqual(got.Layers.VesselRY, 0.06) {
		t.Fatalf("vessel radii=(%v,%v), want (0.12,0.06)", got.Layers.VesselRX, got.Layers.VesselRY)
	}
}

func TestDecodeMSKOverlayDefaults(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{name: "garbage", raw: "not json"},
		{name: "empty_object", raw: "{}"},
		{name: "partial", raw: `{"layers":{"skin_end":0.12}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DecodeMSKOverlay([]byte(tc.raw))
			if got.ROI.X1 <= got.ROI.X0 || got.ROI.Y1 <= got.ROI.Y0 {
				t.Fatalf("degenerate roi: %+v", got.ROI)
			}
			if got.Layers.SubcEnd < got.Layers.SkinEnd || got.Layers.FasciaY < got.Layers.SubcEnd {
				t.Fatalf("layers not monotone: %+v", got.Layers)
			}
			if got.Label.MuscleOffset == 0 {
				t.Fatalf("muscle_offset=0, want default retained")
			}
		})
	}

	partial := DecodeMSKOverlay([]byte(`{"layers":{"skin_end":0.12}}`))
	if !almostEqual(partial.Layers.SkinEnd, 0.12) {
		t.Fatalf("skin_end=%v, want supplied 0.12", partial.Layers.SkinEnd)
	}
	if !almostEqual(partial.Layers.SubcEnd, 0.22) {
		t.Fatalf("subc_end=%v, want default 0.22", partial.Layers.SubcEnd)
	}
}

func TestDecodeMSKOverlayClampsAndOrders(t *testing.T) {
	got := DecodeMSKOverlay([]byte(`{"roi":{"x0":0.9,"y0":0.1,"x1":0.2,"y1":1.8},"confidence":3}`))
	if got.ROI.X1 <= got.ROI.X0 {
		t.Fatalf("x ordering not repaired: %+v", got.ROI)
	}
	if got.Confidence != 1 {
		t.Fatalf("confidence=%v, want clamped to 1", got.Confidence)
	}
}

func TestDecodeVascularOverlayRadiusFloor(t *testing.T) {
	got := DecodeVascularOverlay([]byte(`{"layers":{"vessel_rx":0.001,"vessel_ry":0.9}}`))
	if !almostEqual(got.Layers.VesselRX, 0.02) {
		t.Fatalf("vessel_rx=%v, want floored to 0.02", got.Layers.VesselRX)
	}
	if !almostEqual(got.Layers.VesselRY, 0.5) {
		t.Fatalf("vessel_ry=%v, want capped at 0.5", got.Layers.VesselRY)
	}
	if got.Label.Text == "" {
		t.Fatal("label text default lost")
	}
}

func TestDecodeVascularOverlayGarbage(t *testing.T) {
	got := DecodeVascularOverlay([]byte("]["))
	def := DefaultVascularOverlay()
	if got != def {
		t.Fatalf("got=%+v, want defaults %+v", got, def)
	}
}
