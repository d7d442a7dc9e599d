package services

import (
  "testing"

  "github.com/clinvia/clinvia-backend/internal/roi"
)

func TestProfileForType(t *testing.T) {
  cases := []struct {
    imgType string
    want    roi.Profile
  }{
    {"eco-doppler", roi.ProfileVascular},
    {"Doppler carotideo", roi.ProfileVascular},
    {"vascular", roi.ProfileVascular},
    {"eco musculoesqueletica", roi.ProfileMSK},
    {"RM", roi.ProfileMSK},
    {"", roi.ProfileMSK},
  }
  for _, tc := range cases {
    t.Run(tc.imgType, func(t *testing.T) {
      if got := profileForType(tc.imgType); got != tc.want {
        t.Fatalf("profileForType(%q) = %q, want %q", tc.imgType, got, tc.want)
      }
    })
  }
}

func TestBuildOverlayFallsBackOnEmptyGeometry(t *testing.T) {
  window := roi.ROI{X0: 0.1, Y0: 0.1, X1: 0.9, Y1: 0.9}

  got := buildOverlay(roi.ProfileMSK, nil, window, true)
  msk, ok := got.(roi.MSKOverlay)
  if !ok {
    t.Fatalf("expected MSKOverlay, got %T", got)
  }
  def := roi.DefaultMSKOverlay().Remap(window)
  if msk.Layers != def.Layers {
    t.Fatalf("expected remapped defaults, got %+v want %+v", msk.Layers, def.Layers)
  }

  got = buildOverlay(roi.ProfileVascular, nil, window, false)
  vasc, ok := got.(roi.VascularOverlay)
  if !ok {
    t.Fatalf("expected VascularOverlay, got %T", got)
  }
  if vasc.Layers != roi.DefaultVascularOverlay().Layers {
    t.Fatalf("uncropped fallback should be raw defaults, got %+v", vasc.Layers)
  }
}

func TestDecodePatterns(t *testing.T) {
  payload := []any{"hypoechoic area", "  ", 42, "cortical irregularity"}
  patterns := decodePatterns(payload)
  if len(patterns) != 2 {
    t.Fatalf("expected 2 patterns, got %d", len(patterns))
  }
  if patterns[0].PatternText != "hypoechoic area" || patterns[1].PatternText != "cortical irregularity" {
    t.Fatalf("patterns decoded wrong: %+v", patterns)
  }
}
