package services

import (
  "testing"
)

func fp(v float64) *float64 { return &v }

func TestMarkerStatus(t *testing.T) {
  cases := []struct {
    name   string
    value  *float64
    refMin *float64
    refMax *float64
    want   string
  }{
    {"below range", fp(10.5), fp(12.0), fp(16.0), MarkerStatusLow},
    {"at lower bound", fp(12.0), fp(12.0), fp(16.0), MarkerStatusNormal},
    {"inside range", fp(13.8), fp(12.0), fp(16.0), MarkerStatusNormal},
    {"at upper bound", fp(16.0), fp(12.0), fp(16.0), MarkerStatusNormal},
    {"above range", fp(16.1), fp(12.0), fp(16.0), MarkerStatusHigh},
    {"no value", nil, fp(12.0), fp(16.0), ""},
    {"no ref min", fp(13.8), nil, fp(16.0), ""},
    {"no ref max", fp(13.8), fp(12.0), nil, ""},
  }
  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      got := MarkerStatus(tc.value, tc.refMin, tc.refMax)
      if got != tc.want {
        t.Fatalf("MarkerStatus = %q, want %q", got, tc.want)
      }
    })
  }
}

func TestMarkerRange(t *testing.T) {
  if got := MarkerRange(fp(12), fp(16), "g/dL"); got != "12–16 g/dL" {
    t.Fatalf("range with unit = %q", got)
  }
  if got := MarkerRange(fp(0.5), fp(4.5), ""); got != "0.5–4.5" {
    t.Fatalf("range without unit = %q", got)
  }
  if got := MarkerRange(nil, fp(16), "g/dL"); got != "" {
    t.Fatalf("incomplete range should be empty, got %q", got)
  }
}

func TestDecodeMarkers(t *testing.T) {
  payload := []any{
    map[string]any{"name": "Hemoglobin", "value": 13.8, "unit": "g/dL", "ref_min": 12.0, "ref_max": 16.0},
    map[string]any{"name": "TSH", "value": "2.1 mUI/L", "unit": "mUI/L", "ref_min": nil, "ref_max": nil},
    map[string]any{"name": "  ", "value": 1.0},
    map[string]any{"name": "Glucose", "value": "pending"},
    "not a marker",
  }

  markers := decodeMarkers(payload)
  if len(markers) != 3 {
    t.Fatalf("expected 3 markers, got %d", len(markers))
  }

  if markers[0].Name != "Hemoglobin" || markers[0].Value == nil || *markers[0].Value != 13.8 {
    t.Fatalf("hemoglobin decoded wrong: %+v", markers[0])
  }
  if markers[0].RefMin == nil || *markers[0].RefMin != 12.0 {
    t.Fatalf("hemoglobin ref_min decoded wrong: %+v", markers[0])
  }

  // numeric value extracted out of "2.1 mUI/L"
  if markers[1].Value == nil || *markers[1].Value != 2.1 {
    t.Fatalf("tsh string value not extracted: %+v", markers[1])
  }

  // "pending" has no number; marker kept with nil value
  if markers[2].Name != "Glucose" || markers[2].Value != nil {
    t.Fatalf("glucose should keep nil value: %+v", markers[2])
  }
}

func TestDecodeMarkersNonArray(t *testing.T) {
  if got := decodeMarkers("garbage"); got != nil {
    t.Fatalf("expected nil for non-array payload, got %v", got)
  }
  if got := decodeMarkers(nil); got != nil {
    t.Fatalf("expected nil for nil payload, got %v", got)
  }
}
