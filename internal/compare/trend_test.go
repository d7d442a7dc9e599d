package compare

import "testing"

func fp(v float64) *float64 { return &v }

func TestTrendSymbol(t *testing.T) {
	cases := []struct {
		name     string
		baseline *float64
		past     *float64
		want     string // "" means nil result
	}{
		{name: "equal_values", baseline: fp(100), past: fp(100), want: "="},
		{name: "clear_increase", baseline: fp(110), past: fp(100), want: "↑"},
		{name: "clear_decrease", baseline: fp(90), past: fp(100), want: "↓"},
		{name: "just_under_5pct", baseline: fp(104.9), past: fp(100), want: "="},
		{name: "just_over_5pct", baseline: fp(105.1), past: fp(100), want: "↑"},
		{name: "just_under_5pct_down", baseline: fp(95.1), past: fp(100), want: "="},
		{name: "just_over_5pct_down", baseline: fp(94.9), past: fp(100), want: "↓"},
		{name: "zero_denominator_equal", baseline: fp(0), past: fp(0), want: "="},
		{name: "zero_denominator_up", baseline: fp(100), past: fp(0), want: "↑"},
		{name: "zero_denominator_down", baseline: fp(-3), past: fp(0), want: "↓"},
		{name: "zero_denominator_tiny_diff", baseline: fp(1e-10), past: fp(0), want: "="},
		{name: "negative_past_scales_by_abs", baseline: fp(-110), past: fp(-100), want: "↓"},
		{name: "baseline_missing", baseline: nil, past: fp(100), want: ""},
		{name: "past_missing", baseline: fp(100), past: nil, want: ""},
		{name: "both_missing", baseline: nil, past: nil, want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TrendSymbol(tc.baseline, tc.past)
			if tc.want == "" {
				if got != nil {
					t.Fatalf("TrendSymbol=%q, want nil", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("TrendSymbol=nil, want %q", tc.want)
			}
			if *got != tc.want {
				t.Fatalf("TrendSymbol=%q, want %q", *got, tc.want)
			}
		})
	}
}
