package units

import (
	"math"
	"testing"
)

func TestSiriusDistance(t *testing.T) {
	pc := ParallaxToParsec(379.21)
	if math.Abs(pc-2.6371) > 1e-4 {
		t.Errorf("distance = %v pc, want ≈2.6371", pc)
	}

	ly := AUToLy(ParsecToAU(pc))
	if math.Abs(ly-8.60) > 0.01 {
		t.Errorf("distance = %v ly, want 8.60±0.01", ly)
	}
}

func TestVelocityRoundTrip(t *testing.T) {
	for _, v := range []float64{-7.6, 0, 1, 29.78, 1000} {
		got := AUPerYearToKmS(KmSToAUPerYear(v))
		if math.Abs(got-v) > 1e-9*math.Max(1, math.Abs(v)) {
			t.Errorf("round trip of %v km/s = %v", v, got)
		}
	}
}

func TestAngleConversion(t *testing.T) {
	if got := RadToDeg(DegToRad(123.456)); math.Abs(got-123.456) > 1e-12 {
		t.Errorf("deg round trip = %v", got)
	}
	// 1 mas/yr over 3.6e6 years is one degree
	if got := RadToDeg(MasToRad * 3.6e6); math.Abs(got-1) > 1e-12 {
		t.Errorf("MasToRad scale = %v deg", got)
	}
}
