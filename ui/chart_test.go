package ui

import (
	"math"
	"testing"

	"normscope/domain/norms"
)

func TestBuildChartViewGeometry(t *testing.T) {
	payload := norms.ChartPayload{
		Bars: []norms.Bar{
			{Label: "PL", Z: -2, Band: "impaired", Fill: "#CC3333", Outline: "#000000", Width: 0.6},
			{Label: "AVG", Z: 0.5, Band: "average", Fill: "#CC3333", Outline: "#000000", Width: 0.6},
		},
		RefLines: []norms.RefLine{
			{Z: 0, Style: norms.LineSolid, Color: "#000000", Width: 0.5},
			{Z: -2, Style: norms.LineDashed, Color: "#0099FF", Width: 2},
		},
		YMin:        -5,
		YMax:        1,
		TickStep:    1,
		Annotations: []string{"N = 3"},
	}
	v := buildChartView(payload)

	if len(v.Ticks) != 7 {
		t.Fatalf("ticks = %d, want 7 for the [-5, 1] window", len(v.Ticks))
	}
	if v.Ticks[0].Label != "-5" || v.Ticks[6].Label != "1" {
		t.Errorf("tick labels = %q..%q, want -5..1", v.Ticks[0].Label, v.Ticks[6].Label)
	}
	// larger z sits higher on the canvas
	if v.Ticks[0].Y <= v.Ticks[6].Y {
		t.Error("tick for z=-5 should sit below tick for z=1")
	}

	if len(v.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(v.Lines))
	}
	if v.Lines[0].Dash != "" {
		t.Errorf("solid line got dasharray %q", v.Lines[0].Dash)
	}
	if v.Lines[1].Dash == "" {
		t.Error("dashed line lost its dasharray")
	}

	if len(v.Bars) != 2 {
		t.Fatalf("bars = %d, want 2", len(v.Bars))
	}
	// a negative bar hangs from the zero line
	zeroY := v.Lines[0].Y1
	if math.Abs(v.Bars[0].Y-zeroY) > 1e-9 {
		t.Errorf("negative bar top = %v, want the zero line %v", v.Bars[0].Y, zeroY)
	}
	// a positive bar ends at the zero line
	if math.Abs((v.Bars[1].Y+v.Bars[1].H)-zeroY) > 1e-9 {
		t.Errorf("positive bar bottom = %v, want the zero line %v", v.Bars[1].Y+v.Bars[1].H, zeroY)
	}

	slot := (chartWidth - chartLeft - chartRight) / 2
	if math.Abs(v.Bars[0].W-slot*0.6) > 1e-9 {
		t.Errorf("bar width = %v, want 0.6 of the %v slot", v.Bars[0].W, slot)
	}

	if len(v.Annotations) != 1 || v.Annotations[0].Text != "N = 3" {
		t.Errorf("annotations = %+v", v.Annotations)
	}
}

func TestBuildChartViewEmptyPayload(t *testing.T) {
	v := buildChartView(norms.ChartPayload{})
	if len(v.Bars) != 0 || len(v.Lines) != 0 {
		t.Errorf("empty payload produced bars=%d lines=%d", len(v.Bars), len(v.Lines))
	}
	if len(v.Ticks) != 1 {
		t.Errorf("degenerate window should still produce the zero tick, got %d", len(v.Ticks))
	}
}
