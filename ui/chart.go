package ui

import (
	"fmt"
	"math"
	"strconv"

	"normscope/domain/norms"
)

// Chart canvas geometry in SVG user units. The bottom margin leaves room for
// construct labels and the cohort annotations.
const (
	chartWidth  = 720.0
	chartHeight = 420.0
	chartLeft   = 56.0
	chartRight  = 16.0
	chartTop    = 16.0
	chartBottom = 88.0
)

type chartBar struct {
	X, Y, W, H float64
	Fill       string
	Outline    string
	Label      string
	LabelX     float64
	LabelY     float64
	ZText      string
	ZX, ZY     float64
	Band       string
}

type chartLine struct {
	X1, Y1, X2, Y2 float64
	Color          string
	Width          float64
	// Dash is the SVG stroke-dasharray; empty renders solid.
	Dash   string
	Label  string
	LabelX float64
	LabelY float64
}

type chartTick struct {
	X1, X2 float64
	Y      float64
	LabelX float64
	Label  string
}

type chartText struct {
	X, Y float64
	Text string
}

// chartView is the pixel-space rendering model for templates: every
// coordinate is precomputed here so the SVG template stays arithmetic-free.
type chartView struct {
	Width, Height      float64
	PlotX, PlotY       float64
	PlotW, PlotH       float64
	AxisBottom, LabelY float64
	Bars               []chartBar
	Lines              []chartLine
	Ticks              []chartTick
	Annotations        []chartText
}

func buildChartView(p norms.ChartPayload) chartView {
	v := chartView{
		Width:  chartWidth,
		Height: chartHeight,
		PlotX:  chartLeft,
		PlotY:  chartTop,
		PlotW:  chartWidth - chartLeft - chartRight,
		PlotH:  chartHeight - chartTop - chartBottom,
	}
	v.AxisBottom = v.PlotY + v.PlotH
	v.LabelY = v.AxisBottom + 18

	span := p.YMax - p.YMin
	if span <= 0 {
		span = 1
	}
	y := func(z float64) float64 {
		return v.PlotY + (p.YMax-z)/span*v.PlotH
	}

	step := p.TickStep
	if step <= 0 {
		step = 1
	}
	for t := math.Ceil(p.YMin); t <= p.YMax+1e-9; t += step {
		v.Ticks = append(v.Ticks, chartTick{
			X1:     v.PlotX - 5,
			X2:     v.PlotX,
			Y:      y(t),
			LabelX: v.PlotX - 9,
			Label:  strconv.FormatFloat(t, 'g', -1, 64),
		})
	}

	for _, l := range p.RefLines {
		line := chartLine{
			X1:     v.PlotX,
			Y1:     y(l.Z),
			X2:     v.PlotX + v.PlotW,
			Y2:     y(l.Z),
			Color:  l.Color,
			Width:  l.Width,
			Label:  l.Label,
			LabelX: v.PlotX + v.PlotW - 4,
			LabelY: y(l.Z) - 4,
		}
		switch l.Style {
		case norms.LineDashed:
			line.Dash = "8,4"
		case norms.LineDotted:
			line.Dash = "2,4"
		}
		v.Lines = append(v.Lines, line)
	}

	if n := len(p.Bars); n > 0 {
		slot := v.PlotW / float64(n)
		zero := y(0)
		for i, b := range p.Bars {
			barW := slot * b.Width
			x := v.PlotX + float64(i)*slot + (slot-barW)/2
			top := math.Min(zero, y(b.Z))
			h := math.Abs(y(b.Z) - zero)
			if h < 1 {
				h = 1
			}
			bar := chartBar{
				X:       x,
				Y:       top,
				W:       barW,
				H:       h,
				Fill:    b.Fill,
				Outline: b.Outline,
				Label:   b.Label,
				LabelX:  x + barW/2,
				LabelY:  v.LabelY,
				ZText:   fmt.Sprintf("%.2f", b.Z),
				ZX:      x + barW/2,
				Band:    b.Band,
			}
			if b.Z < 0 {
				bar.ZY = y(b.Z) + 14
			} else {
				bar.ZY = y(b.Z) - 5
			}
			v.Bars = append(v.Bars, bar)
		}
	}

	ay := v.AxisBottom + 40
	for i, s := range p.Annotations {
		v.Annotations = append(v.Annotations, chartText{
			X:    v.PlotX,
			Y:    ay + float64(i)*15,
			Text: s,
		})
	}

	return v
}
