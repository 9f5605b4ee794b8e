package norms

// Line styles for chart reference lines
const (
	LineSolid  = "solid"
	LineDashed = "dashed"
	LineDotted = "dotted"
)

// Bar is one construct's position on the Z-score chart.
type Bar struct {
	Label   string  `json:"label"`
	Z       float64 `json:"z"`
	Band    string  `json:"band"`
	Fill    string  `json:"fill"`
	Outline string  `json:"outline"`
	// Width is the bar's share of its category slot, 0..1.
	Width float64 `json:"width"`
}

// RefLine is a horizontal reference line at a fixed Z value.
type RefLine struct {
	Z     float64 `json:"z"`
	Style string  `json:"style"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
	Label string  `json:"label,omitempty"`
}

// ChartPayload is everything a rendering surface needs to draw the Z-score
// bar chart: one bar per scored construct, horizontal reference lines at the
// mean and at whole standard deviations from it, the y-axis window, and the
// cohort annotations.
type ChartPayload struct {
	Bars        []Bar     `json:"bars"`
	RefLines    []RefLine `json:"ref_lines"`
	YMin        float64   `json:"y_min"`
	YMax        float64   `json:"y_max"`
	TickStep    float64   `json:"tick_step"`
	Annotations []string  `json:"annotations"`
}
