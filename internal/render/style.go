package render

import "math"

// plateStyle is how one denomination is drawn.
type plateStyle struct {
	Height float64 // px, SVG
	Width  float64 // px, SVG
	Fill   string
	Ink    string
}

// IWF colors for the standard set; change plates reuse the colors of their
// big counterparts at a smaller size.
var plateStyles = map[float64]plateStyle{
	25:  {180, 22, "#d32f2f", "#ffffff"},
	20:  {180, 18, "#1565c0", "#ffffff"},
	15:  {160, 16, "#f9a825", "#000000"},
	10:  {140, 14, "#2e7d32", "#ffffff"},
	5:   {100, 12, "#f5f5f5", "#000000"},
	2.5: {80, 10, "#d32f2f", "#ffffff"},
	2:   {75, 9, "#1565c0", "#ffffff"},
	1.5: {70, 8, "#f9a825", "#000000"},
	1:   {65, 7, "#2e7d32", "#ffffff"},
	0.5: {60, 6, "#f5f5f5", "#000000"},
}

func styleFor(kg float64) plateStyle {
	if s, ok := plateStyles[kg]; ok {
		return s
	}
	return plateStyle{
		Height: math.Min(180, 50+5*kg),
		Width:  math.Min(22, 6+0.6*kg),
		Fill:   "#757575",
		Ink:    "#ffffff",
	}
}
