// Package render draws a loaded barbell as SVG for the web page and as
// colored text for the terminal.
package render

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/meltforce/barload/internal/plates"
)

// SVG canvas geometry, in px.
const (
	svgWidth     = 640
	svgHeight    = 240
	midY         = 130
	sleeveLen    = 160
	shaftStart   = 200
	shaftEnd     = 440
	stopWidth    = 8
	collarWidth  = 10
	collarHeight = 36
)

// SVG draws res as a side view of the bar, plates mirrored on both sleeves,
// heaviest innermost. A nil res draws the empty bar with caption in red,
// which is how errors are shown. An empty caption is filled from res.
func SVG(res *plates.Result, caption string) string {
	if caption == "" && res != nil {
		caption = Caption(res)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d" role="img">`,
		svgWidth, svgHeight, svgWidth, svgHeight)
	fmt.Fprintf(&b, `<title>%s</title>`, html.EscapeString(caption))

	captionFill := "#212121"
	if res == nil {
		captionFill = "#c62828"
	}
	fmt.Fprintf(&b, `<text x="%d" y="22" text-anchor="middle" font-family="sans-serif" font-size="15" fill="%s">%s</text>`,
		svgWidth/2, captionFill, html.EscapeString(caption))

	// Sleeves, shaft and the bar's fixed stops.
	rect(&b, shaftStart-sleeveLen, midY-7, sleeveLen, 14, "#9e9e9e", "")
	rect(&b, shaftEnd, midY-7, sleeveLen, 14, "#9e9e9e", "")
	rect(&b, shaftStart, midY-4, shaftEnd-shaftStart, 8, "#616161", "")
	rect(&b, shaftStart-stopWidth/2, midY-20, stopWidth, 40, "#424242", "")
	rect(&b, shaftEnd-stopWidth/2, midY-20, stopWidth, 40, "#424242", "")

	if res != nil {
		drawLoad(&b, res)
	}

	b.WriteString(`</svg>`)
	return b.String()
}

func drawLoad(b *strings.Builder, res *plates.Result) {
	total := 0.0
	for _, p := range res.PerSide {
		total += styleFor(p).Width
	}
	if res.Collar {
		total += collarWidth
	}
	// Shrink everything when a heavy load would run off the sleeve.
	scale := 1.0
	if room := float64(sleeveLen - stopWidth); total > room {
		scale = room / total
	}

	right := float64(shaftEnd + stopWidth/2)
	left := float64(shaftStart - stopWidth/2)
	for _, p := range res.PerSide {
		st := styleFor(p)
		w := st.Width * scale
		tip := label(p) + " kg"
		rect(b, right, midY-st.Height/2, w, st.Height, st.Fill, tip)
		rect(b, left-w, midY-st.Height/2, w, st.Height, st.Fill, tip)
		right += w
		left -= w
	}

	if res.Collar {
		w := collarWidth * scale
		tip := "collar " + label(res.CollarPerSide) + " kg"
		rect(b, right, midY-collarHeight/2, w, collarHeight, "#424242", tip)
		rect(b, left-w, midY-collarHeight/2, w, collarHeight, "#424242", tip)
	}
}

func rect(b *strings.Builder, x, y, w, h float64, fill, tip string) {
	fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s" rx="2" fill="%s" stroke="#212121" stroke-width="1">`,
		num(x), num(y), num(w), num(h), fill)
	if tip != "" {
		fmt.Fprintf(b, `<title>%s</title>`, html.EscapeString(tip))
	}
	b.WriteString(`</rect>`)
}

// Caption describes the load in one line, e.g.
// "100 kg = 20 kg bar + 2 × (25 + 10 + 2.5) + 2 × 2.5 kg collars".
func Caption(res *plates.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s kg = %s kg bar", label(res.TargetKg), label(res.Barbell.WeightKg))
	if len(res.PerSide) > 0 {
		parts := make([]string, len(res.PerSide))
		for i, p := range res.PerSide {
			parts[i] = label(p)
		}
		fmt.Fprintf(&b, " + 2 × (%s)", strings.Join(parts, " + "))
	}
	if res.Collar {
		fmt.Fprintf(&b, " + 2 × %s kg collars", label(res.CollarPerSide))
	}
	return b.String()
}

func label(kg float64) string { return plates.FormatKg(kg) }

func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}
