package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/modelviz/modelviz/pkg/graph"
)

const (
	svgPadding  = 24.0
	svgFontSize = 13.0
	lineHeight  = 16.0
)

// kind fill colors for the simple style
var kindFill = map[string]string{
	graph.KindRoot:     "#4f6d8f",
	graph.KindField:    "#8fb0d1",
	graph.KindCategory: "#d1e0ee",
}

var kindTextColor = map[string]string{
	graph.KindRoot:     "#ffffff",
	graph.KindField:    "#1d2d3e",
	graph.KindCategory: "#1d2d3e",
}

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	showEdges bool
	fontSize  float64
	fills     map[string]string
}

// WithoutEdges omits the connecting lines between nodes.
func WithoutEdges() SVGOption { return func(r *svgRenderer) { r.showEdges = false } }

// WithFontSize overrides the label font size.
func WithFontSize(size float64) SVGOption { return func(r *svgRenderer) { r.fontSize = size } }

// WithFills overrides the per-kind fill colors.
func WithFills(fills map[string]string) SVGOption { return func(r *svgRenderer) { r.fills = fills } }

// SVG renders a positioned layout as a standalone SVG document.
// Boxes are drawn at their layout coordinates shifted into the positive
// quadrant, edges as straight connectors from parent bottom to child top.
func SVG(l graph.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{showEdges: true, fontSize: svgFontSize, fills: kindFill}
	for _, opt := range opts {
		opt(&r)
	}

	// Layout x-coordinates straddle 0; shift everything into view.
	offsetX, offsetY := svgPadding, svgPadding
	minX := 0.0
	for _, b := range l.Boxes {
		if b.X < minX {
			minX = b.X
		}
	}
	offsetX -= minX

	width := l.Width + 2*svgPadding
	height := l.Height + 2*svgPadding

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)

	centers := make(map[string]graph.Box, len(l.Boxes))
	for _, b := range l.Boxes {
		b.X += offsetX
		b.Y += offsetY
		centers[b.ID] = b
	}

	if r.showEdges {
		for _, e := range l.Edges {
			src, okS := centers[e.Source]
			dst, okT := centers[e.Target]
			if !okS || !okT {
				continue
			}
			fmt.Fprintf(&buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#9aa8b8" stroke-width="1.5"/>`+"\n",
				src.CenterX(), src.Y+src.Height, dst.CenterX(), dst.Y)
		}
	}

	for _, b := range l.Boxes {
		r.renderBox(&buf, centers[b.ID])
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderBox(buf *bytes.Buffer, b graph.Box) {
	fill := r.fills[b.Kind]
	if fill == "" {
		fill = "#ffffff"
	}
	fmt.Fprintf(buf, `  <rect id="node-%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill="%s" stroke="#3c4c5e" stroke-width="1"/>`+"\n",
		escape(b.ID), b.X, b.Y, b.Width, b.Height, fill)

	lines := strings.Split(b.Label, "\n")
	textColor := kindTextColor[b.Kind]
	if textColor == "" {
		textColor = "#1d2d3e"
	}
	// vertically center the label block within the box
	startY := b.CenterY() - float64(len(lines)-1)*lineHeight/2 + r.fontSize/3
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.0f" fill="%s" text-anchor="middle">`+"\n",
		b.CenterX(), startY, r.fontSize, textColor)
	for i, line := range lines {
		dy := 0.0
		if i > 0 {
			dy = lineHeight
		}
		fmt.Fprintf(buf, `    <tspan x="%.1f" dy="%.1f">%s</tspan>`+"\n", b.CenterX(), dy, escape(line))
	}
	buf.WriteString("  </text>\n")
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string { return escaper.Replace(s) }
