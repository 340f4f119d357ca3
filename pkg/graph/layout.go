package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Positioned Visualization Format
// =============================================================================

// Layout is the serialization format for a computed layout.
//
// It carries everything a renderer needs: positioned boxes, the connecting
// edges, the bounding frame, and the spacing configuration the layout was
// computed with (for reproducible re-rendering).
type Layout struct {
	// Frame dimensions (bounding box of all boxes)
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Style  string  `json:"style,omitempty" bson:"style,omitempty"`

	// Spacing configuration the positions were computed with
	NodeWidth       float64 `json:"node_width,omitempty" bson:"node_width,omitempty"`
	NodeHeight      float64 `json:"node_height,omitempty" bson:"node_height,omitempty"`
	HorizontalGap   float64 `json:"horizontal_gap,omitempty" bson:"horizontal_gap,omitempty"`
	VerticalSpacing float64 `json:"vertical_spacing,omitempty" bson:"vertical_spacing,omitempty"`

	// Positioned content
	Boxes []Box  `json:"boxes" bson:"boxes"`
	Edges []Edge `json:"edges,omitempty" bson:"edges,omitempty"`
}

// Box represents one positioned node, suitable for direct rendering as a
// visual box. X/Y are the top-left corner in layout units.
type Box struct {
	ID         string  `json:"id" bson:"id"`
	Label      string  `json:"label" bson:"label"`
	Kind       string  `json:"kind" bson:"kind"`
	ChildCount int     `json:"child_count,omitempty" bson:"child_count,omitempty"`
	X          float64 `json:"x" bson:"x"`
	Y          float64 `json:"y" bson:"y"`
	Width      float64 `json:"width" bson:"width"`
	Height     float64 `json:"height" bson:"height"`
}

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() float64 { return b.X + b.Width/2 }

// CenterY returns the vertical center of the box.
func (b Box) CenterY() float64 { return b.Y + b.Height/2 }

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that the layout contains boxes.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if len(l.Boxes) == 0 {
		return Layout{}, fmt.Errorf("layout must contain boxes")
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
