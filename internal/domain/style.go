package domain

import (
	"fmt"
	"strings"
)

// ShapeKind is the geometry painted by a shape node
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
	ShapeDiamond   ShapeKind = "diamond"
)

// ShapeKinds lists shape geometries in generation order
var ShapeKinds = []ShapeKind{ShapeRectangle, ShapeCircle, ShapeDiamond}

// ParseShapeKind validates a shape kind name
func ParseShapeKind(s string) (ShapeKind, error) {
	switch k := ShapeKind(strings.ToLower(strings.TrimSpace(s))); k {
	case ShapeRectangle, ShapeCircle, ShapeDiamond:
		return k, nil
	}
	return "", fmt.Errorf("unknown shape kind %q (expected rectangle, circle or diamond)", s)
}

// RoutingType is the path an edge takes between its endpoints
type RoutingType string

const (
	RoutingStraight RoutingType = "straight"
	RoutingStep     RoutingType = "step"
	RoutingCurved   RoutingType = "curved"
)

// ParseRoutingType validates a routing type name. "smoothstep" is accepted as
// an alias of curved.
func ParseRoutingType(s string) (RoutingType, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case string(RoutingStraight), string(RoutingStep), string(RoutingCurved):
		return RoutingType(v), nil
	case "smoothstep":
		return RoutingCurved, nil
	}
	return "", fmt.Errorf("unknown routing type %q (expected straight, step or curved)", s)
}

// ShapeDefaults is the style copied into newly created shape nodes
type ShapeDefaults struct {
	Shape       ShapeKind `json:"kind" toml:"kind" validate:"oneof=rectangle circle diamond"`
	Fill        string    `json:"fill" toml:"fill" validate:"hexcolor"`
	Stroke      string    `json:"stroke" toml:"stroke" validate:"hexcolor"`
	StrokeWidth float64   `json:"strokeWidth" toml:"stroke_width" validate:"min=1,max=8"`
}

// EdgeDefaults is the style copied into newly created edges
type EdgeDefaults struct {
	Routing RoutingType `json:"type" toml:"type" validate:"oneof=straight step curved"`
	Dashed  bool        `json:"dashed" toml:"dashed"`
	Arrowed bool        `json:"arrow" toml:"arrow"`
	Label   string      `json:"label" toml:"label" validate:"max=200"`
}

// UIPreferences are presentation toggles persisted with the board
type UIPreferences struct {
	ShowResizeHandles     bool `json:"showResizers" toml:"show_resizers"`
	AllowNonUniformResize bool `json:"allowStretch" toml:"allow_stretch"`
}

// DefaultShapeDefaults returns the factory shape style
func DefaultShapeDefaults() ShapeDefaults {
	return ShapeDefaults{
		Shape:       ShapeRectangle,
		Fill:        "#bfdbfe",
		Stroke:      "#1e3a8a",
		StrokeWidth: 2,
	}
}

// DefaultEdgeDefaults returns the factory edge style
func DefaultEdgeDefaults() EdgeDefaults {
	return EdgeDefaults{
		Routing: RoutingStraight,
		Arrowed: true,
	}
}

// DefaultUIPreferences returns the factory presentation toggles
func DefaultUIPreferences() UIPreferences {
	return UIPreferences{ShowResizeHandles: true}
}
