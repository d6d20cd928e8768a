package domain

import (
	"fmt"
	"strings"
)

// NodeKind identifies the variant of a node
type NodeKind string

const (
	KindSticky NodeKind = "sticky"
	KindShape  NodeKind = "shape"
	KindText   NodeKind = "text"
	KindGroup  NodeKind = "group"
)

// ParseNodeKind validates a node kind name
func ParseNodeKind(s string) (NodeKind, error) {
	switch k := NodeKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindSticky, KindShape, KindText, KindGroup:
		return k, nil
	case "textnode":
		return KindText, nil
	}
	return "", fmt.Errorf("unknown node kind %q (expected sticky, shape, text or group)", s)
}

// Default node extents per kind
var (
	StickySize    = Size{Width: 180, Height: 120}
	TextSize      = Size{Width: 220, Height: 56}
	GroupSize     = Size{Width: 400, Height: 300}
	RectangleSize = Size{Width: 160, Height: 120}
	RoundSize     = Size{Width: 120, Height: 120}
)

// ShapeSize returns the default extent of a shape node
func ShapeSize(k ShapeKind) Size {
	if k == ShapeRectangle {
		return RectangleSize
	}
	return RoundSize
}

// NodeData is the kind-specific payload of a node. The concrete type
// determines the node's kind.
type NodeData interface {
	Kind() NodeKind
	isNodeData()
}

// StickyData is the payload of a sticky note
type StickyData struct {
	Text string
}

// TextData is the payload of a free text block
type TextData struct {
	Text string
}

// ShapeData is the payload of a shape node
type ShapeData struct {
	Shape       ShapeKind
	Fill        string
	Stroke      string
	StrokeWidth float64
}

// GroupData is the (empty) payload of a frame
type GroupData struct{}

func (StickyData) Kind() NodeKind { return KindSticky }
func (TextData) Kind() NodeKind   { return KindText }
func (ShapeData) Kind() NodeKind  { return KindShape }
func (GroupData) Kind() NodeKind  { return KindGroup }

func (StickyData) isNodeData() {}
func (TextData) isNodeData()   {}
func (ShapeData) isNodeData()  {}
func (GroupData) isNodeData()  {}

// Node is a placeable diagram entity. When ParentID is set, Position is
// relative to the parent group's origin.
type Node struct {
	ID       string
	Position Point
	Size     Size
	Data     NodeData
	ParentID string
	Selected bool
}

// Kind returns the node's variant
func (n Node) Kind() NodeKind {
	if n.Data == nil {
		return ""
	}
	return n.Data.Kind()
}

// IsGroup reports whether the node is a frame
func (n Node) IsGroup() bool {
	return n.Kind() == KindGroup
}

// Text returns the editable text of sticky and text nodes
func (n Node) Text() (string, bool) {
	switch d := n.Data.(type) {
	case StickyData:
		return d.Text, true
	case TextData:
		return d.Text, true
	}
	return "", false
}

// Label returns a short human readable description
func (n Node) Label() string {
	switch d := n.Data.(type) {
	case StickyData:
		return d.Text
	case TextData:
		return d.Text
	case ShapeData:
		return string(d.Shape)
	case GroupData:
		return "frame"
	}
	return ""
}

// WithText returns a copy of n carrying text. ok is false when the node kind
// holds no text.
func (n Node) WithText(text string) (Node, bool) {
	switch n.Data.(type) {
	case StickyData:
		n.Data = StickyData{Text: text}
	case TextData:
		n.Data = TextData{Text: text}
	default:
		return n, false
	}
	return n, true
}
