package application

import "whiteboard/internal/domain"

// Re-export domain types for use by adapters
type (
	Node          = domain.Node
	Edge          = domain.Edge
	Snapshot      = domain.Snapshot
	State         = domain.State
	IDSet         = domain.IDSet
	Point         = domain.Point
	Size          = domain.Size
	NodeKind      = domain.NodeKind
	ShapeKind     = domain.ShapeKind
	RoutingType   = domain.RoutingType
	ShapeDefaults = domain.ShapeDefaults
	EdgeDefaults  = domain.EdgeDefaults
	UIPreferences = domain.UIPreferences
)

// Re-export node kinds
const (
	KindSticky = domain.KindSticky
	KindShape  = domain.KindShape
	KindText   = domain.KindText
	KindGroup  = domain.KindGroup
)

// ParseNodeKind validates a node kind name
func ParseNodeKind(s string) (NodeKind, error) {
	return domain.ParseNodeKind(s)
}

// ParseShapeKind validates a shape kind name
func ParseShapeKind(s string) (ShapeKind, error) {
	return domain.ParseShapeKind(s)
}

// ParseRoutingType validates an edge routing name
func ParseRoutingType(s string) (RoutingType, error) {
	return domain.ParseRoutingType(s)
}

// Ptr returns a pointer to v, for building partial patches
func Ptr[T any](v T) *T {
	return &v
}
