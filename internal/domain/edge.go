package domain

import "fmt"

// EdgeStyle describes how an edge is drawn
type EdgeStyle struct {
	Routing RoutingType
	Dashed  bool
	Arrowed bool
	Label   string
}

// Edge is a directed styled connection between two nodes
type Edge struct {
	ID       string
	SourceID string
	TargetID string
	Style    EdgeStyle
}

// StyleFromDefaults returns the style a new edge receives
func StyleFromDefaults(d EdgeDefaults) EdgeStyle {
	return EdgeStyle{
		Routing: d.Routing,
		Dashed:  d.Dashed,
		Arrowed: d.Arrowed,
		Label:   d.Label,
	}
}

// EdgeID derives the identifier of the n-th parallel edge from source to
// target. The first edge of a pair (n == 0) is "e{source}-{target}".
func EdgeID(source, target string, n int) string {
	if n <= 0 {
		return fmt.Sprintf("e%s-%s", source, target)
	}
	return fmt.Sprintf("e%s-%s-%d", source, target, n)
}
