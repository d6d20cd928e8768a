package domain

import (
	"errors"
	"fmt"
)

// ErrCounterBehind is returned when a state's id counter would hand out an
// identifier that is already in use.
var ErrCounterBehind = errors.New("id counter behind existing ids")

// State is the durable subset of a board: the graph, the id counter and the
// style and presentation settings.
type State struct {
	Nodes  []Node
	Edges  []Edge
	NextID uint64
	Shape  ShapeDefaults
	Edge   EdgeDefaults
	UI     UIPreferences
}

// EmptyState returns a blank board with factory settings
func EmptyState() State {
	return State{
		NextID: 1,
		Shape:  DefaultShapeDefaults(),
		Edge:   DefaultEdgeDefaults(),
		UI:     DefaultUIPreferences(),
	}
}

// Graph rebuilds the graph held by the state, checking its structure
func (s State) Graph() (*Graph, error) {
	g := NewGraph()
	if err := g.Append(s.Nodes, s.Edges); err != nil {
		return nil, err
	}
	if err := s.checkCounter(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks the structural invariants of the state
func (s State) Validate() error {
	_, err := s.Graph()
	return err
}

func (s State) checkCounter() error {
	if s.NextID < 1 {
		return fmt.Errorf("next id %d: %w", s.NextID, ErrCounterBehind)
	}
	for _, n := range s.Nodes {
		if v, ok := ParseID(n.ID); ok && v >= s.NextID {
			return fmt.Errorf("node %s with next id %d: %w", n.ID, s.NextID, ErrCounterBehind)
		}
	}
	return nil
}
