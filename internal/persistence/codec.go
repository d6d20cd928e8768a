// Package persistence encodes the durable subset of a board as a versioned
// JSON record and moves it in and out of a key/value store.
package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"whiteboard/internal/application"
	"whiteboard/internal/domain"
	"whiteboard/internal/ports"
)

const (
	// SchemaVersion tags every record written by this package
	SchemaVersion = 1

	// StorageKey is the namespace the board record lives under
	StorageKey = "whiteboard:canvas:v1"
)

// ErrInvalidPersistedSchema is returned when a stored record has an unknown
// version or does not describe a valid board.
var ErrInvalidPersistedSchema = errors.New("invalid persisted schema")

type record struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

type stateDTO struct {
	Nodes  []nodeDTO            `json:"nodes"`
	Edges  []edgeDTO            `json:"edges"`
	NextID uint64               `json:"nextId"`
	Shape  domain.ShapeDefaults `json:"shapeOpts"`
	Edge   domain.EdgeDefaults  `json:"edgeOpts"`
	UI     domain.UIPreferences `json:"ui"`
}

type nodeDTO struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Position domain.Point `json:"position"`
	Width    float64      `json:"width"`
	Height   float64      `json:"height"`
	ParentID string       `json:"parentId,omitempty"`
	Data     nodeDataDTO  `json:"data"`
}

type nodeDataDTO struct {
	Text        *string `json:"text,omitempty"`
	Kind        string  `json:"kind,omitempty"`
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

type edgeDTO struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
	Dashed bool   `json:"dashed,omitempty"`
	Arrow  bool   `json:"arrow,omitempty"`
	Label  string `json:"label,omitempty"`
}

type snapshotDTO struct {
	Nodes []nodeDTO `json:"nodes"`
	Edges []edgeDTO `json:"edges"`
}

// Encode serializes the durable fields of s. Selection flags are dropped.
func Encode(s domain.State) ([]byte, error) {
	body, err := json.Marshal(stateDTO{
		Nodes:  nodesToDTO(s.Nodes),
		Edges:  edgesToDTO(s.Edges),
		NextID: s.NextID,
		Shape:  s.Shape,
		Edge:   s.Edge,
		UI:     s.UI,
	})
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return json.Marshal(record{Version: SchemaVersion, State: body})
}

// Decode parses a record written by Encode. Any version mismatch or
// structural problem is reported as ErrInvalidPersistedSchema.
func Decode(data []byte) (domain.State, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.State{}, invalid("malformed record: %v", err)
	}
	if rec.Version != SchemaVersion {
		return domain.State{}, invalid("unsupported version %d (expected %d)", rec.Version, SchemaVersion)
	}
	if len(rec.State) == 0 {
		return domain.State{}, invalid("missing state")
	}

	dec := json.NewDecoder(bytes.NewReader(rec.State))
	dec.DisallowUnknownFields()
	var dto stateDTO
	if err := dec.Decode(&dto); err != nil {
		return domain.State{}, invalid("malformed state: %v", err)
	}

	s := domain.State{
		NextID: dto.NextID,
		Shape:  dto.Shape,
		Edge:   dto.Edge,
		UI:     dto.UI,
	}
	if r, err := domain.ParseRoutingType(string(dto.Edge.Routing)); err == nil {
		s.Edge.Routing = r
	}
	if err := application.ValidateStruct(s.Shape); err != nil {
		return domain.State{}, invalid("shape defaults: %v", err)
	}
	if err := application.ValidateStruct(s.Edge); err != nil {
		return domain.State{}, invalid("edge defaults: %v", err)
	}

	for _, n := range dto.Nodes {
		node, err := nodeFromDTO(n)
		if err != nil {
			return domain.State{}, invalid("%v", err)
		}
		s.Nodes = append(s.Nodes, node)
	}
	for _, e := range dto.Edges {
		edge, err := edgeFromDTO(e)
		if err != nil {
			return domain.State{}, invalid("%v", err)
		}
		s.Edges = append(s.Edges, edge)
	}

	if err := s.Validate(); err != nil {
		return domain.State{}, invalid("%v", err)
	}
	return s, nil
}

// EncodeSnapshot renders a snapshot as indented JSON for export
func EncodeSnapshot(s domain.Snapshot) ([]byte, error) {
	return json.MarshalIndent(snapshotDTO{
		Nodes: nodesToDTO(s.Nodes),
		Edges: edgesToDTO(s.Edges),
	}, "", "  ")
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPersistedSchema, fmt.Sprintf(format, args...))
}

func nodesToDTO(nodes []domain.Node) []nodeDTO {
	out := make([]nodeDTO, 0, len(nodes))
	for _, n := range nodes {
		dto := nodeDTO{
			ID:       n.ID,
			Type:     string(n.Kind()),
			Position: n.Position,
			Width:    n.Size.Width,
			Height:   n.Size.Height,
			ParentID: n.ParentID,
		}
		switch d := n.Data.(type) {
		case domain.StickyData:
			dto.Data.Text = &d.Text
		case domain.TextData:
			dto.Data.Text = &d.Text
		case domain.ShapeData:
			dto.Data.Kind = string(d.Shape)
			dto.Data.Fill = d.Fill
			dto.Data.Stroke = d.Stroke
			dto.Data.StrokeWidth = d.StrokeWidth
		}
		out = append(out, dto)
	}
	return out
}

func edgesToDTO(edges []domain.Edge) []edgeDTO {
	out := make([]edgeDTO, 0, len(edges))
	for _, e := range edges {
		out = append(out, edgeDTO{
			ID:     e.ID,
			Source: e.SourceID,
			Target: e.TargetID,
			Type:   string(e.Style.Routing),
			Dashed: e.Style.Dashed,
			Arrow:  e.Style.Arrowed,
			Label:  e.Style.Label,
		})
	}
	return out
}

func nodeFromDTO(dto nodeDTO) (domain.Node, error) {
	kind, err := domain.ParseNodeKind(dto.Type)
	if err != nil {
		return domain.Node{}, fmt.Errorf("node %q: %w", dto.ID, err)
	}
	n := domain.Node{
		ID:       dto.ID,
		Position: dto.Position.Quantized(),
		Size:     domain.Size{Width: dto.Width, Height: dto.Height}.Quantized(),
		ParentID: dto.ParentID,
	}
	if _, ok := domain.ParseID(n.ID); !ok {
		return domain.Node{}, fmt.Errorf("node id %q is not an allocated id", dto.ID)
	}

	switch kind {
	case domain.KindSticky, domain.KindText:
		if dto.Data.Text == nil {
			return domain.Node{}, fmt.Errorf("%s node %s has no text", kind, dto.ID)
		}
		if kind == domain.KindSticky {
			n.Data = domain.StickyData{Text: *dto.Data.Text}
		} else {
			n.Data = domain.TextData{Text: *dto.Data.Text}
		}
	case domain.KindShape:
		style := domain.ShapeDefaults{
			Shape:       domain.ShapeKind(dto.Data.Kind),
			Fill:        dto.Data.Fill,
			Stroke:      dto.Data.Stroke,
			StrokeWidth: dto.Data.StrokeWidth,
		}
		if err := application.ValidateStruct(style); err != nil {
			return domain.Node{}, fmt.Errorf("shape node %s: %w", dto.ID, err)
		}
		n.Data = domain.ShapeData(style)
	case domain.KindGroup:
		n.Data = domain.GroupData{}
	}
	return n, nil
}

func edgeFromDTO(dto edgeDTO) (domain.Edge, error) {
	routing, err := domain.ParseRoutingType(dto.Type)
	if err != nil {
		return domain.Edge{}, fmt.Errorf("edge %q: %w", dto.ID, err)
	}
	if dto.ID == "" {
		return domain.Edge{}, errors.New("edge without id")
	}
	return domain.Edge{
		ID:       dto.ID,
		SourceID: dto.Source,
		TargetID: dto.Target,
		Style: domain.EdgeStyle{
			Routing: routing,
			Dashed:  dto.Dashed,
			Arrowed: dto.Arrow,
			Label:   dto.Label,
		},
	}, nil
}

// JSONExporter writes snapshots as JSON documents
type JSONExporter struct{}

var _ ports.Exporter = JSONExporter{}

func (JSONExporter) Format() string { return "json" }

func (JSONExporter) Export(_ context.Context, snap domain.Snapshot, w io.Writer) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
