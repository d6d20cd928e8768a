package httpapi

import (
	"fmt"

	"whiteboard/internal/application"
	"whiteboard/internal/application/generator"
	"whiteboard/internal/domain"
)

type createNodeRequest struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text,omitempty"`
}

type patchNodeRequest struct {
	Position *domain.Point      `json:"position,omitempty"`
	DX       float64            `json:"dx,omitempty"`
	DY       float64            `json:"dy,omitempty"`
	Width    *float64           `json:"width,omitempty"`
	Height   *float64           `json:"height,omitempty"`
	Text     *string            `json:"text,omitempty"`
	Style    *shapeStyleRequest `json:"style,omitempty"`
}

type shapeStyleRequest struct {
	Kind        *string  `json:"kind,omitempty"`
	Fill        *string  `json:"fill,omitempty"`
	Stroke      *string  `json:"stroke,omitempty"`
	StrokeWidth *float64 `json:"strokeWidth,omitempty"`
}

func (r shapeStyleRequest) patch() (application.ShapeStylePatch, error) {
	p := application.ShapeStylePatch{Fill: r.Fill, Stroke: r.Stroke, StrokeWidth: r.StrokeWidth}
	if r.Kind != nil {
		kind, err := domain.ParseShapeKind(*r.Kind)
		if err != nil {
			return p, &application.ValidationError{Field: "kind", Message: err.Error()}
		}
		p.Shape = &kind
	}
	return p, nil
}

type edgeStyleRequest struct {
	Type   *string `json:"type,omitempty"`
	Dashed *bool   `json:"dashed,omitempty"`
	Arrow  *bool   `json:"arrow,omitempty"`
	Label  *string `json:"label,omitempty"`
}

func (r edgeStyleRequest) patch() (application.EdgeStylePatch, error) {
	p := application.EdgeStylePatch{Dashed: r.Dashed, Arrowed: r.Arrow, Label: r.Label}
	if r.Type != nil {
		routing, err := domain.ParseRoutingType(*r.Type)
		if err != nil {
			return p, &application.ValidationError{Field: "type", Message: err.Error()}
		}
		p.Routing = &routing
	}
	return p, nil
}

type createEdgeRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type styleEdgesRequest struct {
	IDs   []string         `json:"ids,omitempty"`
	Nodes []string         `json:"nodes,omitempty"`
	Style edgeStyleRequest `json:"style"`
}

type selectRequest struct {
	IDs      []string `json:"ids"`
	Additive bool     `json:"additive,omitempty"`
}

type defaultsRequest struct {
	Shape shapeStyleRequest `json:"shapeOpts"`
	Edge  edgeStyleRequest  `json:"edgeOpts"`
	UI    struct {
		ShowResizers *bool `json:"showResizers,omitempty"`
		AllowStretch *bool `json:"allowStretch,omitempty"`
	} `json:"ui"`
}

type generateRequest struct {
	// Count accepts plain numbers and presets such as "5k"
	Count string `json:"count"`
	Reset bool   `json:"reset,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type countResponse struct {
	Count   int    `json:"count"`
	Message string `json:"message"`
}

type deleteResponse struct {
	Removed []string `json:"removed"`
	Message string   `json:"message"`
}

type groupResponse struct {
	Frame   *nodeResponse `json:"frame,omitempty"`
	Message string        `json:"message"`
}

type ungroupResponse struct {
	Released []string `json:"released"`
	Message  string   `json:"message"`
}

type defaultsResponse struct {
	Shape   domain.ShapeDefaults `json:"shapeOpts"`
	Edge    domain.EdgeDefaults  `json:"edgeOpts"`
	UI      domain.UIPreferences `json:"ui"`
	Message string               `json:"message,omitempty"`
}

type generationResponse struct {
	State    string             `json:"state"`
	Progress generator.Progress `json:"progress"`
	Error    string             `json:"error,omitempty"`
}

type nodeResponse struct {
	ID       string                `json:"id"`
	Type     domain.NodeKind       `json:"type"`
	Position domain.Point          `json:"position"`
	Absolute domain.Point          `json:"absolute"`
	Width    float64               `json:"width"`
	Height   float64               `json:"height"`
	ParentID string                `json:"parentId,omitempty"`
	Selected bool                  `json:"selected"`
	Text     *string               `json:"text,omitempty"`
	Style    *domain.ShapeDefaults `json:"style,omitempty"`
	Edges    []string              `json:"edges,omitempty"`
}

func toNodeResponse(n domain.Node, abs domain.Point) nodeResponse {
	resp := nodeResponse{
		ID:       n.ID,
		Type:     n.Kind(),
		Position: n.Position,
		Absolute: abs,
		Width:    n.Size.Width,
		Height:   n.Size.Height,
		ParentID: n.ParentID,
		Selected: n.Selected,
	}
	if text, ok := n.Text(); ok {
		resp.Text = &text
	}
	if d, ok := n.Data.(domain.ShapeData); ok {
		style := domain.ShapeDefaults(d)
		resp.Style = &style
	}
	return resp
}

type edgeResponse struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
	Dashed bool   `json:"dashed"`
	Arrow  bool   `json:"arrow"`
	Label  string `json:"label,omitempty"`
}

func toEdgeResponse(e domain.Edge) edgeResponse {
	return edgeResponse{
		ID:     e.ID,
		Source: e.SourceID,
		Target: e.TargetID,
		Type:   string(e.Style.Routing),
		Dashed: e.Style.Dashed,
		Arrow:  e.Style.Arrowed,
		Label:  e.Style.Label,
	}
}

func errNodeNotFound(id string) error {
	return fmt.Errorf("node %s: %w", id, application.ErrNotFound)
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
