package application

import "whiteboard/internal/domain"

// ShapeStylePatch is a partial update of a shape style. Nil fields are left
// unchanged.
type ShapeStylePatch struct {
	Shape       *domain.ShapeKind
	Fill        *string
	Stroke      *string
	StrokeWidth *float64
}

// Empty reports whether the patch changes nothing
func (p ShapeStylePatch) Empty() bool {
	return p.Shape == nil && p.Fill == nil && p.Stroke == nil && p.StrokeWidth == nil
}

// Apply returns d with the patch merged in
func (p ShapeStylePatch) Apply(d domain.ShapeDefaults) domain.ShapeDefaults {
	if p.Shape != nil {
		d.Shape = *p.Shape
	}
	if p.Fill != nil {
		d.Fill = *p.Fill
	}
	if p.Stroke != nil {
		d.Stroke = *p.Stroke
	}
	if p.StrokeWidth != nil {
		d.StrokeWidth = *p.StrokeWidth
	}
	return d
}

// EdgeStylePatch is a partial update of an edge style
type EdgeStylePatch struct {
	Routing *domain.RoutingType
	Dashed  *bool
	Arrowed *bool
	Label   *string
}

// Empty reports whether the patch changes nothing
func (p EdgeStylePatch) Empty() bool {
	return p.Routing == nil && p.Dashed == nil && p.Arrowed == nil && p.Label == nil
}

// Apply returns d with the patch merged in
func (p EdgeStylePatch) Apply(d domain.EdgeDefaults) domain.EdgeDefaults {
	if p.Routing != nil {
		d.Routing = *p.Routing
	}
	if p.Dashed != nil {
		d.Dashed = *p.Dashed
	}
	if p.Arrowed != nil {
		d.Arrowed = *p.Arrowed
	}
	if p.Label != nil {
		d.Label = *p.Label
	}
	return d
}

// UIPatch is a partial update of the presentation toggles
type UIPatch struct {
	ShowResizeHandles     *bool
	AllowNonUniformResize *bool
}

// Empty reports whether the patch changes nothing
func (p UIPatch) Empty() bool {
	return p.ShowResizeHandles == nil && p.AllowNonUniformResize == nil
}

func (p UIPatch) apply(u domain.UIPreferences) domain.UIPreferences {
	if p.ShowResizeHandles != nil {
		u.ShowResizeHandles = *p.ShowResizeHandles
	}
	if p.AllowNonUniformResize != nil {
		u.AllowNonUniformResize = *p.AllowNonUniformResize
	}
	return u
}

// Registry holds the styles applied to newly created shapes and edges and
// the persisted presentation toggles. Changing a default never restyles
// existing entities.
type Registry struct {
	shape domain.ShapeDefaults
	edge  domain.EdgeDefaults
	ui    domain.UIPreferences
}

// NewRegistry creates a registry with factory settings
func NewRegistry() *Registry {
	return &Registry{
		shape: domain.DefaultShapeDefaults(),
		edge:  domain.DefaultEdgeDefaults(),
		ui:    domain.DefaultUIPreferences(),
	}
}

// Shape returns the current shape defaults
func (r *Registry) Shape() domain.ShapeDefaults { return r.shape }

// Edge returns the current edge defaults
func (r *Registry) Edge() domain.EdgeDefaults { return r.edge }

// UI returns the current presentation toggles
func (r *Registry) UI() domain.UIPreferences { return r.ui }

// PatchShape merges p into the shape defaults. Nothing changes when the
// result is invalid.
func (r *Registry) PatchShape(p ShapeStylePatch) (domain.ShapeDefaults, error) {
	next := p.Apply(r.shape)
	if err := ValidateStruct(next); err != nil {
		return r.shape, err
	}
	r.shape = next
	return next, nil
}

// PatchEdge merges p into the edge defaults
func (r *Registry) PatchEdge(p EdgeStylePatch) (domain.EdgeDefaults, error) {
	next := p.Apply(r.edge)
	if err := ValidateStruct(next); err != nil {
		return r.edge, err
	}
	r.edge = next
	return next, nil
}

// PatchUI merges p into the presentation toggles
func (r *Registry) PatchUI(p UIPatch) domain.UIPreferences {
	r.ui = p.apply(r.ui)
	return r.ui
}

// Replace swaps in a complete set of settings after validating them
func (r *Registry) Replace(shape domain.ShapeDefaults, edge domain.EdgeDefaults, ui domain.UIPreferences) error {
	if err := ValidateStruct(shape); err != nil {
		return err
	}
	if err := ValidateStruct(edge); err != nil {
		return err
	}
	r.shape, r.edge, r.ui = shape, edge, ui
	return nil
}
