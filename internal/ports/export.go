package ports

import (
	"context"
	"io"

	"whiteboard/internal/domain"
)

// Exporter renders a board snapshot as a document
type Exporter interface {
	// Format names the output, e.g. "json", "dot" or "svg"
	Format() string
	Export(ctx context.Context, snap domain.Snapshot, w io.Writer) error
}
