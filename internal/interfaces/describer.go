package interfaces

import "context"

// Describer produces a text description for an image file, typically by calling
// a vision model. Implementations must be safe to call sequentially from the
// ingest pipeline.
type Describer interface {
	Describe(ctx context.Context, imagePath string) (string, error)
}
