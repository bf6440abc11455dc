package drive

import "context"

// Uploader defines the interface for publishing a report run
type Uploader interface {
	// Upload sends every file in the plan
	Upload(ctx context.Context, plan *Plan) error
}
