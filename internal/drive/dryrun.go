package drive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DryRunUploader prints what would be uploaded without touching Drive
type DryRunUploader struct{}

// NewDryRunUploader creates a new dry-run uploader
func NewDryRunUploader() *DryRunUploader {
	return &DryRunUploader{}
}

// Upload prints the upload plan
func (u *DryRunUploader) Upload(ctx context.Context, plan *Plan) error {
	fmt.Printf("Would upload %d files from %s:\n", len(plan.Files), plan.Dir)
	for _, f := range plan.Files {
		info, err := os.Stat(filepath.Join(plan.Dir, f.LocalName))
		if err != nil {
			return fmt.Errorf("reading %s: %w", f.LocalName, err)
		}
		fmt.Printf("  %s as %s (%d bytes)\n", f.LocalName, f.RemoteName, info.Size())
	}
	return nil
}
