package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-records-api/pkg/jobs"
	"github.com/noah-isme/campus-records-api/pkg/storage"
)

// JobTypeBlobDelete removes a note blob left behind by a delete.
const JobTypeBlobDelete = "note.blob.delete"

// NewBlobCleanupHandler returns the queue handler that retries blob removal.
func NewBlobCleanupHandler(store storage.BlobStore, logger *zap.Logger) jobs.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, job jobs.Job) error {
		if job.Type != JobTypeBlobDelete {
			logger.Warn("ignoring unknown job", zap.String("job_id", job.ID), zap.String("type", job.Type))
			return nil
		}
		filename, ok := job.Payload.(string)
		if !ok || filename == "" {
			return fmt.Errorf("blob cleanup job %s has no filename", job.ID)
		}
		if err := store.Delete(ctx, filename); err != nil {
			return fmt.Errorf("delete blob %s: %w", filename, err)
		}
		logger.Info("orphaned blob removed", zap.String("filename", filename), zap.Int("attempt", job.Attempt))
		return nil
	}
}
