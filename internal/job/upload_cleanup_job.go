package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/aslinsheeba/flona-ai/internal/filestore"
)

// UploadCleanupJob expires session media older than maxAge. Uploads are
// only needed for the duration of one planning run, so anything aged
// past the window is garbage.
type UploadCleanupJob struct {
	store  filestore.Store
	maxAge time.Duration
}

func NewUploadCleanupJob(store filestore.Store, maxAge time.Duration) *UploadCleanupJob {
	return &UploadCleanupJob{store: store, maxAge: maxAge}
}

func (j *UploadCleanupJob) Name() string {
	return "upload_cleanup"
}

func (j *UploadCleanupJob) Run(ctx context.Context) error {
	sweeper, ok := j.store.(filestore.Sweeper)
	if !ok {
		logutil.GetLogger(ctx).Debug("store does not support sweeping, skip",
			zap.String("type", j.store.Type()))
		return nil
	}
	cutoff := time.Now().Add(-j.maxAge)
	removed, err := sweeper.SweepBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if removed > 0 {
		logutil.GetLogger(ctx).Info("expired uploads removed", zap.Int("count", removed))
	}
	return nil
}
