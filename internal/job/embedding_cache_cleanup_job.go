package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/aslinsheeba/flona-ai/internal/repo"
)

// EmbeddingCacheCleanupJob trims persisted embeddings past the
// retention window. Entries are cheap to recompute; retention exists to
// bound table growth, not to guarantee availability.
type EmbeddingCacheCleanupJob struct {
	repo      *repo.EmbeddingCacheRepo
	retention time.Duration
}

func NewEmbeddingCacheCleanupJob(r *repo.EmbeddingCacheRepo, retention time.Duration) *EmbeddingCacheCleanupJob {
	return &EmbeddingCacheCleanupJob{repo: r, retention: retention}
}

func (j *EmbeddingCacheCleanupJob) Name() string {
	return "embedding_cache_cleanup"
}

func (j *EmbeddingCacheCleanupJob) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-j.retention).Unix()
	removed, err := j.repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if removed > 0 {
		logutil.GetLogger(ctx).Info("stale embeddings removed", zap.Int64("count", removed))
	}
	return nil
}
