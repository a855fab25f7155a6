package cron

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/sellercenter-backend/pkg/logger"
	"github.com/angelmondragon/sellercenter-backend/pkg/metrics"
	"github.com/angelmondragon/sellercenter-backend/pkg/storage/local"
)

const (
	OrphanUploadCleanupJobName = "orphan-upload-cleanup"

	defaultOrphanRetention = 24 * time.Hour
	orphanCheckBatch       = 200
	uploadKeyPrefix        = "media/"
)

type uploadFiles interface {
	Walk(ctx context.Context, fn func(local.FileInfo) error) error
	Delete(ctx context.Context, key string) error
}

type referencedPaths interface {
	ExistingPaths(ctx context.Context, paths []string) (map[string]bool, error)
}

type OrphanUploadCleanupJobParams struct {
	Logger    *logger.Logger
	Files     uploadFiles
	Media     referencedPaths
	Metrics   *metrics.CronJobMetrics
	Retention time.Duration
}

// NewOrphanUploadCleanupJob removes upload files that no media row points at.
// Files younger than the retention are skipped so in-flight uploads survive.
func NewOrphanUploadCleanupJob(params OrphanUploadCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Files == nil {
		return nil, fmt.Errorf("upload store required")
	}
	if params.Media == nil {
		return nil, fmt.Errorf("media repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultOrphanRetention
	}
	return &orphanUploadCleanupJob{
		logg:      params.Logger,
		files:     params.Files,
		media:     params.Media,
		metrics:   params.Metrics,
		retention: retention,
		now:       time.Now,
	}, nil
}

type orphanUploadCleanupJob struct {
	logg      *logger.Logger
	files     uploadFiles
	media     referencedPaths
	metrics   *metrics.CronJobMetrics
	retention time.Duration
	now       func() time.Time
}

func (j *orphanUploadCleanupJob) Name() string { return OrphanUploadCleanupJobName }

func (j *orphanUploadCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().Add(-j.retention)
	var (
		scanned    int
		candidates []string
		removed    int
		errs       error
	)

	flush := func() {
		if len(candidates) == 0 {
			return
		}
		n, err := j.removeUnreferenced(ctx, candidates)
		removed += n
		errs = multierr.Append(errs, err)
		candidates = candidates[:0]
	}

	walkErr := j.files.Walk(ctx, func(fi local.FileInfo) error {
		scanned++
		if !strings.HasPrefix(fi.Key, uploadKeyPrefix) || !fi.ModTime.Before(cutoff) {
			return nil
		}
		candidates = append(candidates, fi.Key)
		if len(candidates) >= orphanCheckBatch {
			flush()
		}
		return nil
	})
	flush()
	errs = multierr.Append(errs, walkErr)

	j.metrics.AddItems(j.Name(), removed)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":        cutoff,
		"files_scanned": scanned,
		"files_removed": removed,
	})
	j.logg.Info(logCtx, "orphan upload cleanup complete")
	if errs != nil {
		return fmt.Errorf("orphan upload cleanup: %w", errs)
	}
	return nil
}

func (j *orphanUploadCleanupJob) removeUnreferenced(ctx context.Context, keys []string) (int, error) {
	referenced, err := j.media.ExistingPaths(ctx, keys)
	if err != nil {
		return 0, fmt.Errorf("check media references: %w", err)
	}
	var (
		removed int
		errs    error
	)
	for _, key := range keys {
		if referenced[key] {
			continue
		}
		if err := j.files.Delete(ctx, key); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("remove %s: %w", key, err))
			continue
		}
		removed++
	}
	return removed, errs
}
