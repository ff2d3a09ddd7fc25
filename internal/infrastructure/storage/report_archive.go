package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/application/reconcile"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/config"
	"go.uber.org/zap"
)

const reportPrefix = "reconciliation"

// ReportArchive writes reconciliation reports as JSON objects keyed by date and run
type ReportArchive struct {
	store ObjectStore
}

// NewReportArchive creates an archive over store
func NewReportArchive(store ObjectStore) *ReportArchive {
	return &ReportArchive{store: store}
}

// OpenReportArchive connects to the configured bucket, creating it if needed.
// It returns nil when storage is disabled.
func OpenReportArchive(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (*ReportArchive, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}
	store, err := NewS3Store(cfg, WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	logger.Info("Reconciliation reports archived to object storage", zap.String("bucket", store.Bucket()))
	return NewReportArchive(store), nil
}

// ReportKey is reconciliation/YYYY/MM/DD/<run id>.json in UTC
func ReportKey(runID uuid.UUID, startedAt time.Time) string {
	return fmt.Sprintf("%s/%s/%s.json", reportPrefix, startedAt.UTC().Format("2006/01/02"), runID)
}

// Archive stores report and returns its key
func (a *ReportArchive) Archive(ctx context.Context, runID uuid.UUID, startedAt time.Time, report *reconcile.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	key := ReportKey(runID, startedAt)
	if err := a.store.Put(ctx, key, data, "application/json"); err != nil {
		return "", err
	}
	return key, nil
}

// Link returns a time-limited download link for an archived report
func (a *ReportArchive) Link(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	ok, err := a.store.Exists(ctx, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("report %s not archived", key)
	}
	link, _, err := a.store.DownloadURL(ctx, key, expiresIn)
	return link, err
}
