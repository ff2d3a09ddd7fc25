package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/application/reconcile"
	"gorm.io/gorm"
)

// RunStatus is the outcome of a reconciliation pass
type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusClean   RunStatus = "clean"
	RunStatusDrift   RunStatus = "drift"
	RunStatusFailed  RunStatus = "failed"
)

// Trigger records what started a pass
type Trigger string

const (
	TriggerSchedule Trigger = "schedule"
	TriggerManual   Trigger = "manual"
)

// RunRecord is one row of reconciliation history
type RunRecord struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	TriggeredBy    Trigger    `gorm:"column:triggered_by;size:20;not null"`
	Status         RunStatus  `gorm:"column:status;size:20;not null"`
	ItemsChecked   int        `gorm:"column:items_checked;not null;default:0"`
	PartiesChecked int        `gorm:"column:parties_checked;not null;default:0"`
	StockDrift     int        `gorm:"column:stock_drift;not null;default:0"`
	BalanceDrift   int        `gorm:"column:balance_drift;not null;default:0"`
	Error          string     `gorm:"column:error;type:text"`
	ReportKey      string     `gorm:"column:report_key;size:255"`
	StartedAt      time.Time  `gorm:"column:started_at;not null"`
	CompletedAt    *time.Time `gorm:"column:completed_at"`
}

// TableName returns the table name for GORM
func (RunRecord) TableName() string {
	return "reconciliation_runs"
}

// RunRepository persists reconciliation history
type RunRepository struct {
	db *gorm.DB
}

// NewRunRepository creates a new RunRepository
func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

// RecordStart inserts a running record and returns its id
func (r *RunRepository) RecordStart(ctx context.Context, trigger Trigger, startedAt time.Time) (uuid.UUID, error) {
	record := &RunRecord{
		ID:          uuid.New(),
		TriggeredBy: trigger,
		Status:      RunStatusRunning,
		StartedAt:   startedAt,
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}

// RecordReport closes a run with the counts from its report. reportKey is
// empty when the report was not archived.
func (r *RunRepository) RecordReport(ctx context.Context, id uuid.UUID, report *reconcile.Report, reportKey string) error {
	status := RunStatusClean
	if !report.Clean() {
		status = RunStatusDrift
	}
	return r.complete(ctx, id, map[string]any{
		"status":          status,
		"items_checked":   report.ItemsChecked,
		"parties_checked": report.PartiesChecked,
		"stock_drift":     len(report.StockDrift),
		"balance_drift":   len(report.BalanceDrift),
		"report_key":      reportKey,
	})
}

// RecordFailure closes a run that could not produce a report
func (r *RunRepository) RecordFailure(ctx context.Context, id uuid.UUID, runErr error) error {
	return r.complete(ctx, id, map[string]any{
		"status": RunStatusFailed,
		"error":  runErr.Error(),
	})
}

func (r *RunRepository) complete(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	fields["completed_at"] = time.Now()
	return r.db.WithContext(ctx).
		Model(&RunRecord{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Latest returns the most recently started run
func (r *RunRepository) Latest(ctx context.Context) (*RunRecord, error) {
	var record RunRecord
	if err := r.db.WithContext(ctx).Order("started_at DESC").First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
