package repos

import (
  "context"
  "gorm.io/gorm"
  "github.com/clinvia/clinvia-backend/internal/logger"
  "github.com/clinvia/clinvia-backend/internal/types"
)

type TimelineItemRepo interface {
  Create(ctx context.Context, tx *gorm.DB, items []*types.TimelineItem) ([]*types.TimelineItem, error)
  GetByPatientID(ctx context.Context, tx *gorm.DB, patientID int64, limit int) ([]*types.TimelineItem, error)
  FullDeleteByItem(ctx context.Context, tx *gorm.DB, itemType string, itemID int64) error
}

type timelineItemRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewTimelineItemRepo(db *gorm.DB, baseLog *logger.Logger) TimelineItemRepo {
  repoLog := baseLog.With("repo", "TimelineItemRepo")
  return &timelineItemRepo{db: db, log: repoLog}
}

func (r *timelineItemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.TimelineItem) ([]*types.TimelineItem, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(items) == 0 {
    return []*types.TimelineItem{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
    return nil, err
  }
  return items, nil
}

func (r *timelineItemRepo) GetByPatientID(ctx context.Context, tx *gorm.DB, patientID int64, limit int) ([]*types.TimelineItem, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  query := transaction.WithContext(ctx).
    Where("patient_id = ?", patientID).
    Order("created_at DESC")
  if limit > 0 {
    query = query.Limit(limit)
  }

  var results []*types.TimelineItem
  if err := query.Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// FullDeleteByItem removes the timeline pointer when the underlying
// record is deleted.
func (r *timelineItemRepo) FullDeleteByItem(ctx context.Context, tx *gorm.DB, itemType string, itemID int64) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  return transaction.WithContext(ctx).
    Where("item_type = ? AND item_id = ?", itemType, itemID).
    Delete(&types.TimelineItem{}).Error
}
