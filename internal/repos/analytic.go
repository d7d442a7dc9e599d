package repos

import (
  "context"
  "gorm.io/gorm"
  "github.com/clinvia/clinvia-backend/internal/logger"
  "github.com/clinvia/clinvia-backend/internal/types"
)

type AnalyticRepo interface {
  Create(ctx context.Context, tx *gorm.DB, analytics []*types.Analytic) ([]*types.Analytic, error)
  GetByID(ctx context.Context, tx *gorm.DB, analyticID int64) (*types.Analytic, error)
  GetByPatientID(ctx context.Context, tx *gorm.DB, patientID int64) ([]*types.Analytic, error)
  FullDeleteByID(ctx context.Context, tx *gorm.DB, analyticID int64) error
}

type analyticRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewAnalyticRepo(db *gorm.DB, baseLog *logger.Logger) AnalyticRepo {
  repoLog := baseLog.With("repo", "AnalyticRepo")
  return &analyticRepo{db: db, log: repoLog}
}

func (r *analyticRepo) Create(ctx context.Context, tx *gorm.DB, analytics []*types.Analytic) ([]*types.Analytic, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(analytics) == 0 {
    return []*types.Analytic{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&analytics).Error; err != nil {
    return nil, err
  }
  return analytics, nil
}

func (r *analyticRepo) GetByID(ctx context.Context, tx *gorm.DB, analyticID int64) (*types.Analytic, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.Analytic
  err := transaction.WithContext(ctx).
    Preload("Markers").
    Where("id = ?", analyticID).
    First(&result).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

// GetByPatientID loads every analytic with its markers; the comparison
// engine needs the full set and orders records itself.
func (r *analyticRepo) GetByPatientID(ctx context.Context, tx *gorm.DB, patientID int64) ([]*types.Analytic, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Analytic
  if err := transaction.WithContext(ctx).
    Preload("Markers").
    Where("patient_id = ?", patientID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *analyticRepo) FullDeleteByID(ctx context.Context, tx *gorm.DB, analyticID int64) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  return transaction.WithContext(ctx).
    Where("id = ?", analyticID).
    Delete(&types.Analytic{}).Error
}
