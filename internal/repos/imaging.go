package repos

import (
  "context"
  "gorm.io/gorm"
  "github.com/clinvia/clinvia-backend/internal/logger"
  "github.com/clinvia/clinvia-backend/internal/types"
)

type ImagingRepo interface {
  Create(ctx context.Context, tx *gorm.DB, imaging []*types.Imaging) ([]*types.Imaging, error)
  GetByID(ctx context.Context, tx *gorm.DB, imagingID int64) (*types.Imaging, error)
  GetByPatientID(ctx context.Context, tx *gorm.DB, patientID int64) ([]*types.Imaging, error)
  Update(ctx context.Context, tx *gorm.DB, imaging *types.Imaging) error
  FullDeleteByID(ctx context.Context, tx *gorm.DB, imagingID int64) error
}

type imagingRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewImagingRepo(db *gorm.DB, baseLog *logger.Logger) ImagingRepo {
  repoLog := baseLog.With("repo", "ImagingRepo")
  return &imagingRepo{db: db, log: repoLog}
}

func (r *imagingRepo) Create(ctx context.Context, tx *gorm.DB, imaging []*types.Imaging) ([]*types.Imaging, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(imaging) == 0 {
    return []*types.Imaging{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&imaging).Error; err != nil {
    return nil, err
  }
  return imaging, nil
}

func (r *imagingRepo) GetByID(ctx context.Context, tx *gorm.DB, imagingID int64) (*types.Imaging, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.Imaging
  err := transaction.WithContext(ctx).
    Preload("Patterns").
    Where("id = ?", imagingID).
    First(&result).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (r *imagingRepo) GetByPatientID(ctx context.Context, tx *gorm.DB, patientID int64) ([]*types.Imaging, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Imaging
  if err := transaction.WithContext(ctx).
    Preload("Patterns").
    Where("patient_id = ?", patientID).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *imagingRepo) Update(ctx context.Context, tx *gorm.DB, imaging *types.Imaging) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if imaging == nil {
    return nil
  }

  return transaction.WithContext(ctx).Save(imaging).Error
}

func (r *imagingRepo) FullDeleteByID(ctx context.Context, tx *gorm.DB, imagingID int64) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  return transaction.WithContext(ctx).
    Where("id = ?", imagingID).
    Delete(&types.Imaging{}).Error
}
