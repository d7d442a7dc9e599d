package repos

import (
  "context"
  "gorm.io/gorm"
  "github.com/clinvia/clinvia-backend/internal/logger"
  "github.com/clinvia/clinvia-backend/internal/types"
)

type DoctorProfileRepo interface {
  Create(ctx context.Context, tx *gorm.DB, profiles []*types.DoctorProfile) ([]*types.DoctorProfile, error)
  GetByUserID(ctx context.Context, tx *gorm.DB, userID int64) (*types.DoctorProfile, error)
  Update(ctx context.Context, tx *gorm.DB, profile *types.DoctorProfile) error
}

type doctorProfileRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewDoctorProfileRepo(db *gorm.DB, baseLog *logger.Logger) DoctorProfileRepo {
  repoLog := baseLog.With("repo", "DoctorProfileRepo")
  return &doctorProfileRepo{db: db, log: repoLog}
}

func (r *doctorProfileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.DoctorProfile) ([]*types.DoctorProfile, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(profiles) == 0 {
    return []*types.DoctorProfile{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&profiles).Error; err != nil {
    return nil, err
  }
  return profiles, nil
}

func (r *doctorProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID int64) (*types.DoctorProfile, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.DoctorProfile
  err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    First(&result).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (r *doctorProfileRepo) Update(ctx context.Context, tx *gorm.DB, profile *types.DoctorProfile) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if profile == nil {
    return nil
  }

  return transaction.WithContext(ctx).Save(profile).Error
}
