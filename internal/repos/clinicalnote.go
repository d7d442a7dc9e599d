package repos

import (
  "context"
  "gorm.io/gorm"
  "github.com/clinvia/clinvia-backend/internal/logger"
  "github.com/clinvia/clinvia-backend/internal/types"
)

type ClinicalNoteRepo interface {
  Create(ctx context.Context, tx *gorm.DB, notes []*types.ClinicalNote) ([]*types.ClinicalNote, error)
  GetByID(ctx context.Context, tx *gorm.DB, noteID int64) (*types.ClinicalNote, error)
  GetByPatientID(ctx context.Context, tx *gorm.DB, patientID int64) ([]*types.ClinicalNote, error)
  Update(ctx context.Context, tx *gorm.DB, note *types.ClinicalNote) error
  FullDeleteByID(ctx context.Context, tx *gorm.DB, noteID int64) error
}

type clinicalNoteRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewClinicalNoteRepo(db *gorm.DB, baseLog *logger.Logger) ClinicalNoteRepo {
  repoLog := baseLog.With("repo", "ClinicalNoteRepo")
  return &clinicalNoteRepo{db: db, log: repoLog}
}

func (r *clinicalNoteRepo) Create(ctx context.Context, tx *gorm.DB, notes []*types.ClinicalNote) ([]*types.ClinicalNote, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(notes) == 0 {
    return []*types.ClinicalNote{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&notes).Error; err != nil {
    return nil, err
  }
  return notes, nil
}

func (r *clinicalNoteRepo) GetByID(ctx context.Context, tx *gorm.DB, noteID int64) (*types.ClinicalNote, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.ClinicalNote
  err := transaction.WithContext(ctx).
    Where("id = ?", noteID).
    First(&result).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (r *clinicalNoteRepo) GetByPatientID(ctx context.Context, tx *gorm.DB, patientID int64) ([]*types.ClinicalNote, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ClinicalNote
  if err := transaction.WithContext(ctx).
    Where("patient_id = ?", patientID).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *clinicalNoteRepo) Update(ctx context.Context, tx *gorm.DB, note *types.ClinicalNote) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if note == nil {
    return nil
  }

  return transaction.WithContext(ctx).Save(note).Error
}

func (r *clinicalNoteRepo) FullDeleteByID(ctx context.Context, tx *gorm.DB, noteID int64) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  return transaction.WithContext(ctx).
    Where("id = ?", noteID).
    Delete(&types.ClinicalNote{}).Error
}
