package repos

import (
  "context"
  "time"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/clinvia/clinvia-backend/internal/logger"
  "github.com/clinvia/clinvia-backend/internal/types"
)

type PatientReviewStateRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, state *types.PatientReviewState) error
  GetByDoctorAndPatient(ctx context.Context, tx *gorm.DB, doctorID, patientID int64) (*types.PatientReviewState, error)
  GetByDoctorID(ctx context.Context, tx *gorm.DB, doctorID int64) ([]*types.PatientReviewState, error)
}

type patientReviewStateRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPatientReviewStateRepo(db *gorm.DB, baseLog *logger.Logger) PatientReviewStateRepo {
  repoLog := baseLog.With("repo", "PatientReviewStateRepo")
  return &patientReviewStateRepo{db: db, log: repoLog}
}

// Upsert keeps one row per (doctor, patient); repeated reviews only move
// the timestamps forward.
func (r *patientReviewStateRepo) Upsert(ctx context.Context, tx *gorm.DB, state *types.PatientReviewState) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if state == nil {
    return nil
  }

  state.UpdatedAt = time.Now()
  return transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns: []clause.Column{{Name: "doctor_id"}, {Name: "patient_id"}},
      DoUpdates: clause.AssignmentColumns([]string{
        "last_reviewed_at", "last_reviewed_analytic_id", "updated_at",
      }),
    }).
    Create(state).Error
}

func (r *patientReviewStateRepo) GetByDoctorAndPatient(ctx context.Context, tx *gorm.DB, doctorID, patientID int64) (*types.PatientReviewState, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.PatientReviewState
  err := transaction.WithContext(ctx).
    Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).
    First(&result).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (r *patientReviewStateRepo) GetByDoctorID(ctx context.Context, tx *gorm.DB, doctorID int64) ([]*types.PatientReviewState, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.PatientReviewState
  if err := transaction.WithContext(ctx).
    Where("doctor_id = ?", doctorID).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
