package repos

import (
  "context"
  "gorm.io/gorm"
  "github.com/clinvia/clinvia-backend/internal/logger"
  "github.com/clinvia/clinvia-backend/internal/types"
)

type PatientRepo interface {
  Create(ctx context.Context, tx *gorm.DB, patients []*types.Patient) ([]*types.Patient, error)
  GetByID(ctx context.Context, tx *gorm.DB, patientID, doctorID int64) (*types.Patient, error)
  GetByDoctorID(ctx context.Context, tx *gorm.DB, doctorID int64) ([]*types.Patient, error)
  NextPatientNumber(ctx context.Context, tx *gorm.DB, doctorID int64) (int, error)
  Update(ctx context.Context, tx *gorm.DB, patient *types.Patient) error
  SoftDeleteByID(ctx context.Context, tx *gorm.DB, patientID, doctorID int64) error
}

type patientRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPatientRepo(db *gorm.DB, baseLog *logger.Logger) PatientRepo {
  repoLog := baseLog.With("repo", "PatientRepo")
  return &patientRepo{db: db, log: repoLog}
}

func (r *patientRepo) Create(ctx context.Context, tx *gorm.DB, patients []*types.Patient) ([]*types.Patient, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(patients) == 0 {
    return []*types.Patient{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&patients).Error; err != nil {
    return nil, err
  }
  return patients, nil
}

// GetByID is ownership-scoped: a patient belonging to another doctor is
// reported as not found, never as forbidden.
func (r *patientRepo) GetByID(ctx context.Context, tx *gorm.DB, patientID, doctorID int64) (*types.Patient, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var result types.Patient
  err := transaction.WithContext(ctx).
    Where("id = ? AND doctor_id = ?", patientID, doctorID).
    First(&result).Error
  if err != nil {
    if err == gorm.ErrRecordNotFound {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (r *patientRepo) GetByDoctorID(ctx context.Context, tx *gorm.DB, doctorID int64) ([]*types.Patient, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Patient
  if err := transaction.WithContext(ctx).
    Where("doctor_id = ?", doctorID).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *patientRepo) NextPatientNumber(ctx context.Context, tx *gorm.DB, doctorID int64) (int, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var max int
  if err := transaction.WithContext(ctx).
    Model(&types.Patient{}).
    Where("doctor_id = ?", doctorID).
    Select("COALESCE(MAX(patient_number), 0)").
    Scan(&max).Error; err != nil {
    return 0, err
  }
  return max + 1, nil
}

func (r *patientRepo) Update(ctx context.Context, tx *gorm.DB, patient *types.Patient) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if patient == nil {
    return nil
  }

  return transaction.WithContext(ctx).Save(patient).Error
}

func (r *patientRepo) SoftDeleteByID(ctx context.Context, tx *gorm.DB, patientID, doctorID int64) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  return transaction.WithContext(ctx).
    Where("id = ? AND doctor_id = ?", patientID, doctorID).
    Delete(&types.Patient{}).Error
}
