package services

import (
  "context"
  "fmt"
  "time"

  "gorm.io/gorm"
  "github.com/clinvia/clinvia-backend/internal/logger"
  "github.com/clinvia/clinvia-backend/internal/repos"
  "github.com/clinvia/clinvia-backend/internal/types"
  "github.com/clinvia/clinvia-backend/internal/utils"
)

type PatientService interface {
  CreatePatient(ctx context.Context, doctorID int64, patient *types.Patient) (*types.Patient, error)
  GetPatient(ctx context.Context, doctorID, patientID int64) (*types.Patient, error)
  ListPatients(ctx context.Context, doctorID int64) ([]*types.Patient, error)
  UpdatePatient(ctx context.Context, doctorID int64, patient *types.Patient) (*types.Patient, error)
  DeletePatient(ctx context.Context, doctorID, patientID int64) error
  MarkReviewed(ctx context.Context, doctorID, patientID int64, analyticID *int64) error
  GetReviewState(ctx context.Context, doctorID, patientID int64) (*types.PatientReviewState, error)
}

type patientService struct {
  db          *gorm.DB
  log         *logger.Logger
  patientRepo repos.PatientRepo
  reviewRepo  repos.PatientReviewStateRepo
}

func NewPatientService(
  db *gorm.DB,
  log *logger.Logger,
  patientRepo repos.PatientRepo,
  reviewRepo repos.PatientReviewStateRepo,
) PatientService {
  serviceLog := log.With("service", "PatientService")
  return &patientService{
    db:          db,
    log:         serviceLog,
    patientRepo: patientRepo,
    reviewRepo:  reviewRepo,
  }
}

func (ps *patientService) CreatePatient(ctx context.Context, doctorID int64, patient *types.Patient) (*types.Patient, error) {
  if patient == nil {
    return nil, fmt.Errorf("No patient given")
  }
  patient.Alias = utils.ParseInputString(patient.Alias)
  if patient.Alias == "" {
    return nil, fmt.Errorf("An alias is required to create a patient")
  }
  patient.DoctorID = doctorID

  err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    number, nErr := ps.patientRepo.NextPatientNumber(ctx, tx, doctorID)
    if nErr != nil {
      return fmt.Errorf("Failed to assign patient number: %w", nErr)
    }
    patient.PatientNumber = number
    if _, cErr := ps.patientRepo.Create(ctx, tx, []*types.Patient{patient}); cErr != nil {
      return fmt.Errorf("Failed to create patient: %w", cErr)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  ps.log.Info("patient created", "patient_id", patient.ID, "doctor_id", doctorID)
  return patient, nil
}

func (ps *patientService) GetPatient(ctx context.Context, doctorID, patientID int64) (*types.Patient, error) {
  patient, err := ps.patientRepo.GetByID(ctx, nil, patientID, doctorID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load patient: %w", err)
  }
  if patient == nil {
    return nil, fmt.Errorf("Patient not found")
  }
  return patient, nil
}

func (ps *patientService) ListPatients(ctx context.Context, doctorID int64) ([]*types.Patient, error) {
  patients, err := ps.patientRepo.GetByDoctorID(ctx, nil, doctorID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list patients: %w", err)
  }
  return patients, nil
}

func (ps *patientService) UpdatePatient(ctx context.Context, doctorID int64, patient *types.Patient) (*types.Patient, error) {
  if patient == nil || patient.ID == 0 {
    return nil, fmt.Errorf("No patient given")
  }
  existing, err := ps.patientRepo.GetByID(ctx, nil, patient.ID, doctorID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load patient: %w", err)
  }
  if existing == nil {
    return nil, fmt.Errorf("Patient not found")
  }

  if alias := utils.ParseInputString(patient.Alias); alias != "" {
    existing.Alias = alias
  }
  if patient.Age != nil {
    existing.Age = patient.Age
  }
  if patient.Gender != "" {
    existing.Gender = patient.Gender
  }
  if patient.Notes != "" {
    existing.Notes = patient.Notes
  }

  if uErr := ps.patientRepo.Update(ctx, nil, existing); uErr != nil {
    return nil, fmt.Errorf("Failed to update patient: %w", uErr)
  }
  return existing, nil
}

func (ps *patientService) DeletePatient(ctx context.Context, doctorID, patientID int64) error {
  existing, err := ps.patientRepo.GetByID(ctx, nil, patientID, doctorID)
  if err != nil {
    return fmt.Errorf("Failed to load patient: %w", err)
  }
  if existing == nil {
    return fmt.Errorf("Patient not found")
  }
  if dErr := ps.patientRepo.SoftDeleteByID(ctx, nil, patientID, doctorID); dErr != nil {
    return fmt.Errorf("Failed to delete patient: %w", dErr)
  }
  ps.log.Info("patient deleted", "patient_id", patientID, "doctor_id", doctorID)
  return nil
}

func (ps *patientService) MarkReviewed(ctx context.Context, doctorID, patientID int64, analyticID *int64) error {
  existing, err := ps.patientRepo.GetByID(ctx, nil, patientID, doctorID)
  if err != nil {
    return fmt.Errorf("Failed to load patient: %w", err)
  }
  if existing == nil {
    return fmt.Errorf("Patient not found")
  }
  state := &types.PatientReviewState{
    DoctorID:               doctorID,
    PatientID:              patientID,
    LastReviewedAt:         time.Now(),
    LastReviewedAnalyticID: analyticID,
  }
  if uErr := ps.reviewRepo.Upsert(ctx, nil, state); uErr != nil {
    return fmt.Errorf("Failed to record review state: %w", uErr)
  }
  return nil
}

func (ps *patientService) GetReviewState(ctx context.Context, doctorID, patientID int64) (*types.PatientReviewState, error) {
  state, err := ps.reviewRepo.GetByDoctorAndPatient(ctx, nil, doctorID, patientID)
  if err != nil {
    return nil, fmt.Errorf("Failed to load review state: %w", err)
  }
  return state, nil
}
