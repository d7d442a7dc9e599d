package services

import (
  "context"
  "fmt"

  "gorm.io/gorm"
  "github.com/clinvia/clinvia-backend/internal/compare"
  "github.com/clinvia/clinvia-backend/internal/logger"
  "github.com/clinvia/clinvia-backend/internal/repos"
  "github.com/clinvia/clinvia-backend/internal/types"
)

type CompareService interface {
  BuildPatientReport(ctx context.Context, doctorID, patientID int64) (*compare.Report, error)
  InvalidatePatientReport(ctx context.Context, patientID int64)
}

type compareService struct {
  db           *gorm.DB
  log          *logger.Logger
  patientRepo  repos.PatientRepo
  analyticRepo repos.AnalyticRepo
  cache        ReportCache
}

func NewCompareService(
  db *gorm.DB,
  log *logger.Logger,
  patientRepo repos.PatientRepo,
  analyticRepo repos.AnalyticRepo,
  cache ReportCache,
) CompareService {
  serviceLog := log.With("service", "CompareService")
  return &compareService{
    db:           db,
    log:          serviceLog,
    patientRepo:  patientRepo,
    analyticRepo: analyticRepo,
    cache:        cache,
  }
}

// BuildPatientReport loads every analytic for the patient and runs the
// evolutive comparison. The cache is keyed per patient and only consulted
// after the ownership check passes.
func (cs *compareService) BuildPatientReport(ctx context.Context, doctorID, patientID int64) (*compare.Report, error) {
  patient, pErr := cs.patientRepo.GetByID(ctx, nil, patientID, doctorID)
  if pErr != nil {
    return nil, fmt.Errorf("Failed to load patient: %w", pErr)
  }
  if patient == nil {
    return nil, fmt.Errorf("Patient not found")
  }

  if cs.cache != nil {
    if cached, ok := cs.cache.Get(ctx, patientID); ok {
      return cached, nil
    }
  }

  analytics, aErr := cs.analyticRepo.GetByPatientID(ctx, nil, patientID)
  if aErr != nil {
    return nil, fmt.Errorf("Failed to load analytics: %w", aErr)
  }

  report := compare.BuildReport(patientID, analyticsToRecords(analytics))

  if cs.cache != nil {
    cs.cache.Set(ctx, patientID, report)
  }
  return report, nil
}

func (cs *compareService) InvalidatePatientReport(ctx context.Context, patientID int64) {
  if cs.cache == nil {
    return
  }
  if err := cs.cache.Invalidate(ctx, patientID); err != nil {
    cs.log.Warn("report cache invalidation failed", "patient_id", patientID, "error", err)
  }
}

func analyticsToRecords(analytics []*types.Analytic) []compare.Record {
  records := make([]compare.Record, 0, len(analytics))
  for _, a := range analytics {
    if a == nil {
      continue
    }
    created := a.CreatedAt
    rec := compare.Record{
      ID:        a.ID,
      ExamDate:  a.ExamDate,
      CreatedAt: &created,
    }
    for _, m := range a.Markers {
      rec.Markers = append(rec.Markers, compare.Marker{Name: m.Name, Value: m.Value})
    }
    records = append(records, rec)
  }
  return records
}
