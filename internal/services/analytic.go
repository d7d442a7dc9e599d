package services

import (
  "bytes"
  "context"
  "crypto/sha256"
  "encoding/hex"
  "fmt"
  "path"
  "regexp"
  "strconv"
  "strings"
  "time"

  "gorm.io/gorm"
  "github.com/clinvia/clinvia-backend/internal/logger"
  "github.com/clinvia/clinvia-backend/internal/repos"
  "github.com/clinvia/clinvia-backend/internal/types"
)

const (
  TimelineItemAnalytic = "analytic"
  TimelineItemImaging  = "imaging"
  TimelineItemNote     = "note"
)

const (
  MarkerStatusLow    = "low"
  MarkerStatusNormal = "normal"
  MarkerStatusHigh   = "high"
)

// MarkerView is the API shape of a stored marker: the reference range is
// rendered as display text and the status is derived on read, not stored.
type MarkerView struct {
  Name   string   `json:"name"`
  Value  *float64 `json:"value,omitempty"`
  Unit   string   `json:"unit,omitempty"`
  Range  string   `json:"range,omitempty"`
  Status string   `json:"status,omitempty"`
}

type AnalyticView struct {
  ID           int64        `json:"id"`
  PatientID    int64        `json:"patient_id"`
  Summary      string       `json:"summary,omitempty"`
  Differential string       `json:"differential,omitempty"`
  FileURL      string       `json:"file_url,omitempty"`
  ExamDate     *time.Time   `json:"exam_date,omitempty"`
  CreatedAt    time.Time    `json:"created_at"`
  Markers      []MarkerView `json:"markers"`
}

type AnalyticService interface {
  AnalyzeAndCreate(ctx context.Context, doctorID, patientID int64, fileName string, raw []byte, examDate *time.Time) (*AnalyticView, error)
  ListByPatient(ctx context.Context, doctorID, patientID int64) ([]*AnalyticView, error)
  DeleteAnalytic(ctx context.Context, doctorID, analyticID int64) error
}

type analyticService struct {
  db            *gorm.DB
  log           *logger.Logger
  patientRepo   repos.PatientRepo
  analyticRepo  repos.AnalyticRepo
  timelineRepo  repos.TimelineItemRepo
  bucketService BucketService
  aiClient      AIClient
  compare       CompareService
}

func NewAnalyticService(
  db *gorm.DB,
  log *logger.Logger,
  patientRepo repos.PatientRepo,
  analyticRepo repos.AnalyticRepo,
  timelineRepo repos.TimelineItemRepo,
  bucketService BucketService,
  aiClient AIClient,
  compareService CompareService,
) AnalyticService {
  serviceLog := log.With("service", "AnalyticService")
  return &analyticService{
    db:            db,
    log:           serviceLog,
    patientRepo:   patientRepo,
    analyticRepo:  analyticRepo,
    timelineRepo:  timelineRepo,
    bucketService: bucketService,
    aiClient:      aiClient,
    compare:       compareService,
  }
}

const analyticSystemPrompt = `You are a clinical laboratory report reader. ` +
  `Extract every marker with its numeric value, unit and reference range ` +
  `exactly as printed. Summarize findings in neutral, orientative language ` +
  `for the treating physician. Never diagnose or prescribe.`

func analyticSchema() map[string]any {
  return map[string]any{
    "type": "object",
    "properties": map[string]any{
      "summary":      map[string]any{"type": "string"},
      "differential": map[string]any{"type": "string"},
      "markers": map[string]any{
        "type": "array",
        "items": map[string]any{
          "type": "object",
          "properties": map[string]any{
            "name":    map[string]any{"type": "string"},
            "value":   map[string]any{"type": []string{"number", "string", "null"}},
            "unit":    map[string]any{"type": []string{"string", "null"}},
            "ref_min": map[string]any{"type": []string{"number", "null"}},
            "ref_max": map[string]any{"type": []string{"number", "null"}},
          },
          "required":             []string{"name", "value", "unit", "ref_min", "ref_max"},
          "additionalProperties": false,
        },
      },
    },
    "required":             []string{"summary", "differential", "markers"},
    "additionalProperties": false,
  }
}

func (as *analyticService) AnalyzeAndCreate(ctx context.Context, doctorID, patientID int64, fileName string, raw []byte, examDate *time.Time) (*AnalyticView, error) {
  if len(raw) == 0 {
    return nil, fmt.Errorf("Uploaded file is empty")
  }
  patient, pErr := as.patientRepo.GetByID(ctx, nil, patientID, doctorID)
  if pErr != nil {
    return nil, fmt.Errorf("Failed to load patient: %w", pErr)
  }
  if patient == nil {
    return nil, fmt.Errorf("Patient not found")
  }

  obj, aiErr := as.aiClient.GenerateJSONFromImage(ctx, analyticSystemPrompt,
    fmt.Sprintf("Extract the lab markers for patient alias %q.", patient.Alias),
    raw, "lab_report", analyticSchema())
  if aiErr != nil {
    return nil, fmt.Errorf("AI extraction failed: %w", aiErr)
  }

  summary, _ := obj["summary"].(string)
  differential, _ := obj["differential"].(string)
  markers := decodeMarkers(obj["markers"])

  hash := sha256.Sum256(raw)
  key := fmt.Sprintf("analytics/%d/%d%s", patientID, time.Now().UnixNano(), path.Ext(fileName))
  if upErr := as.bucketService.UploadFile(ctx, nil, key, bytes.NewReader(raw)); upErr != nil {
    return nil, fmt.Errorf("Failed to store report file: %w", upErr)
  }

  analytic := &types.Analytic{
    PatientID:    patientID,
    Summary:      summary,
    Differential: differential,
    StorageKey:   key,
    FileURL:      as.bucketService.GetPublicURL(key),
    FileHash:     hex.EncodeToString(hash[:]),
    SizeBytes:    int64(len(raw)),
    ExamDate:     examDate,
    Markers:      markers,
  }

  err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, cErr := as.analyticRepo.Create(ctx, tx, []*types.Analytic{analytic}); cErr != nil {
      return fmt.Errorf("Failed to create analytic: %w", cErr)
    }
    item := &types.TimelineItem{
      PatientID: patientID,
      ItemType:  TimelineItemAnalytic,
      ItemID:    analytic.ID,
    }
    if _, tErr := as.timelineRepo.Create(ctx, tx, []*types.TimelineItem{item}); tErr != nil {
      return fmt.Errorf("Failed to create timeline item: %w", tErr)
    }
    return nil
  })
  if err != nil {
    // the DB write failed; drop the orphaned object best-effort
    if dErr := as.bucketService.DeleteFile(ctx, nil, key); dErr != nil {
      as.log.Warn("failed to clean up orphaned report file", "key", key, "error", dErr)
    }
    return nil, err
  }

  as.compare.InvalidatePatientReport(ctx, patientID)
  as.log.Info("analytic created", "analytic_id", analytic.ID, "patient_id", patientID, "markers", len(analytic.Markers))
  return analyticToView(analytic), nil
}

func (as *analyticService) ListByPatient(ctx context.Context, doctorID, patientID int64) ([]*AnalyticView, error) {
  patient, pErr := as.patientRepo.GetByID(ctx, nil, patientID, doctorID)
  if pErr != nil {
    return nil, fmt.Errorf("Failed to load patient: %w", pErr)
  }
  if patient == nil {
    return nil, fmt.Errorf("Patient not found")
  }
  analytics, aErr := as.analyticRepo.GetByPatientID(ctx, nil, patientID)
  if aErr != nil {
    return nil, fmt.Errorf("Failed to list analytics: %w", aErr)
  }
  views := make([]*AnalyticView, 0, len(analytics))
  for _, a := range analytics {
    views = append(views, analyticToView(a))
  }
  return views, nil
}

func (as *analyticService) DeleteAnalytic(ctx context.Context, doctorID, analyticID int64) error {
  analytic, gErr := as.analyticRepo.GetByID(ctx, nil, analyticID)
  if gErr != nil {
    return fmt.Errorf("Failed to load analytic: %w", gErr)
  }
  if analytic == nil {
    return fmt.Errorf("Analytic not found")
  }
  patient, pErr := as.patientRepo.GetByID(ctx, nil, analytic.PatientID, doctorID)
  if pErr != nil {
    return fmt.Errorf("Failed to load patient: %w", pErr)
  }
  if patient == nil {
    return fmt.Errorf("Analytic not found")
  }

  err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if dErr := as.analyticRepo.FullDeleteByID(ctx, tx, analyticID); dErr != nil {
      return fmt.Errorf("Failed to delete analytic: %w", dErr)
    }
    if tErr := as.timelineRepo.FullDeleteByItem(ctx, tx, TimelineItemAnalytic, analyticID); tErr != nil {
      return fmt.Errorf("Failed to delete timeline item: %w", tErr)
    }
    return nil
  })
  if err != nil {
    return err
  }

  if analytic.StorageKey != "" {
    if dErr := as.bucketService.DeleteFile(ctx, nil, analytic.StorageKey); dErr != nil {
      as.log.Warn("failed to delete report file (ignored)", "key", analytic.StorageKey, "error", dErr)
    }
  }
  as.compare.InvalidatePatientReport(ctx, analytic.PatientID)
  return nil
}

var numberPattern = regexp.MustCompile(`[-+]?[0-9]*\.?[0-9]+`)

// decodeMarkers tolerates the usual model sloppiness: string values with
// embedded units, missing ranges, empty names.
func decodeMarkers(v any) []types.AnalyticMarker {
  items, ok := v.([]any)
  if !ok {
    return nil
  }
  out := make([]types.AnalyticMarker, 0, len(items))
  for _, it := range items {
    m, ok := it.(map[string]any)
    if !ok {
      continue
    }
    name, _ := m["name"].(string)
    name = strings.TrimSpace(name)
    if name == "" {
      continue
    }
    marker := types.AnalyticMarker{Name: name}
    marker.Value = anyToFloatPtr(m["value"])
    if unit, ok := m["unit"].(string); ok {
      marker.Unit = strings.TrimSpace(unit)
    }
    marker.RefMin = anyToFloatPtr(m["ref_min"])
    marker.RefMax = anyToFloatPtr(m["ref_max"])
    out = append(out, marker)
  }
  return out
}

func anyToFloatPtr(v any) *float64 {
  switch t := v.(type) {
  case float64:
    return &t
  case int:
    f := float64(t)
    return &f
  case string:
    if match := numberPattern.FindString(t); match != "" {
      if f, err := strconv.ParseFloat(match, 64); err == nil {
        return &f
      }
    }
  }
  return nil
}

func analyticToView(a *types.Analytic) *AnalyticView {
  view := &AnalyticView{
    ID:           a.ID,
    PatientID:    a.PatientID,
    Summary:      a.Summary,
    Differential: a.Differential,
    FileURL:      a.FileURL,
    ExamDate:     a.ExamDate,
    CreatedAt:    a.CreatedAt,
    Markers:      make([]MarkerView, 0, len(a.Markers)),
  }
  for _, m := range a.Markers {
    view.Markers = append(view.Markers, MarkerView{
      Name:   m.Name,
      Value:  m.Value,
      Unit:   m.Unit,
      Range:  MarkerRange(m.RefMin, m.RefMax, m.Unit),
      Status: MarkerStatus(m.Value, m.RefMin, m.RefMax),
    })
  }
  return view
}

// MarkerRange renders "12.0–16.0 g/dL" style display text, empty when the
// range is incomplete.
func MarkerRange(refMin, refMax *float64, unit string) string {
  if refMin == nil || refMax == nil {
    return ""
  }
  txt := fmt.Sprintf("%g–%g", *refMin, *refMax)
  if unit != "" {
    txt += " " + unit
  }
  return txt
}

// MarkerStatus classifies a value against its reference range. Anything
// incomplete yields an empty status rather than a guess.
func MarkerStatus(value, refMin, refMax *float64) string {
  if value == nil || refMin == nil || refMax == nil {
    return ""
  }
  switch {
  case *value < *refMin:
    return MarkerStatusLow
  case *value > *refMax:
    return MarkerStatusHigh
  default:
    return MarkerStatusNormal
  }
}
