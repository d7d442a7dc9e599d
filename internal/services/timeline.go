package services

import (
  "context"
  "fmt"
  "time"

  "gorm.io/gorm"
  "github.com/clinvia/clinvia-backend/internal/logger"
  "github.com/clinvia/clinvia-backend/internal/repos"
)

// TimelineEntry is a hydrated feed row: the pointer plus a short display
// payload pulled from the underlying record.
type TimelineEntry struct {
  ID        int64     `json:"id"`
  ItemType  string    `json:"item_type"`
  ItemID    int64     `json:"item_id"`
  Title     string    `json:"title"`
  CreatedAt time.Time `json:"created_at"`
}

type TimelineService interface {
  GetPatientTimeline(ctx context.Context, doctorID, patientID int64, limit int) ([]*TimelineEntry, error)
}

type timelineService struct {
  db           *gorm.DB
  log          *logger.Logger
  patientRepo  repos.PatientRepo
  timelineRepo repos.TimelineItemRepo
  analyticRepo repos.AnalyticRepo
  imagingRepo  repos.ImagingRepo
  noteRepo     repos.ClinicalNoteRepo
}

func NewTimelineService(
  db *gorm.DB,
  log *logger.Logger,
  patientRepo repos.PatientRepo,
  timelineRepo repos.TimelineItemRepo,
  analyticRepo repos.AnalyticRepo,
  imagingRepo repos.ImagingRepo,
  noteRepo repos.ClinicalNoteRepo,
) TimelineService {
  serviceLog := log.With("service", "TimelineService")
  return &timelineService{
    db:           db,
    log:          serviceLog,
    patientRepo:  patientRepo,
    timelineRepo: timelineRepo,
    analyticRepo: analyticRepo,
    imagingRepo:  imagingRepo,
    noteRepo:     noteRepo,
  }
}

func (ts *timelineService) GetPatientTimeline(ctx context.Context, doctorID, patientID int64, limit int) ([]*TimelineEntry, error) {
  patient, pErr := ts.patientRepo.GetByID(ctx, nil, patientID, doctorID)
  if pErr != nil {
    return nil, fmt.Errorf("Failed to load patient: %w", pErr)
  }
  if patient == nil {
    return nil, fmt.Errorf("Patient not found")
  }

  items, iErr := ts.timelineRepo.GetByPatientID(ctx, nil, patientID, limit)
  if iErr != nil {
    return nil, fmt.Errorf("Failed to load timeline: %w", iErr)
  }

  entries := make([]*TimelineEntry, 0, len(items))
  for _, item := range items {
    entry := &TimelineEntry{
      ID:        item.ID,
      ItemType:  item.ItemType,
      ItemID:    item.ItemID,
      CreatedAt: item.CreatedAt,
    }
    entry.Title = ts.titleFor(ctx, item.ItemType, item.ItemID)
    entries = append(entries, entry)
  }
  return entries, nil
}

// titleFor is best effort; a dangling pointer renders a generic title
// instead of failing the feed.
func (ts *timelineService) titleFor(ctx context.Context, itemType string, itemID int64) string {
  switch itemType {
  case TimelineItemAnalytic:
    if a, err := ts.analyticRepo.GetByID(ctx, nil, itemID); err == nil && a != nil {
      if a.Summary != "" {
        return a.Summary
      }
    }
    return "Lab report"
  case TimelineItemImaging:
    if img, err := ts.imagingRepo.GetByID(ctx, nil, itemID); err == nil && img != nil {
      if img.Type != "" {
        return img.Type
      }
    }
    return "Imaging study"
  case TimelineItemNote:
    if n, err := ts.noteRepo.GetByID(ctx, nil, itemID); err == nil && n != nil {
      return n.Title
    }
    return "Clinical note"
  default:
    return itemType
  }
}
