package services

import (
  "context"
  "fmt"

  "gorm.io/gorm"
  "github.com/clinvia/clinvia-backend/internal/logger"
  "github.com/clinvia/clinvia-backend/internal/repos"
  "github.com/clinvia/clinvia-backend/internal/types"
  "github.com/clinvia/clinvia-backend/internal/utils"
)

type NoteService interface {
  CreateNote(ctx context.Context, doctorID, patientID int64, title, content string) (*types.ClinicalNote, error)
  ListByPatient(ctx context.Context, doctorID, patientID int64) ([]*types.ClinicalNote, error)
  UpdateNote(ctx context.Context, doctorID, noteID int64, title, content string) (*types.ClinicalNote, error)
  DeleteNote(ctx context.Context, doctorID, noteID int64) error
}

type noteService struct {
  db           *gorm.DB
  log          *logger.Logger
  patientRepo  repos.PatientRepo
  noteRepo     repos.ClinicalNoteRepo
  timelineRepo repos.TimelineItemRepo
}

func NewNoteService(
  db *gorm.DB,
  log *logger.Logger,
  patientRepo repos.PatientRepo,
  noteRepo repos.ClinicalNoteRepo,
  timelineRepo repos.TimelineItemRepo,
) NoteService {
  serviceLog := log.With("service", "NoteService")
  return &noteService{
    db:           db,
    log:          serviceLog,
    patientRepo:  patientRepo,
    noteRepo:     noteRepo,
    timelineRepo: timelineRepo,
  }
}

func (ns *noteService) CreateNote(ctx context.Context, doctorID, patientID int64, title, content string) (*types.ClinicalNote, error) {
  title = utils.ParseInputString(title)
  if title == "" {
    return nil, fmt.Errorf("A title is required")
  }
  if content == "" {
    return nil, fmt.Errorf("Content is required")
  }
  patient, pErr := ns.patientRepo.GetByID(ctx, nil, patientID, doctorID)
  if pErr != nil {
    return nil, fmt.Errorf("Failed to load patient: %w", pErr)
  }
  if patient == nil {
    return nil, fmt.Errorf("Patient not found")
  }

  note := &types.ClinicalNote{
    PatientID: patientID,
    DoctorID:  doctorID,
    Title:     title,
    Content:   content,
  }
  err := ns.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, cErr := ns.noteRepo.Create(ctx, tx, []*types.ClinicalNote{note}); cErr != nil {
      return fmt.Errorf("Failed to create note: %w", cErr)
    }
    item := &types.TimelineItem{
      PatientID: patientID,
      ItemType:  TimelineItemNote,
      ItemID:    note.ID,
    }
    if _, tErr := ns.timelineRepo.Create(ctx, tx, []*types.TimelineItem{item}); tErr != nil {
      return fmt.Errorf("Failed to create timeline item: %w", tErr)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  return note, nil
}

func (ns *noteService) ListByPatient(ctx context.Context, doctorID, patientID int64) ([]*types.ClinicalNote, error) {
  patient, pErr := ns.patientRepo.GetByID(ctx, nil, patientID, doctorID)
  if pErr != nil {
    return nil, fmt.Errorf("Failed to load patient: %w", pErr)
  }
  if patient == nil {
    return nil, fmt.Errorf("Patient not found")
  }
  notes, nErr := ns.noteRepo.GetByPatientID(ctx, nil, patientID)
  if nErr != nil {
    return nil, fmt.Errorf("Failed to list notes: %w", nErr)
  }
  return notes, nil
}

func (ns *noteService) UpdateNote(ctx context.Context, doctorID, noteID int64, title, content string) (*types.ClinicalNote, error) {
  note, err := ns.ownedNote(ctx, doctorID, noteID)
  if err != nil {
    return nil, err
  }
  if t := utils.ParseInputString(title); t != "" {
    note.Title = t
  }
  if content != "" {
    note.Content = content
  }
  if uErr := ns.noteRepo.Update(ctx, nil, note); uErr != nil {
    return nil, fmt.Errorf("Failed to update note: %w", uErr)
  }
  return note, nil
}

func (ns *noteService) DeleteNote(ctx context.Context, doctorID, noteID int64) error {
  note, err := ns.ownedNote(ctx, doctorID, noteID)
  if err != nil {
    return err
  }
  return ns.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if dErr := ns.noteRepo.FullDeleteByID(ctx, tx, note.ID); dErr != nil {
      return fmt.Errorf("Failed to delete note: %w", dErr)
    }
    if tErr := ns.timelineRepo.FullDeleteByItem(ctx, tx, TimelineItemNote, note.ID); tErr != nil {
      return fmt.Errorf("Failed to delete timeline item: %w", tErr)
    }
    return nil
  })
}

func (ns *noteService) ownedNote(ctx context.Context, doctorID, noteID int64) (*types.ClinicalNote, error) {
  note, gErr := ns.noteRepo.GetByID(ctx, nil, noteID)
  if gErr != nil {
    return nil, fmt.Errorf("Failed to load note: %w", gErr)
  }
  if note == nil || note.DoctorID != doctorID {
    return nil, fmt.Errorf("Note not found")
  }
  return note, nil
}
