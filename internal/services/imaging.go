package services

import (
  "bytes"
  "context"
  "crypto/sha256"
  "encoding/hex"
  "encoding/json"
  "fmt"
  "path"
  "strings"
  "time"

  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/clinvia/clinvia-backend/internal/logger"
  "github.com/clinvia/clinvia-backend/internal/repos"
  "github.com/clinvia/clinvia-backend/internal/roi"
  "github.com/clinvia/clinvia-backend/internal/types"
)

type ImagingService interface {
  AnalyzeAndCreate(ctx context.Context, doctorID, patientID int64, imgType, fileName string, raw []byte, examDate *time.Time) (*types.Imaging, error)
  ListByPatient(ctx context.Context, doctorID, patientID int64) ([]*types.Imaging, error)
  GenerateOverlay(ctx context.Context, doctorID, imagingID int64) (map[string]any, error)
  DeleteImaging(ctx context.Context, doctorID, imagingID int64) error
}

type imagingService struct {
  db            *gorm.DB
  log           *logger.Logger
  patientRepo   repos.PatientRepo
  imagingRepo   repos.ImagingRepo
  timelineRepo  repos.TimelineItemRepo
  bucketService BucketService
  aiClient      AIClient
}

func NewImagingService(
  db *gorm.DB,
  log *logger.Logger,
  patientRepo repos.PatientRepo,
  imagingRepo repos.ImagingRepo,
  timelineRepo repos.TimelineItemRepo,
  bucketService BucketService,
  aiClient AIClient,
) ImagingService {
  serviceLog := log.With("service", "ImagingService")
  return &imagingService{
    db:            db,
    log:           serviceLog,
    patientRepo:   patientRepo,
    imagingRepo:   imagingRepo,
    timelineRepo:  timelineRepo,
    bucketService: bucketService,
    aiClient:      aiClient,
  }
}

const imagingSystemPrompt = `You are a radiology study reader. Describe the ` +
  `study in neutral, orientative terms for the treating physician, list the ` +
  `visible patterns, and suggest differential considerations. Never diagnose ` +
  `or prescribe.`

func imagingSchema() map[string]any {
  return map[string]any{
    "type": "object",
    "properties": map[string]any{
      "summary":      map[string]any{"type": "string"},
      "differential": map[string]any{"type": "string"},
      "patterns": map[string]any{
        "type":  "array",
        "items": map[string]any{"type": "string"},
      },
    },
    "required":             []string{"summary", "differential", "patterns"},
    "additionalProperties": false,
  }
}

func (is *imagingService) AnalyzeAndCreate(ctx context.Context, doctorID, patientID int64, imgType, fileName string, raw []byte, examDate *time.Time) (*types.Imaging, error) {
  if len(raw) == 0 {
    return nil, fmt.Errorf("Uploaded file is empty")
  }
  patient, pErr := is.patientRepo.GetByID(ctx, nil, patientID, doctorID)
  if pErr != nil {
    return nil, fmt.Errorf("Failed to load patient: %w", pErr)
  }
  if patient == nil {
    return nil, fmt.Errorf("Patient not found")
  }

  obj, aiErr := is.aiClient.GenerateJSONFromImage(ctx, imagingSystemPrompt,
    fmt.Sprintf("Describe this %s study for patient alias %q.", imgType, patient.Alias),
    raw, "imaging_study", imagingSchema())
  if aiErr != nil {
    return nil, fmt.Errorf("AI description failed: %w", aiErr)
  }

  summary, _ := obj["summary"].(string)
  differential, _ := obj["differential"].(string)
  patterns := decodePatterns(obj["patterns"])

  hash := sha256.Sum256(raw)
  key := fmt.Sprintf("imaging/%d/%d%s", patientID, time.Now().UnixNano(), path.Ext(fileName))
  if upErr := is.bucketService.UploadFile(ctx, nil, key, bytes.NewReader(raw)); upErr != nil {
    return nil, fmt.Errorf("Failed to store study file: %w", upErr)
  }

  imaging := &types.Imaging{
    PatientID:    patientID,
    Type:         imgType,
    Summary:      summary,
    Differential: differential,
    StorageKey:   key,
    FileURL:      is.bucketService.GetPublicURL(key),
    FileHash:     hex.EncodeToString(hash[:]),
    SizeBytes:    int64(len(raw)),
    ExamDate:     examDate,
    Patterns:     patterns,
  }

  err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, cErr := is.imagingRepo.Create(ctx, tx, []*types.Imaging{imaging}); cErr != nil {
      return fmt.Errorf("Failed to create imaging record: %w", cErr)
    }
    item := &types.TimelineItem{
      PatientID: patientID,
      ItemType:  TimelineItemImaging,
      ItemID:    imaging.ID,
    }
    if _, tErr := is.timelineRepo.Create(ctx, tx, []*types.TimelineItem{item}); tErr != nil {
      return fmt.Errorf("Failed to create timeline item: %w", tErr)
    }
    return nil
  })
  if err != nil {
    if dErr := is.bucketService.DeleteFile(ctx, nil, key); dErr != nil {
      is.log.Warn("failed to clean up orphaned study file", "key", key, "error", dErr)
    }
    return nil, err
  }

  is.log.Info("imaging created", "imaging_id", imaging.ID, "patient_id", patientID, "type", imgType)
  return imaging, nil
}

func (is *imagingService) ListByPatient(ctx context.Context, doctorID, patientID int64) ([]*types.Imaging, error) {
  patient, pErr := is.patientRepo.GetByID(ctx, nil, patientID, doctorID)
  if pErr != nil {
    return nil, fmt.Errorf("Failed to load patient: %w", pErr)
  }
  if patient == nil {
    return nil, fmt.Errorf("Patient not found")
  }
  studies, iErr := is.imagingRepo.GetByPatientID(ctx, nil, patientID)
  if iErr != nil {
    return nil, fmt.Errorf("Failed to list imaging: %w", iErr)
  }
  return studies, nil
}

const mskGeometrySystemPrompt = `You are an ultrasound geometry annotator. ` +
  `Return the anatomical region of interest and the didactic layer guides ` +
  `(skin_end, subc_end, fascia_y) as coordinates normalized to the supplied ` +
  `image. Exclude black borders, text and scale bars from the roi.`

const vascularGeometrySystemPrompt = `You are an ultrasound geometry ` +
  `annotator. Return the anatomical region of interest, the skin line and ` +
  `the main vessel as an ellipse (center and radii), all normalized to the ` +
  `supplied image. Exclude black borders, text and scale bars from the roi.`

func geometrySchema(profile roi.Profile) map[string]any {
  rect := map[string]any{
    "type": "object",
    "properties": map[string]any{
      "x0": map[string]any{"type": "number"},
      "y0": map[string]any{"type": "number"},
      "x1": map[string]any{"type": "number"},
      "y1": map[string]any{"type": "number"},
    },
    "required":             []string{"x0", "y0", "x1", "y1"},
    "additionalProperties": false,
  }
  if profile == roi.ProfileVascular {
    return map[string]any{
      "type": "object",
      "properties": map[string]any{
        "roi": rect,
        "layers": map[string]any{
          "type": "object",
          "properties": map[string]any{
            "skin_end":  map[string]any{"type": "number"},
            "vessel_cx": map[string]any{"type": "number"},
            "vessel_cy": map[string]any{"type": "number"},
            "vessel_rx": map[string]any{"type": "number"},
            "vessel_ry": map[string]any{"type": "number"},
          },
          "required":             []string{"skin_end", "vessel_cx", "vessel_cy", "vessel_rx", "vessel_ry"},
          "additionalProperties": false,
        },
        "confidence": map[string]any{"type": "number"},
      },
      "required":             []string{"roi", "layers", "confidence"},
      "additionalProperties": false,
    }
  }
  return map[string]any{
    "type": "object",
    "properties": map[string]any{
      "roi": rect,
      "layers": map[string]any{
        "type": "object",
        "properties": map[string]any{
          "skin_end": map[string]any{"type": "number"},
          "subc_end": map[string]any{"type": "number"},
          "fascia_y": map[string]any{"type": "number"},
        },
        "required":             []string{"skin_end", "subc_end", "fascia_y"},
        "additionalProperties": false,
      },
      "confidence": map[string]any{"type": "number"},
    },
    "required":             []string{"roi", "layers", "confidence"},
    "additionalProperties": false,
  }
}

// profileForType maps the free-text study type onto an overlay profile.
// Doppler and vascular studies get the vessel overlay; everything else the
// layered MSK overlay.
func profileForType(imgType string) roi.Profile {
  t := strings.ToLower(imgType)
  if strings.Contains(t, "doppler") || strings.Contains(t, "vascular") || strings.Contains(t, "vessel") {
    return roi.ProfileVascular
  }
  return roi.ProfileMSK
}

// GenerateOverlay runs the full pipeline: detect ROI on the stored study,
// crop, ask the vision service for geometry inside the crop, then remap
// everything back into original-image coordinates. Every failure degrades
// to the profile defaults; the endpoint never errors on bad geometry.
func (is *imagingService) GenerateOverlay(ctx context.Context, doctorID, imagingID int64) (map[string]any, error) {
  imaging, gErr := is.imagingRepo.GetByID(ctx, nil, imagingID)
  if gErr != nil {
    return nil, fmt.Errorf("Failed to load imaging: %w", gErr)
  }
  if imaging == nil {
    return nil, fmt.Errorf("Imaging not found")
  }
  patient, pErr := is.patientRepo.GetByID(ctx, nil, imaging.PatientID, doctorID)
  if pErr != nil {
    return nil, fmt.Errorf("Failed to load patient: %w", pErr)
  }
  if patient == nil {
    return nil, fmt.Errorf("Imaging not found")
  }

  raw, dlErr := is.bucketService.DownloadFile(ctx, nil, imaging.StorageKey)
  if dlErr != nil {
    return nil, fmt.Errorf("Failed to download study file: %w", dlErr)
  }

  profile := profileForType(imaging.Type)
  detected := roi.Detect(raw)

  imageForAI := raw
  cropUsed := false
  window, ok := detected.CropWindow()
  if ok {
    if cropped, didCrop := roi.CropBytes(raw, window); didCrop {
      imageForAI = cropped
      cropUsed = true
    }
  }

  var geomRaw []byte
  obj, aiErr := is.aiClient.GenerateJSONFromImage(ctx,
    geometryPrompt(profile),
    "Annotate the geometry of this ultrasound study.",
    imageForAI, "overlay_geometry", geometrySchema(profile))
  if aiErr != nil {
    is.log.Warn("overlay geometry call failed, using profile defaults", "imaging_id", imagingID, "error", aiErr)
  } else if encoded, mErr := json.Marshal(obj); mErr == nil {
    geomRaw = encoded
  }

  overlay := buildOverlay(profile, geomRaw, window, cropUsed)

  stored, mErr := json.Marshal(overlay)
  if mErr == nil {
    imaging.Overlay = datatypes.JSON(stored)
    if uErr := is.imagingRepo.Update(ctx, nil, imaging); uErr != nil {
      is.log.Warn("failed to persist overlay (ignored)", "imaging_id", imagingID, "error", uErr)
    }
  }

  return map[string]any{
    "imaging_id": imagingID,
    "profile":    string(profile),
    "roi":        detected,
    "overlay":    overlay,
  }, nil
}

func geometryPrompt(profile roi.Profile) string {
  if profile == roi.ProfileVascular {
    return vascularGeometrySystemPrompt
  }
  return mskGeometrySystemPrompt
}

// buildOverlay decodes the vision payload for the profile and, when the
// geometry was computed on a crop, remaps it into original-image space.
func buildOverlay(profile roi.Profile, geomRaw []byte, window roi.ROI, cropUsed bool) any {
  if profile == roi.ProfileVascular {
    overlay := roi.DecodeVascularOverlay(geomRaw)
    if cropUsed {
      overlay = overlay.Remap(window)
    }
    return overlay
  }
  overlay := roi.DecodeMSKOverlay(geomRaw)
  if cropUsed {
    overlay = overlay.Remap(window)
  }
  return overlay
}

func (is *imagingService) DeleteImaging(ctx context.Context, doctorID, imagingID int64) error {
  imaging, gErr := is.imagingRepo.GetByID(ctx, nil, imagingID)
  if gErr != nil {
    return fmt.Errorf("Failed to load imaging: %w", gErr)
  }
  if imaging == nil {
    return fmt.Errorf("Imaging not found")
  }
  patient, pErr := is.patientRepo.GetByID(ctx, nil, imaging.PatientID, doctorID)
  if pErr != nil {
    return fmt.Errorf("Failed to load patient: %w", pErr)
  }
  if patient == nil {
    return fmt.Errorf("Imaging not found")
  }

  err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if dErr := is.imagingRepo.FullDeleteByID(ctx, tx, imagingID); dErr != nil {
      return fmt.Errorf("Failed to delete imaging: %w", dErr)
    }
    if tErr := is.timelineRepo.FullDeleteByItem(ctx, tx, TimelineItemImaging, imagingID); tErr != nil {
      return fmt.Errorf("Failed to delete timeline item: %w", tErr)
    }
    return nil
  })
  if err != nil {
    return err
  }

  if imaging.StorageKey != "" {
    if dErr := is.bucketService.DeleteFile(ctx, nil, imaging.StorageKey); dErr != nil {
      is.log.Warn("failed to delete study file (ignored)", "key", imaging.StorageKey, "error", dErr)
    }
  }
  return nil
}

func decodePatterns(v any) []types.ImagingPattern {
  items, ok := v.([]any)
  if !ok {
    return nil
  }
  out := make([]types.ImagingPattern, 0, len(items))
  for _, it := range items {
    s, ok := it.(string)
    if !ok {
      continue
    }
    s = strings.TrimSpace(s)
    if s == "" {
      continue
    }
    out = append(out, types.ImagingPattern{PatternText: s})
  }
  return out
}
