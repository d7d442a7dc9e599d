package handlers

import (
  "fmt"
  "io"
  "net/http"
  "strings"
  "time"

  "github.com/gin-gonic/gin"
  "github.com/clinvia/clinvia-backend/internal/services"
)

type AnalyticHandler struct {
  analyticService services.AnalyticService
}

func NewAnalyticHandler(analyticService services.AnalyticService) *AnalyticHandler {
  return &AnalyticHandler{analyticService: analyticService}
}

// Upload accepts a multipart form: file (required), patient_id (route
// param), exam_date (optional, YYYY-MM-DD).
func (ah *AnalyticHandler) Upload(c *gin.Context) {
  patientID, ok := paramInt64(c, "id")
  if !ok {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid patient id"))
    return
  }

  fileHeader, fErr := c.FormFile("file")
  if fErr != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("file is required"))
    return
  }
  f, oErr := fileHeader.Open()
  if oErr != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("could not read uploaded file"))
    return
  }
  defer f.Close()
  raw, rErr := io.ReadAll(f)
  if rErr != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("could not read uploaded file"))
    return
  }

  examDate := parseExamDate(c.PostForm("exam_date"))

  view, err := ah.analyticService.AnalyzeAndCreate(c.Request.Context(), currentUserID(c), patientID, fileHeader.Filename, raw, examDate)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "analyze_failed", err)
    return
  }
  RespondOK(c, view)
}

func (ah *AnalyticHandler) ListByPatient(c *gin.Context) {
  patientID, ok := paramInt64(c, "id")
  if !ok {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid patient id"))
    return
  }
  views, err := ah.analyticService.ListByPatient(c.Request.Context(), currentUserID(c), patientID)
  if err != nil {
    RespondError(c, http.StatusNotFound, "list_failed", err)
    return
  }
  RespondOK(c, views)
}

func (ah *AnalyticHandler) Delete(c *gin.Context) {
  analyticID, ok := paramInt64(c, "id")
  if !ok {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid analytic id"))
    return
  }
  if err := ah.analyticService.DeleteAnalytic(c.Request.Context(), currentUserID(c), analyticID); err != nil {
    RespondError(c, http.StatusNotFound, "delete_failed", err)
    return
  }
  RespondOK(c, gin.H{"deleted": true})
}

func parseExamDate(s string) *time.Time {
  s = strings.TrimSpace(s)
  if s == "" {
    return nil
  }
  t, err := time.Parse("2006-01-02", s)
  if err != nil {
    return nil
  }
  return &t
}
