package handlers

import (
  "fmt"
  "io"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/clinvia/clinvia-backend/internal/services"
)

type ImagingHandler struct {
  imagingService services.ImagingService
}

func NewImagingHandler(imagingService services.ImagingService) *ImagingHandler {
  return &ImagingHandler{imagingService: imagingService}
}

func (ih *ImagingHandler) Upload(c *gin.Context) {
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

  imgType := c.PostForm("type")
  if imgType == "" {
    imgType = "imaging"
  }
  examDate := parseExamDate(c.PostForm("exam_date"))

  imaging, err := ih.imagingService.AnalyzeAndCreate(c.Request.Context(), currentUserID(c), patientID, imgType, fileHeader.Filename, raw, examDate)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "analyze_failed", err)
    return
  }
  RespondOK(c, imaging)
}

func (ih *ImagingHandler) ListByPatient(c *gin.Context) {
  patientID, ok := paramInt64(c, "id")
  if !ok {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid patient id"))
    return
  }
  studies, err := ih.imagingService.ListByPatient(c.Request.Context(), currentUserID(c), patientID)
  if err != nil {
    RespondError(c, http.StatusNotFound, "list_failed", err)
    return
  }
  RespondOK(c, studies)
}

// Overlay runs ROI detection, crop, geometry and remapping for one study
// and returns the overlay in original-image coordinates.
func (ih *ImagingHandler) Overlay(c *gin.Context) {
  imagingID, ok := paramInt64(c, "id")
  if !ok {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid imaging id"))
    return
  }
  payload, err := ih.imagingService.GenerateOverlay(c.Request.Context(), currentUserID(c), imagingID)
  if err != nil {
    RespondError(c, http.StatusNotFound, "overlay_failed", err)
    return
  }
  RespondOK(c, payload)
}

func (ih *ImagingHandler) Delete(c *gin.Context) {
  imagingID, ok := paramInt64(c, "id")
  if !ok {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid imaging id"))
    return
  }
  if err := ih.imagingService.DeleteImaging(c.Request.Context(), currentUserID(c), imagingID); err != nil {
    RespondError(c, http.StatusNotFound, "delete_failed", err)
    return
  }
  RespondOK(c, gin.H{"deleted": true})
}
