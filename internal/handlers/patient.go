package handlers

import (
  "fmt"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/clinvia/clinvia-backend/internal/services"
  "github.com/clinvia/clinvia-backend/internal/types"
)

type PatientHandler struct {
  patientService services.PatientService
}

func NewPatientHandler(patientService services.PatientService) *PatientHandler {
  return &PatientHandler{patientService: patientService}
}

func (ph *PatientHandler) Create(c *gin.Context) {
  var req struct {
    Alias  string `json:"alias"`
    Age    *int   `json:"age"`
    Gender string `json:"gender"`
    Notes  string `json:"notes"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body"))
    return
  }
  patient := &types.Patient{
    Alias:  req.Alias,
    Age:    req.Age,
    Gender: req.Gender,
    Notes:  req.Notes,
  }
  created, err := ph.patientService.CreatePatient(c.Request.Context(), currentUserID(c), patient)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "create_failed", err)
    return
  }
  RespondOK(c, created)
}

func (ph *PatientHandler) List(c *gin.Context) {
  patients, err := ph.patientService.ListPatients(c.Request.Context(), currentUserID(c))
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "list_failed", err)
    return
  }
  RespondOK(c, patients)
}

func (ph *PatientHandler) Get(c *gin.Context) {
  patientID, ok := paramInt64(c, "id")
  if !ok {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid patient id"))
    return
  }
  patient, err := ph.patientService.GetPatient(c.Request.Context(), currentUserID(c), patientID)
  if err != nil {
    RespondError(c, http.StatusNotFound, "not_found", err)
    return
  }
  RespondOK(c, patient)
}

func (ph *PatientHandler) Update(c *gin.Context) {
  patientID, ok := paramInt64(c, "id")
  if !ok {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid patient id"))
    return
  }
  var req struct {
    Alias  string `json:"alias"`
    Age    *int   `json:"age"`
    Gender string `json:"gender"`
    Notes  string `json:"notes"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body"))
    return
  }
  patient := &types.Patient{
    ID:     patientID,
    Alias:  req.Alias,
    Age:    req.Age,
    Gender: req.Gender,
    Notes:  req.Notes,
  }
  updated, err := ph.patientService.UpdatePatient(c.Request.Context(), currentUserID(c), patient)
  if err != nil {
    RespondError(c, http.StatusNotFound, "update_failed", err)
    return
  }
  RespondOK(c, updated)
}

func (ph *PatientHandler) Delete(c *gin.Context) {
  patientID, ok := paramInt64(c, "id")
  if !ok {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid patient id"))
    return
  }
  if err := ph.patientService.DeletePatient(c.Request.Context(), currentUserID(c), patientID); err != nil {
    RespondError(c, http.StatusNotFound, "delete_failed", err)
    return
  }
  RespondOK(c, gin.H{"deleted": true})
}

func (ph *PatientHandler) MarkReviewed(c *gin.Context) {
  patientID, ok := paramInt64(c, "id")
  if !ok {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid patient id"))
    return
  }
  var req struct {
    AnalyticID *int64 `json:"analytic_id"`
  }
  _ = c.ShouldBindJSON(&req)
  if err := ph.patientService.MarkReviewed(c.Request.Context(), currentUserID(c), patientID, req.AnalyticID); err != nil {
    RespondError(c, http.StatusNotFound, "review_failed", err)
    return
  }
  RespondOK(c, gin.H{"reviewed": true})
}

func (ph *PatientHandler) GetReviewState(c *gin.Context) {
  patientID, ok := paramInt64(c, "id")
  if !ok {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid patient id"))
    return
  }
  state, err := ph.patientService.GetReviewState(c.Request.Context(), currentUserID(c), patientID)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "review_state_failed", err)
    return
  }
  RespondOK(c, state)
}
