package handlers

import (
  "fmt"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/clinvia/clinvia-backend/internal/services"
)

type CompareHandler struct {
  compareService services.CompareService
}

func NewCompareHandler(compareService services.CompareService) *CompareHandler {
  return &CompareHandler{compareService: compareService}
}

func (ch *CompareHandler) ByPatient(c *gin.Context) {
  patientID, ok := paramInt64(c, "id")
  if !ok {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid patient id"))
    return
  }
  report, err := ch.compareService.BuildPatientReport(c.Request.Context(), currentUserID(c), patientID)
  if err != nil {
    RespondError(c, http.StatusNotFound, "compare_failed", err)
    return
  }
  RespondOK(c, report)
}
