package handlers

import (
  "fmt"
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"
  "github.com/clinvia/clinvia-backend/internal/services"
)

type TimelineHandler struct {
  timelineService services.TimelineService
}

func NewTimelineHandler(timelineService services.TimelineService) *TimelineHandler {
  return &TimelineHandler{timelineService: timelineService}
}

func (th *TimelineHandler) ByPatient(c *gin.Context) {
  patientID, ok := paramInt64(c, "id")
  if !ok {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid patient id"))
    return
  }
  limit := 0
  if v := c.Query("limit"); v != "" {
    if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
      limit = parsed
    }
  }
  entries, err := th.timelineService.GetPatientTimeline(c.Request.Context(), currentUserID(c), patientID, limit)
  if err != nil {
    RespondError(c, http.StatusNotFound, "timeline_failed", err)
    return
  }
  RespondOK(c, entries)
}
