package handlers

import (
  "fmt"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/clinvia/clinvia-backend/internal/services"
)

type NoteHandler struct {
  noteService services.NoteService
}

func NewNoteHandler(noteService services.NoteService) *NoteHandler {
  return &NoteHandler{noteService: noteService}
}

func (nh *NoteHandler) Create(c *gin.Context) {
  patientID, ok := paramInt64(c, "id")
  if !ok {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid patient id"))
    return
  }
  var req struct {
    Title   string `json:"title"`
    Content string `json:"content"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body"))
    return
  }
  note, err := nh.noteService.CreateNote(c.Request.Context(), currentUserID(c), patientID, req.Title, req.Content)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "create_failed", err)
    return
  }
  RespondOK(c, note)
}

func (nh *NoteHandler) ListByPatient(c *gin.Context) {
  patientID, ok := paramInt64(c, "id")
  if !ok {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid patient id"))
    return
  }
  notes, err := nh.noteService.ListByPatient(c.Request.Context(), currentUserID(c), patientID)
  if err != nil {
    RespondError(c, http.StatusNotFound, "list_failed", err)
    return
  }
  RespondOK(c, notes)
}

func (nh *NoteHandler) Update(c *gin.Context) {
  noteID, ok := paramInt64(c, "id")
  if !ok {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid note id"))
    return
  }
  var req struct {
    Title   string `json:"title"`
    Content string `json:"content"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body"))
    return
  }
  note, err := nh.noteService.UpdateNote(c.Request.Context(), currentUserID(c), noteID, req.Title, req.Content)
  if err != nil {
    RespondError(c, http.StatusNotFound, "update_failed", err)
    return
  }
  RespondOK(c, note)
}

func (nh *NoteHandler) Delete(c *gin.Context) {
  noteID, ok := paramInt64(c, "id")
  if !ok {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid note id"))
    return
  }
  if err := nh.noteService.DeleteNote(c.Request.Context(), currentUserID(c), noteID); err != nil {
    RespondError(c, http.StatusNotFound, "delete_failed", err)
    return
  }
  RespondOK(c, gin.H{"deleted": true})
}
