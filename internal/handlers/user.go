package handlers

import (
  "fmt"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/clinvia/clinvia-backend/internal/services"
  "github.com/clinvia/clinvia-backend/internal/types"
)

type UserHandler struct {
  userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
  return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
  user, profile, err := uh.userService.GetMe(c.Request.Context(), currentUserID(c))
  if err != nil {
    RespondError(c, http.StatusNotFound, "not_found", err)
    return
  }
  RespondOK(c, gin.H{"user": user, "profile": profile})
}

func (uh *UserHandler) UpdateProfile(c *gin.Context) {
  var req types.DoctorProfile
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body"))
    return
  }
  profile, err := uh.userService.UpdateProfile(c.Request.Context(), currentUserID(c), &req)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "update_failed", err)
    return
  }
  RespondOK(c, profile)
}
