package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/clinvia/clinvia-backend/internal/requestdata"
  "github.com/clinvia/clinvia-backend/internal/services"
  "github.com/clinvia/clinvia-backend/internal/types"
)

type AuthHandler struct {
  authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
  return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
  var req struct {
    Email     string `json:"email"`
    Password  string `json:"password"`
    Name      string `json:"name"`
    FirstName string `json:"first_name"`
    LastName  string `json:"last_name"`
    Specialty string `json:"specialty"`
    Center    string `json:"center"`
    City      string `json:"city"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  name := req.Name
  if name == "" {
    name = req.FirstName + " " + req.LastName
  }
  user := types.User{
    Email:    req.Email,
    Password: req.Password,
    Name:     name,
  }
  profile := types.DoctorProfile{
    FirstName: req.FirstName,
    LastName:  req.LastName,
    Specialty: req.Specialty,
    Center:    req.Center,
    City:      req.City,
  }
  if err := ah.authService.RegisterUser(c.Request.Context(), &user, &profile); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"success": "true"})
}

func (ah *AuthHandler) Login(c *gin.Context) {
  var req struct {
    Email    string `json:"email"`
    Password string `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  accessToken, refreshToken, err := ah.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
  if err != nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
    return
  }
  accessTTL := ah.authService.GetAccessTTL()
  expiresIn := int(accessTTL.Seconds())
  c.JSON(http.StatusOK, gin.H{"access_token": accessToken, "refresh_token": refreshToken, "expires_in": expiresIn})
}

// Refresh is a public route: the access token may already be expired, only
// the refresh token is required.
func (ah *AuthHandler) Refresh(c *gin.Context) {
  var req struct {
    RefreshToken string `json:"refresh_token"`
  }
  if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "refresh_token required"})
    return
  }
  ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{
    RefreshToken: req.RefreshToken,
  })
  accessToken, refreshToken, err := ah.authService.RefreshUser(ctx)
  if err != nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
    return
  }
  accessTTL := ah.authService.GetAccessTTL()
  expiresIn := int(accessTTL.Seconds())
  c.JSON(http.StatusOK, gin.H{"access_token": accessToken, "refresh_token": refreshToken, "expires_in": expiresIn})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
  if err := ah.authService.LogoutUser(c.Request.Context()); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}
