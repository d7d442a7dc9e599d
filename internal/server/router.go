package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "github.com/clinvia/clinvia-backend/internal/handlers"
  "github.com/clinvia/clinvia-backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler     *handlers.AuthHandler
  AuthMiddleware  *middleware.AuthMiddleware
  UserHandler     *handlers.UserHandler
  PatientHandler  *handlers.PatientHandler
  AnalyticHandler *handlers.AnalyticHandler
  CompareHandler  *handlers.CompareHandler
  ImagingHandler  *handlers.ImagingHandler
  NoteHandler     *handlers.NoteHandler
  TimelineHandler *handlers.TimelineHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  api := router.Group("/api")
  {
    api.POST("/register", cfg.AuthHandler.Register)
    api.POST("/login", cfg.AuthHandler.Login)
    api.POST("/refresh", cfg.AuthHandler.Refresh)
  }

// ===============
// || Protected ||
// ===============
  protected := router.Group("/api")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  // Auth
  protected.POST("/logout", cfg.AuthHandler.Logout)
  // User
  protected.GET("/user", cfg.UserHandler.GetMe)
  protected.PUT("/user/profile", cfg.UserHandler.UpdateProfile)
  // Patients
  protected.POST("/patients", cfg.PatientHandler.Create)
  protected.GET("/patients", cfg.PatientHandler.List)
  protected.GET("/patients/:id", cfg.PatientHandler.Get)
  protected.PUT("/patients/:id", cfg.PatientHandler.Update)
  protected.DELETE("/patients/:id", cfg.PatientHandler.Delete)
  protected.POST("/patients/:id/reviewed", cfg.PatientHandler.MarkReviewed)
  protected.GET("/patients/:id/reviewed", cfg.PatientHandler.GetReviewState)
  // Analytics
  protected.POST("/analytics/by-patient/:id", cfg.AnalyticHandler.Upload)
  protected.GET("/analytics/by-patient/:id", cfg.AnalyticHandler.ListByPatient)
  protected.DELETE("/analytics/:id", cfg.AnalyticHandler.Delete)
  protected.GET("/analytics/compare/by-patient/:id", cfg.CompareHandler.ByPatient)
  // Imaging
  protected.POST("/imaging/by-patient/:id", cfg.ImagingHandler.Upload)
  protected.GET("/imaging/by-patient/:id", cfg.ImagingHandler.ListByPatient)
  protected.POST("/imaging/overlay/:id", cfg.ImagingHandler.Overlay)
  protected.DELETE("/imaging/:id", cfg.ImagingHandler.Delete)
  // Notes
  protected.POST("/notes/by-patient/:id", cfg.NoteHandler.Create)
  protected.GET("/notes/by-patient/:id", cfg.NoteHandler.ListByPatient)
  protected.PUT("/notes/:id", cfg.NoteHandler.Update)
  protected.DELETE("/notes/:id", cfg.NoteHandler.Delete)
  // Timeline
  protected.GET("/timeline/by-patient/:id", cfg.TimelineHandler.ByPatient)

  return router
}
