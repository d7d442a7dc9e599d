package main

import (
  "fmt"
  "os"
  "time"
  "github.com/clinvia/clinvia-backend/internal/logger"
  "github.com/clinvia/clinvia-backend/internal/utils"
  "github.com/clinvia/clinvia-backend/internal/db"
  "github.com/clinvia/clinvia-backend/internal/repos"
  "github.com/clinvia/clinvia-backend/internal/services"
  "github.com/clinvia/clinvia-backend/internal/handlers"
  "github.com/clinvia/clinvia-backend/internal/middleware"
  "github.com/clinvia/clinvia-backend/internal/server"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  doctorProfileRepo := repos.NewDoctorProfileRepo(thePG, log)
  patientRepo := repos.NewPatientRepo(thePG, log)
  analyticRepo := repos.NewAnalyticRepo(thePG, log)
  imagingRepo := repos.NewImagingRepo(thePG, log)
  noteRepo := repos.NewClinicalNoteRepo(thePG, log)
  timelineRepo := repos.NewTimelineItemRepo(thePG, log)
  reviewStateRepo := repos.NewPatientReviewStateRepo(thePG, log)

  // Services
  log.Info("Setting up Services from main...")
  bucketService, err := services.NewBucketService(log)
  if err != nil {
    log.Error("Could not init BucketService", "error", err)
    os.Exit(1)
  }
  aiClient, err := services.NewAIClient(log)
  if err != nil {
    log.Error("Could not init AIClient", "error", err)
    os.Exit(1)
  }
  avatarService, err := services.NewAvatarService(thePG, log, bucketService)
  if err != nil {
    log.Error("Could not init AvatarService", "error", err)
    os.Exit(1)
  }
  reportCache, err := services.NewReportCache(log)
  if err != nil {
    log.Warn("Could not init ReportCache, compare reports will not be cached", "error", err)
    reportCache = nil
  }
  authService := services.NewAuthService(thePG, log, userRepo, doctorProfileRepo, userTokenRepo, avatarService, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  userService := services.NewUserService(thePG, log, userRepo, doctorProfileRepo)
  patientService := services.NewPatientService(thePG, log, patientRepo, reviewStateRepo)
  compareService := services.NewCompareService(thePG, log, patientRepo, analyticRepo, reportCache)
  analyticService := services.NewAnalyticService(thePG, log, patientRepo, analyticRepo, timelineRepo, bucketService, aiClient, compareService)
  imagingService := services.NewImagingService(thePG, log, patientRepo, imagingRepo, timelineRepo, bucketService, aiClient)
  noteService := services.NewNoteService(thePG, log, patientRepo, noteRepo, timelineRepo)
  timelineService := services.NewTimelineService(thePG, log, patientRepo, timelineRepo, analyticRepo, imagingRepo, noteRepo)

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(authService)
  userHandler := handlers.NewUserHandler(userService)
  patientHandler := handlers.NewPatientHandler(patientService)
  analyticHandler := handlers.NewAnalyticHandler(analyticService)
  compareHandler := handlers.NewCompareHandler(compareService)
  imagingHandler := handlers.NewImagingHandler(imagingService)
  noteHandler := handlers.NewNoteHandler(noteService)
  timelineHandler := handlers.NewTimelineHandler(timelineService)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:     authHandler,
    AuthMiddleware:  authMiddleware,
    UserHandler:     userHandler,
    PatientHandler:  patientHandler,
    AnalyticHandler: analyticHandler,
    CompareHandler:  compareHandler,
    ImagingHandler:  imagingHandler,
    NoteHandler:     noteHandler,
    TimelineHandler: timelineHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
