package services

import (
  "context"
  "fmt"

  "gorm.io/gorm"
  "github.com/clinvia/clinvia-backend/internal/logger"
  "github.com/clinvia/clinvia-backend/internal/repos"
  "github.com/clinvia/clinvia-backend/internal/types"
  "github.com/clinvia/clinvia-backend/internal/utils"
)

type UserService interface {
  GetMe(ctx context.Context, userID int64) (*types.User, *types.DoctorProfile, error)
  UpdateProfile(ctx context.Context, userID int64, profile *types.DoctorProfile) (*types.DoctorProfile, error)
}

type userService struct {
  db         *gorm.DB
  log        *logger.Logger
  userRepo   repos.UserRepo
  doctorRepo repos.DoctorProfileRepo
}

func NewUserService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  doctorRepo repos.DoctorProfileRepo,
) UserService {
  serviceLog := log.With("service", "UserService")
  return &userService{
    db:         db,
    log:        serviceLog,
    userRepo:   userRepo,
    doctorRepo: doctorRepo,
  }
}

func (us *userService) GetMe(ctx context.Context, userID int64) (*types.User, *types.DoctorProfile, error) {
  users, uErr := us.userRepo.GetByIDs(ctx, nil, []int64{userID})
  if uErr != nil {
    return nil, nil, fmt.Errorf("Failed to load user: %w", uErr)
  }
  if len(users) == 0 {
    return nil, nil, fmt.Errorf("User not found")
  }
  profile, pErr := us.doctorRepo.GetByUserID(ctx, nil, userID)
  if pErr != nil {
    return nil, nil, fmt.Errorf("Failed to load doctor profile: %w", pErr)
  }
  return users[0], profile, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID int64, update *types.DoctorProfile) (*types.DoctorProfile, error) {
  if update == nil {
    return nil, fmt.Errorf("No profile given")
  }
  existing, pErr := us.doctorRepo.GetByUserID(ctx, nil, userID)
  if pErr != nil {
    return nil, fmt.Errorf("Failed to load doctor profile: %w", pErr)
  }
  if existing == nil {
    update.UserID = userID
    created, cErr := us.doctorRepo.Create(ctx, nil, []*types.DoctorProfile{update})
    if cErr != nil {
      return nil, fmt.Errorf("Failed to create doctor profile: %w", cErr)
    }
    return created[0], nil
  }

  if v := utils.ParseInputString(update.FirstName); v != "" {
    existing.FirstName = v
  }
  if v := utils.ParseInputString(update.LastName); v != "" {
    existing.LastName = v
  }
  if v := utils.ParseInputString(update.Specialty); v != "" {
    existing.Specialty = v
  }
  if v := utils.ParseInputString(update.LicenseNumber); v != "" {
    existing.LicenseNumber = v
  }
  if v := utils.ParseInputString(update.Phone); v != "" {
    existing.Phone = v
  }
  if v := utils.ParseInputString(update.Center); v != "" {
    existing.Center = v
  }
  if v := utils.ParseInputString(update.City); v != "" {
    existing.City = v
  }
  if update.Bio != "" {
    existing.Bio = update.Bio
  }

  if uErr := us.doctorRepo.Update(ctx, nil, existing); uErr != nil {
    return nil, fmt.Errorf("Failed to update doctor profile: %w", uErr)
  }
  return existing, nil
}
