package services

import (
  "context"
  "fmt"
  "strconv"
  "time"
  "gorm.io/gorm"
  "golang.org/x/crypto/bcrypt"
  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "github.com/clinvia/clinvia-backend/internal/logger"
  "github.com/clinvia/clinvia-backend/internal/repos"
  "github.com/clinvia/clinvia-backend/internal/requestdata"
  "github.com/clinvia/clinvia-backend/internal/types"
  "github.com/clinvia/clinvia-backend/internal/utils"
)

type JWTClaims struct {
  jwt.RegisteredClaims
}

type AuthService interface {
  RegisterUser(ctx context.Context, user *types.User, profile *types.DoctorProfile) error
  LoginUser(ctx context.Context, email, password string) (string, string, error)
  RefreshUser(ctx context.Context) (string, string, error)
  LogoutUser(ctx context.Context) error
  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
  GetAccessTTL() time.Duration
}

type authService struct {
  db              *gorm.DB
  log             *logger.Logger
  userRepo        repos.UserRepo
  doctorRepo      repos.DoctorProfileRepo
  userTokenRepo   repos.UserTokenRepo
  avatarService   AvatarService
  jwtSecretKey    string
  accessTTL       time.Duration
  refreshTTL      time.Duration
}

func NewAuthService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  doctorRepo repos.DoctorProfileRepo,
  userTokenRepo repos.UserTokenRepo,
  avatarService AvatarService,
  jwtSecretKey string,
  accessTTL time.Duration,
  refreshTTL time.Duration,
) AuthService {
  serviceLog := log.With("service", "AuthService")
  return &authService{
    db:            db,
    log:           serviceLog,
    userRepo:      userRepo,
    doctorRepo:    doctorRepo,
    userTokenRepo: userTokenRepo,
    avatarService: avatarService,
    jwtSecretKey:  jwtSecretKey,
    accessTTL:     accessTTL,
    refreshTTL:    refreshTTL,
  }
}

// RegisterUser creates the account plus its doctor profile in one
// transaction. The avatar upload happens after the user row exists so the
// bucket key can carry the real user id.
func (as *authService) RegisterUser(ctx context.Context, user *types.User, profile *types.DoctorProfile) error {
  utils.NormalizeUserFields(ctx, user)
  exists, exErr := as.userRepo.EmailExists(ctx, nil, user.Email)
  if exErr != nil {
    return fmt.Errorf("Failed to check email: %w", exErr)
  }
  if vErr := utils.ValidateRegistration(ctx, exists, user); vErr != nil {
    return vErr
  }
  if hErr := utils.HashPassword(ctx, as.log, user); hErr != nil {
    return hErr
  }
  return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if _, ucErr := as.userRepo.Create(ctx, tx, []*types.User{user}); ucErr != nil {
      return fmt.Errorf("Failed to create user: %w", ucErr)
    }
    if as.avatarService != nil {
      if aErr := as.avatarService.CreateAndUploadUserAvatar(ctx, tx, user); aErr != nil {
        return fmt.Errorf("Failed to create and upload user avatar: %w", aErr)
      }
      if uErr := as.userRepo.Update(ctx, tx, user); uErr != nil {
        return fmt.Errorf("Failed to persist user avatar fields: %w", uErr)
      }
    }
    if profile != nil {
      profile.UserID = user.ID
      if _, pErr := as.doctorRepo.Create(ctx, tx, []*types.DoctorProfile{profile}); pErr != nil {
        return fmt.Errorf("Failed to create doctor profile: %w", pErr)
      }
    }
    return nil
  })
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
  email = utils.ParseInputString(email)
  if vErr := utils.ValidateLogin(ctx, email, password); vErr != nil {
    return "", "", vErr
  }

  users, usErr := as.userRepo.GetByEmails(ctx, nil, []string{email})
  if usErr != nil {
    return "", "", fmt.Errorf("Error retrieving user by email: %w", usErr)
  }
  if len(users) == 0 {
    return "", "", fmt.Errorf("Invalid email or password")
  }

  user := users[0]
  if hErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); hErr != nil {
    return "", "", fmt.Errorf("Invalid email or password")
  }

  var accessToken string
  var refreshToken string
  if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    // drop any stale refresh tokens before issuing a new pair
    if dtErr := as.userTokenRepo.FullDeleteByUserIDs(ctx, tx, []int64{user.ID}); dtErr != nil {
      return fmt.Errorf("Failed to clear old user tokens: %w", dtErr)
    }
    tok, genErr := as.generateAccessToken(user)
    if genErr != nil {
      return fmt.Errorf("Generate access token error: %w", genErr)
    }
    accessToken = tok
    refreshToken = uuid.New().String()
    userToken := types.UserToken{
      UserID:       user.ID,
      RefreshToken: refreshToken,
      ExpiresAt:    time.Now().Add(as.refreshTTL),
    }
    if _, ctErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&userToken}); ctErr != nil {
      return fmt.Errorf("Create User Token Error: %w", ctErr)
    }
    if llErr := as.userRepo.UpdateLastLogin(ctx, tx, user.ID, time.Now()); llErr != nil {
      return fmt.Errorf("Failed to update last login: %w", llErr)
    }
    return nil
  }); err != nil {
    return "", "", err
  }
  return accessToken, refreshToken, nil
}

func (as *authService) RefreshUser(ctx context.Context) (string, string, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    return "", "", fmt.Errorf("No request data found in context")
  }
  if rd.RefreshToken == "" {
    return "", "", fmt.Errorf("Refresh token not found in request data")
  }

  var accessToken string
  var newRefreshTokenStr string
  err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    existingToken, ftErr := as.userTokenRepo.GetByRefreshToken(ctx, tx, rd.RefreshToken)
    if ftErr != nil {
      return fmt.Errorf("Error fetching refresh token: %w", ftErr)
    }
    if existingToken == nil {
      return fmt.Errorf("Unknown refresh token")
    }
    if existingToken.ExpiresAt.Before(time.Now()) {
      if dtErr := as.userTokenRepo.FullDeleteByUserIDs(ctx, tx, []int64{existingToken.UserID}); dtErr != nil {
        return fmt.Errorf("Refresh token expired, error deleting: %w", dtErr)
      }
      return fmt.Errorf("Refresh token expired")
    }
    users, uErr := as.userRepo.GetByIDs(ctx, tx, []int64{existingToken.UserID})
    if uErr != nil {
      return fmt.Errorf("Failed to load user for refresh: %w", uErr)
    }
    if len(users) == 0 {
      return fmt.Errorf("No user found for the given refresh token")
    }
    user := users[0]
    tok, genErr := as.generateAccessToken(user)
    if genErr != nil {
      return fmt.Errorf("Failed to generate new access token: %w", genErr)
    }
    accessToken = tok
    newRefreshTokenStr = uuid.New().String()
    newUserToken := types.UserToken{
      UserID:       user.ID,
      RefreshToken: newRefreshTokenStr,
      ExpiresAt:    time.Now().Add(as.refreshTTL),
    }
    if _, cErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{&newUserToken}); cErr != nil {
      return fmt.Errorf("Failed to create new user token: %w", cErr)
    }
    // rotate: old refresh token is single use
    if dErr := tx.WithContext(ctx).Where("id = ?", existingToken.ID).Delete(&types.UserToken{}).Error; dErr != nil {
      return fmt.Errorf("Failed to remove old refresh token: %w", dErr)
    }
    return nil
  })
  if err != nil {
    return "", "", err
  }
  return accessToken, newRefreshTokenStr, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    return fmt.Errorf("No request data found in context")
  }
  if rd.UserID == 0 {
    return fmt.Errorf("No user id in request data")
  }
  return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if tdErr := as.userTokenRepo.FullDeleteByUserIDs(ctx, tx, []int64{rd.UserID}); tdErr != nil {
      return fmt.Errorf("Error deleting user tokens: %w", tdErr)
    }
    return nil
  })
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
  claims := JWTClaims{
    RegisteredClaims: jwt.RegisteredClaims{
      Subject:   strconv.FormatInt(user.ID, 10),
      ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
      IssuedAt:  jwt.NewNumericDate(time.Now()),
    },
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  if tokenString == "" {
    return ctx, nil
  }
  parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil {
    return ctx, fmt.Errorf("Failed to parse token: %w", err)
  }
  claims, ok := parsedToken.Claims.(*JWTClaims)
  if !ok || !parsedToken.Valid {
    return ctx, fmt.Errorf("Invalid or expired JWT token")
  }
  userID, err := strconv.ParseInt(claims.Subject, 10, 64)
  if err != nil {
    return ctx, fmt.Errorf("Invalid user id in token: %w", err)
  }
  rd := &requestdata.RequestData{
    TokenString: tokenString,
    UserID:      userID,
  }
  return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
  return as.accessTTL
}
