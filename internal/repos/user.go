package repos

import (
  "context"
  "time"
  "gorm.io/gorm"
  "github.com/clinvia/clinvia-backend/internal/logger"
  "github.com/clinvia/clinvia-backend/internal/types"
)

type UserRepo interface {
  Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []int64) ([]*types.User, error)
  GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*types.User, error)
  EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error)
  UpdateLastLogin(ctx context.Context, tx *gorm.DB, userID int64, at time.Time) error
  Update(ctx context.Context, tx *gorm.DB, user *types.User) error
}

type userRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
  repoLog := baseLog.With("repo", "UserRepo")
  return &userRepo{db: db, log: repoLog}
}

func (r *userRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(users) == 0 {
    return []*types.User{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&users).Error; err != nil {
    return nil, err
  }
  return users, nil
}

func (r *userRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []int64) ([]*types.User, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.User
  if len(userIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", userIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *userRepo) GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*types.User, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.User
  if len(emails) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("email IN ?", emails).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *userRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.User{}).
    Where("email = ?", email).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, tx *gorm.DB, userID int64, at time.Time) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  return transaction.WithContext(ctx).
    Model(&types.User{}).
    Where("id = ?", userID).
    Update("last_login", at).Error
}

func (r *userRepo) Update(ctx context.Context, tx *gorm.DB, user *types.User) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if user == nil {
    return nil
  }

  return transaction.WithContext(ctx).Save(user).Error
}
